package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billmate/internal/auth"
	"github.com/mmynk/billmate/internal/calculator"
	"github.com/mmynk/billmate/internal/groups"
	"github.com/mmynk/billmate/internal/ledger"
	"github.com/mmynk/billmate/internal/middleware"
	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
)

// connectError classifies a domain error into a Connect error and logs it.
// Caller mistakes are logged at warn, everything else at error.
func connectError(op string, err error) error {
	code := codeOf(err)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", "error", err)
	} else {
		slog.Warn(op+" rejected", "code", code, "error", err)
	}
	return connect.NewError(code, err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, calculator.ErrEmptyItemName),
		errors.Is(err, calculator.ErrInvalidPrice),
		errors.Is(err, calculator.ErrNoConsumers),
		errors.Is(err, calculator.ErrDupConsumer),
		errors.Is(err, groups.ErrInvalidName),
		errors.Is(err, groups.ErrInvalidCode),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidProfile):
		return connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, groups.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ledger.ErrForbidden),
		errors.Is(err, groups.ErrForbidden):
		return connect.CodePermissionDenied
	case errors.Is(err, ledger.ErrAlreadyConfirmed):
		return connect.CodeFailedPrecondition
	case errors.Is(err, auth.ErrEmailExists):
		return connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.CodeUnauthenticated
	case errors.Is(err, groups.ErrCodeExhausted):
		return connect.CodeResourceExhausted
	default:
		return connect.CodeInternal
	}
}

// partialWarning turns ErrPartialWrite into a response warning. Any other error is returned
// as is. The first half of the write stands, so the caller still gets its result.
func partialWarning(op string, err error) (string, error) {
	if err == nil || !errors.Is(err, ledger.ErrPartialWrite) {
		return "", err
	}
	slog.Warn(op+" partially applied, reconcile will finish it", "error", err)
	return err.Error(), nil
}

// requireActor returns the authenticated caller.
func requireActor(ctx context.Context) (models.Actor, error) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return models.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return actor, nil
}
