// Package ledger implements the bill ledger: creating and editing bills,
// moving payments through requested, pending and confirmed, and settling bills.
//
// Every mutating call takes the acting user and checks it against the bill's
// owner or participants before writing.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/observability"
	"github.com/mmynk/billmate/internal/storage"
)

const tracerName = "github.com/mmynk/billmate/internal/ledger"

// Store is the persistence the ledger needs.
type Store interface {
	storage.BillStore
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	LinkBillToGroup(ctx context.Context, groupID, billID string) error
}

// Ledger coordinates bill and payment writes.
type Ledger struct {
	store   Store
	metrics *observability.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMetrics records operation counts on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger over store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return l.tracer.Start(ctx, "ledger."+operation, trace.WithAttributes(attrs...))
}

// finish ends span and records the outcome of operation.
func (l *Ledger) finish(span trace.Span, operation string, err error) {
	l.metrics.ObserveLedgerOperation(operation, err)
	if errors.Is(err, ErrPartialWrite) {
		l.metrics.IncPartialWrite(operation)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// loadBill fetches a bill, translating the store's not-found error.
func (l *Ledger) loadBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := l.store.GetBill(ctx, billID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("bill %s: %w", billID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (l *Ledger) loadGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

func requireParticipant(actor models.Actor, bill *models.Bill) error {
	if actor.ID == "" || !bill.IsParticipant(actor.ID) {
		return fmt.Errorf("%s is not a participant of bill %s: %w", actor.ID, bill.ID, ErrForbidden)
	}
	return nil
}

func requireOwner(actor models.Actor, bill *models.Bill) error {
	if !bill.IsOwner(actor.ID) {
		return fmt.Errorf("only the payer of bill %s may do this: %w", bill.ID, ErrForbidden)
	}
	return nil
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
