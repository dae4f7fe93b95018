package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billmate/internal/auth"
	"github.com/mmynk/billmate/internal/directory"
	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
	"github.com/mmynk/billmate/pkg/api"
	"github.com/mmynk/billmate/pkg/api/apiconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	apiconnect.UnimplementedAuthServiceHandler
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	directory     *directory.Directory
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, dir *directory.Directory) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		directory:     dir,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	slog.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		return nil, connectError("Register", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user by email or username and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	slog.Info("Login request", "login", req.Msg.Login)

	if strings.TrimSpace(req.Msg.Login) == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Login, req.Msg.Password)
	if err != nil {
		slog.Warn("Login failed", "login", req.Msg.Login, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, connectError("GetCurrentUser", err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// UpdatePaymentDetails stores the bank details other participants pay the caller to.
func (s *AuthService) UpdatePaymentDetails(ctx context.Context, req *connect.Request[api.UpdatePaymentDetailsRequest]) (*connect.Response[api.UpdatePaymentDetailsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	account := models.PaymentAccount{
		BankName:      strings.TrimSpace(req.Msg.PaymentDetails.BankName),
		AccountNumber: strings.TrimSpace(req.Msg.PaymentDetails.AccountNumber),
		AccountName:   strings.TrimSpace(req.Msg.PaymentDetails.AccountName),
	}
	if err := s.users.UpdatePaymentDetails(ctx, actor.ID, account); err != nil {
		return nil, connectError("UpdatePaymentDetails", err)
	}
	s.directory.Invalidate(actor.ID)

	user, err := s.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, connectError("UpdatePaymentDetails", err)
	}

	slog.Info("Payment details updated", "user_id", actor.ID, "configured", account.Configured())
	return connect.NewResponse(&api.UpdatePaymentDetailsResponse{User: toAPIUser(user)}), nil
}

// GetUsers resolves user IDs to public profiles. Unknown IDs are left out.
func (s *AuthService) GetUsers(ctx context.Context, req *connect.Request[api.GetUsersRequest]) (*connect.Response[api.GetUsersResponse], error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}

	entries, err := s.directory.Lookup(ctx, req.Msg.UserIDs)
	if err != nil {
		return nil, connectError("GetUsers", err)
	}

	users := make([]*api.User, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, id := range req.Msg.UserIDs {
		if e, ok := entries[id]; ok && !seen[id] {
			seen[id] = true
			users = append(users, toAPIEntry(e))
		}
	}

	return connect.NewResponse(&api.GetUsersResponse{Users: users}), nil
}
