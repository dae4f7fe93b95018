package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billmate/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "billmate.v1.AuthService"

// Procedure paths of the AuthService RPCs.
const (
	AuthServiceRegisterProcedure             = "/billmate.v1.AuthService/Register"
	AuthServiceLoginProcedure                = "/billmate.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure       = "/billmate.v1.AuthService/GetCurrentUser"
	AuthServiceUpdatePaymentDetailsProcedure = "/billmate.v1.AuthService/UpdatePaymentDetails"
	AuthServiceGetUsersProcedure             = "/billmate.v1.AuthService/GetUsers"
)

// AuthServiceClient is a client for the billmate.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdatePaymentDetails(context.Context, *connect.Request[api.UpdatePaymentDetailsRequest]) (*connect.Response[api.UpdatePaymentDetailsResponse], error)
	GetUsers(context.Context, *connect.Request[api.GetUsersRequest]) (*connect.Response[api.GetUsersResponse], error)
}

// NewAuthServiceClient constructs a client for the billmate.v1.AuthService service. baseURL is the
// server's scheme and authority, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:             connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:                connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser:       connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		updatePaymentDetails: connect.NewClient[api.UpdatePaymentDetailsRequest, api.UpdatePaymentDetailsResponse](httpClient, baseURL+AuthServiceUpdatePaymentDetailsProcedure, opts...),
		getUsers:             connect.NewClient[api.GetUsersRequest, api.GetUsersResponse](httpClient, baseURL+AuthServiceGetUsersProcedure, opts...),
	}
}

type authServiceClient struct {
	register             *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login                *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentUser       *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	updatePaymentDetails *connect.Client[api.UpdatePaymentDetailsRequest, api.UpdatePaymentDetailsResponse]
	getUsers             *connect.Client[api.GetUsersRequest, api.GetUsersResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) UpdatePaymentDetails(ctx context.Context, req *connect.Request[api.UpdatePaymentDetailsRequest]) (*connect.Response[api.UpdatePaymentDetailsResponse], error) {
	return c.updatePaymentDetails.CallUnary(ctx, req)
}

func (c *authServiceClient) GetUsers(ctx context.Context, req *connect.Request[api.GetUsersRequest]) (*connect.Response[api.GetUsersResponse], error) {
	return c.getUsers.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by servers of the billmate.v1.AuthService service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdatePaymentDetails(context.Context, *connect.Request[api.UpdatePaymentDetailsRequest]) (*connect.Response[api.UpdatePaymentDetailsResponse], error)
	GetUsers(context.Context, *connect.Request[api.GetUsersRequest]) (*connect.Response[api.GetUsersResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	registerHandler := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	getCurrentUserHandler := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	updatePaymentDetailsHandler := connect.NewUnaryHandler(AuthServiceUpdatePaymentDetailsProcedure, svc.UpdatePaymentDetails, opts...)
	getUsersHandler := connect.NewUnaryHandler(AuthServiceGetUsersProcedure, svc.GetUsers, opts...)
	return "/billmate.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			registerHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUserHandler.ServeHTTP(w, r)
		case AuthServiceUpdatePaymentDetailsProcedure:
			updatePaymentDetailsHandler.ServeHTTP(w, r)
		case AuthServiceGetUsersProcedure:
			getUsersHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.AuthService.Register is not implemented"))
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.AuthService.Login is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.AuthService.GetCurrentUser is not implemented"))
}

func (UnimplementedAuthServiceHandler) UpdatePaymentDetails(context.Context, *connect.Request[api.UpdatePaymentDetailsRequest]) (*connect.Response[api.UpdatePaymentDetailsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.AuthService.UpdatePaymentDetails is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetUsers(context.Context, *connect.Request[api.GetUsersRequest]) (*connect.Response[api.GetUsersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.AuthService.GetUsers is not implemented"))
}
