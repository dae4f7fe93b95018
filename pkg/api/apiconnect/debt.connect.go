package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billmate/pkg/api"
)

// DebtServiceName is the fully-qualified name of the DebtService service.
const DebtServiceName = "billmate.v1.DebtService"

// Procedure paths of the DebtService RPCs.
const (
	DebtServiceGetDebtSummaryProcedure = "/billmate.v1.DebtService/GetDebtSummary"
)

// DebtServiceClient is a client for the billmate.v1.DebtService service.
type DebtServiceClient interface {
	GetDebtSummary(context.Context, *connect.Request[api.GetDebtSummaryRequest]) (*connect.Response[api.GetDebtSummaryResponse], error)
}

// NewDebtServiceClient constructs a client for the billmate.v1.DebtService service. baseURL is the
// server's scheme and authority, e.g. http://localhost:8080.
func NewDebtServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DebtServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &debtServiceClient{
		getDebtSummary: connect.NewClient[api.GetDebtSummaryRequest, api.GetDebtSummaryResponse](httpClient, baseURL+DebtServiceGetDebtSummaryProcedure, opts...),
	}
}

type debtServiceClient struct {
	getDebtSummary *connect.Client[api.GetDebtSummaryRequest, api.GetDebtSummaryResponse]
}

func (c *debtServiceClient) GetDebtSummary(ctx context.Context, req *connect.Request[api.GetDebtSummaryRequest]) (*connect.Response[api.GetDebtSummaryResponse], error) {
	return c.getDebtSummary.CallUnary(ctx, req)
}

// DebtServiceHandler is implemented by servers of the billmate.v1.DebtService service.
type DebtServiceHandler interface {
	GetDebtSummary(context.Context, *connect.Request[api.GetDebtSummaryRequest]) (*connect.Response[api.GetDebtSummaryResponse], error)
}

// NewDebtServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
func NewDebtServiceHandler(svc DebtServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getDebtSummaryHandler := connect.NewUnaryHandler(DebtServiceGetDebtSummaryProcedure, svc.GetDebtSummary, opts...)
	return "/billmate.v1.DebtService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DebtServiceGetDebtSummaryProcedure:
			getDebtSummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedDebtServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDebtServiceHandler struct{}

func (UnimplementedDebtServiceHandler) GetDebtSummary(context.Context, *connect.Request[api.GetDebtSummaryRequest]) (*connect.Response[api.GetDebtSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.DebtService.GetDebtSummary is not implemented"))
}
