package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billmate/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "billmate.v1.BillService"

// Procedure paths of the BillService RPCs.
const (
	BillServiceCalculateSplitProcedure   = "/billmate.v1.BillService/CalculateSplit"
	BillServiceCreateBillProcedure       = "/billmate.v1.BillService/CreateBill"
	BillServiceGetBillProcedure          = "/billmate.v1.BillService/GetBill"
	BillServiceListBillsProcedure        = "/billmate.v1.BillService/ListBills"
	BillServiceListGroupBillsProcedure   = "/billmate.v1.BillService/ListGroupBills"
	BillServiceGetOverdueBillsProcedure  = "/billmate.v1.BillService/GetOverdueBills"
	BillServiceGetUpcomingBillsProcedure = "/billmate.v1.BillService/GetUpcomingBills"
	BillServiceUpdateBillProcedure       = "/billmate.v1.BillService/UpdateBill"
	BillServiceRequestPaymentProcedure   = "/billmate.v1.BillService/RequestPayment"
	BillServiceReportPaymentProcedure    = "/billmate.v1.BillService/ReportPayment"
	BillServiceConfirmPaymentProcedure   = "/billmate.v1.BillService/ConfirmPayment"
)

// BillServiceClient is a client for the billmate.v1.BillService service.
type BillServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	ListGroupBills(context.Context, *connect.Request[api.ListGroupBillsRequest]) (*connect.Response[api.ListGroupBillsResponse], error)
	GetOverdueBills(context.Context, *connect.Request[api.GetOverdueBillsRequest]) (*connect.Response[api.GetOverdueBillsResponse], error)
	GetUpcomingBills(context.Context, *connect.Request[api.GetUpcomingBillsRequest]) (*connect.Response[api.GetUpcomingBillsResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	RequestPayment(context.Context, *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error)
	ReportPayment(context.Context, *connect.Request[api.ReportPaymentRequest]) (*connect.Response[api.ReportPaymentResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
}

// NewBillServiceClient constructs a client for the billmate.v1.BillService service. baseURL is the
// server's scheme and authority, e.g. http://localhost:8080.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &billServiceClient{
		calculateSplit:   connect.NewClient[api.CalculateSplitRequest, api.CalculateSplitResponse](httpClient, baseURL+BillServiceCalculateSplitProcedure, opts...),
		createBill:       connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:          connect.NewClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills:        connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		listGroupBills:   connect.NewClient[api.ListGroupBillsRequest, api.ListGroupBillsResponse](httpClient, baseURL+BillServiceListGroupBillsProcedure, opts...),
		getOverdueBills:  connect.NewClient[api.GetOverdueBillsRequest, api.GetOverdueBillsResponse](httpClient, baseURL+BillServiceGetOverdueBillsProcedure, opts...),
		getUpcomingBills: connect.NewClient[api.GetUpcomingBillsRequest, api.GetUpcomingBillsResponse](httpClient, baseURL+BillServiceGetUpcomingBillsProcedure, opts...),
		updateBill:       connect.NewClient[api.UpdateBillRequest, api.UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		requestPayment:   connect.NewClient[api.RequestPaymentRequest, api.RequestPaymentResponse](httpClient, baseURL+BillServiceRequestPaymentProcedure, opts...),
		reportPayment:    connect.NewClient[api.ReportPaymentRequest, api.ReportPaymentResponse](httpClient, baseURL+BillServiceReportPaymentProcedure, opts...),
		confirmPayment:   connect.NewClient[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse](httpClient, baseURL+BillServiceConfirmPaymentProcedure, opts...),
	}
}

type billServiceClient struct {
	calculateSplit   *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	createBill       *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill          *connect.Client[api.GetBillRequest, api.GetBillResponse]
	listBills        *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	listGroupBills   *connect.Client[api.ListGroupBillsRequest, api.ListGroupBillsResponse]
	getOverdueBills  *connect.Client[api.GetOverdueBillsRequest, api.GetOverdueBillsResponse]
	getUpcomingBills *connect.Client[api.GetUpcomingBillsRequest, api.GetUpcomingBillsResponse]
	updateBill       *connect.Client[api.UpdateBillRequest, api.UpdateBillResponse]
	requestPayment   *connect.Client[api.RequestPaymentRequest, api.RequestPaymentResponse]
	reportPayment    *connect.Client[api.ReportPaymentRequest, api.ReportPaymentResponse]
	confirmPayment   *connect.Client[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse]
}

func (c *billServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *billServiceClient) ListGroupBills(ctx context.Context, req *connect.Request[api.ListGroupBillsRequest]) (*connect.Response[api.ListGroupBillsResponse], error) {
	return c.listGroupBills.CallUnary(ctx, req)
}

func (c *billServiceClient) GetOverdueBills(ctx context.Context, req *connect.Request[api.GetOverdueBillsRequest]) (*connect.Response[api.GetOverdueBillsResponse], error) {
	return c.getOverdueBills.CallUnary(ctx, req)
}

func (c *billServiceClient) GetUpcomingBills(ctx context.Context, req *connect.Request[api.GetUpcomingBillsRequest]) (*connect.Response[api.GetUpcomingBillsResponse], error) {
	return c.getUpcomingBills.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *billServiceClient) RequestPayment(ctx context.Context, req *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error) {
	return c.requestPayment.CallUnary(ctx, req)
}

func (c *billServiceClient) ReportPayment(ctx context.Context, req *connect.Request[api.ReportPaymentRequest]) (*connect.Response[api.ReportPaymentResponse], error) {
	return c.reportPayment.CallUnary(ctx, req)
}

func (c *billServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

// BillServiceHandler is implemented by servers of the billmate.v1.BillService service.
type BillServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	ListGroupBills(context.Context, *connect.Request[api.ListGroupBillsRequest]) (*connect.Response[api.ListGroupBillsResponse], error)
	GetOverdueBills(context.Context, *connect.Request[api.GetOverdueBillsRequest]) (*connect.Response[api.GetOverdueBillsResponse], error)
	GetUpcomingBills(context.Context, *connect.Request[api.GetUpcomingBillsRequest]) (*connect.Response[api.GetUpcomingBillsResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	RequestPayment(context.Context, *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error)
	ReportPayment(context.Context, *connect.Request[api.ReportPaymentRequest]) (*connect.Response[api.ReportPaymentResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	calculateSplitHandler := connect.NewUnaryHandler(BillServiceCalculateSplitProcedure, svc.CalculateSplit, opts...)
	createBillHandler := connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...)
	getBillHandler := connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...)
	listBillsHandler := connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...)
	listGroupBillsHandler := connect.NewUnaryHandler(BillServiceListGroupBillsProcedure, svc.ListGroupBills, opts...)
	getOverdueBillsHandler := connect.NewUnaryHandler(BillServiceGetOverdueBillsProcedure, svc.GetOverdueBills, opts...)
	getUpcomingBillsHandler := connect.NewUnaryHandler(BillServiceGetUpcomingBillsProcedure, svc.GetUpcomingBills, opts...)
	updateBillHandler := connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...)
	requestPaymentHandler := connect.NewUnaryHandler(BillServiceRequestPaymentProcedure, svc.RequestPayment, opts...)
	reportPaymentHandler := connect.NewUnaryHandler(BillServiceReportPaymentProcedure, svc.ReportPayment, opts...)
	confirmPaymentHandler := connect.NewUnaryHandler(BillServiceConfirmPaymentProcedure, svc.ConfirmPayment, opts...)
	return "/billmate.v1.BillService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServiceCalculateSplitProcedure:
			calculateSplitHandler.ServeHTTP(w, r)
		case BillServiceCreateBillProcedure:
			createBillHandler.ServeHTTP(w, r)
		case BillServiceGetBillProcedure:
			getBillHandler.ServeHTTP(w, r)
		case BillServiceListBillsProcedure:
			listBillsHandler.ServeHTTP(w, r)
		case BillServiceListGroupBillsProcedure:
			listGroupBillsHandler.ServeHTTP(w, r)
		case BillServiceGetOverdueBillsProcedure:
			getOverdueBillsHandler.ServeHTTP(w, r)
		case BillServiceGetUpcomingBillsProcedure:
			getUpcomingBillsHandler.ServeHTTP(w, r)
		case BillServiceUpdateBillProcedure:
			updateBillHandler.ServeHTTP(w, r)
		case BillServiceRequestPaymentProcedure:
			requestPaymentHandler.ServeHTTP(w, r)
		case BillServiceReportPaymentProcedure:
			reportPaymentHandler.ServeHTTP(w, r)
		case BillServiceConfirmPaymentProcedure:
			confirmPaymentHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBillServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBillServiceHandler struct{}

func (UnimplementedBillServiceHandler) CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.CalculateSplit is not implemented"))
}

func (UnimplementedBillServiceHandler) CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.CreateBill is not implemented"))
}

func (UnimplementedBillServiceHandler) GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.GetBill is not implemented"))
}

func (UnimplementedBillServiceHandler) ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.ListBills is not implemented"))
}

func (UnimplementedBillServiceHandler) ListGroupBills(context.Context, *connect.Request[api.ListGroupBillsRequest]) (*connect.Response[api.ListGroupBillsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.ListGroupBills is not implemented"))
}

func (UnimplementedBillServiceHandler) GetOverdueBills(context.Context, *connect.Request[api.GetOverdueBillsRequest]) (*connect.Response[api.GetOverdueBillsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.GetOverdueBills is not implemented"))
}

func (UnimplementedBillServiceHandler) GetUpcomingBills(context.Context, *connect.Request[api.GetUpcomingBillsRequest]) (*connect.Response[api.GetUpcomingBillsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.GetUpcomingBills is not implemented"))
}

func (UnimplementedBillServiceHandler) UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.UpdateBill is not implemented"))
}

func (UnimplementedBillServiceHandler) RequestPayment(context.Context, *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.RequestPayment is not implemented"))
}

func (UnimplementedBillServiceHandler) ReportPayment(context.Context, *connect.Request[api.ReportPaymentRequest]) (*connect.Response[api.ReportPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.ReportPayment is not implemented"))
}

func (UnimplementedBillServiceHandler) ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billmate.v1.BillService.ConfirmPayment is not implemented"))
}
