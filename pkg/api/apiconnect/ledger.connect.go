// Package apiconnect binds the kas.v1.LedgerService messages to Connect
// handlers and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/kas/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "kas.v1.LedgerService"

// Procedure paths of the LedgerService RPCs.
const (
	LedgerServiceGetSummaryProcedure          = "/kas.v1.LedgerService/GetSummary"
	LedgerServiceSetMembershipStatusProcedure = "/kas.v1.LedgerService/SetMembershipStatus"
	LedgerServiceGetMembershipStatusProcedure = "/kas.v1.LedgerService/GetMembershipStatus"
	LedgerServiceAddExpenseProcedure          = "/kas.v1.LedgerService/AddExpense"
	LedgerServiceMarkReimbursedProcedure      = "/kas.v1.LedgerService/MarkReimbursed"
	LedgerServiceListExpensesProcedure        = "/kas.v1.LedgerService/ListExpenses"
	LedgerServiceListPeriodsProcedure         = "/kas.v1.LedgerService/ListPeriods"
)

// LedgerServiceClient is a client for the kas.v1.LedgerService service.
type LedgerServiceClient interface {
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	SetMembershipStatus(context.Context, *connect.Request[api.SetMembershipStatusRequest]) (*connect.Response[api.SetMembershipStatusResponse], error)
	GetMembershipStatus(context.Context, *connect.Request[api.GetMembershipStatusRequest]) (*connect.Response[api.GetMembershipStatusResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	MarkReimbursed(context.Context, *connect.Request[api.MarkReimbursedRequest]) (*connect.Response[api.MarkReimbursedResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	ListPeriods(context.Context, *connect.Request[api.ListPeriodsRequest]) (*connect.Response[api.ListPeriodsResponse], error)
}

// NewLedgerServiceClient constructs a client for the kas.v1.LedgerService
// service. Messages are sent as JSON.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	readOnly := append([]connect.ClientOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)}, opts...)
	return &ledgerServiceClient{
		getSummary:          connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+LedgerServiceGetSummaryProcedure, readOnly...),
		setMembershipStatus: connect.NewClient[api.SetMembershipStatusRequest, api.SetMembershipStatusResponse](httpClient, baseURL+LedgerServiceSetMembershipStatusProcedure, opts...),
		getMembershipStatus: connect.NewClient[api.GetMembershipStatusRequest, api.GetMembershipStatusResponse](httpClient, baseURL+LedgerServiceGetMembershipStatusProcedure, readOnly...),
		addExpense:          connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		markReimbursed:      connect.NewClient[api.MarkReimbursedRequest, api.MarkReimbursedResponse](httpClient, baseURL+LedgerServiceMarkReimbursedProcedure, opts...),
		listExpenses:        connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, readOnly...),
		listPeriods:         connect.NewClient[api.ListPeriodsRequest, api.ListPeriodsResponse](httpClient, baseURL+LedgerServiceListPeriodsProcedure, readOnly...),
	}
}

// ledgerServiceClient implements LedgerServiceClient.
type ledgerServiceClient struct {
	getSummary          *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
	setMembershipStatus *connect.Client[api.SetMembershipStatusRequest, api.SetMembershipStatusResponse]
	getMembershipStatus *connect.Client[api.GetMembershipStatusRequest, api.GetMembershipStatusResponse]
	addExpense          *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	markReimbursed      *connect.Client[api.MarkReimbursedRequest, api.MarkReimbursedResponse]
	listExpenses        *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	listPeriods         *connect.Client[api.ListPeriodsRequest, api.ListPeriodsResponse]
}

func (c *ledgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SetMembershipStatus(ctx context.Context, req *connect.Request[api.SetMembershipStatusRequest]) (*connect.Response[api.SetMembershipStatusResponse], error) {
	return c.setMembershipStatus.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetMembershipStatus(ctx context.Context, req *connect.Request[api.GetMembershipStatusRequest]) (*connect.Response[api.GetMembershipStatusResponse], error) {
	return c.getMembershipStatus.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) MarkReimbursed(ctx context.Context, req *connect.Request[api.MarkReimbursedRequest]) (*connect.Response[api.MarkReimbursedResponse], error) {
	return c.markReimbursed.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPeriods(ctx context.Context, req *connect.Request[api.ListPeriodsRequest]) (*connect.Response[api.ListPeriodsResponse], error) {
	return c.listPeriods.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the kas.v1.LedgerService service.
type LedgerServiceHandler interface {
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	SetMembershipStatus(context.Context, *connect.Request[api.SetMembershipStatusRequest]) (*connect.Response[api.SetMembershipStatusResponse], error)
	GetMembershipStatus(context.Context, *connect.Request[api.GetMembershipStatusRequest]) (*connect.Response[api.GetMembershipStatusResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	MarkReimbursed(context.Context, *connect.Request[api.MarkReimbursedRequest]) (*connect.Response[api.MarkReimbursedResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	ListPeriods(context.Context, *connect.Request[api.ListPeriodsRequest]) (*connect.Response[api.ListPeriodsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	readOnly := append([]connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)}, opts...)

	getSummary := connect.NewUnaryHandler(LedgerServiceGetSummaryProcedure, svc.GetSummary, readOnly...)
	setMembershipStatus := connect.NewUnaryHandler(LedgerServiceSetMembershipStatusProcedure, svc.SetMembershipStatus, opts...)
	getMembershipStatus := connect.NewUnaryHandler(LedgerServiceGetMembershipStatusProcedure, svc.GetMembershipStatus, readOnly...)
	addExpense := connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...)
	markReimbursed := connect.NewUnaryHandler(LedgerServiceMarkReimbursedProcedure, svc.MarkReimbursed, opts...)
	listExpenses := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, readOnly...)
	listPeriods := connect.NewUnaryHandler(LedgerServiceListPeriodsProcedure, svc.ListPeriods, readOnly...)

	return "/kas.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceGetSummaryProcedure:
			getSummary.ServeHTTP(w, r)
		case LedgerServiceSetMembershipStatusProcedure:
			setMembershipStatus.ServeHTTP(w, r)
		case LedgerServiceGetMembershipStatusProcedure:
			getMembershipStatus.ServeHTTP(w, r)
		case LedgerServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case LedgerServiceMarkReimbursedProcedure:
			markReimbursed.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case LedgerServiceListPeriodsProcedure:
			listPeriods.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("kas.v1.LedgerService.GetSummary is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SetMembershipStatus(context.Context, *connect.Request[api.SetMembershipStatusRequest]) (*connect.Response[api.SetMembershipStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("kas.v1.LedgerService.SetMembershipStatus is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetMembershipStatus(context.Context, *connect.Request[api.GetMembershipStatusRequest]) (*connect.Response[api.GetMembershipStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("kas.v1.LedgerService.GetMembershipStatus is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("kas.v1.LedgerService.AddExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) MarkReimbursed(context.Context, *connect.Request[api.MarkReimbursedRequest]) (*connect.Response[api.MarkReimbursedResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("kas.v1.LedgerService.MarkReimbursed is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("kas.v1.LedgerService.ListExpenses is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListPeriods(context.Context, *connect.Request[api.ListPeriodsRequest]) (*connect.Response[api.ListPeriodsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("kas.v1.LedgerService.ListPeriods is not implemented"))
}
