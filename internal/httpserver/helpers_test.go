package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	orderrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/order"
	checkoutsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/checkout"
	ordersvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/order"
	paymentsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/payment"
)

type stubCheckout struct {
	result  *checkoutsvc.Result
	err     error
	lastReq *checkoutsvc.Request
}

func (s *stubCheckout) Create(_ context.Context, req checkoutsvc.Request) (*checkoutsvc.Result, error) {
	s.lastReq = &req
	return s.result, s.err
}

type stubOrders struct {
	order      *domain.Order
	getErr     error
	list       []domain.Order
	listErr    error
	lastFilter ordersvc.ListFilter
	updateErr  error
	lastStatus string
	confirm    *orderrepo.ConfirmResult
	confirmErr error
}

func (s *stubOrders) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrders) List(_ context.Context, f ordersvc.ListFilter) ([]domain.Order, error) {
	s.lastFilter = f
	return s.list, s.listErr
}

func (s *stubOrders) UpdateFulfillment(_ context.Context, _, status string) (*domain.Order, error) {
	s.lastStatus = status
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.order, nil
}

func (s *stubOrders) Confirm(_ context.Context, _ string) (*orderrepo.ConfirmResult, error) {
	return s.confirm, s.confirmErr
}

type stubPayments struct {
	err  error
	last *paymentsvc.Notification
}

func (s *stubPayments) Reconcile(_ context.Context, n paymentsvc.Notification) error {
	s.last = &n
	return s.err
}

func newTestRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if deps.Checkout == nil {
		deps.Checkout = &stubCheckout{}
	}
	if deps.Orders == nil {
		deps.Orders = &stubOrders{}
	}
	if deps.Payments == nil {
		deps.Payments = &stubPayments{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return buildRouter(logger, nil, deps)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v (%s)", err, rec.Body.String())
	}
	return body
}
