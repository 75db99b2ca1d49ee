package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	checkoutsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/checkout"
	ordersvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/order"
	paymentsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/payment"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	orderrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/order"
)

// CheckoutService creates a pending order plus its payment preference.
type CheckoutService interface {
	Create(ctx context.Context, req checkoutsvc.Request) (*checkoutsvc.Result, error)
}

// OrderService covers reads, fulfillment updates and manual confirmation.
type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f ordersvc.ListFilter) ([]domain.Order, error)
	UpdateFulfillment(ctx context.Context, id, status string) (*domain.Order, error)
	Confirm(ctx context.Context, id string) (*orderrepo.ConfirmResult, error)
}

// PaymentService reconciles asynchronous gateway notifications.
type PaymentService interface {
	Reconcile(ctx context.Context, n paymentsvc.Notification) error
}

// Deps bundles the services the router depends on.
type Deps struct {
	Checkout CheckoutService
	Orders   OrderService
	Payments PaymentService
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds a Server with the API routes wired to deps.
func New(addr string, logger *slog.Logger, allowedOrigins []string, deps Deps) *Server {
	router := buildRouter(logger, allowedOrigins, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
