package payment

import (
	"context"
	"log/slog"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/gateway/mercadopago"
	orderrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/order"
)

// Notification is the relevant subset of a Mercado Pago webhook delivery,
// extracted from query parameters and body at the HTTP boundary. Its fields
// are untrusted hints; the payment record is always re-fetched by id.
type Notification struct {
	Topic     string
	Action    string
	PaymentID string
}

type Service struct {
	orders  orderStore
	gateway paymentGateway
	logger  *slog.Logger
}

type orderStore interface {
	MergePayment(ctx context.Context, id string, upd orderrepo.PaymentUpdate) error
}

type paymentGateway interface {
	GetPayment(ctx context.Context, id string) (*mercadopago.Payment, error)
}

func New(orders orderrepo.Repository, gateway paymentGateway, logger *slog.Logger) *Service {
	return &Service{orders: orders, gateway: gateway, logger: logger}
}

// Reconcile processes one webhook delivery. Irrelevant topics, missing payment
// ids and orphan payments (no external reference) are acknowledged without any
// write, so the gateway does not retry them. Deliveries are at-least-once;
// reapplying the same payment fields is a no-op merge.
func (s *Service) Reconcile(ctx context.Context, n Notification) error {
	if n.Topic != "payment" && n.Action != "payment.created" {
		return nil
	}
	if n.PaymentID == "" {
		return nil
	}

	p, err := s.gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		return err
	}

	if p.ExternalReference == "" {
		s.logger.Warn("payment without external reference, skipping",
			slog.String("paymentId", p.ID), slog.String("status", p.Status))
		return nil
	}

	upd := orderrepo.PaymentUpdate{
		Estado:              domain.MapPaymentStatus(p.Status),
		PaymentID:           p.ID,
		PaymentStatus:       p.Status,
		PaymentStatusDetail: p.StatusDetail,
		PaymentInfo: domain.PaymentInfo{
			CurrencyID:        p.CurrencyID,
			TransactionAmount: p.TransactionAmount,
			DateApproved:      p.DateApproved,
			DateLastUpdated:   p.DateLastUpdated,
			Payer: domain.PaymentPayer{
				Email:     p.Payer.Email,
				FirstName: p.Payer.FirstName,
				LastName:  p.Payer.LastName,
				ID:        p.Payer.ID,
			},
		},
	}

	if err := s.orders.MergePayment(ctx, p.ExternalReference, upd); err != nil {
		return err
	}

	s.logger.Info("payment reconciled",
		slog.String("orderId", p.ExternalReference),
		slog.String("paymentId", p.ID),
		slog.String("estado", upd.Estado))
	return nil
}
