package order

import (
	"context"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

type CreateInput struct {
	Buyer             *domain.Buyer
	Items             []domain.OrderItem
	CantidadProductos int
	Total             float64
	Estado            string
	FulfillmentStatus domain.FulfillmentStatus
	Shipping          *domain.Shipping
}

type PreferenceUpdate struct {
	PreferenceID     string
	InitPoint        string
	SandboxInitPoint string
}

// PaymentUpdate carries the fields merged into an order after the canonical
// payment record has been fetched from the gateway.
type PaymentUpdate struct {
	Estado              string
	PaymentID           string
	PaymentStatus       string
	PaymentStatusDetail string
	PaymentInfo         domain.PaymentInfo
}

type ConfirmResult struct {
	AlreadyConfirmed bool
	StockUpdated     bool
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	SetPreference(ctx context.Context, id string, upd PreferenceUpdate) error
	MarkCheckoutError(ctx context.Context, id, message string) error
	MergePayment(ctx context.Context, id string, upd PaymentUpdate) error
	SetFulfillmentStatus(ctx context.Context, id string, status domain.FulfillmentStatus) error
	ConfirmPayment(ctx context.Context, id string) (*ConfirmResult, error)
}
