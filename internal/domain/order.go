package domain

import (
	"strings"
	"time"
)

// FulfillmentStatus is the merchant-facing lifecycle of an order, independent
// of the payment state reported by the gateway.
type FulfillmentStatus string

const (
	FulfillmentPendiente  FulfillmentStatus = "pendiente"
	FulfillmentPagado     FulfillmentStatus = "pagado"
	FulfillmentPreparando FulfillmentStatus = "preparando"
	FulfillmentEnviado    FulfillmentStatus = "enviado"
	FulfillmentEntregado  FulfillmentStatus = "entregado"
	FulfillmentCancelado  FulfillmentStatus = "cancelado"
)

// FulfillmentStatuses lists every accepted fulfillment state, in lifecycle order.
var FulfillmentStatuses = []FulfillmentStatus{
	FulfillmentPendiente,
	FulfillmentPagado,
	FulfillmentPreparando,
	FulfillmentEnviado,
	FulfillmentEntregado,
	FulfillmentCancelado,
}

// ParseFulfillmentStatus normalizes and validates a fulfillment state value.
func ParseFulfillmentStatus(v string) (FulfillmentStatus, bool) {
	normalized := FulfillmentStatus(strings.ToLower(strings.TrimSpace(v)))
	for _, s := range FulfillmentStatuses {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// AdvancesToPagado reports whether a confirmed payment may move the order to
// "pagado". States further along the lifecycle are never regressed.
func (s FulfillmentStatus) AdvancesToPagado() bool {
	return s == FulfillmentPendiente || s == FulfillmentPagado
}

type Buyer struct {
	Nombre   string `json:"nombre,omitempty" firestore:"nombre,omitempty"`
	Telefono string `json:"telefono,omitempty" firestore:"telefono,omitempty"`
	Email    string `json:"email,omitempty" firestore:"email,omitempty"`
}

type OrderItem struct {
	ID       string  `json:"id" firestore:"id"`
	Nombre   string  `json:"nombre" firestore:"nombre"`
	Precio   float64 `json:"precio" firestore:"precio"`
	Cantidad int     `json:"cantidad" firestore:"cantidad"`
	Subtotal float64 `json:"subtotal" firestore:"subtotal"`
	ImgURL   string  `json:"imgUrl,omitempty" firestore:"imgUrl,omitempty"`
}

type ShippingAddress struct {
	Street     string `json:"street" firestore:"street"`
	Number     string `json:"number" firestore:"number"`
	City       string `json:"city" firestore:"city"`
	Province   string `json:"province" firestore:"province"`
	PostalCode string `json:"postalCode" firestore:"postalCode"`
	Notes      string `json:"notes,omitempty" firestore:"notes,omitempty"`
}

type Shipping struct {
	Method  string           `json:"method" firestore:"method"`
	Address *ShippingAddress `json:"address,omitempty" firestore:"address,omitempty"`
}

// PaymentPayer is the payer contact snapshot captured verbatim from the gateway.
type PaymentPayer struct {
	Email     string `json:"email,omitempty" firestore:"email,omitempty"`
	FirstName string `json:"firstName,omitempty" firestore:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" firestore:"lastName,omitempty"`
	ID        string `json:"id,omitempty" firestore:"id,omitempty"`
}

// PaymentInfo holds the raw payment metadata reported by the gateway.
type PaymentInfo struct {
	CurrencyID        string       `json:"currencyId,omitempty" firestore:"currencyId,omitempty"`
	TransactionAmount float64      `json:"transactionAmount,omitempty" firestore:"transactionAmount,omitempty"`
	DateApproved      time.Time    `json:"dateApproved,omitempty" firestore:"dateApproved,omitempty"`
	DateLastUpdated   time.Time    `json:"dateLastUpdated,omitempty" firestore:"dateLastUpdated,omitempty"`
	Payer             PaymentPayer `json:"payer" firestore:"payer"`
}

// Order is the persisted record of an attempted purchase.
type Order struct {
	ID                   string            `json:"id"`
	Buyer                *Buyer            `json:"buyer,omitempty"`
	Items                []OrderItem       `json:"items"`
	CantidadProductos    int               `json:"cantidadProductos"`
	Total                float64           `json:"total"`
	Estado               string            `json:"estado"`
	PaymentID            string            `json:"paymentId,omitempty"`
	PaymentStatus        string            `json:"paymentStatus,omitempty"`
	PaymentStatusDetail  string            `json:"paymentStatusDetail,omitempty"`
	PaymentInfo          *PaymentInfo      `json:"paymentInfo,omitempty"`
	PaymentConfirmed     bool              `json:"paymentConfirmed"`
	FulfillmentStatus    FulfillmentStatus `json:"fulfillmentStatus"`
	Shipping             *Shipping         `json:"shipping,omitempty"`
	PreferenceID         string            `json:"preferenceId,omitempty"`
	InitPoint            string            `json:"initPoint,omitempty"`
	SandboxInitPoint     string            `json:"sandboxInitPoint,omitempty"`
	CheckoutErrorMessage string            `json:"checkoutErrorMessage,omitempty"`
	Fecha                time.Time         `json:"fecha"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// ConfirmationPlan is the outcome of planning a manual payment confirmation:
// the clamped stock values to write per product, and whether the fulfillment
// state advances to "pagado".
type ConfirmationPlan struct {
	StockUpdates       map[string]int
	AdvanceFulfillment bool
}

// PlanConfirmation computes the stock decrements for an order against the
// current stock of the referenced products. Products absent from stocks are
// skipped (the product document no longer exists); line items without a
// positive quantity are ignored; resulting stock never drops below zero.
func PlanConfirmation(o *Order, stocks map[string]int) ConfirmationPlan {
	plan := ConfirmationPlan{
		StockUpdates:       map[string]int{},
		AdvanceFulfillment: o.FulfillmentStatus.AdvancesToPagado() || o.FulfillmentStatus == "",
	}
	for _, item := range o.Items {
		if item.ID == "" || item.Cantidad <= 0 {
			continue
		}
		current, ok := stocks[item.ID]
		if !ok {
			continue
		}
		if current < 0 {
			current = 0
		}
		updated := current - item.Cantidad
		if updated < 0 {
			updated = 0
		}
		plan.StockUpdates[item.ID] = updated
	}
	return plan
}
