package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

// orderResponse is the wire projection of an order, with the field names and
// null semantics the frontend expects.
type orderResponse struct {
	ID                  string             `json:"id"`
	Buyer               *domain.Buyer      `json:"buyer"`
	Items               []domain.OrderItem `json:"items"`
	CantidadProductos   int                `json:"cantidadProductos"`
	Total               float64            `json:"total"`
	Estado              string             `json:"estado"`
	PaymentStatus       *string            `json:"paymentStatus"`
	PaymentStatusDetail *string            `json:"paymentStatusDetail"`
	PaymentConfirmed    bool               `json:"paymentConfirmed"`
	FulfillmentStatus   string             `json:"fulfillmentStatus"`
	Shipping            *domain.Shipping   `json:"shipping"`
	PreferenceID        *string            `json:"preferenceId"`
	InitPoint           *string            `json:"initPoint"`
	SandboxInitPoint    *string            `json:"sandboxInitPoint"`
	Fecha               *string            `json:"fecha"`
	UpdatedAt           *string            `json:"updatedAt"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	estado := o.Estado
	if estado == "" {
		estado = domain.EstadoPendiente
	}
	fulfillment := o.FulfillmentStatus
	if fulfillment == "" {
		fulfillment = domain.FulfillmentPendiente
	}

	return orderResponse{
		ID:                  o.ID,
		Buyer:               o.Buyer,
		Items:               items,
		CantidadProductos:   o.CantidadProductos,
		Total:               o.Total,
		Estado:              estado,
		PaymentStatus:       nullableString(o.PaymentStatus),
		PaymentStatusDetail: nullableString(o.PaymentStatusDetail),
		PaymentConfirmed:    o.PaymentConfirmed,
		FulfillmentStatus:   string(fulfillment),
		Shipping:            o.Shipping,
		PreferenceID:        nullableString(o.PreferenceID),
		InitPoint:           nullableString(o.InitPoint),
		SandboxInitPoint:    nullableString(o.SandboxInitPoint),
		Fecha:               isoTime(o.Fecha),
		UpdatedAt:           isoTime(o.UpdatedAt),
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isoTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func (h *handlers) serverError(c *gin.Context, err error) {
	h.logger.Error("request failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("requestId", c.GetString(requestIDKey)),
		slog.Any("error", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
}
