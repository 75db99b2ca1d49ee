package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	paymentsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/payment"
)

// mercadoPagoWebhook acknowledges every business no-op with 204 so the
// gateway only retries genuine failures. The payload is treated as a hint;
// the payment service re-fetches the authoritative record.
func (h *handlers) mercadoPagoWebhook(c *gin.Context) {
	var body struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		ID     any    `json:"id"`
		Data   struct {
			ID any `json:"id"`
		} `json:"data"`
	}
	// Malformed or absent bodies are tolerated; query parameters may carry
	// everything needed.
	_ = c.ShouldBindJSON(&body)

	topic := c.Query("type")
	if topic == "" {
		topic = c.Query("topic")
	}
	if topic == "" {
		topic = body.Type
	}

	paymentID := c.Query("data.id")
	if paymentID == "" {
		paymentID = c.Query("id")
	}
	if paymentID == "" {
		paymentID = stringifyID(body.Data.ID)
	}
	if paymentID == "" {
		paymentID = stringifyID(body.ID)
	}

	err := h.payments.Reconcile(c.Request.Context(), paymentsvc.Notification{
		Topic:     topic,
		Action:    body.Action,
		PaymentID: paymentID,
	})
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func stringifyID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
