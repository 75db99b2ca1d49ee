package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	ordersvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/order"
)

func (h *handlers) listOrders(c *gin.Context) {
	filter := ordersvc.ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Fecha invalida"})
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Fecha invalida"})
			return
		}
		filter.To = &t
	}

	orders, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": resp,
		"total":  len(resp),
	})
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Orden no encontrada"})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*o))
}

func (h *handlers) updateOrder(c *gin.Context) {
	var body struct {
		FulfillmentStatus string `json:"fulfillmentStatus"`
	}
	// An absent or empty body is a valid no-op update.
	_ = c.ShouldBindJSON(&body)

	o, err := h.orders.UpdateFulfillment(c.Request.Context(), c.Param("orderId"), body.FulfillmentStatus)
	if err != nil {
		switch {
		case errors.Is(err, ordersvc.ErrInvalidFulfillmentStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"message":         "Estado de orden invalido",
				"allowedStatuses": domain.FulfillmentStatuses,
			})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Orden no encontrada"})
		default:
			h.serverError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*o))
}

func (h *handlers) confirmOrder(c *gin.Context) {
	res, err := h.orders.Confirm(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Orden no encontrada"})
			return
		}
		h.serverError(c, err)
		return
	}

	message := "Orden confirmada exitosamente"
	if res.AlreadyConfirmed {
		message = "La orden ya fue confirmada anteriormente"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          message,
		"paymentConfirmed": true,
		"stockUpdated":     res.StockUpdated,
	})
}
