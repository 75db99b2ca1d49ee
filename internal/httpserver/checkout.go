package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	checkoutsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/checkout"
)

func (h *handlers) createCheckout(c *gin.Context) {
	var req checkoutsvc.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Error de validacion",
			"errors":  gin.H{"body": "JSON invalido"},
		})
		return
	}

	res, err := h.checkout.Create(c.Request.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Error de validacion",
				"errors":  verr.Fields,
			})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}
