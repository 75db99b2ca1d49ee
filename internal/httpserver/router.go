package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// buildRouter wires routes for the API.
func buildRouter(logger *slog.Logger, allowedOrigins []string, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsCfg))

	h := &handlers{
		checkout: deps.Checkout,
		orders:   deps.Orders,
		payments: deps.Payments,
		logger:   logger,
	}

	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		api.POST("/checkout", h.createCheckout)
		api.GET("/orders", h.listOrders)
		api.GET("/orders/:orderId", h.getOrder)
		api.PATCH("/orders/:orderId", h.updateOrder)
		api.POST("/orders/:orderId/confirm", h.confirmOrder)
		api.POST("/mercadopago/webhook", h.mercadoPagoWebhook)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Ruta no encontrada"})
	})

	return router
}

type handlers struct {
	checkout CheckoutService
	orders   OrderService
	payments PaymentService
	logger   *slog.Logger
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
