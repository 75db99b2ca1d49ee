package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/config"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/db"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/gateway/mercadopago"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/httpserver"
	orderrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/order"
	checkoutsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/checkout"
	ordersvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/order"
	paymentsvc "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/service/payment"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	firestoreClient, err := db.Connect(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Error("connect to firestore", "error", err)
		os.Exit(1)
	}
	defer firestoreClient.Close()

	gateway, err := mercadopago.New(cfg.MPAccessToken, cfg.MPTimeout)
	if err != nil {
		logger.Error("init mercado pago client", "error", err)
		os.Exit(1)
	}
	orderRepo := orderrepo.NewFirestore(firestoreClient)

	checkoutService := checkoutsvc.New(orderRepo, gateway, cfg.FrontendURL, cfg.BackendURL, logger)
	orderService := ordersvc.New(orderRepo)
	paymentService := paymentsvc.New(orderRepo, gateway, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, cfg.AllowedOrigins, httpserver.Deps{
		Checkout: checkoutService,
		Orders:   orderService,
		Payments: paymentService,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("server stopped")
	}
}
