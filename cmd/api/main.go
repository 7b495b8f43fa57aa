package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"milsabores/internal/clock"
	"milsabores/internal/config"
	"milsabores/internal/db"
	"milsabores/internal/httpserver"
	cartrepo "milsabores/internal/repository/cart"
	orderrepo "milsabores/internal/repository/order"
	productrepo "milsabores/internal/repository/product"
	sessionrepo "milsabores/internal/repository/session"
	userrepo "milsabores/internal/repository/user"
	cartsvc "milsabores/internal/service/cart"
	catalogsvc "milsabores/internal/service/catalog"
	guestsvc "milsabores/internal/service/guest"
	ordersvc "milsabores/internal/service/order"
	pricingsvc "milsabores/internal/service/pricing"
	usersvc "milsabores/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	userService := usersvc.New(userRepo, sessionRepo, clock.System{})
	guestService := guestsvc.New()
	catalogService := catalogsvc.New(productRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	pricingService := pricingsvc.New(cartRepo, userRepo, clock.System{})
	orderService := ordersvc.New(orderRepo, pricingService, cartRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:    userService,
		GuestSvc:   guestService,
		CatalogSvc: catalogService,
		CartSvc:    cartService,
		PricingSvc: pricingService,
		OrderSvc:   orderService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
