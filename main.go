package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/heatdrop/marketplace-backend/internal/config"
	httpdelivery "github.com/heatdrop/marketplace-backend/internal/delivery/http"
	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/messaging/kafka"
	"github.com/heatdrop/marketplace-backend/internal/notify"
	"github.com/heatdrop/marketplace-backend/internal/repository/postgres"
	"github.com/heatdrop/marketplace-backend/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg := config.Load()

	// --- Database ---
	db, err := postgres.InitDB(cfg.PostgresDSN)
	if err != nil {
		slog.Error("Failed to init database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	listingRepo := postgres.NewListingRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := listingRepo.Seed(ctx, seedListings()); err != nil {
		slog.Error("Failed to seed listings", "err", err)
		os.Exit(1)
	}

	// --- Kafka ---
	publisher, subscriber, err := kafka.NewKafkaBroker(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("Failed to init kafka", "err", err)
		os.Exit(1)
	}

	// --- Services ---
	checker := service.NewAvailabilityChecker(listingRepo)
	reserver := service.NewReserver(listingRepo)
	notifier := notify.NewEventNotifier(publisher)
	checkoutSvc := service.NewCheckoutService(checker, reserver, orderRepo, publisher, notifier)

	// --- Notification worker ---
	worker := notify.NewWorker(subscriber, notify.LogSender{})
	go worker.Run(ctx)

	// --- HTTP API ---
	handler := httpdelivery.NewHandler(checkoutSvc, listingRepo, orderRepo)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewRouter(),
	}

	go func() {
		slog.Info("🚀 HTTP server starting", "addr", cfg.HTTPAddr, "service", cfg.ServiceName)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")
	_ = httpServer.Shutdown(context.Background())
}

func seedListings() []entity.Listing {
	return []entity.Listing{
		{ID: "lst-001", SellerID: "sel-101", Title: "Air Jordan 1 Retro High OG Chicago", Brand: "Jordan", Size: "US 10", PriceCents: 185000, ImageURL: "https://images.unsplash.com/photo-1556906781-9a412961c28c?w=400", Status: entity.ListingStatusActive},
		{ID: "lst-002", SellerID: "sel-101", Title: "Nike Dunk Low Panda", Brand: "Nike", Size: "US 9.5", PriceCents: 24000, ImageURL: "https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?w=400", Status: entity.ListingStatusActive},
		{ID: "lst-003", SellerID: "sel-102", Title: "Yeezy Boost 350 V2 Zebra", Brand: "Adidas", Size: "US 11", PriceCents: 42000, ImageURL: "https://images.unsplash.com/photo-1600269452121-4f2416e55c28?w=400", Status: entity.ListingStatusActive},
		{ID: "lst-004", SellerID: "sel-102", Title: "New Balance 550 White Green", Brand: "New Balance", Size: "US 8", PriceCents: 15500, ImageURL: "https://images.unsplash.com/photo-1539185441755-769473a23570?w=400", Status: entity.ListingStatusActive},
		{ID: "lst-005", SellerID: "sel-103", Title: "Travis Scott x Air Jordan 1 Low Mocha", Brand: "Jordan", Size: "US 10.5", PriceCents: 98000, ImageURL: "https://images.unsplash.com/photo-1552346154-21d32810aba3?w=400", Status: entity.ListingStatusUnderReview},
		{ID: "lst-006", SellerID: "sel-103", Title: "Supreme Box Logo Hoodie FW22 Black", Brand: "Supreme", Size: "L", PriceCents: 68000, ImageURL: "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400", Status: entity.ListingStatusActive},
	}
}
