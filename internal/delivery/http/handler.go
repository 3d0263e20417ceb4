package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository"
	"github.com/heatdrop/marketplace-backend/internal/service"
)

// Handler handles HTTP requests for the application.
type Handler struct {
	checkoutSvc *service.CheckoutService
	listings    repository.ListingRepository
	orders      repository.OrderRepository
}

func NewHandler(checkoutSvc *service.CheckoutService, listings repository.ListingRepository, orders repository.OrderRepository) *Handler {
	return &Handler{
		checkoutSvc: checkoutSvc,
		listings:    listings,
		orders:      orders,
	}
}

// NewRouter builds the chi router with the standard middleware stack.
func (h *Handler) NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(enableCORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", h.handleCheckout)
		r.Post("/cart/validate", h.handleValidateCart)
		r.Get("/listings", h.handleGetListings)
		r.Get("/orders", h.handleGetOrders)
	})
	return r
}

// BuyerPayload is the wire form of the buyer sum: a non-empty user_id means
// an authenticated buyer, otherwise a guest.
type BuyerPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

func (b BuyerPayload) toBuyer() entity.Buyer {
	if b.UserID != "" {
		return entity.AuthenticatedBuyer{UserID: b.UserID, Email: b.Email, Name: b.Name, Phone: b.Phone}
	}
	return entity.GuestBuyer{Email: b.Email, Name: b.Name, Phone: b.Phone}
}

type CheckoutRequest struct {
	Cart            []entity.CartLineItem `json:"cart"`
	Buyer           BuyerPayload          `json:"buyer"`
	Mode            string                `json:"mode"`
	ShippingAddress string                `json:"shipping_address"`
	PaymentID       string                `json:"payment_id"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.checkoutSvc.Checkout(r.Context(), service.CheckoutRequest{
		Cart:            req.Cart,
		Buyer:           req.Buyer.toBuyer(),
		Mode:            service.CheckoutMode(req.Mode),
		ShippingAddress: req.ShippingAddress,
		PaymentID:       req.PaymentID,
	})

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, service.ErrNoAvailableItems):
		writeJSON(w, http.StatusConflict, result)
	case errors.Is(err, service.ErrStoreUnavailable):
		slog.Error("Checkout failed, store unavailable", "err", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		writeError(w, http.StatusUnprocessableEntity, err)
	}
}

type ValidateCartRequest struct {
	Cart []entity.CartLineItem `json:"cart"`
}

func (h *Handler) handleValidateCart(w http.ResponseWriter, r *http.Request) {
	var req ValidateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.checkoutSvc.ValidateCart(r.Context(), req.Cart)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report)
	case errors.Is(err, service.ErrDuplicateCartLine):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, service.ErrStoreUnavailable):
		slog.Error("Cart validation failed, store unavailable", "err", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		slog.Error("Cart validation failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) handleGetListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to get listings", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.FindRecent(r.Context(), 50)
	if err != nil {
		slog.Error("Failed to get orders", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// enableCORS allows the storefront frontend to connect.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
