package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpdelivery "github.com/heatdrop/marketplace-backend/internal/delivery/http"
	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository/memory"
	"github.com/heatdrop/marketplace-backend/internal/service"
)

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, kind, recipientEmail, recipientName string, order entity.Order, listingTitle string) bool {
	return true
}

type noopPublisher struct{}

func (noopPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	return nil
}

func newServer(t *testing.T, listings ...entity.Listing) (*httptest.Server, *memory.ListingStore) {
	t.Helper()

	listingStore := memory.NewListingStore(listings...)
	orderStore := memory.NewOrderStore()
	svc := service.NewCheckoutService(
		service.NewAvailabilityChecker(listingStore),
		service.NewReserver(listingStore),
		orderStore,
		noopPublisher{},
		noopNotifier{},
	)
	handler := httpdelivery.NewHandler(svc, listingStore, orderStore)
	srv := httptest.NewServer(handler.NewRouter())
	t.Cleanup(srv.Close)
	return srv, listingStore
}

func listing(id, title string, status entity.ListingStatus, price int64) entity.Listing {
	return entity.Listing{ID: id, SellerID: "sel-1", Title: title, Status: status, PriceCents: price}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func checkoutBody(mode string, lines ...entity.CartLineItem) map[string]any {
	return map[string]any{
		"cart": lines,
		"buyer": map[string]string{
			"user_id": "usr-9",
			"email":   "buyer@example.com",
			"name":    "Jamie",
		},
		"mode":             mode,
		"shipping_address": "Keizersgracht 1, Amsterdam",
	}
}

func line(l entity.Listing) entity.CartLineItem {
	return entity.CartLineItem{
		ListingID:      l.ID,
		SellerID:       l.SellerID,
		UnitPriceCents: l.PriceCents,
		Quantity:       1,
		Name:           l.Title,
	}
}

func TestCheckoutEndpointPartialSuccess(t *testing.T) {
	l1 := listing("l1", "Jordan 1 Chicago", entity.ListingStatusActive, 185000)
	l2 := listing("l2", "Dunk Low Panda", entity.ListingStatusSold, 24000)
	srv, _ := newServer(t, l1, l2)

	resp := postJSON(t, srv.URL+"/api/checkout", checkoutBody("immediate", line(l1), line(l2)))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.CheckoutResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Orders, 1)
	assert.Equal(t, []string{"Dunk Low Panda"}, result.FailedItems)
}

func TestCheckoutEndpointTotalFailureConflict(t *testing.T) {
	l1 := listing("l1", "Jordan 1 Chicago", entity.ListingStatusSold, 185000)
	srv, _ := newServer(t, l1)

	resp := postJSON(t, srv.URL+"/api/checkout", checkoutBody("immediate", line(l1)))
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var result service.CheckoutResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result.Orders)
	assert.Equal(t, []string{"Jordan 1 Chicago"}, result.FailedItems)
}

func TestCheckoutEndpointUnknownMode(t *testing.T) {
	l1 := listing("l1", "Jordan 1 Chicago", entity.ListingStatusActive, 185000)
	srv, _ := newServer(t, l1)

	resp := postJSON(t, srv.URL+"/api/checkout", checkoutBody("instant", line(l1)))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestValidateCartEndpoint(t *testing.T) {
	l1 := listing("l1", "Jordan 1 Chicago", entity.ListingStatusActive, 185000)
	srv, _ := newServer(t, l1)

	resp := postJSON(t, srv.URL+"/api/cart/validate", map[string]any{
		"cart": []entity.CartLineItem{line(l1)},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report service.AvailabilityReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Len(t, report.Available, 1)
}

func TestGetListingsEndpoint(t *testing.T) {
	l1 := listing("l1", "Jordan 1 Chicago", entity.ListingStatusActive, 185000)
	srv, _ := newServer(t, l1)

	resp, err := http.Get(srv.URL + "/api/listings")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listings []entity.Listing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listings))
	assert.Len(t, listings, 1)
}
