package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository/memory"
)

func TestOrderStoreStatusAdvances(t *testing.T) {
	store := memory.NewOrderStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &entity.Order{
		ID: "ord-1", BuyerID: "usr-1", SellerID: "sel-1", ListingID: "l1",
		Status: entity.OrderStatusConfirmed,
	}))
	require.NoError(t, store.UpdateStatus(ctx, "ord-1", entity.OrderStatusShipped))

	orders, err := store.FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderStatusShipped, orders[0].Status)

	assert.Error(t, store.UpdateStatus(ctx, "ghost", entity.OrderStatusShipped))
}

func TestOrderStoreEnforcesBuyerPaths(t *testing.T) {
	store := memory.NewOrderStore()
	ctx := context.Background()

	assert.Error(t, store.Insert(ctx, &entity.Order{ID: "ord-1"}),
		"authenticated insert requires a buyer id")
	assert.Error(t, store.InsertGuest(ctx, &entity.Order{ID: "ord-2", BuyerID: "usr-1"}),
		"guest insert must not carry a buyer id")
	assert.NoError(t, store.InsertGuest(ctx, &entity.Order{ID: "ord-3"}))
}
