package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/repository/memory"
	"github.com/heatdrop/marketplace-backend/internal/service"
)

func activeListing(id, title string, price int64) entity.Listing {
	return entity.Listing{
		ID:         id,
		SellerID:   "sel-1",
		Title:      title,
		PriceCents: price,
		Status:     entity.ListingStatusActive,
	}
}

func TestCheckManyPartitionsBatch(t *testing.T) {
	sold := activeListing("l2", "Dunk Low Panda", 24000)
	sold.Status = entity.ListingStatusSold

	review := activeListing("l3", "Mocha Low", 98000)
	review.Status = entity.ListingStatusUnderReview

	store := memory.NewListingStore(
		activeListing("l1", "Jordan 1 Chicago", 185000),
		sold,
		review,
	)
	checker := service.NewAvailabilityChecker(store)

	report, err := checker.CheckMany(context.Background(), []string{"l1", "l2", "l3", "missing"})
	require.NoError(t, err)

	require.Len(t, report.Available, 1)
	assert.Equal(t, "l1", report.Available[0].ListingID)
	assert.Equal(t, int64(185000), report.Available[0].PriceCents)

	require.Len(t, report.Unavailable, 3)
	assert.Equal(t, entity.ListingStatusSold, report.Unavailable[0].Status)
	assert.Equal(t, entity.ListingStatusUnderReview, report.Unavailable[1].Status)
	assert.Equal(t, entity.ListingStatusNotFound, report.Unavailable[2].Status)
}

func TestCheckManyDeduplicatesIDs(t *testing.T) {
	store := memory.NewListingStore(activeListing("l1", "Jordan 1 Chicago", 185000))
	checker := service.NewAvailabilityChecker(store)

	report, err := checker.CheckMany(context.Background(), []string{"l1", "l1", "l1"})
	require.NoError(t, err)
	assert.Len(t, report.Available, 1)
	assert.Empty(t, report.Unavailable)
}

func TestCheckManyIsIdempotent(t *testing.T) {
	store := memory.NewListingStore(
		activeListing("l1", "Jordan 1 Chicago", 185000),
		activeListing("l2", "Dunk Low Panda", 24000),
	)
	checker := service.NewAvailabilityChecker(store)

	first, err := checker.CheckMany(context.Background(), []string{"l1", "l2", "nope"})
	require.NoError(t, err)
	second, err := checker.CheckMany(context.Background(), []string{"l1", "l2", "nope"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCheckManyFailsWholeBatchOnStoreError(t *testing.T) {
	store := memory.NewListingStore(activeListing("l1", "Jordan 1 Chicago", 185000))
	store.FailReads = true
	store.FailErr = errors.New("connection refused")

	checker := service.NewAvailabilityChecker(store)

	report, err := checker.CheckMany(context.Background(), []string{"l1"})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
}

func TestCheckOneReportsNotFound(t *testing.T) {
	checker := service.NewAvailabilityChecker(memory.NewListingStore())

	av, err := checker.CheckOne(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, av.Available)
	assert.Equal(t, entity.ListingStatusNotFound, av.Status)
}
