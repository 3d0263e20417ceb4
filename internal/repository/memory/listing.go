package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/heatdrop/marketplace-backend/internal/entity"
)

// ListingStore is an in-memory ListingRepository with the same atomicity
// guarantee as the Postgres conditional update: MarkSold checks and swaps
// status under one lock.
type ListingStore struct {
	mu       sync.Mutex
	listings map[string]entity.Listing

	// FailReads makes every read return FailErr, simulating an unreachable
	// store.
	FailReads bool
	// FailWrites makes MarkSold return FailErr after applying the write,
	// simulating an ambiguous outcome (e.g. a timeout whose update landed).
	FailWrites bool
	FailErr    error
}

func NewListingStore(listings ...entity.Listing) *ListingStore {
	s := &ListingStore{listings: make(map[string]entity.Listing)}
	for _, l := range listings {
		s.listings[l.ID] = l
	}
	return s
}

func (s *ListingStore) FindByIDs(ctx context.Context, ids []string) ([]entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads {
		return nil, s.FailErr
	}

	seen := make(map[string]bool, len(ids))
	var out []entity.Listing
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if l, ok := s.listings[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *ListingStore) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads {
		return nil, s.FailErr
	}
	l, ok := s.listings[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (s *ListingStore) MarkSold(ctx context.Context, listingID, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[listingID]
	if !ok || l.Status != entity.ListingStatusActive {
		if s.FailWrites {
			return false, s.FailErr
		}
		return false, nil
	}
	l.Status = entity.ListingStatusSold
	l.SoldOrderID = orderID
	s.listings[listingID] = l

	if s.FailWrites {
		return false, s.FailErr
	}
	return true, nil
}

func (s *ListingStore) FindAll(ctx context.Context) ([]entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads {
		return nil, s.FailErr
	}

	out := make([]entity.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *ListingStore) Seed(ctx context.Context, listings []entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listings) > 0 {
		return nil
	}
	for _, l := range listings {
		s.listings[l.ID] = l
	}
	return nil
}

// Get returns the current state of one listing, for test assertions.
func (s *ListingStore) Get(id string) (entity.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	return l, ok
}
