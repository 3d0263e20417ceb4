package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/heatdrop/marketplace-backend/internal/entity"
)

// OrderStore is an in-memory OrderRepository.
type OrderStore struct {
	mu     sync.Mutex
	orders []entity.Order

	// FailWrites makes both insert paths return FailErr.
	FailWrites bool
	FailErr    error
}

func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

func (s *OrderStore) Insert(ctx context.Context, order *entity.Order) error {
	if order.BuyerID == "" {
		return fmt.Errorf("authenticated order %s has no buyer id", order.ID)
	}
	return s.append(order)
}

func (s *OrderStore) InsertGuest(ctx context.Context, order *entity.Order) error {
	if order.BuyerID != "" {
		return fmt.Errorf("guest order %s must not carry a buyer id", order.ID)
	}
	return s.append(order)
}

func (s *OrderStore) append(order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.FailErr
	}
	for _, o := range s.orders {
		if o.ID == order.ID {
			return fmt.Errorf("order %s already exists", order.ID)
		}
	}
	s.orders = append(s.orders, *order)
	return nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("order %s not found", orderID)
}

func (s *OrderStore) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.orders)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entity.Order, 0, n)
	for i := len(s.orders) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.orders[i])
	}
	return out, nil
}

// All returns every stored order in insertion order, for test assertions.
func (s *OrderStore) All() []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
