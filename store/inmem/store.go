// Package inmem provides an in-memory Store for tests and local runs
// without a database.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	storex "github.com/chatcommerce/shopagent/store"
)

type Store struct {
	mu       sync.RWMutex
	products map[string]*storex.Product
	orders   map[string]*storex.Order
	now      func() time.Time
}

var _ storex.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		products: make(map[string]*storex.Product),
		orders:   make(map[string]*storex.Order),
		now:      time.Now,
	}
}

// WithClock overrides the clock, for deterministic order IDs in tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) AddProduct(_ context.Context, product *storex.Product) error {
	if product == nil {
		return fmt.Errorf("nil product")
	}
	if err := product.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *product
	s.products[product.ProductID] = &clone
	return nil
}

func (s *Store) Product(_ context.Context, productID string) (*storex.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", storex.ErrProductNotFound, productID)
	}
	clone := *product
	return &clone, nil
}

func (s *Store) SearchProducts(_ context.Context, query, category string, limit int) ([]*storex.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.ToLower(strings.TrimSpace(category))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*storex.Product
	for _, product := range s.products {
		if category != "" && strings.ToLower(product.Category) != category {
			continue
		}
		if query != "" {
			name := strings.ToLower(product.Name)
			desc := strings.ToLower(product.Description)
			if !strings.Contains(name, query) && !strings.Contains(desc, query) {
				continue
			}
		}
		clone := *product
		matches = append(matches, &clone)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ProductID < matches[j].ProductID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *Store) CreateOrder(_ context.Context, order *storex.Order) (string, error) {
	if order == nil {
		return "", fmt.Errorf("nil order")
	}
	if order.OrderID == "" {
		order.OrderID = storex.GenerateOrderID(s.now())
	}
	if err := order.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *order
	s.orders[order.OrderID] = &clone
	return order.OrderID, nil
}

func (s *Store) Order(_ context.Context, orderID string) (*storex.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", storex.ErrOrderNotFound, orderID)
	}
	clone := *order
	return &clone, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, orderID string, status storex.OrderStatus) error {
	if _, err := storex.ParseOrderStatus(string(status)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: id=%s", storex.ErrOrderNotFound, orderID)
	}
	order.Status = status
	order.UpdatedAt = s.now().UTC()
	return nil
}

func (s *Store) OrdersByStatus(_ context.Context, status storex.OrderStatus) ([]*storex.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []*storex.Order
	for _, order := range s.orders {
		if order.Status != status {
			continue
		}
		clone := *order
		orders = append(orders, &clone)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderID < orders[j].OrderID
	})
	return orders, nil
}
