package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu       sync.RWMutex
	products map[int64]Product
	stock    map[int64]int
}

// NewMemStore returns a store seeded with the demo shoe catalog.
func NewMemStore() *MemStore {
	s := &MemStore{
		products: map[int64]Product{},
		stock:    map[int64]int{},
	}
	for _, p := range seedProducts {
		s.products[p.ID] = p
	}
	for id, amount := range seedStock {
		s.stock[id] = amount
	}
	return s
}

var seedProducts = []Product{
	{ID: 1, Name: "Tênis de Caminhada Leve Confortável", Price: 179.9, ImageURL: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg"},
	{ID: 2, Name: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, ImageURL: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"},
	{ID: 3, Name: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, ImageURL: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"},
	{ID: 4, Name: "Tênis de Caminhada Leve Confortável", Price: 179.9, ImageURL: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg"},
	{ID: 5, Name: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, ImageURL: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"},
	{ID: 6, Name: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, ImageURL: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"},
}

var seedStock = map[int64]int{1: 3, 2: 5, 3: 2, 4: 1, 5: 5, 6: 10}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	return p, ok, nil
}

func (s *MemStore) Stock(ctx context.Context, productID int64) (Stock, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amount, ok := s.stock[productID]
	if !ok {
		return Stock{}, false, nil
	}
	return Stock{ProductID: productID, Amount: amount}, true, nil
}

// SetStock is used by tests and local tooling to change availability.
func (s *MemStore) SetStock(productID int64, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productID] = amount
}
