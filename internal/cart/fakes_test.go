package cart

import (
	"context"
	"errors"
	"sync"

	"RocketShoes/internal/storage"
)

type fakeStock struct {
	mu     sync.Mutex
	amount map[int64]int
	err    error
	calls  int
}

func (f *fakeStock) Stock(ctx context.Context, productID int64) (Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Stock{}, f.err
	}
	a, ok := f.amount[productID]
	if !ok {
		return Stock{}, ErrAPINotFound
	}
	return Stock{ProductID: productID, Amount: a}, nil
}

func (f *fakeStock) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[int64]Product
	err      error
	calls    int
}

func (f *fakeCatalog) Product(ctx context.Context, productID int64) (Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Product{}, f.err
	}
	p, ok := f.products[productID]
	if !ok {
		return Product{}, ErrAPINotFound
	}
	return p, nil
}

func (f *fakeCatalog) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Error(_ context.Context, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

// failingStore wraps a MemStore and fails writes on demand.
type failingStore struct {
	*storage.MemStore
	failSet bool
	failGet bool
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSet {
		return errDiskFull
	}
	return s.MemStore.Set(ctx, key, value)
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.failGet {
		return nil, false, errDiskFull
	}
	return s.MemStore.Get(ctx, key)
}
