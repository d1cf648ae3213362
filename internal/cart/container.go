package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"RocketShoes/internal/storage"
)

const DefaultStorageKey = "@RocketShoes:cart"

// Toast texts, one per rejection kind.
const (
	MsgStockExceeded = "Requested quantity is out of stock"
	MsgAddFailed     = "Failed to add product"
	MsgRemoveFailed  = "Failed to remove product"
	MsgUpdateFailed  = "Failed to change product quantity"
)

var (
	ErrStockExceeded = errors.New("requested quantity exceeds stock")
	ErrNotInCart     = errors.New("product not in cart")
	ErrUpstream      = errors.New("upstream request failed")
	ErrPersist       = errors.New("persist cart failed")
)

type StockQuerier interface {
	Stock(ctx context.Context, productID int64) (Stock, error)
}

type ProductFetcher interface {
	Product(ctx context.Context, productID int64) (Product, error)
}

type Notifier interface {
	Error(ctx context.Context, msg string)
}

type Deps struct {
	Stock    StockQuerier
	Catalog  ProductFetcher
	Store    storage.Store
	Notifier Notifier

	// Key is the storage slot; DefaultStorageKey when empty.
	Key     string
	Log     *zap.Logger
	Metrics *Metrics
}

// Container owns the session cart. Mutations run one at a time: each reads the
// current cart, may call stock or catalog, persists the new cart and only then
// makes it visible. A rejected or failed operation leaves the cart untouched.
type Container struct {
	stock    StockQuerier
	catalog  ProductFetcher
	store    storage.Store
	notifier Notifier
	key      string
	log      *zap.Logger
	metrics  *Metrics

	opMu sync.Mutex

	mu     sync.RWMutex
	items  Cart
	subs   map[int]func(Cart)
	nextID int
}

// New builds a Container and hydrates it from the store. An unreadable or
// malformed snapshot is logged and replaced by an empty cart.
func New(ctx context.Context, d Deps) (*Container, error) {
	switch {
	case d.Stock == nil:
		return nil, errors.New("cart: stock querier required")
	case d.Catalog == nil:
		return nil, errors.New("cart: product fetcher required")
	case d.Store == nil:
		return nil, errors.New("cart: store required")
	case d.Notifier == nil:
		return nil, errors.New("cart: notifier required")
	}
	if d.Key == "" {
		d.Key = DefaultStorageKey
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	c := &Container{
		stock:    d.Stock,
		catalog:  d.Catalog,
		store:    d.Store,
		notifier: d.Notifier,
		key:      d.Key,
		log:      d.Log,
		metrics:  d.Metrics,
		items:    Cart{},
		subs:     map[int]func(Cart){},
	}
	c.hydrate(ctx)
	return c, nil
}

func (c *Container) hydrate(ctx context.Context) {
	b, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.log.Warn("load cart snapshot failed, starting empty", zap.String("key", c.key), zap.Error(err))
		return
	}
	if !ok {
		return
	}

	items, err := decodeSnapshot(b)
	if err != nil {
		c.log.Warn("discarding cart snapshot", zap.String("key", c.key), zap.Error(err))
		return
	}
	c.items = items
	c.metrics.setItems(len(items))
}

// Cart returns a copy of the current cart.
func (c *Container) Cart() Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Clone()
}

// Subscribe registers fn to receive every cart published after a successful
// mutation. fn runs on the mutating goroutine and must not call back into
// AddProduct, RemoveProduct or UpdateProductAmount.
func (c *Container) Subscribe(fn func(Cart)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// AddProduct increments the product's amount when it is already in the cart
// (bounded by stock) or appends it with amount 1 using catalog data.
func (c *Container) AddProduct(ctx context.Context, productID int64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	cur := c.Cart()
	var next Cart

	if i := cur.Index(productID); i >= 0 {
		st, err := c.stock.Stock(ctx, productID)
		if err != nil {
			return c.reject(ctx, opAdd, MsgAddFailed, productID, fmt.Errorf("%w: stock: %w", ErrUpstream, err))
		}

		newAmount := cur[i].Amount + 1
		if newAmount > st.Amount {
			return c.reject(ctx, opAdd, MsgStockExceeded, productID, ErrStockExceeded)
		}
		next = cur.withAmount(i, newAmount)
	} else {
		p, err := c.catalog.Product(ctx, productID)
		if err != nil {
			return c.reject(ctx, opAdd, MsgAddFailed, productID, fmt.Errorf("%w: catalog: %w", ErrUpstream, err))
		}

		it := NewItem(p)
		it.ProductID = productID
		next = cur.with(it)
	}

	if err := c.commit(ctx, next); err != nil {
		return c.reject(ctx, opAdd, MsgAddFailed, productID, err)
	}
	c.metrics.observe(opAdd, outcomeOK)
	return nil
}

// RemoveProduct drops the product's line. Only the store is contacted.
func (c *Container) RemoveProduct(ctx context.Context, productID int64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	cur := c.Cart()
	i := cur.Index(productID)
	if i < 0 {
		return c.reject(ctx, opRemove, MsgRemoveFailed, productID, ErrNotInCart)
	}

	if err := c.commit(ctx, cur.without(i)); err != nil {
		return c.reject(ctx, opRemove, MsgRemoveFailed, productID, err)
	}
	c.metrics.observe(opRemove, outcomeOK)
	return nil
}

// UpdateProductAmount sets the product's amount when stock allows it.
// Amounts below 1 are ignored without a notification.
func (c *Container) UpdateProductAmount(ctx context.Context, u UpdateAmount) error {
	if u.Amount < 1 {
		c.metrics.observe(opUpdate, outcomeInvalidAmount)
		return nil
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	cur := c.Cart()
	i := cur.Index(u.ProductID)
	if i < 0 {
		return c.reject(ctx, opUpdate, MsgUpdateFailed, u.ProductID, ErrNotInCart)
	}

	st, err := c.stock.Stock(ctx, u.ProductID)
	if err != nil {
		return c.reject(ctx, opUpdate, MsgUpdateFailed, u.ProductID, fmt.Errorf("%w: stock: %w", ErrUpstream, err))
	}
	if u.Amount > st.Amount {
		return c.reject(ctx, opUpdate, MsgStockExceeded, u.ProductID, ErrStockExceeded)
	}

	if err := c.commit(ctx, cur.withAmount(i, u.Amount)); err != nil {
		return c.reject(ctx, opUpdate, MsgUpdateFailed, u.ProductID, err)
	}
	c.metrics.observe(opUpdate, outcomeOK)
	return nil
}

// commit writes next to the store, then swaps it in and publishes it.
func (c *Container) commit(ctx context.Context, next Cart) error {
	b, err := encodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}
	if err := c.store.Set(ctx, c.key, b); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	c.mu.Lock()
	c.items = next
	subs := make([]func(Cart), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	c.metrics.setItems(len(next))
	for _, fn := range subs {
		fn(next.Clone())
	}
	return nil
}

func (c *Container) reject(ctx context.Context, op, msg string, productID int64, err error) error {
	outcome := outcomeOf(err)
	c.metrics.observe(op, outcome)

	switch outcome {
	case outcomePersist:
		c.log.Error("cart operation failed", zap.String("op", op), zap.Int64("product_id", productID), zap.Error(err))
	case outcomeUpstream:
		c.log.Warn("cart operation failed", zap.String("op", op), zap.Int64("product_id", productID), zap.Error(err))
	default:
		c.log.Debug("cart operation rejected", zap.String("op", op), zap.Int64("product_id", productID), zap.Error(err))
	}

	c.notifier.Error(ctx, msg)
	return err
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrStockExceeded):
		return outcomeStockExceeded
	case errors.Is(err, ErrNotInCart):
		return outcomeNotInCart
	case errors.Is(err, ErrUpstream):
		return outcomeUpstream
	case errors.Is(err, ErrPersist):
		return outcomePersist
	default:
		return outcomeOther
	}
}
