package catalog

import "context"

type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

type Stock struct {
	ProductID int64 `json:"productId"`
	Amount    int   `json:"amount"`
}

type Store interface {
	Ping(ctx context.Context) error
	ListSortedByID(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)
	Stock(ctx context.Context, productID int64) (Stock, bool, error)
}
