package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrAPINotFound    = errors.New("api resource not found")
	ErrAPIBadStatus   = errors.New("api bad status")
	ErrAPIUnavailable = errors.New("api unavailable")
	ErrAPIMalformed   = errors.New("api malformed response")
)

const defaultAPITimeout = 3 * time.Second

// APIClient talks to the store backend: /products/{id} for catalog data and
// /stock/{id} for availability.
type APIClient struct {
	BaseURL string
	Client  *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = defaultAPITimeout
	}
	return &APIClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) Product(ctx context.Context, productID int64) (Product, error) {
	var p Product
	if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(productID, 10), &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

type stockBody struct {
	ProductID *int64 `json:"productId"`
	ID        *int64 `json:"id"`
	Amount    *int   `json:"amount"`
}

func (c *APIClient) Stock(ctx context.Context, productID int64) (Stock, error) {
	var body stockBody
	if err := c.getJSON(ctx, "/stock/"+strconv.FormatInt(productID, 10), &body); err != nil {
		return Stock{}, err
	}
	if body.Amount == nil {
		return Stock{}, fmt.Errorf("%w: stock without amount", ErrAPIMalformed)
	}

	st := Stock{ProductID: productID, Amount: *body.Amount}
	switch {
	case body.ProductID != nil:
		st.ProductID = *body.ProductID
	case body.ID != nil:
		st.ProductID = *body.ID
	}
	if st.ProductID != productID {
		return Stock{}, fmt.Errorf("%w: stock for product %d, asked for %d", ErrAPIMalformed, st.ProductID, productID)
	}
	return st, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAPIUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: GET %s", ErrAPINotFound, path)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: GET %s status=%d", ErrAPIBadStatus, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrAPIMalformed, err)
	}
	return nil
}
