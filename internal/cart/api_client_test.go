package cart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPITS(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewAPIClient(ts.URL+"/", time.Second)
}

func TestAPIClient_Product(t *testing.T) {
	c := newAPITS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":5,"name":"Shoe","price":100,"imageUrl":"x.jpg"}`))
	})

	p, err := c.Product(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, Product{ID: 5, Name: "Shoe", Price: 100, ImageURL: "x.jpg"}, p)
}

func TestAPIClient_Stock(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Stock
		wantErr error
	}{
		{name: "productId", body: `{"productId":3,"amount":7}`, want: Stock{ProductID: 3, Amount: 7}},
		{name: "id alias", body: `{"id":3,"amount":0}`, want: Stock{ProductID: 3, Amount: 0}},
		{name: "no id", body: `{"amount":2}`, want: Stock{ProductID: 3, Amount: 2}},
		{name: "missing amount", body: `{"productId":3}`, wantErr: ErrAPIMalformed},
		{name: "other product", body: `{"productId":4,"amount":1}`, wantErr: ErrAPIMalformed},
		{name: "garbage", body: `<html>`, wantErr: ErrAPIMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newAPITS(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/stock/3", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			st, err := c.Stock(context.Background(), 3)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, st)
		})
	}
}

func TestAPIClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusNotFound, ErrAPINotFound},
		{http.StatusInternalServerError, ErrAPIBadStatus},
		{http.StatusServiceUnavailable, ErrAPIBadStatus},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newAPITS(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.Stock(context.Background(), 1)
			require.ErrorIs(t, err, tt.wantErr)
			_, err = c.Product(context.Background(), 1)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAPIClient_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewAPIClient(url, time.Second)
	_, err := c.Product(context.Background(), 1)
	require.ErrorIs(t, err, ErrAPIUnavailable)
}

func TestAPIClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	c := newAPITS(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(block) })
	c.Client.Timeout = 50 * time.Millisecond

	_, err := c.Stock(context.Background(), 1)
	require.ErrorIs(t, err, ErrAPIUnavailable)
}
