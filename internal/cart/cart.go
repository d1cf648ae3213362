package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

// Item is one product line. Catalog fields other than name, price and
// imageUrl are kept in Extra and written back out unchanged.
type Item struct {
	ProductID int64
	Name      string
	Price     float64
	ImageURL  string
	Amount    int
	Extra     map[string]json.RawMessage
}

type Cart []Item

type Stock struct {
	ProductID int64 `json:"productId"`
	Amount    int   `json:"amount"`
}

// Product is the catalog record used to build a new Item.
type Product struct {
	ID       int64
	Name     string
	Price    float64
	ImageURL string
	Extra    map[string]json.RawMessage
}

type UpdateAmount struct {
	ProductID int64
	Amount    int
}

var itemKeys = []string{"productId", "id", "name", "price", "imageUrl", "amount"}

func (it Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(it.Extra)+5)
	for k, v := range it.Extra {
		out[k] = v
	}
	out["productId"] = it.ProductID
	out["price"] = it.Price
	out["amount"] = it.Amount
	putString(out, "name", it.Name)
	putString(out, "imageUrl", it.ImageURL)
	return json.Marshal(out)
}

// UnmarshalJSON also accepts "id" for the product id, which is how older
// snapshots spelled it.
func (it *Item) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var v Item
	idKey := "productId"
	if _, ok := raw[idKey]; !ok {
		idKey = "id"
	}
	if err := decodeField(raw, idKey, &v.ProductID, true); err != nil {
		return err
	}
	if err := decodeField(raw, "amount", &v.Amount, true); err != nil {
		return err
	}
	if err := decodeField(raw, "name", &v.Name, false); err != nil {
		return err
	}
	if err := decodeField(raw, "price", &v.Price, false); err != nil {
		return err
	}
	if err := decodeField(raw, "imageUrl", &v.ImageURL, false); err != nil {
		return err
	}

	v.Extra = leftovers(raw, itemKeys)
	*it = v
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["id"] = p.ID
	out["price"] = p.Price
	putString(out, "name", p.Name)
	putString(out, "imageUrl", p.ImageURL)
	return json.Marshal(out)
}

// putString skips empty values so a field the catalog never sent is not
// invented on the way out.
func putString(out map[string]any, key, v string) {
	if v != "" {
		out[key] = v
	}
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var v Product
	if err := decodeField(raw, "id", &v.ID, true); err != nil {
		return err
	}
	if err := decodeField(raw, "name", &v.Name, false); err != nil {
		return err
	}
	if err := decodeField(raw, "price", &v.Price, false); err != nil {
		return err
	}
	if err := decodeField(raw, "imageUrl", &v.ImageURL, false); err != nil {
		return err
	}

	v.Extra = leftovers(raw, []string{"id", "name", "price", "imageUrl", "amount", "productId"})
	*p = v
	return nil
}

func decodeField(raw map[string]json.RawMessage, key string, dst any, required bool) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		if required {
			return fmt.Errorf("missing %q", key)
		}
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

func leftovers(raw map[string]json.RawMessage, known []string) map[string]json.RawMessage {
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// NewItem starts a line for p with amount 1.
func NewItem(p Product) Item {
	return Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Amount:    1,
		Extra:     maps.Clone(p.Extra),
	}
}

func (c Cart) Index(productID int64) int {
	for i, it := range c {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for i, it := range c {
		it.Extra = maps.Clone(it.Extra)
		out[i] = it
	}
	return out
}

// Size is the number of distinct products.
func (c Cart) Size() int { return len(c) }

// Amounts maps product id to quantity in the cart.
func (c Cart) Amounts() map[int64]int {
	out := make(map[int64]int, len(c))
	for _, it := range c {
		out[it.ProductID] = it.Amount
	}
	return out
}

func (c Cart) withAmount(i, amount int) Cart {
	out := c.Clone()
	out[i].Amount = amount
	return out
}

func (c Cart) without(i int) Cart {
	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:i].Clone()...)
	return append(out, c[i+1:].Clone()...)
}

func (c Cart) with(it Item) Cart {
	return append(c.Clone(), it)
}

var errInvalidSnapshot = errors.New("invalid cart snapshot")

// decodeSnapshot parses a stored cart. A snapshot that breaks the cart
// invariants (amount >= 1, unique product ids) is rejected as a whole.
func decodeSnapshot(b []byte) (Cart, error) {
	var c Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidSnapshot, err)
	}

	seen := make(map[int64]struct{}, len(c))
	for _, it := range c {
		if it.Amount < 1 {
			return nil, fmt.Errorf("%w: product %d has amount %d", errInvalidSnapshot, it.ProductID, it.Amount)
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %d", errInvalidSnapshot, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
	}
	if c == nil {
		c = Cart{}
	}
	return c, nil
}

func encodeSnapshot(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	return json.Marshal(c)
}
