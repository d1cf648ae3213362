package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItem_JSONKeepsUnknownFields(t *testing.T) {
	in := `{"productId":3,"name":"Runner","price":139.9,"imageUrl":"https://img/3.jpg","amount":2,"brand":"Rocket","sizes":[40,41]}`

	var it Item
	require.NoError(t, json.Unmarshal([]byte(in), &it))
	require.Equal(t, int64(3), it.ProductID)
	require.Equal(t, "Runner", it.Name)
	require.Equal(t, 139.9, it.Price)
	require.Equal(t, "https://img/3.jpg", it.ImageURL)
	require.Equal(t, 2, it.Amount)
	require.Len(t, it.Extra, 2)

	out, err := json.Marshal(it)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestItem_AcceptsIDAlias(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":8,"title":"Sneaker","amount":1}`), &it))
	require.Equal(t, int64(8), it.ProductID)
	require.JSONEq(t, `"Sneaker"`, string(it.Extra["title"]))
	require.NotContains(t, it.Extra, "id")
}

func TestItem_RejectsMissingRequiredFields(t *testing.T) {
	var it Item
	require.Error(t, json.Unmarshal([]byte(`{"amount":1}`), &it))
	require.Error(t, json.Unmarshal([]byte(`{"productId":1}`), &it))
	require.Error(t, json.Unmarshal([]byte(`{"productId":"one","amount":1}`), &it))
}

func TestProduct_Unmarshal(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"name":"Shoe","price":100,"color":"red"}`), &p))
	require.Equal(t, Product{
		ID:    5,
		Name:  "Shoe",
		Price: 100,
		Extra: map[string]json.RawMessage{"color": json.RawMessage(`"red"`)},
	}, p)

	require.Error(t, json.Unmarshal([]byte(`{"name":"no id"}`), &p))
}

func TestNewItem(t *testing.T) {
	p := Product{ID: 5, Name: "Shoe", Price: 100, Extra: map[string]json.RawMessage{"k": json.RawMessage(`1`)}}

	it := NewItem(p)
	require.Equal(t, 1, it.Amount)
	require.Equal(t, int64(5), it.ProductID)

	it.Extra["k"] = json.RawMessage(`2`)
	require.JSONEq(t, `1`, string(p.Extra["k"]), "item must not share the product's map")
}

func TestCart_Helpers(t *testing.T) {
	c := Cart{{ProductID: 1, Amount: 2}, {ProductID: 4, Amount: 1}}

	require.Equal(t, 1, c.Index(4))
	require.Equal(t, -1, c.Index(9))
	require.Equal(t, 2, c.Size())
	require.Equal(t, map[int64]int{1: 2, 4: 1}, c.Amounts())

	require.Equal(t, Cart{{ProductID: 4, Amount: 1}}, c.without(0))
	require.Equal(t, 7, c.withAmount(1, 7)[1].Amount)
	require.Equal(t, 1, c[1].Amount, "withAmount copies")
	require.Len(t, c.with(Item{ProductID: 9, Amount: 1}), 3)
	require.Len(t, c, 2)
}

func TestEncodeSnapshot_EmptyIsList(t *testing.T) {
	b, err := encodeSnapshot(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", string(b))
}

func TestItem_MarshalOmitsAbsentStrings(t *testing.T) {
	out, err := json.Marshal(Item{ProductID: 2, Price: 10, Amount: 1})
	require.NoError(t, err)
	require.JSONEq(t, `{"productId":2,"price":10,"amount":1}`, string(out))

	out, err = json.Marshal(Product{ID: 2, Name: "Trail"})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":2,"name":"Trail","price":0}`, string(out))
}
