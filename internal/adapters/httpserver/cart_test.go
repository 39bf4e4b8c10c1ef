package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svaidya/poshakstore/internal/domain"
)

func doCart(t *testing.T, h http.Handler, method, target, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func cartCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cartCookieName {
			return c
		}
	}
	t.Fatal("no cart cookie set")
	return nil
}

func decodeCart(t *testing.T, c *http.Cookie) []domain.CartItem {
	t.Helper()
	raw, err := url.QueryUnescape(c.Value)
	require.NoError(t, err)
	var items []domain.CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestCartAddMergesAdditively(t *testing.T) {
	store := newMemStore(lehengaProduct())
	h := newTestServer(store)

	rec, _ := doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"M","quantity":"2"}`, nil)
	require.Equal(t, 200, rec.Code)
	c := cartCookie(t, rec)

	rec, out := doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"M","quantity":3}`, c)
	require.Equal(t, 200, rec.Code)
	assert.EqualValues(t, 1, out["items"])

	items := decodeCart(t, cartCookie(t, rec))
	require.Len(t, items, 1)
	assert.Equal(t, domain.Qty("5"), items[0].Quantity)
}

func TestCartDistinctLinePerSize(t *testing.T) {
	store := newMemStore(lehengaProduct())
	h := newTestServer(store)

	rec, _ := doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"S","quantity":"1"}`, nil)
	rec, out := doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"M","quantity":"1"}`, cartCookie(t, rec))
	require.Equal(t, 200, rec.Code)
	assert.EqualValues(t, 2, out["items"])
}

func TestCartAddUnknownProduct(t *testing.T) {
	store := newMemStore(lehengaProduct())
	h := newTestServer(store)

	rec, out := doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"NOPE","size":"M","quantity":"1"}`, nil)
	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "Product not found", out["error"])

	rec, _ = doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"M","quantity":"0"}`, nil)
	assert.Equal(t, 400, rec.Code)
}

func TestCartPutOverwritesQuantity(t *testing.T) {
	store := newMemStore(lehengaProduct())
	h := newTestServer(store)

	rec, _ := doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"M","quantity":"2"}`, nil)
	rec, _ = doCart(t, h, http.MethodPut, "/api/cart", `{"productId":"LEHENGA01","size":"M","quantity":"7"}`, cartCookie(t, rec))
	require.Equal(t, 200, rec.Code)

	items := decodeCart(t, cartCookie(t, rec))
	require.Len(t, items, 1)
	assert.Equal(t, domain.Qty("7"), items[0].Quantity)

	rec, out := doCart(t, h, http.MethodPut, "/api/cart", `{"productId":"LEHENGA01","size":"XL","quantity":"1"}`, cartCookie(t, rec))
	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "Cart item not found", out["error"])
}

func TestCartDeleteExactPairAndClearAll(t *testing.T) {
	store := newMemStore(lehengaProduct())
	h := newTestServer(store)

	rec, _ := doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"S","quantity":"1"}`, nil)
	rec, _ = doCart(t, h, http.MethodPost, "/api/cart", `{"productId":"LEHENGA01","size":"M","quantity":"1"}`, cartCookie(t, rec))

	rec, out := doCart(t, h, http.MethodDelete, "/api/cart?productId=LEHENGA01&size=S", "", cartCookie(t, rec))
	require.Equal(t, 200, rec.Code)
	assert.EqualValues(t, 1, out["items"])
	items := decodeCart(t, cartCookie(t, rec))
	require.Len(t, items, 1)
	assert.Equal(t, "M", items[0].Size)

	rec, out = doCart(t, h, http.MethodDelete, "/api/cart", "", cartCookie(t, rec))
	require.Equal(t, 200, rec.Code)
	assert.EqualValues(t, 0, out["items"])
	assert.Empty(t, decodeCart(t, cartCookie(t, rec)))
}

func TestCartViewHydratesAndSkipsOutOfStock(t *testing.T) {
	p := lehengaProduct()
	p.StockLevels = map[string]int{"S": 1, "M": 10}
	store := newMemStore(p)
	h := newTestServer(store)

	raw, _ := json.Marshal([]domain.CartItem{
		{ProductID: "LEHENGA01", Size: "S", Quantity: "3"},
		{ProductID: "LEHENGA01", Size: "M", Quantity: "2"},
	})
	c := &http.Cookie{Name: cartCookieName, Value: url.QueryEscape(string(raw))}

	rec, out := doCart(t, h, http.MethodGet, "/api/cart", "", c)
	require.Equal(t, 200, rec.Code)
	lines := out["data"].([]any)
	require.Len(t, lines, 2)

	small := lines[0].(map[string]any)
	assert.Equal(t, false, small["inStock"]) // only 1 left, 3 wanted
	big := lines[1].(map[string]any)
	assert.Equal(t, true, big["inStock"])
	assert.Equal(t, "Zari Lehenga", big["name"])

	// total counts in-stock lines only: 2 * 1399
	assert.EqualValues(t, 2798, out["total"])
}

func TestCartLegacyNumericQuantityCookie(t *testing.T) {
	store := newMemStore(lehengaProduct())
	h := newTestServer(store)

	// carts written before the quantity type was pinned hold bare numbers
	c := &http.Cookie{
		Name:  cartCookieName,
		Value: url.QueryEscape(`[{"productId":"LEHENGA01","size":"M","quantity":2}]`),
	}
	rec, out := doCart(t, h, http.MethodGet, "/api/cart", "", c)
	require.Equal(t, 200, rec.Code)
	lines := out["data"].([]any)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 2, lines[0].(map[string]any)["quantity"])
}
