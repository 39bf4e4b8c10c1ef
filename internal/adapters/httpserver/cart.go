package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/svaidya/poshakstore/internal/domain"
)

// The cart cookie is a URL-encoded plain JSON array of
// {productId, size, quantity} objects with quantity as a string. Carts
// written by earlier storefront builds already exist in that exact shape, so
// it must survive round trips unchanged.

const cartCookieName = "cart"

func readCartCookie(r *http.Request) []domain.CartItem {
	c, err := r.Cookie(cartCookieName)
	if err != nil {
		return nil
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		raw = c.Value
	}
	var items []domain.CartItem
	if json.Unmarshal([]byte(raw), &items) != nil {
		return nil
	}
	return items
}

func writeCartCookie(w http.ResponseWriter, items []domain.CartItem) {
	if items == nil {
		items = []domain.CartItem{}
	}
	b, _ := json.Marshal(items)
	http.SetCookie(w, &http.Cookie{
		Name:   cartCookieName,
		Value:  url.QueryEscape(string(b)),
		Path:   "/",
		MaxAge: 60 * 60 * 24 * 30,
	})
}

func findCartLine(items []domain.CartItem, productID, size string) int {
	for i, it := range items {
		if it.ProductID == productID && it.Size == size {
			return i
		}
	}
	return -1
}

// cartLine is a ledger entry hydrated against the live catalog. InStock is
// false when live stock dropped below the stored quantity; such lines stay
// in the ledger but are excluded from the total.
type cartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl"`
	Stock     int     `json:"stock"`
	InStock   bool    `json:"inStock"`
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.cartView(w, r)
	case http.MethodPost:
		s.cartAdd(w, r)
	case http.MethodPut:
		s.cartSetQuantity(w, r)
	case http.MethodDelete:
		s.cartRemove(w, r)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) cartView(w http.ResponseWriter, r *http.Request) {
	items := readCartCookie(r)
	lines := make([]cartLine, 0, len(items))
	total := 0.0
	for _, it := range items {
		qty, err := it.Quantity.Int()
		if err != nil {
			qty = 0
		}
		line := cartLine{ProductID: it.ProductID, Size: it.Size, Quantity: qty}
		p, err := s.products.GetByID(r.Context(), it.ProductID)
		if err == nil {
			key := strings.ToUpper(it.Size)
			line.Name = p.Name
			line.Price = p.PriceLevels[key]
			line.Stock = p.StockLevels[key]
			line.ImageURL = p.CoverImage()
		}
		line.InStock = qty > 0 && line.Stock >= qty
		if line.InStock {
			total += line.Price * float64(qty)
		}
		lines = append(lines, line)
	}
	writeJSON(w, 200, map[string]any{"success": true, "data": lines, "total": total})
}

// cartAdd merges additively on (productId, size); a new pair appends.
func (s *Server) cartAdd(w http.ResponseWriter, r *http.Request) {
	var req domain.CartItem
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]any{"success": false, "error": "Invalid JSON body"})
		return
	}
	qty, err := req.Quantity.Int()
	if req.ProductID == "" || req.Size == "" || err != nil || qty <= 0 {
		writeJSON(w, 400, map[string]any{"success": false, "error": "productId, size and a positive quantity are required"})
		return
	}
	if _, err := s.products.GetByID(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, 404, map[string]any{"success": false, "error": "Product not found"})
			return
		}
		writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
		return
	}
	items := readCartCookie(r)
	if i := findCartLine(items, req.ProductID, req.Size); i >= 0 {
		cur, _ := items[i].Quantity.Int()
		items[i].Quantity = domain.QtyOf(cur + qty)
	} else {
		items = append(items, domain.CartItem{ProductID: req.ProductID, Size: req.Size, Quantity: domain.QtyOf(qty)})
	}
	writeCartCookie(w, items)
	writeJSON(w, 200, map[string]any{"success": true, "items": len(items)})
}

// cartSetQuantity overwrites the stored quantity outright, unlike add.
func (s *Server) cartSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req domain.CartItem
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]any{"success": false, "error": "Invalid JSON body"})
		return
	}
	qty, err := req.Quantity.Int()
	if req.ProductID == "" || req.Size == "" || err != nil || qty <= 0 {
		writeJSON(w, 400, map[string]any{"success": false, "error": "productId, size and a positive quantity are required"})
		return
	}
	items := readCartCookie(r)
	i := findCartLine(items, req.ProductID, req.Size)
	if i < 0 {
		writeJSON(w, 404, map[string]any{"success": false, "error": "Cart item not found"})
		return
	}
	items[i].Quantity = domain.QtyOf(qty)
	writeCartCookie(w, items)
	writeJSON(w, 200, map[string]any{"success": true, "items": len(items)})
}

// cartRemove deletes one exact (productId, size) line; with no params it
// empties the whole cart, which checkout does after a placed order.
func (s *Server) cartRemove(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	size := r.URL.Query().Get("size")
	if productID == "" && size == "" {
		writeCartCookie(w, nil)
		writeJSON(w, 200, map[string]any{"success": true, "items": 0})
		return
	}
	items := readCartCookie(r)
	i := findCartLine(items, productID, size)
	if i < 0 {
		writeJSON(w, 404, map[string]any{"success": false, "error": "Cart item not found"})
		return
	}
	items = append(items[:i], items[i+1:]...)
	writeCartCookie(w, items)
	writeJSON(w, 200, map[string]any{"success": true, "items": len(items)})
}
