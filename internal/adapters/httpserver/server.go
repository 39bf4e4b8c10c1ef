package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/svaidya/poshakstore/internal/adapters/notify/whatsapp"
	"github.com/svaidya/poshakstore/internal/domain"
	"github.com/svaidya/poshakstore/internal/usecase"
)

type Server struct {
	mux      *http.ServeMux
	products *usecase.ProductUC
	orders   *usecase.OrderUC
	relay    *whatsapp.Relay
}

func New(p *usecase.ProductUC, o *usecase.OrderUC, relay *whatsapp.Relay) http.Handler {
	s := &Server{mux: http.NewServeMux(), products: p, orders: o, relay: relay}
	s.routes()
	return Chain(s.mux,
		RateLimit(100),
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/order", s.apiOrder)
	s.mux.HandleFunc("/api/order/confirmation", s.apiOrderConfirmation)
	s.mux.HandleFunc("/api/seller/order", s.apiSellerOrder)
	s.mux.HandleFunc("/api/seller/export", s.apiSellerExport)
	s.mux.HandleFunc("/api/product", s.apiProduct)
	s.mux.HandleFunc("/api/sellerproduct", s.apiSellerProduct)
	s.mux.HandleFunc("/api/individualproduct", s.apiIndividualProduct)
	s.mux.HandleFunc("/api/cart", s.handleCart)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// apiOrder creates an order (POST) or fetches one by orderId (GET).
func (s *Server) apiOrder(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req usecase.PlaceOrderInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeJSON(w, 400, map[string]any{"error": "Invalid JSON body"})
			return
		}
		o, err := s.orders.Place(r.Context(), req)
		if err != nil {
			var ve *usecase.ValidationError
			switch {
			case errors.As(err, &ve):
				writeJSON(w, 400, map[string]any{"error": ve.Message})
			case errors.Is(err, domain.ErrDuplicateOrder):
				writeJSON(w, 400, map[string]any{"error": "Validation Error", "details": "orderId already exists"})
			case errors.Is(err, domain.ErrInsufficientStock):
				writeJSON(w, 400, map[string]any{"error": "Insufficient stock", "details": err.Error()})
			default:
				log.Error().Err(err).Msg("create order")
				writeJSON(w, 500, map[string]any{"error": "Internal Server Error", "details": err.Error()})
			}
			return
		}
		writeJSON(w, 201, o)
	case http.MethodGet:
		orderID := r.URL.Query().Get("orderId")
		if orderID == "" {
			writeJSON(w, 400, map[string]any{"error": "No orderId provided"})
			return
		}
		o, err := s.orders.Get(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, 404, map[string]any{"error": "Order not found"})
				return
			}
			log.Error().Err(err).Msg("fetch order")
			writeJSON(w, 500, map[string]any{"error": "Internal Server Error", "details": err.Error()})
			return
		}
		writeJSON(w, 200, o)
	default:
		http.Error(w, "method", 405)
	}
}

// apiOrderConfirmation hands the client the WhatsApp deep link for a placed
// order. Nothing is sent from here; the redirect happens client-side.
func (s *Server) apiOrderConfirmation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		writeJSON(w, 400, map[string]any{"error": "No orderId provided"})
		return
	}
	o, err := s.orders.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, 404, map[string]any{"error": "Order not found"})
			return
		}
		writeJSON(w, 500, map[string]any{"error": "Internal Server Error", "details": err.Error()})
		return
	}
	track := s.canonicalBase(r) + "/order?orderId=" + o.OrderID
	msg := s.relay.Message(o, track)
	writeJSON(w, 200, map[string]any{"url": s.relay.Link(msg), "message": msg})
}

func (s *Server) apiSellerOrder(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.orders.ListAll(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list orders")
			writeJSON(w, 500, map[string]any{"error": "Internal Server Error", "details": err.Error()})
			return
		}
		writeJSON(w, 200, list)
	case http.MethodPut:
		var req struct {
			OrderID   string `json:"orderId"`
			NewStatus string `json:"newStatus"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
			writeJSON(w, 400, map[string]any{"error": "Invalid JSON body"})
			return
		}
		o, err := s.orders.UpdateStatus(r.Context(), req.OrderID, req.NewStatus)
		if err != nil {
			var ve *usecase.ValidationError
			switch {
			case errors.As(err, &ve):
				writeJSON(w, 400, map[string]any{"error": ve.Message})
			case errors.Is(err, domain.ErrNotFound):
				writeJSON(w, 404, map[string]any{"error": "Order not found"})
			default:
				log.Error().Err(err).Msg("update order status")
				writeJSON(w, 500, map[string]any{"error": "Internal Server Error", "details": err.Error()})
			}
			return
		}
		writeJSON(w, 200, o)
	default:
		http.Error(w, "method", 405)
	}
}

// apiProduct serves the storefront catalog: one full product by id, or an
// offset/limit page of summaries filtered by category.
func (s *Server) apiProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	qv := r.URL.Query()
	if id := qv.Get("id"); id != "" {
		p, err := s.products.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, 404, map[string]any{"success": false, "error": "Product not found"})
				return
			}
			writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
			return
		}
		writeJSON(w, 200, map[string]any{"success": true, "data": p})
		return
	}
	offset, _ := strconv.Atoi(qv.Get("offset"))
	limit, err := strconv.Atoi(qv.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 16
	}
	category := qv.Get("category")
	if category == "" {
		category = domain.CategoryPoshak
	}
	list, total, err := s.products.List(r.Context(), domain.ProductFilter{Category: category, Offset: offset, Limit: limit})
	if err != nil {
		log.Error().Err(err).Msg("list products")
		writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
		return
	}
	summaries := make([]usecase.Summary, 0, len(list))
	for i := range list {
		summaries = append(summaries, usecase.Summarize(&list[i]))
	}
	writeJSON(w, 200, map[string]any{"success": true, "data": summaries, "totalItems": total})
}

// apiSellerProduct creates a product (POST) or lists page-based summaries
// for the dashboard (GET).
func (s *Server) apiSellerProduct(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			ProductID          string             `json:"productId"`
			ProductName        string             `json:"productName"`
			ProductDescription string             `json:"productDescription"`
			ProductCategory    string             `json:"productCategory"`
			AvailableSizes     []string           `json:"availableSizes"`
			Images             []string           `json:"images"`
			StockLevels        map[string]int     `json:"stockLevels"`
			PriceLevels        map[string]float64 `json:"priceLevels"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeJSON(w, 500, map[string]any{"error": "Invalid JSON body"})
			return
		}
		p := &domain.Product{
			ProductID:   req.ProductID,
			Name:        req.ProductName,
			Description: req.ProductDescription,
			Category:    req.ProductCategory,
			Images:      req.Images,
			Sizes:       req.AvailableSizes,
			StockLevels: req.StockLevels,
			PriceLevels: req.PriceLevels,
		}
		if err := s.products.Create(r.Context(), p); err != nil {
			// the dashboard reports every save failure on the same channel
			log.Error().Err(err).Msg("save product")
			writeJSON(w, 500, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, 201, map[string]any{"message": "Product saved successfully!"})
	case http.MethodGet:
		qv := r.URL.Query()
		page, err := strconv.Atoi(qv.Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		perPage, err := strconv.Atoi(qv.Get("itemsPerPage"))
		if err != nil || perPage <= 0 {
			perPage = 16
		}
		list, total, err := s.products.List(r.Context(), domain.ProductFilter{Offset: (page - 1) * perPage, Limit: perPage})
		if err != nil {
			log.Error().Err(err).Msg("list seller products")
			writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
			return
		}
		summaries := make([]usecase.Summary, 0, len(list))
		for i := range list {
			summaries = append(summaries, usecase.Summarize(&list[i]))
		}
		totalPages := (int(total) + perPage - 1) / perPage
		writeJSON(w, 200, map[string]any{
			"success": true,
			"data":    summaries,
			"pagination": map[string]any{
				"currentPage":  page,
				"itemsPerPage": perPage,
				"totalItems":   total,
				"totalPages":   totalPages,
			},
		})
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiIndividualProduct(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, 400, map[string]any{"success": false, "message": "Product id is required"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.products.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, 404, map[string]any{"success": false, "message": "Product not found"})
				return
			}
			writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
			return
		}
		writeJSON(w, 200, map[string]any{"success": true, "data": p})
	case http.MethodPut:
		p, err := s.products.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, 404, map[string]any{"success": false, "message": "Product not found"})
				return
			}
			writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
			return
		}
		var req struct {
			Name        *string            `json:"name"`
			Description *string            `json:"description"`
			Category    *string            `json:"category"`
			Images      []string           `json:"images"`
			Sizes       []string           `json:"sizes"`
			StockLevels map[string]int     `json:"stockLevels"`
			PriceLevels map[string]float64 `json:"priceLevels"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeJSON(w, 400, map[string]any{"success": false, "message": "Invalid JSON body"})
			return
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Images != nil {
			p.Images = req.Images
		}
		if req.Sizes != nil {
			p.Sizes = req.Sizes
		}
		if req.StockLevels != nil {
			p.StockLevels = req.StockLevels
		}
		if req.PriceLevels != nil {
			p.PriceLevels = req.PriceLevels
		}
		if err := s.products.Save(r.Context(), p); err != nil {
			var ve *usecase.ValidationError
			if errors.As(err, &ve) {
				writeJSON(w, 400, map[string]any{"success": false, "message": ve.Message})
				return
			}
			log.Error().Err(err).Msg("update product")
			writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
			return
		}
		writeJSON(w, 200, map[string]any{"success": true, "data": p})
	case http.MethodDelete:
		if err := s.products.Delete(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, 404, map[string]any{"success": false, "message": "Product not found"})
				return
			}
			log.Error().Err(err).Msg("delete product")
			writeJSON(w, 500, map[string]any{"success": false, "error": "Internal Server Error"})
			return
		}
		writeJSON(w, 200, map[string]any{"success": true, "message": "Product deleted"})
	default:
		http.Error(w, "method", 405)
	}
}

// canonicalBase builds scheme and host for absolute URLs behind a proxy.
func (s *Server) canonicalBase(r *http.Request) string {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + host
}
