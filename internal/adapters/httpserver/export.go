package httpserver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/svaidya/poshakstore/internal/domain"
)

// apiSellerExport streams an XLSX workbook with an Orders sheet and an
// Inventory sheet (one row per product+size).
func (s *Server) apiSellerExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	orders, err := s.orders.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("export orders")
		writeJSON(w, 500, map[string]any{"error": "Internal Server Error"})
		return
	}
	products, _, err := s.products.List(r.Context(), domain.ProductFilter{Limit: 10000})
	if err != nil {
		log.Error().Err(err).Msg("export products")
		writeJSON(w, 500, map[string]any{"error": "Internal Server Error"})
		return
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Orders")

	setRow(f, "Orders", 1, []any{"Order ID", "Customer", "Contact", "City", "Status", "Total", "Order Date"})
	for i, o := range orders {
		setRow(f, "Orders", i+2, []any{
			o.OrderID, o.CustomerName, o.ContactNumber, o.Address.City,
			string(o.OrderStatus), o.TotalAmount, o.OrderDate.Format("2006-01-02 15:04"),
		})
	}

	_, _ = f.NewSheet("Inventory")
	setRow(f, "Inventory", 1, []any{"Product ID", "Name", "Category", "Size", "Stock", "Price"})
	row := 2
	for i := range products {
		p := &products[i]
		for _, size := range p.Sizes {
			setRow(f, "Inventory", row, []any{
				p.ProductID, p.Name, p.Category, size, p.StockLevels[size], p.PriceLevels[size],
			})
			row++
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="store-export-`+time.Now().Format("2006-01-02")+`.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("write xlsx")
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}
