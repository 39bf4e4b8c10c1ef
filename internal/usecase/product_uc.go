package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/svaidya/poshakstore/internal/domain"
)

type ProductUC struct {
	Products domain.ProductRepo
}

// Summary is the simplified catalog projection. Price and TotalStock stay
// strings because the storefront consumes them that way; Price is empty when
// no size has a positive price.
type Summary struct {
	Src        string `json:"src"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Price      string `json:"price"`
	TotalStock string `json:"totalStock"`
}

func Summarize(p *domain.Product) Summary {
	price := ""
	if min, ok := p.MinPositivePrice(); ok {
		price = fmt.Sprintf("%.2f", min)
	}
	return Summary{
		Src:        p.CoverImage(),
		ID:         p.ProductID,
		Name:       p.Name,
		Category:   p.Category,
		Price:      price,
		TotalStock: fmt.Sprintf("%d", p.TotalStock()),
	}
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 16
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, invalid("Product id is required")
	}
	return uc.Products.FindByProductID(ctx, productID)
}

func (uc *ProductUC) Create(ctx context.Context, p *domain.Product) error {
	if p.Name == "" || p.Description == "" || p.Category == "" || len(p.Sizes) == 0 || len(p.PriceLevels) == 0 {
		return invalid("Missing required fields or invalid data format")
	}
	if !domain.ValidCategory(p.Category) {
		return invalid("Invalid product category")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ProductID == "" {
		p.ProductID = NewProductID()
	}
	if p.StockLevels == nil {
		p.StockLevels = map[string]int{}
	}
	return uc.Products.Save(ctx, p)
}

// Save persists an already-loaded product after a partial edit.
func (uc *ProductUC) Save(ctx context.Context, p *domain.Product) error {
	if p.Category != "" && !domain.ValidCategory(p.Category) {
		return invalid("Invalid product category")
	}
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return invalid("Product id is required")
	}
	return uc.Products.DeleteByProductID(ctx, productID)
}

// NewProductID yields the 16-char uppercase catalog id used when the seller
// does not supply one.
func NewProductID() string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return s[:16]
}
