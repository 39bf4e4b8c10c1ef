package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryPoshak      = "Poshak"
	CategoryAccessories = "Accessories"
	CategoryPujaItems   = "Puja Items"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryPoshak, CategoryAccessories, CategoryPujaItems:
		return true
	}
	return false
}

// Product keys its stock and price maps by size label (XS/S/M/L/XL).
// Map keys are not forced to be members of Sizes.
type Product struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"-"`
	ProductID   string             `gorm:"uniqueIndex;size:40" json:"productId"`
	Name        string             `gorm:"size:180" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Category    string             `gorm:"size:40;index" json:"category"`
	Images      []string           `gorm:"type:jsonb;serializer:json" json:"images"`
	Sizes       []string           `gorm:"type:jsonb;serializer:json" json:"sizes"`
	StockLevels map[string]int     `gorm:"type:jsonb;serializer:json" json:"stockLevels"`
	PriceLevels map[string]float64 `gorm:"type:jsonb;serializer:json" json:"priceLevels"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (p *Product) TotalStock() int {
	total := 0
	for _, n := range p.StockLevels {
		total += n
	}
	return total
}

// MinPositivePrice returns the lowest price above zero across sizes; ok is
// false when no size has a positive price.
func (p *Product) MinPositivePrice() (float64, bool) {
	min := 0.0
	found := false
	for _, v := range p.PriceLevels {
		if v <= 0 {
			continue
		}
		if !found || v < min {
			min = v
			found = true
		}
	}
	return min, found
}

func (p *Product) CoverImage() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return "/placeholder.svg"
}
