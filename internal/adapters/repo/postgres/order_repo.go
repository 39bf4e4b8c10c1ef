package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/svaidya/poshakstore/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// decrementStockSQL subtracts from stock_levels[size] only while the result
// stays non-negative; zero rows affected means the product is missing, the
// size key is absent, or stock is short.
const decrementStockSQL = `
UPDATE products
SET stock_levels = jsonb_set(
        COALESCE(stock_levels, '{}'::jsonb),
        ARRAY[?::text],
        to_jsonb(COALESCE((stock_levels ->> ?)::int, 0) - ?)),
    updated_at = ?
WHERE product_id = ? AND COALESCE((stock_levels ->> ?)::int, 0) >= ?`

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Lines {
		if o.Lines[i].ID == uuid.Nil {
			o.Lines[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateOrder
			}
			return err
		}
		now := time.Now()
		for _, line := range o.Lines {
			size := strings.ToUpper(line.Size)
			res := tx.Exec(decrementStockSQL,
				size, size, line.Quantity, now, line.ProductID, size, line.Quantity)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %s size %s", domain.ErrInsufficientStock, line.ProductID, size)
			}
		}
		return nil
	})
}

func (r *OrderRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&o, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	var list []domain.Order
	if err := r.db.WithContext(ctx).Preload("Lines").Order("order_date desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("order_id = ?", orderID).
		Update("order_status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByOrderID(ctx, orderID)
}

func (r *OrderRepo) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	var list []domain.Order
	if err := r.db.WithContext(ctx).
		Where("order_status = ? AND order_date < ?", domain.OrderStatusPending, cutoff).
		Order("order_date asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
