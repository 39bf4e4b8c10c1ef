package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/svaidya/poshakstore/internal/adapters/httpserver"
	"github.com/svaidya/poshakstore/internal/adapters/notify/whatsapp"
	"github.com/svaidya/poshakstore/internal/adapters/repo/postgres"
	"github.com/svaidya/poshakstore/internal/domain"
	"github.com/svaidya/poshakstore/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	ProductUC *usecase.ProductUC
	OrderUC   *usecase.OrderUC
	Relay     *whatsapp.Relay
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	orderRepo := postgres.NewOrderRepo(db)

	phone := os.Getenv("STORE_WHATSAPP")
	if phone == "" {
		phone = "917742245155"
	}

	app := &App{DB: db}
	app.ProductUC = &usecase.ProductUC{Products: prodRepo}
	app.OrderUC = &usecase.OrderUC{Orders: orderRepo}
	app.Relay = whatsapp.NewRelay(phone)
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ProductUC, a.OrderUC, a.Relay)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Product{}, &domain.Order{}, &domain.OrderLine{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date DESC)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_stock_gin ON products USING gin (stock_levels)").Error

	var count int64
	if err := a.DB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seedProducts(a.DB)
	}
	return nil
}

// PendingOrderReminder logs every order still Pending after a day; the cron
// entry in main fires it at midnight.
func (a *App) PendingOrderReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	orders, err := a.OrderUC.PendingOlderThan(ctx, 24*time.Hour)
	if err != nil {
		log.Error().Err(err).Msg("pending order reminder")
		return
	}
	for _, o := range orders {
		log.Warn().
			Str("order_id", o.OrderID).
			Str("customer", o.CustomerName).
			Str("contact", o.ContactNumber).
			Time("placed", o.OrderDate).
			Msg("order still pending")
	}
}

func seedProducts(db *gorm.DB) {
	prods := []domain.Product{
		{
			ID: uuid.New(), ProductID: usecase.NewProductID(),
			Name: "Banarasi Silk Poshak", Description: "Hand-woven banarasi silk poshak set", Category: domain.CategoryPoshak,
			Images: []string{"/placeholder.svg"},
			Sizes:  []string{"S", "M", "L"},
			StockLevels: map[string]int{"S": 4, "M": 6, "L": 3},
			PriceLevels: map[string]float64{"S": 1499, "M": 1699, "L": 1899},
		},
		{
			ID: uuid.New(), ProductID: usecase.NewProductID(),
			Name: "Pearl Mukut", Description: "Pearl-studded mukut with adjustable band", Category: domain.CategoryAccessories,
			Images: []string{"/placeholder.svg"},
			Sizes:  []string{"S", "M"},
			StockLevels: map[string]int{"S": 10, "M": 8},
			PriceLevels: map[string]float64{"S": 349, "M": 399},
		},
		{
			ID: uuid.New(), ProductID: usecase.NewProductID(),
			Name: "Brass Pooja Thali", Description: "Engraved brass thali with diya and bell", Category: domain.CategoryPujaItems,
			Images: []string{"/placeholder.svg"},
			Sizes:  []string{"M"},
			StockLevels: map[string]int{"M": 12},
			PriceLevels: map[string]float64{"M": 799},
		},
	}
	for _, p := range prods {
		db.Create(&p)
	}
}
