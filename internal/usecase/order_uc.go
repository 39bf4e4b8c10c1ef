package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/svaidya/poshakstore/internal/domain"
)

type OrderUC struct {
	Orders domain.OrderRepo
}

// ValidationError carries the field-naming message sent back to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

type LineInput struct {
	ProductID    string     `json:"productId"`
	Size         string     `json:"size"`
	CurrentPrice float64    `json:"currentPrice"`
	Name         string     `json:"name"`
	Quantity     domain.Qty `json:"quantity"`
}

type PlaceOrderInput struct {
	OrderID             string         `json:"orderId"`
	CustomerName        string         `json:"customerName"`
	Address             domain.Address `json:"address"`
	ContactNumber       string         `json:"contactNumber"`
	OrderStatus         string         `json:"orderStatus"`
	TotalAmount         float64        `json:"totalAmount"`
	Products            []LineInput    `json:"products"`
	DistanceFromStore   *float64       `json:"distanceFromStore"`
	WhatsappMessageSent bool           `json:"whatsappMessageSent"`
}

// validate checks the payload in a fixed order; the first failure wins and
// nothing is aggregated.
func validate(in *PlaceOrderInput) error {
	if in.OrderID == "" {
		return invalid("Invalid or missing orderId")
	}
	if in.CustomerName == "" {
		return invalid("Invalid or missing customerName")
	}
	if in.Address.Street == "" {
		return invalid("Invalid or missing street")
	}
	if in.Address.City == "" {
		return invalid("Invalid or missing city")
	}
	if in.Address.State == "" {
		return invalid("Invalid or missing state")
	}
	if in.Address.Pincode == "" {
		return invalid("Invalid or missing pincode")
	}
	if in.ContactNumber == "" {
		return invalid("Invalid or missing contactNumber")
	}
	if !domain.OrderStatus(in.OrderStatus).Valid() {
		return invalid("Invalid orderStatus")
	}
	if in.TotalAmount <= 0 {
		return invalid("Invalid or missing totalAmount")
	}
	if len(in.Products) == 0 {
		return invalid("Products must be a non-empty array")
	}
	for _, line := range in.Products {
		if line.ProductID == "" {
			return invalid("Invalid or missing productId in products")
		}
		if line.Size == "" {
			return invalid("Invalid or missing size in products")
		}
		if line.CurrentPrice <= 0 {
			return invalid("Invalid or missing currentPrice in products")
		}
		if line.Name == "" {
			return invalid("Invalid or missing name in products")
		}
		// Stricter than the storefront used to be: zero and negative
		// quantities are rejected, not just non-numeric ones.
		if n, err := line.Quantity.Int(); err != nil || n <= 0 {
			return invalid("Invalid or missing quantity in products")
		}
	}
	if in.DistanceFromStore == nil || *in.DistanceFromStore < 0 {
		return invalid("Invalid or missing distanceFromStore")
	}
	return nil
}

// Place validates the payload, then persists the order and decrements stock
// atomically. No write happens on a validation failure.
func (uc *OrderUC) Place(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	lines := make([]domain.OrderLine, 0, len(in.Products))
	for _, li := range in.Products {
		n, _ := li.Quantity.Int()
		lines = append(lines, domain.OrderLine{
			ProductID:    li.ProductID,
			Size:         li.Size,
			CurrentPrice: li.CurrentPrice,
			Name:         li.Name,
			Quantity:     n,
		})
	}
	o := &domain.Order{
		ID:                  uuid.New(),
		OrderID:             in.OrderID,
		CustomerName:        in.CustomerName,
		Address:             in.Address,
		ContactNumber:       in.ContactNumber,
		OrderDate:           time.Now(),
		OrderStatus:         domain.OrderStatus(in.OrderStatus),
		TotalAmount:         in.TotalAmount,
		Lines:               lines,
		DistanceFromStore:   *in.DistanceFromStore,
		WhatsappMessageSent: in.WhatsappMessageSent,
	}
	if err := uc.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OrderUC) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, invalid("No orderId provided")
	}
	return uc.Orders.FindByOrderID(ctx, orderID)
}

func (uc *OrderUC) ListAll(ctx context.Context) ([]domain.Order, error) {
	return uc.Orders.List(ctx)
}

func (uc *OrderUC) UpdateStatus(ctx context.Context, orderID, newStatus string) (*domain.Order, error) {
	if orderID == "" || newStatus == "" {
		return nil, invalid("OrderId and newStatus are required")
	}
	st := domain.OrderStatus(newStatus)
	if !st.Valid() {
		return nil, invalid("Invalid orderStatus")
	}
	return uc.Orders.UpdateStatus(ctx, orderID, st)
}

// PendingOlderThan lists Pending orders placed more than age ago, for the
// nightly reminder job.
func (uc *OrderUC) PendingOlderThan(ctx context.Context, age time.Duration) ([]domain.Order, error) {
	return uc.Orders.ListPendingBefore(ctx, time.Now().Add(-age))
}
