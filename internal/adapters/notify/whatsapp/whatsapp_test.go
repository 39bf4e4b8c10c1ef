package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svaidya/poshakstore/internal/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		OrderID:      "ORD-3001",
		CustomerName: "Meera Sharma",
		Address:      domain.Address{Street: "12 Johari Bazar", City: "Jaipur", State: "Rajasthan", Pincode: "303104"},
		TotalAmount:  1898,
		Lines: []domain.OrderLine{
			{Name: "Zari Lehenga", Size: "M", Quantity: 1, CurrentPrice: 1399},
			{Name: "Tulsi Mala", Size: "S", Quantity: 1, CurrentPrice: 499},
		},
	}
}

func TestMessageContent(t *testing.T) {
	rly := NewRelay("917742245155")
	msg := rly.Message(sampleOrder(), "https://shop.example/order?orderId=ORD-3001")

	assert.True(t, strings.HasPrefix(msg, "*Hurray! Your order has been placed successfully!*"))
	assert.Contains(t, msg, "*Order ID:* #ORD-3001")
	assert.Contains(t, msg, "*Customer Name:* Meera Sharma")
	assert.Contains(t, msg, "12 Johari Bazar,\nJaipur, Rajasthan, 303104")
	assert.Contains(t, msg, "- Zari Lehenga (Size: M) - Qty: 1 @ ₹1399.00")
	assert.Contains(t, msg, "- Tulsi Mala (Size: S) - Qty: 1 @ ₹499.00")
	assert.Contains(t, msg, "*Total Price:* ₹1898.00")
	assert.Contains(t, msg, "*Track your order here:* https://shop.example/order?orderId=ORD-3001")
	assert.True(t, strings.HasSuffix(msg, "*Thank you for shopping with us!*"))
}

func TestMessageWithoutTrackURL(t *testing.T) {
	rly := NewRelay("917742245155")
	msg := rly.Message(sampleOrder(), "")
	assert.NotContains(t, msg, "Track your order")
}

func TestLinkEscapesMessage(t *testing.T) {
	rly := NewRelay("917742245155")
	link := rly.Link("order #1 & more")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/917742245155", u.Path)
	assert.Equal(t, "order #1 & more", u.Query().Get("text"))
}

func TestNewRelayStripsPlus(t *testing.T) {
	rly := NewRelay("+917742245155")
	link := rly.Link("hi")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/917742245155?text="))
}
