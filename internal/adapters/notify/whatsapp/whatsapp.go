// Package whatsapp formats order confirmations as wa.me deep links. The
// relay is fire-and-forget: the client opens the link, nothing is tracked.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/svaidya/poshakstore/internal/domain"
)

type Relay struct {
	phone string
}

// NewRelay takes the store's WhatsApp number in international format without
// the leading plus, e.g. "917742245155".
func NewRelay(phone string) *Relay {
	return &Relay{phone: strings.TrimPrefix(strings.TrimSpace(phone), "+")}
}

// Message renders the confirmation text sent to the store chat. trackURL
// points at the customer's order page.
func (rly *Relay) Message(o *domain.Order, trackURL string) string {
	var b strings.Builder
	b.WriteString("*Hurray! Your order has been placed successfully!*\n\n")
	fmt.Fprintf(&b, "*Order ID:* #%s\n\n", o.OrderID)
	fmt.Fprintf(&b, "*Customer Name:* %s\n\n", o.CustomerName)
	fmt.Fprintf(&b, "*Delivery Address:*\n%s,\n%s, %s, %s\n\n",
		o.Address.Street, o.Address.City, o.Address.State, o.Address.Pincode)
	b.WriteString("*Order Details:*\n")
	for _, line := range o.Lines {
		fmt.Fprintf(&b, "- %s (Size: %s) - Qty: %d @ ₹%.2f\n",
			line.Name, line.Size, line.Quantity, line.CurrentPrice)
	}
	fmt.Fprintf(&b, "\n*Total Price:* ₹%.2f\n\n", o.TotalAmount)
	if trackURL != "" {
		fmt.Fprintf(&b, "*Track your order here:* %s\n\n", trackURL)
	}
	b.WriteString("*Thank you for shopping with us!*")
	return b.String()
}

// Link wraps the message in a wa.me deep link for the configured number.
func (rly *Relay) Link(msg string) string {
	return "https://wa.me/" + rly.phone + "?text=" + url.QueryEscape(strings.TrimSpace(msg))
}
