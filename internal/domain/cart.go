package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CartItem is one line of the client-held cart cookie, keyed by
// (ProductID, Size). The cookie is a plain JSON array of these objects and
// existing carts store quantity as a string, so the shape must not change.
type CartItem struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  Qty    `json:"quantity"`
}

// Qty decodes from either a JSON string or a JSON number and always encodes
// back as a string, matching what carts in the wild already hold.
type Qty string

func (q *Qty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*q = Qty(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = Qty(n.String())
	return nil
}

func (q Qty) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(q))
}

func (q Qty) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(q)))
}

func QtyOf(n int) Qty { return Qty(strconv.Itoa(n)) }
