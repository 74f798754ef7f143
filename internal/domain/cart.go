package domain

import "github.com/shopspring/decimal"

// CartItem is one line of a cart. Price is the unit price captured when the
// item was added, not the product's live price.
type CartItem struct {
	ID       int64           `json:"id"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Cart is the authoritative server-confirmed cart state. TotalAmount is
// computed server-side; the client never derives it from the items.
type Cart struct {
	ID          int64           `json:"id"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

// Subtotal is the line total for display purposes only.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
