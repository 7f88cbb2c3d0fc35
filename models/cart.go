package models

import "github.com/shopspring/decimal"

// CartItem is one line of the server-owned cart
type CartItem struct {
	ProductID    string          `json:"productId" validate:"required"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	ProductImage string          `json:"productImage"`
}

// LineTotal is computed for presentation only.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.ProductPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart mirrors the last successful backend response. TotalPrice is always the server's figure.
type Cart struct {
	Items      []CartItem      `json:"items" validate:"dive"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// AddCartItemRequest is the body of POST /cart/
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}
