package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID    string          `json:"productId" validate:"required"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	Price        decimal.Decimal `json:"price"`
	ProductImage string          `json:"productImage"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is created by the backend at checkout and is read-only here
type Order struct {
	ID         string          `json:"id" validate:"required"`
	UserID     string          `json:"userId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Status     string          `json:"status"`
	Items      []OrderItem     `json:"items" validate:"dive"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CheckoutRequest carries only the opaque payment handle; the backend computes the amount.
type CheckoutRequest struct {
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
}

// CheckoutResponse is the order created by a successful checkout
type CheckoutResponse struct {
	ID string `json:"id" validate:"required"`
}

// PaymentDetails is what the checkout form posts. CardToken comes from the
// hosted card widget; raw card numbers never reach the storefront.
type PaymentDetails struct {
	CardToken   string `json:"cardToken" form:"cardToken" validate:"required"`
	BillingName string `json:"name" form:"name" validate:"required"`
	PostalCode  string `json:"postalCode" form:"zip" validate:"required"`
}
