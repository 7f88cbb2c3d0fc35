package models

import "github.com/shopspring/decimal"

// Product is a catalog entry owned by the backend
type Product struct {
	ID          string          `json:"id" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Ingredients string          `json:"ingredients"`
	HowToUse    string          `json:"howToUse"`
}

// InStock is the only availability signal: zero stock disables purchase.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// CreateProductRequest is the admin form for a new catalog entry
type CreateProductRequest struct {
	Title       string          `json:"title" form:"title" validate:"required"`
	Brand       string          `json:"brand" form:"brand" validate:"required"`
	Price       decimal.Decimal `json:"price" form:"-"`
	Stock       int             `json:"stock" form:"stock" validate:"gte=0"`
	Image       string          `json:"image" form:"image" validate:"required"`
	Description string          `json:"description" form:"description" validate:"required"`
	Ingredients string          `json:"ingredients" form:"ingredients" validate:"required"`
	HowToUse    string          `json:"howToUse" form:"howToUse" validate:"required"`
}
