package cache

import (
	"context"
	"errors"

	"github.com/yashrajoria/pharmacy-storefront/models"
)

// ProductCache holds the public catalog listing
type ProductCache interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	SetProducts(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
