package services

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	"github.com/yashrajoria/pharmacy-storefront/clients"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
)

// CartState tells the view what to draw.
type CartState int

const (
	CartNotLoaded CartState = iota
	CartEmpty
	CartReady
)

func (s CartState) String() string {
	switch s {
	case CartEmpty:
		return "empty"
	case CartReady:
		return "ready"
	default:
		return "not_loaded"
	}
}

// CartService is the cart view-model. Its cart is always the last successful
// backend response; nothing is computed locally besides line subtotals.
type CartService struct {
	api      clients.Requester
	sessions *auth.SessionStore
	logger   *zap.Logger
	cart     *models.Cart
}

func NewCartService(api clients.Requester, sessions *auth.SessionStore, logger *zap.Logger) *CartService {
	return &CartService{api: api, sessions: sessions, logger: logger}
}

// Cart returns the current cart, nil until a fetch has succeeded.
func (s *CartService) Cart() *models.Cart {
	return s.cart
}

func (s *CartService) State() CartState {
	switch {
	case s.cart == nil:
		return CartNotLoaded
	case s.cart.IsEmpty():
		return CartEmpty
	default:
		return CartReady
	}
}

// FetchCart replaces the local cart. On failure the previous cart is kept.
func (s *CartService) FetchCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := s.api.Do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		s.logger.Error("Error fetching cart", zap.Error(err))
		return s.cart, err
	}
	s.cart = &cart
	return s.cart, nil
}

// AddItem requires a session; the backend merges duplicates.
func (s *CartService) AddItem(ctx context.Context, productID string, quantity int) error {
	if s.sessions.Current() == nil {
		return apperrors.ErrLoginRequired
	}
	req := models.AddCartItemRequest{ProductID: productID, Quantity: quantity}
	if err := validateRequest(req); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPost, "/cart/", req, nil); err != nil {
		s.logger.Error("Error adding to cart", zap.String("product_id", productID), zap.Error(err))
		return err
	}
	s.logger.Info("Item added to cart", zap.String("product_id", productID), zap.Int("quantity", quantity))
	return nil
}

// RemoveItem adopts the cart the backend answers with, as-is.
func (s *CartService) RemoveItem(ctx context.Context, productID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.api.Do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(productID), nil, &cart); err != nil {
		s.logger.Error("Error removing item from cart", zap.String("product_id", productID), zap.Error(err))
		return s.cart, err
	}
	s.cart = &cart
	return s.cart, nil
}

// ClearCart leaves an empty, loaded cart on success.
func (s *CartService) ClearCart(ctx context.Context) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/cart", nil, nil); err != nil {
		s.logger.Error("Error clearing cart", zap.Error(err))
		return err
	}
	s.cart = &models.Cart{Items: []models.CartItem{}}
	return nil
}
