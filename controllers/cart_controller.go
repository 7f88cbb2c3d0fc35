package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

func (s *StorefrontController) Cart(c *gin.Context) {
	svc := s.cartService(c)
	if _, err := svc.FetchCart(c.Request.Context()); err != nil {
		if navigate(c, err) {
			return
		}
		s.renderCart(c, svc, err)
		return
	}
	s.renderCart(c, svc, nil)
}

func (s *StorefrontController) AddToCart(c *gin.Context) {
	quantity := 1
	if raw := c.PostForm("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			s.renderError(c, "Cart", apperrors.Wrap(apperrors.ErrBadRequest, err))
			return
		}
		quantity = q
	}

	svc := s.cartService(c)
	if err := svc.AddItem(c.Request.Context(), c.PostForm("productId"), quantity); err != nil {
		if navigate(c, err) {
			return
		}
		s.renderError(c, "Cart", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

// RemoveFromCart renders the cart the backend answered with.
func (s *StorefrontController) RemoveFromCart(c *gin.Context) {
	svc := s.cartService(c)
	if _, err := svc.RemoveItem(c.Request.Context(), c.Param("productId")); err != nil {
		if navigate(c, err) {
			return
		}
		s.renderCart(c, svc, err)
		return
	}
	s.renderCart(c, svc, nil)
}

func (s *StorefrontController) ClearCart(c *gin.Context) {
	svc := s.cartService(c)
	if err := svc.ClearCart(c.Request.Context()); err != nil {
		if navigate(c, err) {
			return
		}
		s.renderCart(c, svc, err)
		return
	}
	s.renderCart(c, svc, nil)
}

func (s *StorefrontController) renderCart(c *gin.Context, svc *services.CartService, err error) {
	status := http.StatusOK
	data := gin.H{
		"State": svc.State().String(),
		"Cart":  svc.Cart(),
	}
	if err != nil {
		_ = c.Error(err)
		status = statusOf(err)
		data["Error"] = apperrors.UserMessage(err)
	}
	c.HTML(status, "cart.html", page(c, "Cart", data))
}
