package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

func (s *StorefrontController) checkoutFlow(c *gin.Context) *services.CheckoutFlow {
	return services.NewCheckoutFlow(s.requester(c), s.cartService(c), s.deps.Tokenizer, s.deps.Metrics, s.log(c))
}

func (s *StorefrontController) CheckoutPage(c *gin.Context) {
	flow := s.checkoutFlow(c)
	if err := flow.Load(c.Request.Context()); navigate(c, err) {
		return
	}
	s.renderCheckout(c, http.StatusOK, flow, models.PaymentDetails{})
}

func (s *StorefrontController) Checkout(c *gin.Context) {
	flow := s.checkoutFlow(c)
	if err := flow.Load(c.Request.Context()); navigate(c, err) {
		return
	}
	if flow.State() != services.CheckoutReady {
		s.renderCheckout(c, http.StatusOK, flow, models.PaymentDetails{})
		return
	}

	var details models.PaymentDetails
	_ = c.ShouldBind(&details) // missing fields are reported by the flow

	orderID, err := flow.Submit(c.Request.Context(), details)
	if err != nil {
		if navigate(c, err) {
			return
		}
		_ = c.Error(err)
		s.renderCheckout(c, statusOf(err), flow, details)
		return
	}
	c.Redirect(http.StatusSeeOther, "/invoice/"+url.PathEscape(orderID))
}

func (s *StorefrontController) renderCheckout(c *gin.Context, status int, flow *services.CheckoutFlow, details models.PaymentDetails) {
	data := gin.H{
		"State":       flow.State().String(),
		"Cart":        flow.Cart(),
		"Total":       flow.Total(),
		"StripeKey":   s.deps.StripePublishableKey,
		"BillingName": details.BillingName,
		"PostalCode":  details.PostalCode,
	}
	if err := flow.LastError(); err != nil {
		data["Error"] = apperrors.UserMessage(err)
	}
	c.HTML(status, "checkout.html", page(c, "Checkout", data))
}
