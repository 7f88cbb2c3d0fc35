package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/middleware"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

func (s *StorefrontController) invoiceService(c *gin.Context) *services.InvoiceService {
	creds := middleware.SessionStore(c).Credentials()
	return services.NewInvoiceService(s.requester(c), creds, s.deps.Archive, s.deps.Metrics, s.log(c))
}

// Invoice renders an order. Without a credential the page is a terminal error,
// not a redirect.
func (s *StorefrontController) Invoice(c *gin.Context) {
	svc := s.invoiceService(c)
	if _, err := svc.GetOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		if navigate(c, err) {
			return
		}
		s.renderError(c, invoiceErrorTitle(err), err)
		return
	}
	c.HTML(http.StatusOK, "invoice.html", page(c, "Invoice", gin.H{
		"Invoice": svc.View(),
	}))
}

func (s *StorefrontController) InvoicePDF(c *gin.Context) {
	svc := s.invoiceService(c)
	if _, err := svc.GetOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		if navigate(c, err) {
			return
		}
		s.renderError(c, invoiceErrorTitle(err), err)
		return
	}

	doc, err := svc.Export(c.Request.Context())
	if err != nil {
		s.renderError(c, "Invoice", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

func invoiceErrorTitle(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return "Not signed in"
	case errors.Is(err, apperrors.ErrNotFound):
		return "Order not found"
	default:
		return "Invoice"
	}
}
