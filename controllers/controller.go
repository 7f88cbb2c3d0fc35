package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	"github.com/yashrajoria/pharmacy-storefront/cache"
	"github.com/yashrajoria/pharmacy-storefront/clients"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/logger"
	"github.com/yashrajoria/pharmacy-storefront/middleware"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

// SessionClientFactory binds the shared backend pipeline to one browser's credential.
type SessionClientFactory interface {
	Session(creds auth.CredentialStore) *clients.SessionClient
}

// Dependencies are the process-wide collaborators shared by every request.
type Dependencies struct {
	API                  SessionClientFactory
	Tokenizer            clients.PaymentTokenizer
	ProductCache         cache.ProductCache       // optional
	Archive              services.InvoiceArchiver // optional
	Metrics              services.MetricsRecorder // optional
	StripePublishableKey string
	Logger               *zap.Logger
}

// StorefrontController renders the storefront pages. Services are built per
// request around that request's credential.
type StorefrontController struct {
	deps    Dependencies
	flights *singleflight.Group
}

func NewStorefrontController(deps Dependencies) *StorefrontController {
	return &StorefrontController{deps: deps, flights: &singleflight.Group{}}
}

func (s *StorefrontController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *StorefrontController) requester(c *gin.Context) clients.Requester {
	return s.deps.API.Session(middleware.SessionStore(c).Credentials())
}

func (s *StorefrontController) log(c *gin.Context) *zap.Logger {
	l := s.deps.Logger
	if rid := c.GetString(logger.RequestIDKey); rid != "" {
		l = l.With(zap.String("request_id", rid))
	}
	return l
}

func (s *StorefrontController) cartService(c *gin.Context) *services.CartService {
	return services.NewCartService(s.requester(c), middleware.SessionStore(c), s.log(c))
}

// page adds the data every template expects.
func page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	// the session may have been cleared or created while handling the request
	data["Session"] = middleware.SessionStore(c).Current()
	return data
}

// navigate hands session failures to the navigation guard. It reports whether
// the handler must stop.
func navigate(c *gin.Context, err error) bool {
	if !apperrors.IsNavigation(err) {
		return false
	}
	_ = c.Error(err)
	c.Abort()
	return true
}

func statusOf(err error) int {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Code >= 400 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

func (s *StorefrontController) renderError(c *gin.Context, title string, err error) {
	_ = c.Error(err)
	c.HTML(statusOf(err), "error.html", page(c, title, gin.H{
		"Error": apperrors.UserMessage(err),
	}))
}
