package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/controllers"
	"github.com/yashrajoria/pharmacy-storefront/middleware"
	awspkg "github.com/yashrajoria/pharmacy-storefront/pkg/aws"
	"github.com/yashrajoria/pharmacy-storefront/views"
)

type EngineOptions struct {
	ServiceName  string
	CookieName   string
	CookieSecure bool
	LoginLimiter *middleware.RateLimiter
	Metrics      *awspkg.MetricsClient // nil disables request metrics
	Logger       *zap.Logger
}

// NewEngine builds the router with the middleware chain and page templates.
func NewEngine(ctrl *controllers.StorefrontController, opts EngineOptions) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		otelgin.Middleware(opts.ServiceName),
		middleware.RequestLogger(opts.Logger),
		middleware.Metrics(opts.Metrics, opts.ServiceName),
		middleware.SecurityHeaders(opts.CookieSecure),
		middleware.Session(opts.CookieName, opts.CookieSecure, opts.Logger),
		middleware.NavigationGuard(opts.Logger),
	)

	RegisterRoutes(r, ctrl, opts.LoginLimiter)
	return r, nil
}
