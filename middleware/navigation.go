package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
)

// LoginPath is where expired or missing sessions are sent.
const LoginPath = "/login"

// NavigationGuard owns the redirect to login. Handlers report ErrAuthExpired or
// ErrLoginRequired with c.Error and return without writing a response.
func NavigationGuard(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, ginErr := range c.Errors {
			if !apperrors.IsNavigation(ginErr.Err) {
				continue
			}
			if c.Writer.Written() {
				logger.Warn("Response already written, cannot redirect to login",
					zap.String("path", c.Request.URL.Path))
				return
			}
			logger.Info("Redirecting to login",
				zap.String("path", c.Request.URL.Path),
				zap.String("reason", apperrors.UserMessage(ginErr.Err)))
			c.Redirect(http.StatusSeeOther, loginURL(c))
			return
		}
	}
}

func loginURL(c *gin.Context) string {
	next := c.Request.URL.Path
	if c.Request.Method != http.MethodGet {
		next = c.Request.Referer()
		if u, err := url.Parse(next); err == nil {
			next = u.Path
		}
	}
	if next == "" || next == LoginPath {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}
