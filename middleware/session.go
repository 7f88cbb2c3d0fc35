package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	"github.com/yashrajoria/pharmacy-storefront/models"
)

const (
	sessionStoreKey = "session_store"
	sessionKey      = "session"
)

// Session binds a SessionStore to the request's credential cookie and
// re-derives the current session on every navigation.
func Session(cookieName string, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := auth.NewSessionStore(auth.NewCookieStore(c, cookieName, secure), logger)
		c.Set(sessionStoreKey, store)
		if s := store.Current(); s != nil {
			c.Set(sessionKey, s)
		}
		c.Next()
	}
}

// SessionStore returns the request's store. It panics if Session is not installed.
func SessionStore(c *gin.Context) *auth.SessionStore {
	return c.MustGet(sessionStoreKey).(*auth.SessionStore)
}

// CurrentSession is the session derived when the request arrived, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		return v.(*models.Session)
	}
	return nil
}
