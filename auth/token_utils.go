package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/yashrajoria/pharmacy-storefront/models"
)

// nameIdentifierClaim is where the backend puts the user id.
const nameIdentifierClaim = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"

var parser = jwt.NewParser()

// DecodeSession extracts the session from a credential's claims.
// The storefront holds no signing key, so the signature is left to the backend;
// only structure and expiry are checked here.
func DecodeSession(tokenStr string, now time.Time) (*models.Session, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}

	if _, ok := claims["exp"]; ok && !claims.VerifyExpiresAt(now.Unix(), true) {
		return nil, fmt.Errorf("token expired")
	}

	session := &models.Session{
		Username: stringClaim(claims, "sub"),
		Email:    stringClaim(claims, "email"),
		UserID:   firstClaim(claims, nameIdentifierClaim, "nameid", "id"),
	}
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if session.UserID == "" && session.Username == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return session, nil
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v := stringClaim(claims, k); v != "" {
			return v
		}
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
