package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CredentialStore persists the opaque backend credential.
// Writers are login, logout and the 401 handler; everything else only reads.
type CredentialStore interface {
	Token() (string, bool)
	Save(token string)
	Clear()
}

// CookieStore keeps the credential in an HTTP-only cookie of the current request.
// Writes are visible to later reads within the same request.
type CookieStore struct {
	c       *gin.Context
	name    string
	secure  bool
	token   string
	cleared bool
	written bool
}

func NewCookieStore(c *gin.Context, name string, secure bool) *CookieStore {
	return &CookieStore{c: c, name: name, secure: secure}
}

func (s *CookieStore) Token() (string, bool) {
	if s.cleared {
		return "", false
	}
	if s.written {
		return s.token, s.token != ""
	}
	v, err := s.c.Cookie(s.name)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s *CookieStore) Save(token string) {
	s.token, s.written, s.cleared = token, true, false
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, token, 0, "/", "", s.secure, true)
}

func (s *CookieStore) Clear() {
	s.token, s.written, s.cleared = "", true, true
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}

// Anonymous never holds a credential. Requests made through it carry no bearer
// and a 401 has nothing to clear.
type Anonymous struct{}

func (Anonymous) Token() (string, bool) { return "", false }
func (Anonymous) Save(string)           {}
func (Anonymous) Clear()                {}
