package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/auth"
)

const nameID = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unknown-to-storefront"))
	require.NoError(t, err)
	return s
}

func TestDecodeSession(t *testing.T) {
	tests := []struct {
		name     string
		claims   jwt.MapClaims
		raw      string
		wantErr  bool
		wantUser string
		wantID   string
	}{
		{
			name:     "backend claims",
			claims:   jwt.MapClaims{"sub": "alice", "email": "a@example.com", nameID: "u-1", "exp": float64(fixedNow.Add(time.Hour).Unix())},
			wantUser: "alice",
			wantID:   "u-1",
		},
		{
			name:   "nameid fallback",
			claims: jwt.MapClaims{"nameid": "u-2"},
			wantID: "u-2",
		},
		{
			name:    "expired",
			claims:  jwt.MapClaims{"sub": "alice", "exp": float64(fixedNow.Add(-time.Minute).Unix())},
			wantErr: true,
		},
		{
			name:    "no subject",
			claims:  jwt.MapClaims{"email": "a@example.com"},
			wantErr: true,
		},
		{name: "garbage", raw: "not-a-token", wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.raw
			if tt.claims != nil {
				token = sign(t, tt.claims)
			}

			session, err := auth.DecodeSession(token, fixedNow)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, session.Username)
			assert.Equal(t, tt.wantID, session.UserID)
		})
	}
}

func TestDecodeSession_ExpiresAt(t *testing.T) {
	exp := fixedNow.Add(time.Hour)
	session, err := auth.DecodeSession(sign(t, jwt.MapClaims{"sub": "alice", "exp": float64(exp.Unix())}), fixedNow)
	require.NoError(t, err)
	assert.True(t, session.ExpiresAt.Equal(exp))
}

func newContext(cookie string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		c.Request.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	return c, w
}

func TestCookieStore_ReadSaveClear(t *testing.T) {
	c, w := newContext("from-browser")
	store := auth.NewCookieStore(c, "token", true)

	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "from-browser", token)

	store.Save("fresh")
	token, _ = store.Token()
	assert.Equal(t, "fresh", token)

	store.Clear()
	_, ok = store.Token()
	assert.False(t, ok)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "fresh", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Empty(t, cookies[1].Value)
	assert.True(t, cookies[1].MaxAge < 0)
}

func TestSessionStore(t *testing.T) {
	valid := sign(t, jwt.MapClaims{"sub": "alice", nameID: "u-1", "exp": float64(fixedNow.Add(time.Hour).Unix())})

	t.Run("no credential", func(t *testing.T) {
		c, _ := newContext("")
		s := auth.NewSessionStore(auth.NewCookieStore(c, "token", false), zap.NewNop()).WithClock(func() time.Time { return fixedNow })
		assert.Nil(t, s.Current())
	})

	t.Run("derived on every read", func(t *testing.T) {
		c, _ := newContext(valid)
		s := auth.NewSessionStore(auth.NewCookieStore(c, "token", false), zap.NewNop()).WithClock(func() time.Time { return fixedNow })
		require.NotNil(t, s.Current())
		assert.Equal(t, "u-1", s.Current().UserID)

		s.Clear()
		assert.Nil(t, s.Current())
	})

	t.Run("undecodable credential reads as signed out", func(t *testing.T) {
		c, _ := newContext("garbage")
		s := auth.NewSessionStore(auth.NewCookieStore(c, "token", false), zap.NewNop())
		assert.Nil(t, s.Current())
	})

	t.Run("persist rejects undecodable token", func(t *testing.T) {
		c, w := newContext("")
		s := auth.NewSessionStore(auth.NewCookieStore(c, "token", false), zap.NewNop())
		_, err := s.Persist("garbage")
		assert.Error(t, err)
		assert.Nil(t, s.Current())
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("persist saves", func(t *testing.T) {
		c, _ := newContext("")
		s := auth.NewSessionStore(auth.NewCookieStore(c, "token", false), zap.NewNop()).WithClock(func() time.Time { return fixedNow })
		session, err := s.Persist(valid)
		require.NoError(t, err)
		assert.Equal(t, "alice", session.Username)
		assert.Equal(t, "alice", s.Current().Username)
	})
}
