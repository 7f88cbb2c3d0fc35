package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	"github.com/yashrajoria/pharmacy-storefront/clients"
)

// ---- in-memory credential store ----

type memStore struct {
	token   string
	cleared bool
}

func (m *memStore) Token() (string, bool) { return m.token, m.token != "" }
func (m *memStore) Save(token string)     { m.token = token }
func (m *memStore) Clear()                { m.token = ""; m.cleared = true }

// ---- stub backend ----

type stubCall struct {
	method  string
	path    string
	body    interface{}
	headers http.Header
}

type stubResponse struct {
	body interface{} // marshalled to JSON, or used verbatim when a string
	err  error
}

type stubAPI struct {
	responses map[string]stubResponse
	calls     []stubCall
}

func newStubAPI() *stubAPI {
	return &stubAPI{responses: make(map[string]stubResponse)}
}

func (s *stubAPI) on(method, path string, resp stubResponse) *stubAPI {
	s.responses[method+" "+path] = resp
	return s
}

func (s *stubAPI) Do(_ context.Context, method, path string, body, out interface{}, opts ...clients.RequestOption) error {
	req, _ := http.NewRequest(method, "http://backend.test"+path, nil)
	for _, opt := range opts {
		opt(req)
	}
	s.calls = append(s.calls, stubCall{method: method, path: path, body: body, headers: req.Header})

	resp, ok := s.responses[method+" "+path]
	if !ok {
		return fmt.Errorf("unexpected call %s %s", method, path)
	}
	if resp.err != nil {
		return resp.err
	}
	if out == nil || resp.body == nil {
		return nil
	}
	raw, isString := resp.body.(string)
	if !isString {
		b, err := json.Marshal(resp.body)
		if err != nil {
			return err
		}
		raw = string(b)
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *stubAPI) callCount(method, path string) int {
	n := 0
	for _, c := range s.calls {
		if c.method == method && c.path == path {
			n++
		}
	}
	return n
}

// ---- metrics ----

type countingMetrics struct {
	counts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: make(map[string]int)}
}

func (m *countingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.counts[name]++
	return nil
}

// ---- helpers ----

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func validToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{
		"sub":   "alice",
		"email": "alice@example.com",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier": "u-1",
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	})
}

func newSessions(store auth.CredentialStore) *auth.SessionStore {
	return auth.NewSessionStore(store, zap.NewNop())
}
