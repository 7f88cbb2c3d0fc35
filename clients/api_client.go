package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/logger"
)

// Requester is the request pipeline the services depend on.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) error
}

// RequestOption adjusts a single outgoing request
type RequestOption func(*http.Request)

// WithHeader sets an extra header on the request
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Options configures the shared pipeline
type Options struct {
	BaseURL            string
	Timeout            time.Duration
	RateLimit          float64 // requests per second, 0 disables the limiter
	RateBurst          int
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	// Transport is the innermost round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// APIClient is the one configured pipeline to the backend. It is safe for concurrent use.
type APIClient struct {
	baseURL  string
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger
	onExpire func()
}

func NewAPIClient(opts Options, logger *zap.Logger) *APIClient {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		base = &limiterTransport{limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), burst), next: base}
	}
	if opts.BreakerMaxFailures > 0 {
		base = newBreakerTransport(opts.BreakerMaxFailures, opts.BreakerOpenTimeout, base, logger)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		validate: newResponseValidator(),
		logger:   logger,
	}
}

// OnAuthExpired registers a hook run after a 401 has cleared the credential (metrics).
func (a *APIClient) OnAuthExpired(fn func()) {
	a.onExpire = fn
}

// Session binds the pipeline to one credential store.
func (a *APIClient) Session(creds auth.CredentialStore) *SessionClient {
	return &SessionClient{api: a, creds: creds}
}

// SessionClient attaches the credential of one store to every request.
type SessionClient struct {
	api   *APIClient
	creds auth.CredentialStore
}

func (s *SessionClient) Do(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) error {
	a := s.api

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := logger.RequestIDFromContext(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
	token, hasToken := s.creds.Token()
	if hasToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperrors.Wrap(apperrors.ErrServiceUnavailable, err)
		}
		a.logger.Error("Backend request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrUpstream, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Cross-cutting policy: whatever the caller does next, the credential is gone.
		s.creds.Clear()
		a.logger.Warn("Backend rejected credential, session cleared",
			zap.String("method", method), zap.String("path", path))
		if hasToken && a.onExpire != nil {
			a.onExpire()
		}
		return apperrors.Wrap(apperrors.ErrAuthExpired, &apperrors.HTTPError{StatusCode: resp.StatusCode, Body: string(respBytes)})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &apperrors.HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(respBytes), 512)}
		if resp.StatusCode == http.StatusNotFound {
			return apperrors.Wrap(apperrors.ErrNotFound, httpErr)
		}
		return apperrors.Wrap(apperrors.ErrUpstream, httpErr)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(respBytes)) == 0 {
		return apperrors.Wrap(apperrors.ErrDecode, fmt.Errorf("%s %s: empty body", method, path))
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return apperrors.Wrap(apperrors.ErrDecode, fmt.Errorf("%s %s: %w", method, path, err))
	}
	if err := a.validateResponse(out); err != nil {
		return apperrors.Wrap(apperrors.ErrDecode, fmt.Errorf("%s %s: %w", method, path, err))
	}
	return nil
}

// validateResponse checks a decoded struct, or every struct of a decoded slice.
func (a *APIClient) validateResponse(out interface{}) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return a.validate.Struct(v.Addr().Interface())
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			el := v.Index(i)
			if el.Kind() == reflect.Ptr {
				if el.IsNil() {
					return fmt.Errorf("element %d is null", i)
				}
				el = el.Elem()
			}
			if el.Kind() != reflect.Struct {
				continue
			}
			if err := a.validate.Struct(el.Addr().Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
