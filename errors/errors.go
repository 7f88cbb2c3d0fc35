package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same kind of application error.
// Wrapped copies of a sentinel match the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause. Sentinels are never mutated.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// HTTPError describes a non-2xx answer from the backend.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream error: status=%d body=%s", e.StatusCode, e.Body)
}

// StatusOf returns the backend status carried by err, or 0 when there is none.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// ProviderError carries a message from the payment provider that is safe to show inline.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment provider: %s (%s)", e.Message, e.Code)
	}
	return "payment provider: " + e.Message
}

func (e *ProviderError) UserMessage() string { return e.Message }

// UserMessage returns the text a view shows for err.
func UserMessage(err error) string {
	var shown interface{ UserMessage() string }
	if stderrors.As(err, &shown) && shown.UserMessage() != "" {
		return shown.UserMessage()
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}

var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrInternal           = New(http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Session and authorization errors
var (
	// ErrAuthExpired is returned by the API client when the backend rejects the credential.
	// The credential has already been erased when a caller sees it.
	ErrAuthExpired = New(http.StatusUnauthorized, "Session expired", nil)
	// ErrLoginRequired is returned before any backend call when an action needs a session.
	ErrLoginRequired = New(http.StatusUnauthorized, "Login required", nil)
	// ErrNotAuthenticated is terminal: the view cannot load without a credential.
	ErrNotAuthenticated   = New(http.StatusUnauthorized, "Authentication token not found", nil)
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Upstream errors
var (
	ErrUpstream = New(http.StatusBadGateway, "Upstream request failed", nil)
	ErrDecode   = New(http.StatusBadGateway, "Malformed upstream response", nil)
)

// Validation errors
var (
	ErrValidation = New(http.StatusBadRequest, "Validation error", nil)
)

// Business logic errors
var (
	ErrPaymentMethod      = New(http.StatusBadRequest, "Invalid payment details", nil)
	ErrPaymentFailed      = New(http.StatusPaymentRequired, "Payment failed. Please try again.", nil)
	ErrEmptyCart          = New(http.StatusBadRequest, "Your cart is empty", nil)
	ErrInvalidTransition  = New(http.StatusConflict, "Checkout is not ready", nil)
	ErrInvoiceNotRendered = New(http.StatusConflict, "Invoice is not rendered yet", nil)
)

// IsNavigation reports whether err must send the user to the login view.
func IsNavigation(err error) bool {
	return stderrors.Is(err, ErrAuthExpired) || stderrors.Is(err, ErrLoginRequired)
}
