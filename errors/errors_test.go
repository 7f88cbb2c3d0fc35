package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
)

func TestWrap_MatchesSentinelWithoutMutatingIt(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := apperrors.Wrap(apperrors.ErrUpstream, cause)

	assert.True(t, stderrors.Is(err, apperrors.ErrUpstream))
	assert.False(t, stderrors.Is(err, apperrors.ErrDecode))
	assert.True(t, stderrors.Is(err, cause))
	assert.Nil(t, apperrors.ErrUpstream.Err)
	assert.Equal(t, "Upstream request failed: boom", err.Error())
}

func TestIsNavigation(t *testing.T) {
	assert.True(t, apperrors.IsNavigation(apperrors.Wrap(apperrors.ErrAuthExpired, &apperrors.HTTPError{StatusCode: 401})))
	assert.True(t, apperrors.IsNavigation(fmt.Errorf("add item: %w", apperrors.ErrLoginRequired)))
	assert.False(t, apperrors.IsNavigation(apperrors.ErrNotAuthenticated))
	assert.False(t, apperrors.IsNavigation(apperrors.ErrInvalidCredentials))
	assert.False(t, apperrors.IsNavigation(nil))
}

func TestUserMessage(t *testing.T) {
	provider := apperrors.Wrap(apperrors.ErrPaymentMethod, &apperrors.ProviderError{Code: "card_declined", Message: "Your card was declined."})

	assert.Equal(t, "Your card was declined.", apperrors.UserMessage(provider))
	assert.Equal(t, "Not found", apperrors.UserMessage(apperrors.Wrap(apperrors.ErrNotFound, stderrors.New("x"))))
	assert.Equal(t, apperrors.ErrInternal.Message, apperrors.UserMessage(stderrors.New("raw")))
}

func TestStatusOf(t *testing.T) {
	err := apperrors.Wrap(apperrors.ErrUpstream, &apperrors.HTTPError{StatusCode: http.StatusTeapot, Body: "short"})
	assert.Equal(t, http.StatusTeapot, apperrors.StatusOf(err))
	assert.Zero(t, apperrors.StatusOf(stderrors.New("plain")))
}
