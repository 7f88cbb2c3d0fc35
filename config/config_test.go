package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/pharmacy-storefront/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("API_URL", "http://backend:5045/api/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://backend:5045/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "token", cfg.CredentialCookie)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
	assert.False(t, cfg.CloudWatchEnabled)
}

func TestLoad_RequiresStripeSecret(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_SECRET_NAME", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("STRIPE_SECRET_NAME", "prod/stripe")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := config.Load()
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
}
