package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"golang.org/x/sync/singleflight"
)

// StripeKeyField is the key read from a JSON secret holding the Stripe credentials.
const StripeKeyField = "STRIPE_SECRET_KEY"

// SecretsClient resolves secret strings. Each secret is fetched once;
// concurrent first reads share one call.
type SecretsClient struct {
	client  *secretsmanager.Client
	lookups singleflight.Group

	mu     sync.RWMutex
	values map[string]string
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{
		client: secretsmanager.NewFromConfig(cfg),
		values: make(map[string]string),
	}
}

// GetSecret returns the whole secret string for name.
func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	v, ok := s.values[name]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := s.lookups.Do(name, func() (interface{}, error) {
		// shared by every waiter, so not bound to the first caller's cancellation
		out, err := s.client.GetSecretValue(context.WithoutCancel(ctx), &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
		if err != nil {
			return "", fmt.Errorf("failed to get secret %s: %w", name, err)
		}
		value := strings.TrimSpace(sdkaws.ToString(out.SecretString))
		if value == "" {
			return "", fmt.Errorf("secret %s has no string value", name)
		}
		s.mu.Lock()
		s.values[name] = value
		s.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// GetSecretField reads one key of a JSON secret. A secret that is not a JSON
// object is returned whole, so a bare "sk_..." secret works as well.
func (s *SecretsClient) GetSecretField(ctx context.Context, name, field string) (string, error) {
	raw, err := s.GetSecret(ctx, name)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(raw, "{") {
		return raw, nil
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a flat JSON object: %w", name, err)
	}
	v := strings.TrimSpace(fields[field])
	if v == "" {
		return "", fmt.Errorf("secret %s has no %s", name, field)
	}
	return v, nil
}
