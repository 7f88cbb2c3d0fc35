package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentmethod"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
)

// PaymentTokenizer turns the hosted widget's card token into a reusable payment-method handle.
type PaymentTokenizer interface {
	Tokenize(ctx context.Context, details models.PaymentDetails) (string, error)
}

// StripeTokenizer creates Stripe PaymentMethods from card tokens produced by Stripe.js.
type StripeTokenizer struct {
	methods paymentmethod.Client
	logger  *zap.Logger
}

func NewStripeTokenizer(secretKey string, logger *zap.Logger) *StripeTokenizer {
	return NewStripeTokenizerWithBackend(secretKey, stripe.GetBackend(stripe.APIBackend), logger)
}

// NewStripeTokenizerWithBackend lets callers point the client at another API host.
func NewStripeTokenizerWithBackend(secretKey string, backend stripe.Backend, logger *zap.Logger) *StripeTokenizer {
	return &StripeTokenizer{
		methods: paymentmethod.Client{B: backend, Key: secretKey},
		logger:  logger,
	}
}

func (s *StripeTokenizer) Tokenize(ctx context.Context, details models.PaymentDetails) (string, error) {
	token := strings.TrimSpace(details.CardToken)
	if !strings.HasPrefix(token, "tok_") {
		return "", apperrors.Wrap(apperrors.ErrPaymentMethod,
			&apperrors.ProviderError{Code: "invalid_token", Message: "Your card details could not be read. Please re-enter them."})
	}

	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{Token: stripe.String(token)},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name: stripe.String(details.BillingName),
			Address: &stripe.AddressParams{
				PostalCode: stripe.String(details.PostalCode),
			},
		},
	}
	params.Context = ctx

	pm, err := s.methods.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && (stripeErr.Type == stripe.ErrorTypeCard || stripeErr.Type == stripe.ErrorTypeInvalidRequest) {
			s.logger.Info("Payment method rejected",
				zap.String("code", string(stripeErr.Code)),
				zap.String("type", string(stripeErr.Type)))
			return "", apperrors.Wrap(apperrors.ErrPaymentMethod,
				&apperrors.ProviderError{Code: string(stripeErr.Code), Message: stripeErr.Msg})
		}
		s.logger.Error("Stripe tokenization failed", zap.Error(err))
		return "", apperrors.Wrap(apperrors.ErrPaymentMethod,
			&apperrors.ProviderError{Message: "An unexpected error occurred"})
	}
	return pm.ID, nil
}
