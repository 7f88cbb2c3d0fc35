package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/clients"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
	awspkg "github.com/yashrajoria/pharmacy-storefront/pkg/aws"
	"github.com/yashrajoria/pharmacy-storefront/tracing"
)

type CheckoutState int

const (
	CheckoutLoading CheckoutState = iota
	CheckoutEmpty
	CheckoutReady
	CheckoutTokenizing
	CheckoutSubmitting
	CheckoutCompleted
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutLoading:
		return "loading"
	case CheckoutEmpty:
		return "empty"
	case CheckoutReady:
		return "ready"
	case CheckoutTokenizing:
		return "tokenizing"
	case CheckoutSubmitting:
		return "submitting"
	case CheckoutCompleted:
		return "completed"
	default:
		return fmt.Sprintf("CheckoutState(%d)", int(s))
	}
}

// CheckoutFlow drives one checkout attempt:
//
//	Loading -> Empty | Ready
//	Ready -> Tokenizing -> Ready (error) | Submitting
//	Submitting -> Ready (error) | Completed
//
// Completed and Empty are terminal.
type CheckoutFlow struct {
	api       clients.Requester
	cart      *CartService
	tokenizer clients.PaymentTokenizer
	metrics   MetricsRecorder
	logger    *zap.Logger

	state   CheckoutState
	orderID string
	lastErr error
}

func NewCheckoutFlow(api clients.Requester, cart *CartService, tokenizer clients.PaymentTokenizer, metrics MetricsRecorder, logger *zap.Logger) *CheckoutFlow {
	return &CheckoutFlow{
		api:       api,
		cart:      cart,
		tokenizer: tokenizer,
		metrics:   recorderOrNoop(metrics),
		logger:    logger,
		state:     CheckoutLoading,
	}
}

func (f *CheckoutFlow) State() CheckoutState { return f.state }

// OrderID is set once the flow is Completed.
func (f *CheckoutFlow) OrderID() string { return f.orderID }

// LastError is the error shown inline in the Ready state, if any.
func (f *CheckoutFlow) LastError() error { return f.lastErr }

// Cart is the cart being paid for; nil before Load.
func (f *CheckoutFlow) Cart() *models.Cart { return f.cart.Cart() }

// Total is the server-computed amount shown on the pay button.
func (f *CheckoutFlow) Total() decimal.Decimal {
	if c := f.cart.Cart(); c != nil {
		return c.TotalPrice
	}
	return decimal.Zero
}

// Load fetches the cart. A missing cart or a failed fetch ends in Empty.
// An expired session is returned so the caller can navigate to login.
func (f *CheckoutFlow) Load(ctx context.Context) error {
	if f.state != CheckoutLoading {
		return apperrors.ErrInvalidTransition
	}
	cart, err := f.cart.FetchCart(ctx)
	if err != nil {
		f.state = CheckoutEmpty
		if apperrors.IsNavigation(err) {
			return err
		}
		return nil
	}
	if cart.IsEmpty() {
		f.state = CheckoutEmpty
		return nil
	}
	f.state = CheckoutReady
	return nil
}

// Submit pays for the loaded cart and returns the new order id.
// On any failure the flow is back in Ready with the cart untouched.
func (f *CheckoutFlow) Submit(ctx context.Context, details models.PaymentDetails) (orderID string, err error) {
	if f.state == CheckoutEmpty {
		return "", apperrors.Wrap(apperrors.ErrInvalidTransition, apperrors.ErrEmptyCart)
	}
	if f.state != CheckoutReady {
		return "", apperrors.ErrInvalidTransition
	}
	f.lastErr = nil

	ctx, span := tracing.StartSpan(ctx, "checkout.submit", trace.WithAttributes(
		attribute.String("cart.total", f.Total().StringFixed(2)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.String("checkout.state", f.state.String()))
		span.End()
	}()

	if err := validateRequest(details); err != nil {
		return "", f.fail(err)
	}

	f.state = CheckoutTokenizing
	paymentMethodID, err := f.tokenizer.Tokenize(ctx, details)
	if err != nil {
		f.logger.Warn("Card tokenization failed", zap.Error(err))
		recordCount(ctx, f.metrics, f.logger, awspkg.MetricTokenizationFailed, nil)
		if !errors.Is(err, apperrors.ErrPaymentMethod) {
			err = apperrors.Wrap(apperrors.ErrPaymentMethod, err)
		}
		return "", f.fail(err)
	}

	f.state = CheckoutSubmitting
	recordCount(ctx, f.metrics, f.logger, awspkg.MetricCheckoutSubmitted, nil)

	var resp models.CheckoutResponse
	err = f.api.Do(ctx, http.MethodPost, "/payment/checkout",
		models.CheckoutRequest{PaymentMethodID: paymentMethodID}, &resp,
		clients.WithHeader("Idempotency-Key", uuid.NewString()))
	if err != nil {
		f.logger.Error("Checkout request failed", zap.Error(err))
		recordCount(ctx, f.metrics, f.logger, awspkg.MetricCheckoutFailed, nil)
		if apperrors.IsNavigation(err) {
			return "", f.fail(err)
		}
		return "", f.fail(apperrors.Wrap(apperrors.ErrPaymentFailed, err))
	}

	f.state = CheckoutCompleted
	f.orderID = resp.ID
	recordCount(ctx, f.metrics, f.logger, awspkg.MetricCheckoutCompleted, nil)
	f.logger.Info("Checkout completed", zap.String("order_id", resp.ID))
	return resp.ID, nil
}

func (f *CheckoutFlow) fail(err error) error {
	f.state = CheckoutReady
	f.lastErr = err
	return err
}
