package services_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	awspkg "github.com/yashrajoria/pharmacy-storefront/pkg/aws"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

// ---- mock archive ----

type mockArchive struct {
	keys []string
	err  error
}

func (m *mockArchive) Put(_ context.Context, key string, _ []byte, _ string) error {
	m.keys = append(m.keys, key)
	return m.err
}

const sampleOrder = `{
	"id": "order-1",
	"userId": "u-1",
	"createdAt": "2024-05-01T10:00:00Z",
	"status": "Paid",
	"items": [
		{"productId": "p1", "productName": "Paracetamol 500mg", "quantity": 2, "price": 12.99},
		{"productId": "p2", "productName": "Vitamin D3", "quantity": 1, "price": 24.99}
	],
	"totalPrice": 50.97
}`

func TestGetOrder_WithoutCredentialIsTerminal(t *testing.T) {
	api := newStubAPI()
	svc := services.NewInvoiceService(api, &memStore{}, nil, nil, zap.NewNop())

	_, err := svc.GetOrder(context.Background(), "order-1")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.Equal(t, "Authentication token not found", apperrors.UserMessage(err))
	assert.False(t, apperrors.IsNavigation(err))
	assert.Empty(t, api.calls)
}

func TestGetOrder_RendersView(t *testing.T) {
	api := newStubAPI().on(http.MethodGet, "/orders/order-1", stubResponse{body: sampleOrder})
	svc := services.NewInvoiceService(api, &memStore{token: validToken(t)}, nil, nil, zap.NewNop())

	order, err := svc.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)

	view := svc.View()
	require.NotNil(t, view)
	assert.Equal(t, "Pharmaci Inc.", view.SellerName)
	assert.Equal(t, "u-1", view.BilledTo)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "25.98", view.Lines[0].Total.StringFixed(2))
	assert.Equal(t, "50.97", view.Subtotal.StringFixed(2))
	assert.True(t, view.Tax.IsZero())
	assert.Equal(t, "50.97", view.Total.StringFixed(2))
}

func TestGetOrder_NotFound(t *testing.T) {
	api := newStubAPI().on(http.MethodGet, "/orders/missing", stubResponse{
		err: apperrors.Wrap(apperrors.ErrNotFound, &apperrors.HTTPError{StatusCode: http.StatusNotFound}),
	})
	svc := services.NewInvoiceService(api, &memStore{token: validToken(t)}, nil, nil, zap.NewNop())

	_, err := svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, svc.View())
}

func TestExport_NothingRendered(t *testing.T) {
	svc := services.NewInvoiceService(newStubAPI(), &memStore{token: validToken(t)}, nil, nil, zap.NewNop())

	_, err := svc.Export(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvoiceNotRendered)
}

func TestExport_ProducesPDFAndArchives(t *testing.T) {
	api := newStubAPI().on(http.MethodGet, "/orders/order-1", stubResponse{body: sampleOrder})
	archive := &mockArchive{}
	metrics := newCountingMetrics()
	svc := services.NewInvoiceService(api, &memStore{token: validToken(t)}, archive, metrics, zap.NewNop())

	_, err := svc.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "invoice-order-1.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Equal(t, []string{"invoices/order-1.pdf"}, archive.keys)
	assert.Equal(t, 1, metrics.counts[awspkg.MetricInvoicesExported])
}

func TestExport_ArchiveFailureStillDownloads(t *testing.T) {
	api := newStubAPI().on(http.MethodGet, "/orders/order-1", stubResponse{body: sampleOrder})
	archive := &mockArchive{err: errors.New("access denied")}
	svc := services.NewInvoiceService(api, &memStore{token: validToken(t)}, archive, nil, zap.NewNop())

	_, err := svc.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Data)
}
