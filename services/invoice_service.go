package services

import (
	"context"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	"github.com/yashrajoria/pharmacy-storefront/clients"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/invoice"
	"github.com/yashrajoria/pharmacy-storefront/models"
	awspkg "github.com/yashrajoria/pharmacy-storefront/pkg/aws"
	"github.com/yashrajoria/pharmacy-storefront/tracing"
)

// InvoiceArchiver keeps a copy of exported invoices.
type InvoiceArchiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Document is an exported file ready for download
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

type InvoiceService struct {
	api      clients.Requester
	creds    auth.CredentialStore
	archive  InvoiceArchiver
	metrics  MetricsRecorder
	logger   *zap.Logger
	rendered *invoice.View
}

// NewInvoiceService builds the invoice view. archive and metrics may be nil.
func NewInvoiceService(api clients.Requester, creds auth.CredentialStore, archive InvoiceArchiver, metrics MetricsRecorder, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		api:     api,
		creds:   creds,
		archive: archive,
		metrics: recorderOrNoop(metrics),
		logger:  logger,
	}
}

// GetOrder loads an order and renders its invoice view. Without a stored
// credential it fails with ErrNotAuthenticated before calling the backend.
func (s *InvoiceService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if _, ok := s.creds.Token(); !ok {
		return nil, apperrors.ErrNotAuthenticated
	}

	var order models.Order
	if err := s.api.Do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &order); err != nil {
		s.logger.Error("Error fetching order", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}
	s.rendered = invoice.NewView(&order)
	return &order, nil
}

// View is the rendered invoice, nil until GetOrder succeeds.
func (s *InvoiceService) View() *invoice.View {
	return s.rendered
}

// Export turns the rendered invoice into a PDF download.
func (s *InvoiceService) Export(ctx context.Context) (*Document, error) {
	if s.rendered == nil {
		s.logger.Error("Invoice not rendered, cannot export PDF")
		return nil, apperrors.ErrInvoiceNotRendered
	}

	ctx, span := tracing.StartSpan(ctx, "invoice.export", trace.WithAttributes(
		attribute.String("order.id", s.rendered.OrderID),
		attribute.Int("invoice.lines", len(s.rendered.Lines)),
	))
	defer span.End()

	data, err := invoice.RenderPDF(s.rendered)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to render invoice PDF", zap.String("order_id", s.rendered.OrderID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	doc := &Document{
		Filename:    invoice.Filename(s.rendered.OrderID),
		ContentType: "application/pdf",
		Data:        data,
	}
	span.SetAttributes(attribute.Int("invoice.bytes", len(data)))

	recordCount(ctx, s.metrics, s.logger, awspkg.MetricInvoicesExported, nil)

	if s.archive != nil {
		key := "invoices/" + s.rendered.OrderID + ".pdf"
		if err := s.archive.Put(ctx, key, data, doc.ContentType); err != nil {
			s.logger.Warn("Failed to archive invoice", zap.String("key", key), zap.Error(err))
		}
	}
	return doc, nil
}
