package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yashrajoria/pharmacy-storefront/cache"
	"github.com/yashrajoria/pharmacy-storefront/clients"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
)

const productsFlightKey = "products:all"

// CatalogService reads and extends the public product catalog.
type CatalogService struct {
	api     clients.Requester // the browser's session, for writes
	catalog clients.Requester // credential-free, for the shared listing
	cache   cache.ProductCache
	group   *singleflight.Group
	logger  *zap.Logger
}

// NewCatalogService builds a catalog service. productCache may be nil; group is
// shared across requests so concurrent page loads hit the backend once. The
// shared load runs on catalog, which must not carry any browser's credential.
func NewCatalogService(api, catalog clients.Requester, productCache cache.ProductCache, group *singleflight.Group, logger *zap.Logger) *CatalogService {
	if group == nil {
		group = &singleflight.Group{}
	}
	return &CatalogService{api: api, catalog: catalog, cache: productCache, group: group, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		products, err := s.cache.GetProducts(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Product cache read failed", zap.Error(err))
		}
	}

	v, err, shared := s.group.Do(productsFlightKey, func() (interface{}, error) {
		// waiters from other requests must not inherit the first caller's cancellation;
		// the client timeout still bounds the call
		fetchCtx := context.WithoutCancel(ctx)
		var products []models.Product
		if err := s.catalog.Do(fetchCtx, http.MethodGet, "/products", nil, &products); err != nil {
			if apperrors.IsNavigation(err) {
				// no credential was sent, so no browser's session is at fault
				return nil, apperrors.Wrap(apperrors.ErrUpstream, errors.Unwrap(err))
			}
			return nil, err
		}
		return products, nil
	})
	if err != nil {
		s.logger.Error("Failed to load products", zap.Error(err))
		return nil, err
	}
	products := v.([]models.Product)
	if shared {
		s.logger.Debug("Product load shared with a concurrent request")
	}

	if s.cache != nil {
		go s.storeAsync(products)
	}
	return products, nil
}

// storeAsync writes the cache off the request path
func (s *CatalogService) storeAsync(products []models.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cache.SetProducts(ctx, products); err != nil {
		s.logger.Warn("Failed to cache products", zap.Error(err))
	}
}

// AddProduct creates a catalog entry and drops the cached listing.
func (s *CatalogService) AddProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Price.IsPositive() {
		return nil, apperrors.Wrap(apperrors.ErrValidation, FieldErrors{"price must be greater than 0"})
	}

	var created models.Product
	if err := s.api.Do(ctx, http.MethodPost, "/products", req, &created); err != nil {
		s.logger.Error("Failed to create product", zap.String("title", req.Title), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
		}
	}
	s.logger.Info("Product created", zap.String("product_id", created.ID), zap.String("title", created.Title))
	return &created, nil
}
