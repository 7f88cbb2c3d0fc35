package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yashrajoria/pharmacy-storefront/cache"
	"github.com/yashrajoria/pharmacy-storefront/clients"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
	"github.com/yashrajoria/pharmacy-storefront/services"
)

// ---- mock cache ----

type mockCache struct {
	mu          sync.Mutex
	products    []models.Product
	sets        int
	invalidated int
	setDone     chan struct{}
}

func newMockCache() *mockCache {
	return &mockCache{setDone: make(chan struct{}, 1)}
}

func (m *mockCache) GetProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.products == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.products, nil
}

func (m *mockCache) SetProducts(_ context.Context, products []models.Product) error {
	m.mu.Lock()
	m.products = products
	m.sets++
	m.mu.Unlock()
	m.setDone <- struct{}{}
	return nil
}

func (m *mockCache) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	m.products = nil
	return nil
}

const productList = `[
	{"id": "p1", "title": "Paracetamol 500mg", "brand": "Acme", "price": 12.99, "stock": 10},
	{"id": "p2", "title": "Vitamin D3", "brand": "Sunny", "price": 24.99, "stock": 0}
]`

func TestListProducts_NoCache(t *testing.T) {
	api := newStubAPI().on(http.MethodGet, "/products", stubResponse{body: productList})
	svc := services.NewCatalogService(api, api, nil, nil, zap.NewNop())

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[0].InStock())
	assert.False(t, products[1].InStock())
}

func TestListProducts_FillsCacheThenServesFromIt(t *testing.T) {
	api := newStubAPI().on(http.MethodGet, "/products", stubResponse{body: productList})
	c := newMockCache()
	svc := services.NewCatalogService(api, api, c, &singleflight.Group{}, zap.NewNop())

	_, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	<-c.setDone

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, api.callCount(http.MethodGet, "/products"))
}

func TestListProducts_BackendError(t *testing.T) {
	api := newStubAPI().on(http.MethodGet, "/products", stubResponse{err: apperrors.ErrServiceUnavailable})
	svc := services.NewCatalogService(api, api, nil, nil, zap.NewNop())

	_, err := svc.ListProducts(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
}

func validProductRequest() models.CreateProductRequest {
	return models.CreateProductRequest{
		Title:       "Ibuprofen 200mg",
		Brand:       "Acme",
		Price:       decimal.RequireFromString("8.49"),
		Stock:       50,
		Image:       "https://cdn.example.com/ibuprofen.png",
		Description: "Pain relief",
		Ingredients: "Ibuprofen",
		HowToUse:    "One tablet every 6 hours",
	}
}

func TestAddProduct_InvalidatesCache(t *testing.T) {
	api := newStubAPI().on(http.MethodPost, "/products", stubResponse{body: `{"id": "p3", "title": "Ibuprofen 200mg", "price": 8.49, "stock": 50}`})
	c := newMockCache()
	svc := services.NewCatalogService(api, api, c, nil, zap.NewNop())

	created, err := svc.AddProduct(context.Background(), validProductRequest())
	require.NoError(t, err)
	assert.Equal(t, "p3", created.ID)
	assert.Equal(t, 1, c.invalidated)
}

func TestAddProduct_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateProductRequest)
		want   string
	}{
		{"missing title", func(r *models.CreateProductRequest) { r.Title = "" }, "title is required"},
		{"zero price", func(r *models.CreateProductRequest) { r.Price = decimal.Zero }, "price must be greater than 0"},
		{"negative stock", func(r *models.CreateProductRequest) { r.Stock = -1 }, "stock must be greater than or equal to 0"},
		{"missing how to use", func(r *models.CreateProductRequest) { r.HowToUse = "" }, "howToUse is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newStubAPI()
			svc := services.NewCatalogService(api, api, nil, nil, zap.NewNop())

			req := validProductRequest()
			tt.mutate(&req)
			_, err := svc.AddProduct(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, api.calls)
		})
	}
}

// gatedAPI holds the product load open until released.
type gatedAPI struct {
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	calls  int
	ctxErr error
}

func newGatedAPI() *gatedAPI {
	return &gatedAPI{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gatedAPI) Do(ctx context.Context, _, _ string, _, out interface{}, _ ...clients.RequestOption) error {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	g.entered <- struct{}{}
	<-g.release

	g.mu.Lock()
	g.ctxErr = ctx.Err()
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return json.Unmarshal([]byte(productList), out)
}

func (g *gatedAPI) state() (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls, g.ctxErr
}

func TestListProducts_SharedLoadIgnoresFirstCallersSession(t *testing.T) {
	group := &singleflight.Group{}
	public := newGatedAPI()
	sessionA := newStubAPI().on(http.MethodGet, "/products", stubResponse{err: apperrors.ErrAuthExpired})
	sessionB := newStubAPI()
	svcA := services.NewCatalogService(sessionA, public, nil, group, zap.NewNop())
	svcB := services.NewCatalogService(sessionB, public, nil, group, zap.NewNop())

	type result struct {
		products []models.Product
		err      error
	}
	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	resA := make(chan result, 1)
	resB := make(chan result, 1)

	go func() {
		p, err := svcA.ListProducts(ctxA)
		resA <- result{p, err}
	}()
	<-public.entered
	go func() {
		p, err := svcB.ListProducts(context.Background())
		resB <- result{p, err}
	}()
	time.Sleep(50 * time.Millisecond) // B joins the load in flight
	cancelA()
	close(public.release)

	a, b := <-resA, <-resB
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	assert.Len(t, b.products, 2)

	calls, ctxErr := public.state()
	assert.Equal(t, 1, calls)
	assert.NoError(t, ctxErr)
	assert.Zero(t, sessionA.callCount(http.MethodGet, "/products"))
	assert.Zero(t, sessionB.callCount(http.MethodGet, "/products"))
}

func TestListProducts_UnauthorizedListingIsNotNavigation(t *testing.T) {
	public := newStubAPI().on(http.MethodGet, "/products", stubResponse{
		err: apperrors.Wrap(apperrors.ErrAuthExpired, &apperrors.HTTPError{StatusCode: http.StatusUnauthorized}),
	})
	svc := services.NewCatalogService(newStubAPI(), public, nil, nil, zap.NewNop())

	_, err := svc.ListProducts(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.False(t, apperrors.IsNavigation(err))
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
}
