package data

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/commerce"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryStore) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) CancelPending(string) {}

func (m *memoryStore) Lock(string) func() { return func() {} }

var _ cache.Cache = (*memoryStore)(nil)

// stubCommerce embeds the interface so only overridden methods are callable.
type stubCommerce struct {
	CommerceClient
	products []commerce.Product
	regions  []commerce.Region
}

func (s stubCommerce) ListProducts(
	_ context.Context,
	params commerce.ListProductsParams,
) (commerce.ProductsPage, error) {
	offset := params.Offset
	if offset > len(s.products) {
		offset = len(s.products)
	}
	end := offset + params.Limit
	if params.Limit <= 0 || end > len(s.products) {
		end = len(s.products)
	}
	return commerce.ProductsPage{
		Products: s.products[offset:end],
		Count:    len(s.products),
		Limit:    params.Limit,
		Offset:   params.Offset,
	}, nil
}

func (s stubCommerce) ListRegions(context.Context) ([]commerce.Region, error) {
	return s.regions, nil
}

func usRegion() []commerce.Region {
	return []commerce.Region{
		{
			ID:           "reg_us",
			Name:         "North America",
			CurrencyCode: "usd",
			Countries:    []commerce.Country{{ISO2: "us"}, {ISO2: "ca"}},
		},
	}
}

func catalog(size int) []commerce.Product {
	products := make([]commerce.Product, 0, size)
	for i := 0; i < size; i++ {
		products = append(products, commerce.Product{
			ID:     fmt.Sprintf("prod_%03d", i),
			Handle: fmt.Sprintf("product-%03d", i),
			Title:  fmt.Sprintf("Product %03d", i),
			Variants: []commerce.Variant{
				{
					ID: fmt.Sprintf("variant_%03d", i),
					CalculatedPrice: &commerce.CalculatedPrice{
						// Descending prices so ascending sort must reorder.
						CalculatedAmount: int64(10000 - i*7),
					},
				},
			},
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}
	return products
}

func newProductService(products []commerce.Product) ProductService {
	client := stubCommerce{products: products, regions: usRegion()}
	regions := NewRegionService(client, newMemoryStore(), "us")
	return NewProductService(client, newMemoryStore(), regions)
}

func TestGetProductsListPagination(t *testing.T) {
	svc := newProductService(catalog(15))

	first, err := svc.GetProductsList(context.Background(), 1, 12, "us")
	assert.NoError(t, err)
	assert.Len(t, first.Products, 12)
	assert.Equal(t, 15, first.Count)
	if assert.NotNil(t, first.NextPage) {
		assert.Equal(t, 2, *first.NextPage)
	}

	second, err := svc.GetProductsList(context.Background(), 2, 12, "us")
	assert.NoError(t, err)
	assert.Len(t, second.Products, 3)
	assert.Nil(t, second.NextPage, "last page has no next page")
}

func TestGetProductsListDefaultsPageAndLimit(t *testing.T) {
	svc := newProductService(catalog(15))

	result, err := svc.GetProductsList(context.Background(), 0, 0, "us")
	assert.NoError(t, err)
	assert.Len(t, result.Products, DefaultPageLimit)
}

func TestGetProductsListUnknownCountryIsEmpty(t *testing.T) {
	svc := newProductService(catalog(5))

	result, err := svc.GetProductsList(context.Background(), 1, 12, "zz")
	assert.NoError(t, err)
	assert.Empty(t, result.Products)
	assert.Nil(t, result.NextPage)
}

func TestGetProductsListWithSortPriceAscending(t *testing.T) {
	svc := newProductService(catalog(100))

	result, err := svc.GetProductsListWithSort(context.Background(), 1, 12, SortPriceAsc, "us")
	assert.NoError(t, err)
	assert.Len(t, result.Products, 12)

	var previous int64 = -1
	for _, product := range result.Products {
		price := product.Variants[0].CalculatedPrice.CalculatedAmount
		assert.GreaterOrEqual(t, price, previous, "prices must be ascending")
		previous = price
	}
	// The cheapest product overall is the last one in the fixture.
	assert.Equal(t, "prod_099", result.Products[0].ID)
}

func TestGetProductsListWithSortWindowBeyondFetchLimit(t *testing.T) {
	// 120 products in the catalog, but the sorted listing only sees the
	// first 100 fetched.
	svc := newProductService(catalog(120))

	last, err := svc.GetProductsListWithSort(context.Background(), 9, 12, SortPriceAsc, "us")
	assert.NoError(t, err)
	assert.Len(t, last.Products, 4, "window is clamped to the 100 fetched products")
}

func TestGetProductsListWithSortPriceDescending(t *testing.T) {
	svc := newProductService(catalog(30))

	result, err := svc.GetProductsListWithSort(context.Background(), 1, 12, SortPriceDesc, "us")
	assert.NoError(t, err)
	assert.Equal(t, "prod_000", result.Products[0].ID, "most expensive product first")
}

func TestGetRegionFallsBackToDefault(t *testing.T) {
	client := stubCommerce{regions: usRegion()}
	svc := NewRegionService(client, newMemoryStore(), "us")

	region, err := svc.GetRegion(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, "reg_us", region.ID)
}
