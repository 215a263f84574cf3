package data

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/commerce"
	inErrors "github.com/verdantlabs/storefront/internal/errors"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

const (
	// DefaultPageLimit is the storefront's listing page size.
	DefaultPageLimit = 12

	// sortFetchLimit caps how many products the sorted listing fetches before
	// sorting client-side. The backend cannot sort for this use case, so
	// products beyond this window are not visible to sort-based listing.
	// This is a documented limitation, not a bug.
	sortFetchLimit = 100
)

// ProductListFields mirrors the storefront listing projection.
var ProductListFields = strings.Join([]string{
	"id",
	"handle",
	"title",
	"thumbnail",
	"*images",
	"*variants.calculated_price",
}, ",")

type SortOption string

const (
	SortCreatedAt SortOption = "created_at"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
)

type ProductService struct {
	client  CommerceClient
	store   cache.Cache
	regions RegionService
}

func NewProductService(client CommerceClient, store cache.Cache, regions RegionService) ProductService {
	return ProductService{client: client, store: store, regions: regions}
}

type ProductListResult struct {
	Products []commerce.Product `json:"products"`
	Count    int                `json:"count"`
	// NextPage is the 1-based number of the following page, or nil when this
	// page is the last one.
	NextPage *int `json:"next_page"`
}

// GetProductsList returns one 1-based page of the region-scoped product
// listing plus the next-page indicator.
func (svc ProductService) GetProductsList(
	c context.Context,
	page int,
	limit int,
	countryCode string,
) (ProductListResult, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductsList")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService GetProductsList").
		Int(log.KeyPage, page).
		Int(log.KeyLimit, limit).
		Str(log.KeyCountryCode, countryCode).
		Logger()

	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	region, err := svc.regions.GetRegion(c, countryCode)
	if err != nil {
		if inErrors.IsNotFound(err) {
			logger.Warn().Err(err).Msg("no region resolved, returning empty listing")
			return ProductListResult{Products: []commerce.Product{}}, nil
		}
		return ProductListResult{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "listing products from backend").Logger()
	logger.Info().Msg("listing products from backend")
	backendPage, err := svc.client.ListProducts(c, commerce.ListProductsParams{
		RegionID: region.ID,
		Fields:   ProductListFields,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		err = fmt.Errorf("failed listing products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return ProductListResult{}, err
	}
	logger.Info().Msgf("listed %d of %d products", len(backendPage.Products), backendPage.Count)

	result := ProductListResult{Products: backendPage.Products, Count: backendPage.Count}
	if backendPage.Count > offset+limit {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}

// GetProductsListWithSort fetches up to sortFetchLimit products, sorts them
// client-side by the requested key, and slices out the requested page window.
func (svc ProductService) GetProductsListWithSort(
	c context.Context,
	page int,
	limit int,
	sortBy SortOption,
	countryCode string,
) (ProductListResult, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductsListWithSort")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService GetProductsListWithSort").
		Int(log.KeyPage, page).
		Int(log.KeyLimit, limit).
		Str(log.KeySortBy, string(sortBy)).
		Logger()

	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if page < 1 {
		page = 1
	}
	if sortBy == "" {
		sortBy = SortCreatedAt
	}

	all, err := svc.GetProductsList(c, 1, sortFetchLimit, countryCode)
	if err != nil {
		return ProductListResult{}, err
	}

	sorted := sortProducts(all.Products, sortBy)

	start := (page - 1) * limit
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	logger.Info().Msgf("sorted %d products, returning window [%d:%d]", len(sorted), start, end)

	result := ProductListResult{Products: sorted[start:end], Count: all.Count}
	if all.Count > start+limit {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}

// GetProductByHandle looks a product up by its normalized handle, first via a
// direct handle query, then by scanning pages when the backend match was not
// exact.
func (svc ProductService) GetProductByHandle(
	c context.Context,
	handle string,
	regionID string,
	fields string,
) (commerce.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductByHandle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService GetProductByHandle").
		Str(log.KeyRegionID, regionID).
		Logger()

	normalized := handle
	if decoded, err := url.QueryUnescape(handle); err == nil {
		normalized = decoded
	}
	normalized = strings.ToLower(normalized)

	key := cache.ProductKey(normalized, fields, regionID)
	cached, ok, err := cache.GetJSON[commerce.Product](c, svc.store, key)
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	initial, err := svc.client.ListProducts(c, commerce.ListProductsParams{
		Handle:   normalized,
		RegionID: regionID,
		Fields:   fields,
		Limit:    1,
	})
	if err != nil {
		err = fmt.Errorf("failed listing products by handle=%s with error=%w", normalized, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Product{}, err
	}
	if len(initial.Products) > 0 &&
		strings.ToLower(initial.Products[0].Handle) == normalized {
		svc.cacheProduct(c, span, key, initial.Products[0])
		return initial.Products[0], nil
	}

	logger.Info().Msgf("no exact match for handle=%s, scanning pages", normalized)
	offset := 0
	for {
		page, err := svc.client.ListProducts(c, commerce.ListProductsParams{
			RegionID: regionID,
			Fields:   fields,
			Limit:    sortFetchLimit,
			Offset:   offset,
		})
		if err != nil {
			err = fmt.Errorf("failed scanning products with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return commerce.Product{}, err
		}
		for _, product := range page.Products {
			if strings.ToLower(product.Handle) == normalized {
				svc.cacheProduct(c, span, key, product)
				return product, nil
			}
		}
		offset += sortFetchLimit
		if len(page.Products) == 0 || offset >= page.Count {
			break
		}
	}

	err = inErrors.NotFound(fmt.Sprintf("no product with handle=%s", normalized))
	otel.RecordError(err, span)
	logger.Warn().Err(err).Msg(err.Error())
	return commerce.Product{}, err
}

func (svc ProductService) GetProductsByID(
	c context.Context,
	ids []string,
	regionID string,
) ([]commerce.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductsByID")
	defer span.End()

	page, err := svc.client.ListProducts(c, commerce.ListProductsParams{
		IDs:      ids,
		RegionID: regionID,
		Fields:   ProductListFields,
	})
	if err != nil {
		err = fmt.Errorf("failed listing products by ids with error=%w", err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return page.Products, nil
}

func (svc ProductService) cacheProduct(
	c context.Context,
	span trace.Span,
	key string,
	product commerce.Product,
) {
	if err := cache.SetJSON(c, svc.store, key, product, cache.DefaultTTL); err != nil {
		otel.RecordError(err, span)
		zerolog.Ctx(c).Warn().Err(err).Msg(err.Error())
	}
}

// minCalculatedPrice is the price a product sorts by: the cheapest variant's
// calculated amount. Products with no priced variant sort last under
// ascending order.
func minCalculatedPrice(product commerce.Product) (int64, bool) {
	var best int64
	found := false
	for _, variant := range product.Variants {
		if variant.CalculatedPrice == nil {
			continue
		}
		amount := variant.CalculatedPrice.CalculatedAmount
		if !found || amount < best {
			best = amount
			found = true
		}
	}
	return best, found
}

func sortProducts(products []commerce.Product, sortBy SortOption) []commerce.Product {
	sorted := append([]commerce.Product(nil), products...)

	switch sortBy {
	case SortPriceAsc, SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			left, leftOK := minCalculatedPrice(sorted[i])
			right, rightOK := minCalculatedPrice(sorted[j])
			if leftOK != rightOK {
				return leftOK
			}
			if sortBy == SortPriceDesc {
				return left > right
			}
			return left < right
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}
