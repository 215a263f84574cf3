package controller

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/data"
	inHttp "github.com/verdantlabs/storefront/internal/http"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

type ProductController struct {
	products data.ProductService
	regions  data.RegionService
}

func AttachProductController(
	router *mux.Router,
	products data.ProductService,
	regions data.RegionService,
) {
	controller := ProductController{products: products, regions: regions}

	sub := router.PathPrefix("/products").Subrouter()
	sub.HandleFunc("", controller.ListProducts).Methods(http.MethodGet)
	sub.HandleFunc("/{handle}", controller.GetProductByHandle).Methods(http.MethodGet)
}

func (t ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController ListProducts")
	defer span.End()

	page := intQueryParam(r, "page", 1)
	limit := intQueryParam(r, "limit", data.DefaultPageLimit)
	sortBy := data.SortOption(r.URL.Query().Get("sort_by"))
	countryCode := r.URL.Query().Get("country_code")

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController ListProducts").
		Int(log.KeyPage, page).
		Int(log.KeyLimit, limit).
		Str(log.KeySortBy, string(sortBy)).
		Str(log.KeyCountryCode, countryCode).
		Logger()
	c = logger.WithContext(c)

	var result data.ProductListResult
	var err error
	if sortBy == "" || sortBy == data.SortCreatedAt {
		result, err = t.products.GetProductsList(c, page, limit, countryCode)
	} else {
		result, err = t.products.GetProductsListWithSort(c, page, limit, sortBy, countryCode)
	}
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed products",
		"data": map[string]interface{}{
			"products":  result.Products,
			"count":     result.Count,
			"next_page": result.NextPage,
		},
	})
}

func (t ProductController) GetProductByHandle(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController GetProductByHandle")
	defer span.End()

	handle := mux.Vars(r)["handle"]
	countryCode := r.URL.Query().Get("country_code")

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController GetProductByHandle").
		Str(log.KeySlug, handle).
		Str(log.KeyCountryCode, countryCode).
		Logger()
	c = logger.WithContext(c)

	region, err := t.regions.GetRegion(c, countryCode)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	product, err := t.products.GetProductByHandle(c, handle, region.ID, data.ProductListFields)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully retrieved product",
		"data":       map[string]interface{}{"product": product},
	})
}

func intQueryParam(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
