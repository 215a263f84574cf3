package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/data"
	inHttp "github.com/verdantlabs/storefront/internal/http"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

type RegionController struct {
	regions  data.RegionService
	payments data.PaymentService
}

func AttachRegionController(
	router *mux.Router,
	regions data.RegionService,
	payments data.PaymentService,
) {
	controller := RegionController{regions: regions, payments: payments}

	router.HandleFunc("/regions", controller.ListRegions).Methods(http.MethodGet)
	router.HandleFunc("/payment-providers", controller.ListPaymentProviders).
		Methods(http.MethodGet)
}

func (t RegionController) ListRegions(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "RegionController ListRegions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RegionController ListRegions").
		Logger()
	c = logger.WithContext(c)

	regions, err := t.regions.ListRegions(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed regions",
		"data":       map[string]interface{}{"regions": regions},
	})
}

func (t RegionController) ListPaymentProviders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "RegionController ListPaymentProviders")
	defer span.End()

	regionID := r.URL.Query().Get("region_id")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RegionController ListPaymentProviders").
		Str(log.KeyRegionID, regionID).
		Logger()
	c = logger.WithContext(c)

	providers, err := t.payments.ListPaymentProviders(c, regionID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed payment providers",
		"data":       map[string]interface{}{"payment_providers": providers},
	})
}
