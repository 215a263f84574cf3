package data

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/commerce"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

const paymentProvidersTTL = time.Hour

type PaymentService struct {
	client CommerceClient
	store  cache.Cache
}

func NewPaymentService(client CommerceClient, store cache.Cache) PaymentService {
	return PaymentService{client: client, store: store}
}

func (svc PaymentService) ListPaymentProviders(
	c context.Context,
	regionID string,
) ([]commerce.PaymentProvider, error) {
	c, span := otel.Tracer.Start(c, "PaymentService ListPaymentProviders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PaymentService ListPaymentProviders").
		Str(log.KeyRegionID, regionID).
		Logger()

	key := cache.PaymentProvidersKey(regionID)
	cached, ok, err := cache.GetJSON[[]commerce.PaymentProvider](c, svc.store, key)
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	providers, err := svc.client.ListPaymentProviders(c, regionID)
	if err != nil {
		err = fmt.Errorf("failed listing payment providers with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	if err := cache.SetJSON(c, svc.store, key, providers, paymentProvidersTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return providers, nil
}
