package data

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/commerce"
	inErrors "github.com/verdantlabs/storefront/internal/errors"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

const regionTTL = time.Hour

type RegionService struct {
	client        CommerceClient
	store         cache.Cache
	defaultRegion string
}

func NewRegionService(client CommerceClient, store cache.Cache, defaultRegion string) RegionService {
	if defaultRegion == "" {
		defaultRegion = "us"
	}
	return RegionService{client: client, store: store, defaultRegion: defaultRegion}
}

func (svc RegionService) ListRegions(c context.Context) ([]commerce.Region, error) {
	c, span := otel.Tracer.Start(c, "RegionService ListRegions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RegionService ListRegions").
		Logger()

	cached, ok, err := cache.GetJSON[[]commerce.Region](c, svc.store, cache.RegionsKey())
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	logger = logger.With().Str(log.KeyProcess, "listing regions from backend").Logger()
	logger.Info().Msg("listing regions from backend")
	regions, err := svc.client.ListRegions(c)
	if err != nil {
		err = fmt.Errorf("failed listing regions with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("listed %d regions from backend", len(regions))

	if err := cache.SetJSON(c, svc.store, cache.RegionsKey(), regions, regionTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return regions, nil
}

func (svc RegionService) RetrieveRegion(c context.Context, id string) (commerce.Region, error) {
	c, span := otel.Tracer.Start(c, "RegionService RetrieveRegion")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RegionService RetrieveRegion").
		Str(log.KeyRegionID, id).
		Logger()

	region, err := svc.client.RetrieveRegion(c, id)
	if err != nil {
		err = fmt.Errorf("failed retrieving region=%s with error=%w", id, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Region{}, err
	}
	return region, nil
}

// GetRegion resolves a country code to its region via the country→region map
// built from the region listing. An empty country code resolves to the
// configured default.
func (svc RegionService) GetRegion(c context.Context, countryCode string) (commerce.Region, error) {
	c, span := otel.Tracer.Start(c, "RegionService GetRegion")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RegionService GetRegion").
		Str(log.KeyCountryCode, countryCode).
		Logger()

	if countryCode == "" {
		countryCode = svc.defaultRegion
	}

	cached, ok, err := cache.GetJSON[commerce.Region](c, svc.store, cache.RegionKey(countryCode))
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	regions, err := svc.ListRegions(c)
	if err != nil {
		return commerce.Region{}, err
	}

	for _, region := range regions {
		for _, country := range region.Countries {
			if country.ISO2 == countryCode {
				if err := cache.SetJSON(c, svc.store, cache.RegionKey(countryCode), region, regionTTL); err != nil {
					otel.RecordError(err, span)
					logger.Warn().Err(err).Msg(err.Error())
				}
				return region, nil
			}
		}
	}

	err = inErrors.NotFound(fmt.Sprintf("no region for country=%s", countryCode))
	otel.RecordError(err, span)
	logger.Warn().Err(err).Msg(err.Error())
	return commerce.Region{}, err
}
