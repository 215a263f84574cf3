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

const orderTTL = time.Minute

type OrderService struct {
	client CommerceClient
	store  cache.Cache
}

func NewOrderService(client CommerceClient, store cache.Cache) OrderService {
	return OrderService{client: client, store: store}
}

func (svc OrderService) ListOrders(
	c context.Context,
	customerID string,
	limit int,
	offset int,
) (commerce.OrdersPage, error) {
	c, span := otel.Tracer.Start(c, "OrderService ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService ListOrders").
		Int(log.KeyLimit, limit).
		Logger()

	if limit <= 0 {
		limit = 10
	}

	key := cache.OrdersKey(customerID, limit, offset)
	cached, ok, err := cache.GetJSON[commerce.OrdersPage](c, svc.store, key)
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	page, err := svc.client.ListOrders(c, limit, offset)
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.OrdersPage{}, err
	}
	logger.Info().Msgf("listed %d of %d orders", len(page.Orders), page.Count)

	// Short TTL: the listing must pick up a just-completed order quickly.
	if err := cache.SetJSON(c, svc.store, key, page, orderTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return page, nil
}

func (svc OrderService) RetrieveOrder(
	c context.Context,
	customerID string,
	orderID string,
) (commerce.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService RetrieveOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService RetrieveOrder").
		Str(log.KeyOrderID, orderID).
		Logger()

	key := cache.OrderKey(customerID, orderID)
	cached, ok, err := cache.GetJSON[commerce.Order](c, svc.store, key)
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	order, err := svc.client.RetrieveOrder(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed retrieving order=%s with error=%w", orderID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Order{}, err
	}

	if err := cache.SetJSON(c, svc.store, key, order, orderTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return order, nil
}
