package data

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/commerce"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/mutation"
	"github.com/verdantlabs/storefront/internal/optimistic"
	"github.com/verdantlabs/storefront/internal/otel"
)

const shippingOptionsTTL = 5 * time.Minute

type CartService struct {
	client CommerceClient
	store  cache.Cache
}

func NewCartService(client CommerceClient, store cache.Cache) CartService {
	return CartService{client: client, store: store}
}

// RetrieveCart reads the cart through the query cache. A miss refetches from
// the backend under the pending-refetch registry, so a mutation arriving
// mid-refetch cancels the stale read instead of being clobbered by it.
func (svc CartService) RetrieveCart(c context.Context, cartID string) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RetrieveCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RetrieveCart").
		Str(log.KeyCartID, cartID).
		Logger()

	key := cache.CartKey(cartID)
	cached, ok, err := cache.GetJSON[commerce.Cart](c, svc.store, key)
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	store, isStore := svc.store.(*cache.Store)
	fetchCtx := c
	if isStore {
		var cancel context.CancelFunc
		fetchCtx, cancel = store.RegisterPending(c, key)
		defer cancel()
	}

	logger = logger.With().Str(log.KeyProcess, "retrieving cart from backend").Logger()
	logger.Info().Msg("retrieving cart from backend")
	cart, err := svc.client.RetrieveCart(fetchCtx, cartID)
	if err != nil {
		err = fmt.Errorf("failed retrieving cart=%s with error=%w", cartID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Cart{}, err
	}
	logger.Info().Msg("retrieved cart from backend")

	if err := cache.SetJSON(fetchCtx, svc.store, key, cart, cache.DefaultTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return cart, nil
}

func (svc CartService) CreateCart(c context.Context, regionID string) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService CreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService CreateCart").
		Str(log.KeyRegionID, regionID).
		Logger()

	logger.Info().Msg("creating cart")
	cart, err := svc.client.CreateCart(c, commerce.CreateCartInput{RegionID: regionID})
	if err != nil {
		err = fmt.Errorf("failed creating cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID).Logger()
	logger.Info().Msg("created cart")

	if err := cache.SetJSON(c, svc.store, cache.CartKey(cart.ID), cart, cache.DefaultTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return cart, nil
}

type AddToCartInput struct {
	VariantID string
	Quantity  int
	// Product and Variant feed the optimistic transform; the remote call only
	// needs the variant id and quantity. Either may be absent, in which case
	// the cached cart is left untouched until reconciliation.
	Product *commerce.Product
	Variant *commerce.Variant
}

func (svc CartService) AddToCart(
	c context.Context,
	cartID string,
	input AddToCartInput,
) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddToCart").
		Str(log.KeyCartID, cartID).
		Str(log.KeyVariantID, input.VariantID).
		Int(log.KeyQuantity, input.Quantity).
		Logger()
	c = logger.WithContext(c)

	m := mutation.New[commerce.Cart](svc.store, cache.CartKey(cartID))
	provisional, _, err := m.Run(c,
		func(cart commerce.Cart) commerce.Cart {
			if input.Product == nil || input.Variant == nil {
				return cart
			}
			return optimistic.AddLineItem(cart, optimistic.AddLineItemInput{
				Product:  *input.Product,
				Variant:  *input.Variant,
				Quantity: input.Quantity,
			})
		},
		func(c context.Context) error {
			_, err := svc.client.AddLineItem(c, cartID, commerce.AddLineItemInput{
				VariantID: input.VariantID,
				Quantity:  input.Quantity,
			})
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed adding variant=%s to cart=%s with error=%w", input.VariantID, cartID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("added line item to cart")
	return provisional, nil
}

func (svc CartService) UpdateLineItem(
	c context.Context,
	cartID string,
	lineID string,
	quantity int,
) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateLineItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateLineItem").
		Str(log.KeyCartID, cartID).
		Str(log.KeyLineItemID, lineID).
		Int(log.KeyQuantity, quantity).
		Logger()
	c = logger.WithContext(c)

	m := mutation.New[commerce.Cart](svc.store, cache.CartKey(cartID))
	provisional, _, err := m.Run(c,
		func(cart commerce.Cart) commerce.Cart {
			return optimistic.UpdateLineItem(cart, lineID, quantity)
		},
		func(c context.Context) error {
			_, err := svc.client.UpdateLineItem(c, cartID, lineID, quantity)
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed updating lineItem=%s with error=%w", lineID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("updated line item")
	return provisional, nil
}

func (svc CartService) DeleteLineItem(
	c context.Context,
	cartID string,
	lineID string,
) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService DeleteLineItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService DeleteLineItem").
		Str(log.KeyCartID, cartID).
		Str(log.KeyLineItemID, lineID).
		Logger()
	c = logger.WithContext(c)

	m := mutation.New[commerce.Cart](svc.store, cache.CartKey(cartID))
	provisional, _, err := m.Run(c,
		func(cart commerce.Cart) commerce.Cart {
			return optimistic.RemoveLineItem(cart, lineID)
		},
		func(c context.Context) error {
			return svc.client.DeleteLineItem(c, cartID, lineID)
		},
	)
	if err != nil {
		err = fmt.Errorf("failed deleting lineItem=%s with error=%w", lineID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("deleted line item")
	return provisional, nil
}

func (svc CartService) SetShippingMethod(
	c context.Context,
	cartID string,
	option *commerce.ShippingOption,
	shippingOptionID string,
) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService SetShippingMethod")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService SetShippingMethod").
		Str(log.KeyCartID, cartID).
		Logger()
	c = logger.WithContext(c)

	m := mutation.New[commerce.Cart](svc.store, cache.CartKey(cartID))
	provisional, _, err := m.Run(c,
		func(cart commerce.Cart) commerce.Cart {
			return optimistic.ApplyShippingMethod(cart, option)
		},
		func(c context.Context) error {
			_, err := svc.client.AddShippingMethod(c, cartID, shippingOptionID)
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed setting shipping method with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("set shipping method")
	return provisional, nil
}

func (svc CartService) ApplyPromotions(
	c context.Context,
	cartID string,
	codes []string,
) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ApplyPromotions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ApplyPromotions").
		Str(log.KeyCartID, cartID).
		Logger()
	c = logger.WithContext(c)

	m := mutation.New[commerce.Cart](svc.store, cache.CartKey(cartID))
	provisional, _, err := m.Run(c,
		func(cart commerce.Cart) commerce.Cart {
			return optimistic.ApplyPromotions(cart, codes)
		},
		func(c context.Context) error {
			_, err := svc.client.UpdateCart(c, cartID, commerce.UpdateCartInput{PromoCodes: codes})
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed applying promotions with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("applied promotions")
	return provisional, nil
}

// SetAddresses resolves the form against the current cart so omitted fields
// keep their existing values, then updates shipping/billing address and email
// through the optimistic protocol.
func (svc CartService) SetAddresses(
	c context.Context,
	cartID string,
	form url.Values,
) (commerce.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService SetAddresses")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService SetAddresses").
		Str(log.KeyCartID, cartID).
		Logger()
	c = logger.WithContext(c)

	current, err := svc.RetrieveCart(c, cartID)
	if err != nil {
		return commerce.Cart{}, err
	}
	resolved := optimistic.ApplyAddresses(current, form)

	m := mutation.New[commerce.Cart](svc.store, cache.CartKey(cartID))
	provisional, _, err := m.Run(c,
		func(cart commerce.Cart) commerce.Cart {
			return optimistic.ApplyAddresses(cart, form)
		},
		func(c context.Context) error {
			_, err := svc.client.UpdateCart(c, cartID, commerce.UpdateCartInput{
				Email:           resolved.Email,
				ShippingAddress: resolved.ShippingAddress,
				BillingAddress:  resolved.BillingAddress,
			})
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed setting addresses with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("set cart addresses")
	return provisional, nil
}

func (svc CartService) ListShippingOptions(
	c context.Context,
	cartID string,
) ([]commerce.ShippingOption, error) {
	c, span := otel.Tracer.Start(c, "CartService ListShippingOptions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ListShippingOptions").
		Str(log.KeyCartID, cartID).
		Logger()

	key := cache.ShippingOptionsKey(cartID)
	cached, ok, err := cache.GetJSON[[]commerce.ShippingOption](c, svc.store, key)
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	if ok {
		return cached, nil
	}

	options, err := svc.client.ListShippingOptions(c, cartID)
	if err != nil {
		err = fmt.Errorf("failed listing shipping options with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	if err := cache.SetJSON(c, svc.store, key, options, shippingOptionsTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return options, nil
}

// CompleteCart places the order and drops every cart-scoped cache entry.
func (svc CartService) CompleteCart(c context.Context, cartID string) (commerce.Order, error) {
	c, span := otel.Tracer.Start(c, "CartService CompleteCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService CompleteCart").
		Str(log.KeyCartID, cartID).
		Logger()

	logger.Info().Msg("completing cart")
	order, err := svc.client.CompleteCart(c, cartID)
	if err != nil {
		err = fmt.Errorf("failed completing cart=%s with error=%w", cartID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID).Logger()
	logger.Info().Msg("completed cart")

	err = svc.store.Invalidate(c, cache.CartKey(cartID), cache.ShippingOptionsKey(cartID))
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return order, nil
}
