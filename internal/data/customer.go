package data

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/cache"
	"github.com/verdantlabs/storefront/internal/commerce"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/mutation"
	"github.com/verdantlabs/storefront/internal/optimistic"
	"github.com/verdantlabs/storefront/internal/otel"
)

type CustomerService struct {
	client CommerceClient
	store  cache.Cache
}

func NewCustomerService(client CommerceClient, store cache.Cache) CustomerService {
	return CustomerService{client: client, store: store}
}

// Retrieve always asks the backend for the authoritative customer, then
// refreshes the cached snapshot the optimistic mutations work against.
func (svc CustomerService) Retrieve(c context.Context) (commerce.Customer, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Retrieve")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Retrieve").
		Logger()

	customer, err := svc.client.RetrieveCustomer(c)
	if err != nil {
		err = fmt.Errorf("failed retrieving customer with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Customer{}, err
	}

	key := cache.CustomerKey(customer.ID)
	if err := cache.SetJSON(c, svc.store, key, customer, cache.DefaultTTL); err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}
	return customer, nil
}

func (svc CustomerService) Update(
	c context.Context,
	customerID string,
	update optimistic.CustomerUpdate,
) (commerce.Customer, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Update").
		Str(log.KeyCustomerID, customerID).
		Logger()
	c = logger.WithContext(c)

	input := commerce.UpdateCustomerInput{}
	if update.FirstName != nil {
		input.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		input.LastName = *update.LastName
	}
	if update.Phone != nil {
		input.Phone = *update.Phone
	}

	m := mutation.New[commerce.Customer](svc.store, cache.CustomerKey(customerID))
	provisional, _, err := m.Run(c,
		func(customer commerce.Customer) commerce.Customer {
			return optimistic.ApplyCustomerUpdate(customer, update)
		},
		func(c context.Context) error {
			_, err := svc.client.UpdateCustomer(c, input)
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed updating customer with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("updated customer")
	return provisional, nil
}

// Signup registers the identity, creates the customer profile, then logs in
// to obtain the session token the cookie layer persists.
func (svc CustomerService) Signup(
	c context.Context,
	creds commerce.Credentials,
	profile commerce.CreateCustomerInput,
) (commerce.Customer, string, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Signup")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Signup").
		Str(log.KeyEmail, creds.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "registering identity").Logger()
	logger.Info().Msg("registering identity")
	registrationToken, err := svc.client.Register(c, creds)
	if err != nil {
		err = fmt.Errorf("failed registering identity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Customer{}, "", err
	}
	logger.Info().Msg("registered identity")

	logger = logger.With().Str(log.KeyProcess, "creating customer").Logger()
	logger.Info().Msg("creating customer")
	customer, err := svc.client.CreateCustomer(
		commerce.WithAuthToken(c, registrationToken),
		profile,
	)
	if err != nil {
		err = fmt.Errorf("failed creating customer with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Customer{}, "", err
	}
	logger.Info().Msg("created customer")

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Info().Msg("logging in")
	sessionToken, err := svc.client.Login(c, creds)
	if err != nil {
		err = fmt.Errorf("failed logging in after signup with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return commerce.Customer{}, "", err
	}
	logger.Info().Msg("logged in")

	return customer, sessionToken, nil
}

func (svc CustomerService) Login(c context.Context, creds commerce.Credentials) (string, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Login").
		Str(log.KeyEmail, creds.Email).
		Logger()

	token, err := svc.client.Login(c, creds)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("logged in")
	return token, nil
}

// Signout revokes the backend session and drops the cached customer snapshot.
func (svc CustomerService) Signout(c context.Context, customerID string) error {
	c, span := otel.Tracer.Start(c, "CustomerService Signout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Signout").
		Str(log.KeyCustomerID, customerID).
		Logger()

	if err := svc.client.Logout(c); err != nil {
		err = fmt.Errorf("failed logging out with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if customerID != "" {
		if err := svc.store.Invalidate(c, cache.CustomerKey(customerID)); err != nil {
			otel.RecordError(err, span)
			logger.Warn().Err(err).Msg(err.Error())
		}
	}
	logger.Info().Msg("signed out")
	return nil
}

func (svc CustomerService) AddAddress(
	c context.Context,
	customerID string,
	form url.Values,
) (commerce.Customer, error) {
	c, span := otel.Tracer.Start(c, "CustomerService AddAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService AddAddress").
		Str(log.KeyCustomerID, customerID).
		Logger()
	c = logger.WithContext(c)

	address := optimistic.CustomerAddressFromForm(form)

	m := mutation.New[commerce.Customer](svc.store, cache.CustomerKey(customerID))
	provisional, _, err := m.Run(c,
		func(customer commerce.Customer) commerce.Customer {
			return optimistic.AddCustomerAddress(customer, address)
		},
		func(c context.Context) error {
			_, err := svc.client.CreateAddress(c, address)
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed adding address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("added address")
	return provisional, nil
}

func (svc CustomerService) UpdateAddress(
	c context.Context,
	customerID string,
	addressID string,
	form url.Values,
) (commerce.Customer, error) {
	c, span := otel.Tracer.Start(c, "CustomerService UpdateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService UpdateAddress").
		Str(log.KeyCustomerID, customerID).
		Logger()
	c = logger.WithContext(c)

	address := optimistic.CustomerAddressFromForm(form)

	m := mutation.New[commerce.Customer](svc.store, cache.CustomerKey(customerID))
	provisional, _, err := m.Run(c,
		func(customer commerce.Customer) commerce.Customer {
			return optimistic.UpdateCustomerAddress(customer, addressID, address)
		},
		func(c context.Context) error {
			_, err := svc.client.UpdateAddress(c, addressID, address)
			return err
		},
	)
	if err != nil {
		err = fmt.Errorf("failed updating address=%s with error=%w", addressID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("updated address")
	return provisional, nil
}

func (svc CustomerService) DeleteAddress(
	c context.Context,
	customerID string,
	addressID string,
) (commerce.Customer, error) {
	c, span := otel.Tracer.Start(c, "CustomerService DeleteAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService DeleteAddress").
		Str(log.KeyCustomerID, customerID).
		Logger()
	c = logger.WithContext(c)

	m := mutation.New[commerce.Customer](svc.store, cache.CustomerKey(customerID))
	provisional, _, err := m.Run(c,
		func(customer commerce.Customer) commerce.Customer {
			return optimistic.RemoveCustomerAddress(customer, addressID)
		},
		func(c context.Context) error {
			return svc.client.DeleteAddress(c, addressID)
		},
	)
	if err != nil {
		err = fmt.Errorf("failed deleting address=%s with error=%w", addressID, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return provisional, err
	}
	logger.Info().Msg("deleted address")
	return provisional, nil
}
