package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/commerce"
	"github.com/verdantlabs/storefront/internal/config"
	"github.com/verdantlabs/storefront/internal/data"
	inHttp "github.com/verdantlabs/storefront/internal/http"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/middleware"
	"github.com/verdantlabs/storefront/internal/optimistic"
	"github.com/verdantlabs/storefront/internal/otel"
	"github.com/verdantlabs/storefront/pkg/request"
)

// sessionMaxAge matches the backend session token lifetime.
const sessionMaxAge = 7 * 24 * time.Hour

type AccountController struct {
	customers data.CustomerService
	orders    data.OrderService
	appConfig config.Application
}

func AttachAccountController(
	router *mux.Router,
	customers data.CustomerService,
	orders data.OrderService,
	appConfig config.Application,
) {
	controller := AccountController{customers: customers, orders: orders, appConfig: appConfig}

	sub := router.PathPrefix("/account").Subrouter()
	sub.HandleFunc("/signup", controller.Signup).Methods(http.MethodPost)
	sub.HandleFunc("/login", controller.Login).Methods(http.MethodPost)

	authed := router.PathPrefix("/account").Subrouter()
	authed.Use(middleware.RequireAuth)
	authed.HandleFunc("/logout", controller.Logout).Methods(http.MethodPost)
	authed.HandleFunc("", controller.Retrieve).Methods(http.MethodGet)
	authed.HandleFunc("", controller.Update).Methods(http.MethodPost)
	authed.HandleFunc("/addresses", controller.AddAddress).Methods(http.MethodPost)
	authed.HandleFunc("/addresses/{addressId}", controller.UpdateAddress).Methods(http.MethodPost)
	authed.HandleFunc("/addresses/{addressId}", controller.DeleteAddress).
		Methods(http.MethodDelete)
	authed.HandleFunc("/orders", controller.ListOrders).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{orderId}", controller.RetrieveOrder).Methods(http.MethodGet)
}

func (t AccountController) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.appConfig.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   t.appConfig.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

func (t AccountController) Signup(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController Signup")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController Signup").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	reqBody := request.Signup{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "signing up").
		Str(log.KeyEmail, reqBody.Email).
		Logger()
	c = logger.WithContext(c)
	customer, token, err := t.customers.Signup(c,
		commerce.Credentials{Email: reqBody.Email, Password: reqBody.Password},
		commerce.CreateCustomerInput{
			Email:     reqBody.Email,
			FirstName: reqBody.FirstName,
			LastName:  reqBody.LastName,
			Phone:     reqBody.Phone,
		},
	)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyCustomerID, customer.ID).Msg("signed up")

	t.setSessionCookie(w, token, sessionMaxAge)
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully signed up",
		"data":       map[string]interface{}{"customer": customer},
	})
}

func (t AccountController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController Login").
		Logger()

	reqBody := request.Login{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "logging in").
		Str(log.KeyEmail, reqBody.Email).
		Logger()
	c = logger.WithContext(c)
	token, err := t.customers.Login(c, commerce.Credentials{
		Email:    reqBody.Email,
		Password: reqBody.Password,
	})
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("logged in")

	t.setSessionCookie(w, token, sessionMaxAge)
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully logged in",
	})
}

func (t AccountController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController Logout").
		Logger()
	c = logger.WithContext(c)

	customerID := ""
	if customer, err := t.customers.Retrieve(c); err == nil {
		customerID = customer.ID
	}

	if err := t.customers.Signout(c, customerID); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	t.setSessionCookie(w, "", -time.Second)
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully logged out",
	})
}

func (t AccountController) Retrieve(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController Retrieve")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController Retrieve").
		Logger()
	c = logger.WithContext(c)

	customer, err := t.customers.Retrieve(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully retrieved customer",
		"data":       map[string]interface{}{"customer": customer},
	})
}

func (t AccountController) Update(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController Update").
		Logger()

	reqBody := request.UpdateCustomer{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	c = logger.WithContext(c)
	current, err := t.customers.Retrieve(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	customer, err := t.customers.Update(c, current.ID, optimistic.CustomerUpdate{
		FirstName: reqBody.FirstName,
		LastName:  reqBody.LastName,
		Phone:     reqBody.Phone,
	})
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully updated customer",
		"data":       map[string]interface{}{"customer": customer},
	})
}

func (t AccountController) AddAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController AddAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController AddAddress").
		Logger()

	if err := r.ParseForm(); err != nil {
		err = fmt.Errorf("failed parsing form with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	c = logger.WithContext(c)
	current, err := t.customers.Retrieve(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	customer, err := t.customers.AddAddress(c, current.ID, r.PostForm)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully added address",
		"data":       map[string]interface{}{"customer": customer},
	})
}

func (t AccountController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController UpdateAddress")
	defer span.End()

	addressID := mux.Vars(r)["addressId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController UpdateAddress").
		Logger()

	if err := r.ParseForm(); err != nil {
		err = fmt.Errorf("failed parsing form with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	c = logger.WithContext(c)
	current, err := t.customers.Retrieve(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	customer, err := t.customers.UpdateAddress(c, current.ID, addressID, r.PostForm)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully updated address",
		"data":       map[string]interface{}{"customer": customer},
	})
}

func (t AccountController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController DeleteAddress")
	defer span.End()

	addressID := mux.Vars(r)["addressId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController DeleteAddress").
		Logger()
	c = logger.WithContext(c)

	current, err := t.customers.Retrieve(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	customer, err := t.customers.DeleteAddress(c, current.ID, addressID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully deleted address",
		"data":       map[string]interface{}{"customer": customer},
	})
}

func (t AccountController) ListOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController ListOrders").
		Logger()
	c = logger.WithContext(c)

	limit := intQueryParam(r, "limit", 10)
	offset := intQueryParam(r, "offset", 0)

	current, err := t.customers.Retrieve(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	page, err := t.orders.ListOrders(c, current.ID, limit, offset)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed orders",
		"data": map[string]interface{}{
			"orders": page.Orders,
			"count":  page.Count,
		},
	})
}

func (t AccountController) RetrieveOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController RetrieveOrder")
	defer span.End()

	orderID := mux.Vars(r)["orderId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController RetrieveOrder").
		Str(log.KeyOrderID, orderID).
		Logger()
	c = logger.WithContext(c)

	current, err := t.customers.Retrieve(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	order, err := t.orders.RetrieveOrder(c, current.ID, orderID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully retrieved order",
		"data":       orderPayload(order),
	})
}
