package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/verdantlabs/storefront/internal/config"
	inErrors "github.com/verdantlabs/storefront/internal/errors"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

const (
	headerPublishableKey = "x-publishable-api-key"
	headerAuthorization  = "Authorization"
)

// Client is a thin typed wrapper over the remote commerce REST API. It owns
// no business logic: it attaches the publishable key and an optional bearer
// token, encodes parameters, decodes responses, and maps HTTP statuses onto
// the storefront error kinds.
type Client struct {
	baseURL        string
	publishableKey string
	salesChannelID string
	httpClient     *http.Client
}

func NewClient(cfg config.Commerce) *Client {
	return &Client{
		baseURL:        cfg.BaseURL,
		publishableKey: cfg.PublishableKey,
		salesChannelID: cfg.SalesChannelID,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

type authToken struct{}

// WithAuthToken stores the customer's bearer token for every client call made
// through ctx. Middleware attaches it once per request; data-access functions
// just forward the context.
func WithAuthToken(c context.Context, token string) context.Context {
	return context.WithValue(c, authToken{}, token)
}

func AuthTokenFromContext(c context.Context) string {
	token, ok := c.Value(authToken{}).(string)
	if !ok {
		return ""
	}
	return token
}

func (cl *Client) do(
	c context.Context,
	method string,
	path string,
	query url.Values,
	body any,
	out any,
) error {
	c, span := otel.Tracer.Start(c, "Client "+method+" "+path)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Client do").
		Str(log.KeyRequestMethod, method).
		Str(log.KeyRequestURI, path).
		Logger()

	u := cl.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("failed encoding request body with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return inErrors.Transport("failed encoding request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(c, method, u, reader)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return inErrors.Transport("failed creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cl.publishableKey != "" {
		req.Header.Set(headerPublishableKey, cl.publishableKey)
	}
	if token := AuthTokenFromContext(c); token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed calling commerce backend with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return inErrors.Transport("failed calling commerce backend", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		err := errorFromStatus(resp)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed decoding response body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return inErrors.Transport("failed decoding response body", err)
	}
	return nil
}

func errorFromStatus(resp *http.Response) error {
	payload := struct {
		Message string `json:"message"`
	}{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Message == "" {
		payload.Message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return inErrors.NotFound(payload.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return inErrors.Unauthorized(payload.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return inErrors.Validation(payload.Message)
	case http.StatusConflict:
		return inErrors.New(inErrors.KindConflict, payload.Message)
	default:
		return inErrors.New(inErrors.KindTransport, payload.Message)
	}
}
