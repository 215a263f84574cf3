package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	inErrors "github.com/verdantlabs/storefront/internal/errors"
	"github.com/verdantlabs/storefront/internal/otel"
)

const (
	KeyHeaderContentType = "Content-Type"
	KeyHeaderRequestID   = "X-Request-Id"

	ValueHeaderApplicationJson = "application/json"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "WriteJsonResponse").Logger()

	w.Header().Add(KeyHeaderContentType, ValueHeaderApplicationJson)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"]; ok {
		w.WriteHeader(v.(int))
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
}

// WriteErrorResponse maps the error's kind to an HTTP status and writes the
// standard failure envelope.
func WriteErrorResponse(c context.Context, w http.ResponseWriter, err error) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": StatusFromError(err),
		"message":    err.Error(),
	})
}

func StatusFromError(err error) int {
	switch inErrors.KindOf(err) {
	case inErrors.KindNotFound:
		return http.StatusNotFound
	case inErrors.KindValidation:
		return http.StatusBadRequest
	case inErrors.KindUnauthorized:
		return http.StatusUnauthorized
	case inErrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
