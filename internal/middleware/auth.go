package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/commerce"
	inErrors "github.com/verdantlabs/storefront/internal/errors"
	inHttp "github.com/verdantlabs/storefront/internal/http"
	"github.com/verdantlabs/storefront/internal/log"
)

// Session attaches the commerce session token from the auth cookie to the
// request context. The token is issued and signed by the commerce backend, so
// only its expiry is screened here; the backend remains the authority on
// signature validity. Requests without a cookie pass through anonymous.
func Session(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Session").
				Logger()
			c := logger.WithContext(r.Context())

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r.WithContext(c))
				return
			}

			if err := screenTokenExpiry(cookie.Value); err != nil {
				logger.Warn().Err(err).Msg(err.Error())
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				next.ServeHTTP(w, r.WithContext(c))
				return
			}

			c = commerce.WithAuthToken(c, cookie.Value)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

// RequireAuth rejects requests that carry no session token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).
			With().
			Str(log.KeyTag, "middleware RequireAuth").
			Logger()
		c := logger.WithContext(r.Context())

		if commerce.AuthTokenFromContext(c) == "" {
			logger.Error().
				Err(inErrors.ErrEmptyAuth).
				Msg(inErrors.ErrEmptyAuth.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusUnauthorized,
				"message":    inErrors.ErrEmptyAuth.Error(),
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(c))
	})
}

func screenTokenExpiry(token string) error {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("failed parsing session token with error=%w", inErrors.ErrTokenInvalid)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return inErrors.ErrTokenExpired
	}
	return nil
}
