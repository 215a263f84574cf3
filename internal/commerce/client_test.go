package commerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/storefront/internal/config"
	inErrors "github.com/verdantlabs/storefront/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.Commerce{
		BaseURL:        server.URL,
		PublishableKey: "pk_test",
	})
}

func TestClientSendsPublishableKeyAndToken(t *testing.T) {
	var gotKey, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-publishable-api-key")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cart":{"id":"cart_1"}}`))
	})

	c := WithAuthToken(context.Background(), "token-123")
	cart, err := client.RetrieveCart(c, "cart_1")
	require.NoError(t, err)

	assert.Equal(t, "cart_1", cart.ID)
	assert.Equal(t, "pk_test", gotKey)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestClientMapsStatusToErrorKind(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected inErrors.Kind
	}{
		{name: "not found", status: http.StatusNotFound, expected: inErrors.KindNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, expected: inErrors.KindUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, expected: inErrors.KindUnauthorized},
		{name: "bad request", status: http.StatusBadRequest, expected: inErrors.KindValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, expected: inErrors.KindValidation},
		{name: "conflict", status: http.StatusConflict, expected: inErrors.KindConflict},
		{name: "server error", status: http.StatusInternalServerError, expected: inErrors.KindTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"boom"}`, tt.status)
			})

			_, err := client.RetrieveCart(context.Background(), "cart_1")
			require.Error(t, err)
			assert.Equal(t, tt.expected, inErrors.KindOf(err))
		})
	}
}

func TestClientListProductsQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":"prod_1"}],"count":1,"limit":12,"offset":0}`))
	})

	page, err := client.ListProducts(context.Background(), ListProductsParams{
		RegionID: "reg_1",
		Limit:    12,
	})
	require.NoError(t, err)

	assert.Len(t, page.Products, 1)
	assert.Equal(t, 1, page.Count)
	assert.Contains(t, gotQuery, "region_id=reg_1")
	assert.Contains(t, gotQuery, "limit=12")
}
