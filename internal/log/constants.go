package log

const (
	KeyAppName     = "app"
	KeyTag         = "tag"
	KeyProcess     = "process"
	KeyRequestID   = "requestId"
	KeyTraceID     = "traceId"
	KeySpanID      = "spanId"
	KeyConfig      = "config"
	KeyEmail       = "email"
	KeyToken       = "token"
	KeyCacheKey    = "cacheKey"
	KeyCartID      = "cartId"
	KeyCustomerID  = "customerId"
	KeyLineItemID  = "lineItemId"
	KeyVariantID   = "variantId"
	KeyRegionID    = "regionId"
	KeyCountryCode = "countryCode"
	KeyOrderID     = "orderId"
	KeyProductID   = "productId"
	KeySlug        = "slug"
	KeyPostTag     = "postTag"
	KeyQuantity    = "quantity"
	KeyPage        = "page"
	KeyLimit       = "limit"
	KeySortBy      = "sortBy"
	KeyDbURL       = "dbUrl"

	KeyRequestBody   = "requestBody"
	KeyRequestHost   = "host"
	KeyRequestIP     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyHeader        = "header"
	KeyBody          = "body"
	KeyRequest       = "request"
)
