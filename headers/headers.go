// Package headers defines HTTP header constants used by the mechshop
// clients. This is the single source of truth for header names used in
// API requests/responses.
package headers

const (
	// RequestID is the header for request correlation. The gateway
	// generates one per request when the caller has not supplied it.
	RequestID = "X-MechShop-Request-Id"

	// Client identifies the calling SDK and version for server-side
	// diagnostics.
	Client = "X-MechShop-Client"
)
