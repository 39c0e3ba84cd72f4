package constants

// Context keys for validated requests
const (
	// Contact context keys
	ContextKeyContact     = "contact"
	ContextKeyListContact = "listContacts"

	// Request metadata
	ContextKeyRequestID = "RequestID"
)

// HeaderRequestID carries the request ID in and out of the API
const HeaderRequestID = "X-Request-ID"
