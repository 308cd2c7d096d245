// File: internal/middleware/constants.go
package middleware

// Context keys for middleware communication
type contextKey string

const (
	userKey      contextKey = "user"
	requestIDKey contextKey = "request_id"
)
