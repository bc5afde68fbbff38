package middleware

// contextKey is a private type for context values set by middleware, so that
// keys cannot collide with other packages.
type contextKey string

const (
	loggerKey    = contextKey("logger")
	requestIDKey = contextKey("request_id")
)
