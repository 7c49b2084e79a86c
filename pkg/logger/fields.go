package logger

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor
	FieldUserID   = "user_id"
	FieldUsername = "username"

	// Events
	FieldEvent    = "event"
	FieldEventID  = "event_id"
	FieldListener = "listener"

	// Service
	FieldService = "service"

	// Database
	FieldSQL     = "sql"
	FieldRows    = "rows"
	FieldElapsed = "elapsed_ms"
)

const headerRequestID = "X-Request-ID"
