package cnst

// Tracer names used across the services
const (
	// TraceClient is the tracer name for the request core
	TraceClient = "npipe-admin/request"
	// TraceMockServer is the tracer name for the mock backend
	TraceMockServer = "npipe-admin/mock-server"
)

// Common span names
const (
	SpanRequestSubmit = "npipe.request.submit"
	SpanSessionLogout = "npipe.session.logout"
)

// Common attribute keys
const (
	AttrOperation      = "npipe.operation"
	AttrOperationKey   = "npipe.operation_key"
	AttrRequestID      = "npipe.request_id"
	AttrHTTPStatusCode = "http.status_code"
	AttrAppCode        = "npipe.app_code"
	AttrLogoutReason   = "npipe.logout_reason"
)
