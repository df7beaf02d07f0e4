package cnst

// Application codes carried in the {code, msg} acknowledgment
const (
	CodeSuccess        = 0
	CodeInvalidRequest = 1001
	CodeLoginFailed    = 1002
	CodeNotFound       = 1003
	CodeInternal       = 1004
	// CodeSessionExpired tells the client its session is no longer valid
	CodeSessionExpired = 10086
)

const (
	// CookieName is the name of the session cookie issued on login
	CookieName = "auth-id"
	// DefaultPageSize is the number of rows fetched per list page
	DefaultPageSize = 20
)
