package cnst

const (
	ClientYaml     = "npipe-admin.yaml"
	MockServerYaml = "mock-server.yaml"
)

// CookieMode decides how the session cookie travels with each request
type CookieMode string

const (
	// CookieModeExplicit attaches a synthesized Cookie header to every request
	CookieModeExplicit CookieMode = "explicit"
	// CookieModeJar relies on the transport's cookie jar, like a browser does
	CookieModeJar CookieMode = "jar"
)

func (m CookieMode) String() string {
	return string(m)
}

const (
	SessionTypeMemory = "memory"
	SessionTypeRedis  = "redis"
)

const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypeMySQL    = "mysql"
	DatabaseTypePostgres = "postgres"
)
