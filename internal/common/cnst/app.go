package cnst

const (
	// AppName is the name of the admin client
	AppName = "npipe-admin"
	// CommandName is the name of the admin client command
	CommandName = "npipe-admin"
	// MockServerName is the name of the mock backend command
	MockServerName = "mock-server"
)
