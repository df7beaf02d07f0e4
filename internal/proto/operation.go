package proto

// Operation enumerates every request the admin client can issue.
// The response schema of an operation is chosen from this value alone.
type Operation int

const (
	OpLogin Operation = iota
	OpLogout
	OpTestAuth
	OpPlayerList
	OpAddPlayer
	OpUpdatePlayer
	OpRemovePlayer
	OpTunnelList
	OpAddTunnel
	OpUpdateTunnel
	OpRemoveTunnel
)

var operationPaths = [...]string{
	OpLogin:        "login",
	OpLogout:       "logout",
	OpTestAuth:     "test_auth",
	OpPlayerList:   "player_list",
	OpAddPlayer:    "add_player",
	OpUpdatePlayer: "update_player",
	OpRemovePlayer: "remove_player",
	OpTunnelList:   "tunnel_list",
	OpAddTunnel:    "add_tunnel",
	OpUpdateTunnel: "update_tunnel",
	OpRemoveTunnel: "remove_tunnel",
}

// Path returns the API path of the operation, relative to the base URL
func (o Operation) Path() string {
	if o < 0 || int(o) >= len(operationPaths) {
		return "unknown"
	}
	return operationPaths[o]
}

func (o Operation) String() string {
	return o.Path()
}

// Operations returns every known operation in declaration order
func Operations() []Operation {
	ops := make([]Operation, 0, len(operationPaths))
	for i := range operationPaths {
		ops = append(ops, Operation(i))
	}
	return ops
}
