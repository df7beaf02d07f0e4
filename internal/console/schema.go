package console

import (
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/internal/resource"
)

// ListSchema describes one paginated list and the operations on its rows
type ListSchema[T any] struct {
	Name   string
	List   proto.Operation
	Add    proto.Operation
	Update proto.Operation
	Remove proto.Operation

	ID         func(T) uint32
	Page       func(*resource.Resource) (*proto.ListResponse[T], bool)
	UpdateBody func(T) any
	RemoveBody func(id uint32) any
}

var PlayerSchema = ListSchema[proto.Player]{
	Name:   "players",
	List:   proto.OpPlayerList,
	Add:    proto.OpAddPlayer,
	Update: proto.OpUpdatePlayer,
	Remove: proto.OpRemovePlayer,

	ID:   proto.Player.GetID,
	Page: (*resource.Resource).PlayerList,
	UpdateBody: func(p proto.Player) any {
		return proto.NewPlayerUpdateReq(p)
	},
	RemoveBody: func(id uint32) any {
		return proto.PlayerRemoveReq{ID: id}
	},
}

var TunnelSchema = ListSchema[proto.Tunnel]{
	Name:   "tunnels",
	List:   proto.OpTunnelList,
	Add:    proto.OpAddTunnel,
	Update: proto.OpUpdateTunnel,
	Remove: proto.OpRemoveTunnel,

	ID:   proto.Tunnel.GetID,
	Page: (*resource.Resource).TunnelList,
	UpdateBody: func(t proto.Tunnel) any {
		return proto.NewTunnelUpdateReq(t)
	},
	RemoveBody: func(id uint32) any {
		return proto.TunnelRemoveReq{ID: id}
	},
}
