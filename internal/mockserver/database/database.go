// Package database stores the players and tunnels of the mock backend.
package database

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicated = errors.New("record already exists")
)

// Database defines the methods for database operations
type Database interface {
	Close() error

	// ListPlayers returns one page of players ordered by id, and the total count
	ListPlayers(ctx context.Context, offset, limit int) ([]*Player, int64, error)
	CreatePlayer(ctx context.Context, player *Player) error
	UpdatePlayer(ctx context.Context, player *Player) error
	DeletePlayer(ctx context.Context, id uint32) error

	ListTunnels(ctx context.Context, offset, limit int) ([]*Tunnel, int64, error)
	CreateTunnel(ctx context.Context, tunnel *Tunnel) error
	UpdateTunnel(ctx context.Context, tunnel *Tunnel) error
	DeleteTunnel(ctx context.Context, id uint32) error
}
