package database

import (
	"time"

	"github.com/amoylab/npipe-admin/internal/proto"
)

// Player is an account allowed to open tunnels
type Player struct {
	ID        uint32    `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Password  string    `gorm:"type:varchar(128);not null"`
	Online    bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Tunnel forwards traffic from Source on the sender side to Endpoint on the receiver side
type Tunnel struct {
	ID          uint32    `gorm:"primaryKey;autoIncrement"`
	Source      string    `gorm:"type:varchar(255);not null"`
	Endpoint    string    `gorm:"type:varchar(255);not null"`
	Enabled     bool      `gorm:"default:true"`
	Sender      uint32    `gorm:"index"`
	Receiver    uint32    `gorm:"index"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (p *Player) ToProto() proto.Player {
	return proto.Player{ID: p.ID, Username: p.Username, Password: p.Password, Online: p.Online}
}

func (t *Tunnel) ToProto() proto.Tunnel {
	return proto.Tunnel{
		ID:          t.ID,
		Source:      t.Source,
		Endpoint:    t.Endpoint,
		Enabled:     t.Enabled,
		Sender:      t.Sender,
		Receiver:    t.Receiver,
		Description: t.Description,
	}
}
