package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Gorm implements Database for every gorm dialect
type Gorm struct {
	db *gorm.DB
}

var _ Database = (*Gorm)(nil)

// Close closes the database connection
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *Gorm) ListPlayers(ctx context.Context, offset, limit int) ([]*Player, int64, error) {
	return listPage[Player](g.db.WithContext(ctx), offset, limit)
}

func (g *Gorm) CreatePlayer(ctx context.Context, player *Player) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Player{}).Where("username = ?", player.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicated
		}
		return tx.Create(player).Error
	})
}

func (g *Gorm) UpdatePlayer(ctx context.Context, player *Player) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[Player](tx, player.ID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&Player{}).
			Where("username = ? AND id <> ?", player.Username, player.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicated
		}
		return tx.Model(&Player{}).Where("id = ?", player.ID).Updates(map[string]any{
			"username": player.Username,
			"password": player.Password,
		}).Error
	})
}

func (g *Gorm) DeletePlayer(ctx context.Context, id uint32) error {
	return deleteByID[Player](g.db.WithContext(ctx), id)
}

func (g *Gorm) ListTunnels(ctx context.Context, offset, limit int) ([]*Tunnel, int64, error) {
	return listPage[Tunnel](g.db.WithContext(ctx), offset, limit)
}

func (g *Gorm) CreateTunnel(ctx context.Context, tunnel *Tunnel) error {
	return g.db.WithContext(ctx).Create(tunnel).Error
}

func (g *Gorm) UpdateTunnel(ctx context.Context, tunnel *Tunnel) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[Tunnel](tx, tunnel.ID); err != nil {
			return err
		}
		return tx.Model(&Tunnel{}).Where("id = ?", tunnel.ID).Updates(map[string]any{
			"source":      tunnel.Source,
			"endpoint":    tunnel.Endpoint,
			"enabled":     tunnel.Enabled,
			"sender":      tunnel.Sender,
			"receiver":    tunnel.Receiver,
			"description": tunnel.Description,
		}).Error
	})
}

func (g *Gorm) DeleteTunnel(ctx context.Context, id uint32) error {
	return deleteByID[Tunnel](g.db.WithContext(ctx), id)
}

func listPage[T any](db *gorm.DB, offset, limit int) ([]*T, int64, error) {
	var total int64
	if err := db.Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]*T, 0, limit)
	err := db.Order("id asc").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func exists[T any](db *gorm.DB, id uint32) error {
	var item T
	if err := db.Select("id").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func deleteByID[T any](db *gorm.DB, id uint32) error {
	res := db.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
