package models

import (
	"context"
	"fmt"
	"time"

	"photolabel/apperror"
	"photolabel/db"
)

type Album struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	OwnerID   uint64    `gorm:"not null;uniqueIndex:uniq_owner_name,priority:1" json:"owner_id"`
	Owner     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name      string    `gorm:"type:varchar(300);not null;uniqueIndex:uniq_owner_name,priority:2" json:"name"`
}

func (s *Store) CreateAlbum(ctx context.Context, ownerID uint64, name string) (*Album, error) {
	existing, err := first[Album](s.conn(ctx), "owner_id = ? AND name = ?", ownerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Album already exists")
	}
	album := Album{OwnerID: ownerID, Name: name}
	if err := s.conn(ctx).Omit("Owner").Create(&album).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, apperror.Conflict("Album already exists")
		}
		return nil, fmt.Errorf("create album: %w", err)
	}
	return &album, nil
}

func (s *Store) AlbumByID(ctx context.Context, id uint64) (*Album, error) {
	return first[Album](s.conn(ctx), "id = ?", id)
}

// ListAlbums lists the albums of one owner, or of everyone when ownerID is nil
func (s *Store) ListAlbums(ctx context.Context, ownerID *uint64, page Page) ([]Album, error) {
	tx := page.apply(s.conn(ctx))
	if ownerID != nil {
		tx = tx.Where("owner_id = ?", *ownerID)
	}
	albums := []Album{}
	err := tx.Order("id ASC").Find(&albums).Error
	return albums, err
}
