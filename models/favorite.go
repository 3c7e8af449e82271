package models

import (
	"context"
	"fmt"
	"time"

	"photolabel/apperror"
	"photolabel/db"
)

// Favorite marks an image for its owner. There is no way to remove one.
type Favorite struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	OwnerID   uint64    `gorm:"not null;uniqueIndex:uniq_owner_image,priority:1" json:"owner_id"`
	Owner     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ImageID   uint64    `gorm:"not null;uniqueIndex:uniq_owner_image,priority:2" json:"image_id"`
	Image     Image     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (s *Store) CreateFavorite(ctx context.Context, ownerID, imageID uint64) (*Favorite, error) {
	existing, err := first[Favorite](s.conn(ctx), "owner_id = ? AND image_id = ?", ownerID, imageID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Image already in favorites")
	}
	f := Favorite{OwnerID: ownerID, ImageID: imageID}
	if err := s.conn(ctx).Omit("Owner", "Image").Create(&f).Error; err != nil {
		if db.IsDuplicate(err) {
			return nil, apperror.Conflict("Image already in favorites")
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	return &f, nil
}

// ListFavorites returns the favorite images of ownerID, oldest favorite first
func (s *Store) ListFavorites(ctx context.Context, ownerID uint64, page Page) ([]Image, error) {
	images := []Image{}
	err := page.apply(s.conn(ctx)).
		Joins("JOIN favorites ON favorites.image_id = images.id").
		Where("favorites.owner_id = ?", ownerID).
		Order("favorites.id ASC").
		Preload("Objects", orderByID).
		Find(&images).Error
	return images, err
}
