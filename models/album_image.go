package models

import (
	"context"
	"fmt"
	"time"
)

// AlbumImage is an album membership. It has its own ID, so adding an image twice
// simply records two memberships.
type AlbumImage struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	AlbumID   uint64    `gorm:"not null;index:album_order,priority:1" json:"album_id"`
	Album     Album     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ImageID   uint64    `gorm:"not null;index" json:"image_id"`
	Image     Image     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// AddImageToAlbum records a membership. Ownership is checked by the caller.
func (s *Store) AddImageToAlbum(ctx context.Context, albumID, imageID uint64) (*AlbumImage, error) {
	m := AlbumImage{AlbumID: albumID, ImageID: imageID}
	if err := s.conn(ctx).Omit("Album", "Image").Create(&m).Error; err != nil {
		return nil, fmt.Errorf("add image %d to album %d: %w", imageID, albumID, err)
	}
	return &m, nil
}

// AlbumImages returns the images of an album in the order they were added
func (s *Store) AlbumImages(ctx context.Context, albumID uint64) ([]Image, error) {
	images := []Image{}
	err := s.conn(ctx).
		Joins("JOIN album_images ON album_images.image_id = images.id").
		Where("album_images.album_id = ?", albumID).
		Order("album_images.id ASC").
		Preload("Objects", orderByID).
		Find(&images).Error
	return images, err
}
