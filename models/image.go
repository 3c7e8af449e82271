package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"photolabel/apperror"
	"photolabel/db"
)

type Image struct {
	ID        uint64        `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time     `json:"-"`
	OwnerID   uint64        `gorm:"not null;uniqueIndex:uniq_owner_path,priority:1" json:"owner_id"`
	Path      string        `gorm:"type:varchar(300);not null;uniqueIndex:uniq_owner_path,priority:2;index" json:"path"`
	Objects   []ImageObject `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"objects"`
}

func orderByID(tx *gorm.DB) *gorm.DB {
	return tx.Order("id ASC")
}

// CreateImage stores an image and its labels as one unit. afterCreate, when given, runs inside the
// same transaction once the image has its ID and before the labels are written; an error from it
// rolls everything back.
func (s *Store) CreateImage(ctx context.Context, ownerID uint64, path string, objects []string, afterCreate func(*Image) error) (*Image, error) {
	image := Image{OwnerID: ownerID, Path: path, Objects: []ImageObject{}}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Objects").Create(&image).Error; err != nil {
			if db.IsDuplicate(err) {
				return apperror.Conflict("Image already exists")
			}
			return fmt.Errorf("create image: %w", err)
		}
		if afterCreate != nil {
			if err := afterCreate(&image); err != nil {
				return err
			}
		}
		for _, object := range objects {
			o := ImageObject{Object: object, ImageID: image.ID}
			if err := tx.Create(&o).Error; err != nil {
				return fmt.Errorf("create image object %q: %w", object, err)
			}
			image.Objects = append(image.Objects, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// ImageByPath is the advisory duplicate check done before ingest
func (s *Store) ImageByPath(ctx context.Context, ownerID uint64, path string) (*Image, error) {
	return first[Image](s.conn(ctx), "owner_id = ? AND path = ?", ownerID, path)
}

func (s *Store) ImageByID(ctx context.Context, id uint64) (*Image, error) {
	return first[Image](s.conn(ctx).Preload("Objects", orderByID), "id = ?", id)
}

func (s *Store) ListImages(ctx context.Context, page Page) ([]Image, error) {
	return s.findImages(page.apply(s.conn(ctx)))
}

func (s *Store) ListImagesByOwner(ctx context.Context, ownerID uint64, page Page) ([]Image, error) {
	return s.findImages(page.apply(s.conn(ctx)).Where("owner_id = ?", ownerID))
}

// SearchImages returns images having at least one label that contains term (case-sensitive).
// A nil ownerID searches across all owners.
func (s *Store) SearchImages(ctx context.Context, term string, ownerID *uint64, page Page) ([]Image, error) {
	tx := s.conn(ctx)
	sub := tx.Session(&gorm.Session{NewDB: true}).Model(&ImageObject{}).Select("image_id")
	if db.IsMySQL(s.db) {
		sub = sub.Where("INSTR(CAST(object AS BINARY), CAST(? AS BINARY)) > 0", term)
	} else {
		sub = sub.Where("instr(object, ?) > 0", term)
	}
	tx = page.apply(tx).Where("id IN (?)", sub)
	if ownerID != nil {
		tx = tx.Where("owner_id = ?", *ownerID)
	}
	return s.findImages(tx)
}

func (s *Store) findImages(tx *gorm.DB) ([]Image, error) {
	images := []Image{}
	err := tx.Preload("Objects", orderByID).Order("id ASC").Find(&images).Error
	return images, err
}
