package models

import (
	"context"
	"fmt"

	"photolabel/apperror"
)

// ImageObject is a label attached to an image, usually produced by the classifier.
// The same label may appear more than once on one image.
type ImageObject struct {
	ID      uint64 `gorm:"primaryKey" json:"id"`
	Object  string `gorm:"type:varchar(250);not null;index" json:"object"`
	ImageID uint64 `gorm:"not null;index" json:"image_id"`
}

// AddObject appends a label to an existing image
func (s *Store) AddObject(ctx context.Context, imageID uint64, object string) (*ImageObject, error) {
	image, err := first[Image](s.conn(ctx), "id = ?", imageID)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperror.NotFound("Image")
	}
	o := ImageObject{Object: object, ImageID: imageID}
	if err := s.conn(ctx).Create(&o).Error; err != nil {
		return nil, fmt.Errorf("create image object: %w", err)
	}
	return &o, nil
}
