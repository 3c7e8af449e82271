package auth

import (
	"context"

	"photolabel/apperror"
	"photolabel/models"
)

// OwnedResources is what the guard needs to look up ownership
type OwnedResources interface {
	ImageByID(ctx context.Context, id uint64) (*models.Image, error)
	AlbumByID(ctx context.Context, id uint64) (*models.Album, error)
}

// Guard checks resource ownership before anything is written
type Guard struct {
	resources OwnedResources
}

func NewGuard(resources OwnedResources) *Guard {
	return &Guard{resources: resources}
}

// SelfScope allows only the caller to act on paths naming their own user id
func SelfScope(caller *models.User, userID uint64) error {
	if caller == nil {
		return apperror.ErrUnauthenticated
	}
	if caller.ID != userID {
		return apperror.ErrForbidden
	}
	return nil
}

// ImageOwnedBy loads the image and makes sure userID owns it
func (g *Guard) ImageOwnedBy(ctx context.Context, imageID, userID uint64) (*models.Image, error) {
	image, err := g.resources.ImageByID(ctx, imageID)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if image == nil {
		return nil, apperror.NotFound("Image")
	}
	if image.OwnerID != userID {
		return nil, apperror.ErrForbidden
	}
	return image, nil
}

// AlbumOwnedBy loads the album and makes sure userID owns it
func (g *Guard) AlbumOwnedBy(ctx context.Context, albumID, userID uint64) (*models.Album, error) {
	album, err := g.resources.AlbumByID(ctx, albumID)
	if err != nil {
		return nil, apperror.ErrInternal.WithInternal(err)
	}
	if album == nil {
		return nil, apperror.NotFound("Album")
	}
	if album.OwnerID != userID {
		return nil, apperror.ErrForbidden
	}
	return album, nil
}
