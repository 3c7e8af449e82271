package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photolabel/apperror"
	"photolabel/models"
)

const albumIDParam = "album_id"

type AlbumCreateRequest struct {
	Name string `form:"name" json:"name" binding:"required,max=300"`
}

type AlbumImageRequest struct {
	ImageID uint64 `form:"image_id" json:"image_id" binding:"required"`
}

// AlbumList lists the albums of every user
func (h *Handlers) AlbumList(c *gin.Context, _ *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	albums, err := h.Store.ListAlbums(c.Request.Context(), nil, page)
	h.writeAlbums(c, albums, err)
}

func (h *Handlers) OwnAlbumList(c *gin.Context, user *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	albums, err := h.Store.ListAlbums(c.Request.Context(), &user.ID, page)
	h.writeAlbums(c, albums, err)
}

// AlbumCreate creates an album owned by the caller
func (h *Handlers) AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumCreateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		h.respondError(c, apperror.BadRequest(err.Error()))
		return
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		h.respondError(c, apperror.BadRequest("album name is required"))
		return
	}
	album, err := h.Store.CreateAlbum(c.Request.Context(), user.ID, name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

// AlbumAddImage puts one of the caller's images into one of the caller's albums
func (h *Handlers) AlbumAddImage(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	albumID, err := idParam(c, albumIDParam, "Album")
	if err != nil {
		h.respondError(c, err)
		return
	}
	r := AlbumImageRequest{}
	if err = c.ShouldBind(&r); err != nil {
		h.respondError(c, apperror.BadRequest(err.Error()))
		return
	}
	if _, err = h.Guard.AlbumOwnedBy(ctx, albumID, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	if _, err = h.Guard.ImageOwnedBy(ctx, r.ImageID, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	membership, err := h.Store.AddImageToAlbum(ctx, albumID, r.ImageID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

func (h *Handlers) AlbumImages(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	albumID, err := idParam(c, albumIDParam, "Album")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if _, err = h.Guard.AlbumOwnedBy(ctx, albumID, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	images, err := h.Store.AlbumImages(ctx, albumID)
	h.writeImages(c, images, err)
}

func (h *Handlers) writeAlbums(c *gin.Context, albums []models.Album, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, albums)
}
