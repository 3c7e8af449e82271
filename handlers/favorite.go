package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photolabel/models"
)

// FavoriteCreate marks one of the caller's images as a favorite. Doing it twice is a conflict.
func (h *Handlers) FavoriteCreate(c *gin.Context, user *models.User) {
	image, err := h.imageOwnedByCaller(c, user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	favorite, err := h.Store.CreateFavorite(c.Request.Context(), user.ID, image.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorite)
}

func (h *Handlers) FavoriteList(c *gin.Context, user *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	images, err := h.Store.ListFavorites(c.Request.Context(), user.ID, page)
	h.writeImages(c, images, err)
}
