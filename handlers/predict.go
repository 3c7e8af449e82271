package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photolabel/models"
)

type PredictResponse struct {
	Labels []string `json:"labels"`
}

// Predict classifies an uploaded file and returns its labels without storing anything
func (h *Handlers) Predict(c *gin.Context, _ *models.User) {
	header, err := h.uploadedFile(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	data, err := readUpload(header)
	if err != nil {
		h.respondError(c, err)
		return
	}
	labels, err := h.classify(c, data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PredictResponse{Labels: labels})
}
