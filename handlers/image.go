package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photolabel/apperror"
	"photolabel/models"
	"photolabel/processing"
	"photolabel/storage"
	"photolabel/utils"
)

const (
	formFieldFile    = "file"
	formFieldObjects = "objects"
	labelParam       = "label"
	imageIDParam     = "image_id"

	// multipartOverhead is the room left for form framing and extra fields around the file
	multipartOverhead = 1 << 20
)

var errFileTooLarge = apperror.New(http.StatusRequestEntityTooLarge, "too_large", "File too large")

type ObjectCreateRequest struct {
	Object string `form:"object" json:"object" binding:"required,max=250"`
}

// ImageUpload classifies the uploaded file and stores it with its labels for the caller
func (h *Handlers) ImageUpload(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	header, err := h.uploadedFile(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	path := utils.SanitizeFileName(header.Filename)
	if path == "" {
		h.respondError(c, apperror.BadRequest("file name is required"))
		return
	}
	existing, err := h.Store.ImageByPath(ctx, user.ID, path)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if existing != nil {
		h.respondError(c, apperror.Conflict("Image already exists"))
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
	for _, object := range c.PostFormArray(formFieldObjects) {
		if object = strings.TrimSpace(object); object != "" {
			labels = append(labels, object)
		}
	}

	keep, discard := h.keepOriginal(ctx, data)
	image, err := h.Store.CreateImage(ctx, user.ID, path, labels, keep)
	if err != nil {
		discard()
		h.respondError(c, err)
		return
	}
	h.Log.Info("image uploaded",
		zap.Uint64("image_id", image.ID),
		zap.Uint64("owner_id", image.OwnerID),
		zap.Strings("labels", labels))
	c.JSON(http.StatusOK, image)
}

// uploadedFile returns the multipart "file" part. The request body is capped first so an
// oversized upload is cut off while it is being read.
func (h *Handlers) uploadedFile(c *gin.Context) (*multipart.FileHeader, error) {
	if h.MaxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload+multipartOverhead)
	}
	header, err := c.FormFile(formFieldFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, errFileTooLarge
		}
		return nil, apperror.BadRequest("multipart field \"file\" is required")
	}
	if h.MaxUpload > 0 && header.Size > h.MaxUpload {
		return nil, errFileTooLarge
	}
	return header, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// classify runs the classifier. Undecodable or oversized images are the client's fault, anything
// else is reported as a classifier failure.
func (h *Handlers) classify(c *gin.Context, data []byte) ([]string, error) {
	labels, err := h.Classifier.Classify(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, processing.ErrUnsupportedImage) {
			return nil, apperror.BadRequest("File is not a supported image")
		}
		return nil, apperror.ErrClassifier.WithInternal(err)
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

// keepOriginal returns the ingest hook writing the upload to storage, and discard which removes
// what the hook wrote when the ingest fails afterwards. Without storage the hook is nil.
func (h *Handlers) keepOriginal(ctx context.Context, data []byte) (keep func(*models.Image) error, discard func()) {
	if h.Storage == nil {
		return nil, func() {}
	}
	saved := ""
	keep = func(image *models.Image) error {
		key := storage.ImagePath(image.OwnerID, image.ID, image.Path)
		if _, err := h.Storage.Save(ctx, key, bytes.NewReader(data), http.DetectContentType(data)); err != nil {
			return apperror.ErrInternal.WithInternal(err)
		}
		saved = key
		return nil
	}
	discard = func() {
		if saved == "" {
			return
		}
		if err := h.Storage.Delete(context.WithoutCancel(ctx), saved); err != nil {
			h.Log.Warn("orphaned upload", zap.String("path", saved), zap.Error(err))
		}
		saved = ""
	}
	return keep, discard
}

func (h *Handlers) ImageList(c *gin.Context, _ *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	images, err := h.Store.ListImages(c.Request.Context(), page)
	h.writeImages(c, images, err)
}

// ImageSearch lists images of every owner having a label containing :label
func (h *Handlers) ImageSearch(c *gin.Context, _ *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	images, err := h.Store.SearchImages(c.Request.Context(), c.Param(labelParam), nil, page)
	h.writeImages(c, images, err)
}

// ImageAddObject appends a label to any image, whoever owns it
func (h *Handlers) ImageAddObject(c *gin.Context, _ *models.User) {
	imageID, err := idParam(c, imageIDParam, "Image")
	if err != nil {
		h.respondError(c, err)
		return
	}
	r := ObjectCreateRequest{}
	if err = c.ShouldBind(&r); err != nil {
		h.respondError(c, apperror.BadRequest(err.Error()))
		return
	}
	object, err := h.Store.AddObject(c.Request.Context(), imageID, strings.TrimSpace(r.Object))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, object)
}

func (h *Handlers) OwnImages(c *gin.Context, user *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	images, err := h.Store.ListImagesByOwner(c.Request.Context(), user.ID, page)
	h.writeImages(c, images, err)
}

func (h *Handlers) OwnImageSearch(c *gin.Context, user *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	images, err := h.Store.SearchImages(c.Request.Context(), c.Param(labelParam), &user.ID, page)
	h.writeImages(c, images, err)
}

func (h *Handlers) writeImages(c *gin.Context, images []models.Image, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// imageOwnedByCaller resolves :image_id to one of the caller's images
func (h *Handlers) imageOwnedByCaller(c *gin.Context, user *models.User) (*models.Image, error) {
	imageID, err := idParam(c, imageIDParam, "Image")
	if err != nil {
		return nil, err
	}
	return h.Guard.ImageOwnedBy(c.Request.Context(), imageID, user.ID)
}
