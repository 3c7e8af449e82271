package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photolabel/apperror"
	"photolabel/auth"
	"photolabel/models"
	"photolabel/processing"
	"photolabel/storage"
	"photolabel/utils"
)

type Response struct {
	Error string `json:"error"`
}

// Handlers holds everything the HTTP handlers need. Storage may be nil.
type Handlers struct {
	Store       *models.Store
	Credentials *auth.Credentials
	Guard       *auth.Guard
	Classifier  processing.Classifier
	Storage     storage.StorageAPI
	MaxUpload   int64 // bytes
	Log         *zap.Logger
}

// respondError writes err as {"error": message}. Internal causes go to the log only.
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(utils.RequestIDKey)),
			zap.Error(err))
	}
	if appErr.HTTPStatus == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, Response{Error: appErr.Message})
}

func (h *Handlers) page(c *gin.Context) (models.Page, error) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return models.Page{}, apperror.BadRequest("skip must be a non-negative integer")
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultLimit)))
	if err != nil || limit < 0 {
		return models.Page{}, apperror.BadRequest("limit must be a non-negative integer")
	}
	return models.Page{Offset: skip, Limit: limit}.Normalize(), nil
}

// idParam parses a numeric path parameter; anything else cannot name an existing row
func idParam(c *gin.Context, name, what string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperror.NotFound(what)
	}
	return id, nil
}

func (h *Handlers) Health(c *gin.Context, _ *models.User) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
