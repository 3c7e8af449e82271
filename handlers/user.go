package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"photolabel/apperror"
	"photolabel/auth"
	"photolabel/models"
)

type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserCreateRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=150"`
	Password string `json:"password" binding:"required"`
}

// Token exchanges a username and password (OAuth2 password form) for a bearer token
func (h *Handlers) Token(c *gin.Context, _ *models.User) {
	r := TokenRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		h.respondError(c, apperror.BadRequest(err.Error()))
		return
	}
	user, err := h.Credentials.Authenticate(c.Request.Context(), r.Username, r.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	token, err := h.Credentials.IssueToken(user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handlers) UserCreate(c *gin.Context, _ *models.User) {
	r := UserCreateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		h.respondError(c, apperror.BadRequest(err.Error()))
		return
	}
	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	user, err := h.Store.CreateUser(c.Request.Context(), r.Username, r.Email, hash)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) UserList(c *gin.Context, _ *models.User) {
	page, err := h.page(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	users, err := h.Store.ListUsers(c.Request.Context(), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handlers) UserGet(c *gin.Context, _ *models.User) {
	id, err := idParam(c, auth.UserIDParam, "User")
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.writeUser(c, id)
}

func (h *Handlers) UserMe(c *gin.Context, user *models.User) {
	h.writeUser(c, user.ID)
}

func (h *Handlers) writeUser(c *gin.Context, id uint64) {
	user, err := h.Store.UserWithImages(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if user == nil {
		h.respondError(c, apperror.NotFound("User"))
		return
	}
	c.JSON(http.StatusOK, user)
}
