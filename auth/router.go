package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photolabel/apperror"
	"photolabel/models"
)

// HandlerFunc receives the resolved caller. user is nil on open routes.
type HandlerFunc func(c *gin.Context, user *models.User)

// ErrorWriter renders an error response
type ErrorWriter func(c *gin.Context, err error)

// Router is a wrapper that resolves the caller and applies the route's policy before the handler runs
type Router struct {
	Base        gin.IRoutes
	Credentials *Credentials
	OnError     ErrorWriter
}

func (r *Router) baseExec(c *gin.Context, handler HandlerFunc, policy Policy) {
	if policy == PolicyOpen {
		handler(c, nil)
		return
	}
	user, err := r.caller(c)
	if err == nil && policy == PolicySelfScoped {
		err = r.selfScope(c, user)
	}
	if err != nil {
		r.OnError(c, err)
		return
	}
	handler(c, user)
}

func (r *Router) caller(c *gin.Context) (*models.User, error) {
	token, ok := BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil, apperror.ErrUnauthenticated.WithMessage("Not authenticated")
	}
	user, err := r.Credentials.Resolve(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	return RequireActive(user)
}

func (r *Router) selfScope(c *gin.Context, user *models.User) error {
	userID, err := strconv.ParseUint(c.Param(UserIDParam), 10, 64)
	if err != nil {
		return apperror.NotFound("User")
	}
	return SelfScope(user, userID)
}

func (r *Router) Handle(method, path string, policy Policy, handler HandlerFunc) {
	r.Base.Handle(method, path, func(c *gin.Context) {
		r.baseExec(c, handler, policy)
	})
}

func (r *Router) POST(path string, policy Policy, handler HandlerFunc) {
	r.Handle(http.MethodPost, path, policy, handler)
}

func (r *Router) GET(path string, policy Policy, handler HandlerFunc) {
	r.Handle(http.MethodGet, path, policy, handler)
}
