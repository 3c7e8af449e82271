package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photolabel/auth"
)

// Route is one entry of the policy table
type Route struct {
	Method  string
	Path    string
	Policy  auth.Policy
	Handler auth.HandlerFunc
}

// Routes is the per-operation policy table. Label search and label add are open to anyone,
// routes naming a :user_id only ever act on the caller's own rows.
func (h *Handlers) Routes() []Route {
	return []Route{
		{http.MethodGet, "/health", auth.PolicyOpen, h.Health},
		// Credentials and users
		{http.MethodPost, "/token", auth.PolicyOpen, h.Token},
		{http.MethodPost, "/users/", auth.PolicyOpen, h.UserCreate},
		{http.MethodGet, "/users/", auth.PolicyOpen, h.UserList},
		{http.MethodGet, "/users/me", auth.PolicyAuthenticated, h.UserMe},
		{http.MethodGet, "/users/:user_id", auth.PolicyOpen, h.UserGet},
		// Images and labels
		{http.MethodGet, "/images/", auth.PolicyOpen, h.ImageList},
		{http.MethodGet, "/images/:label", auth.PolicyOpen, h.ImageSearch},
		{http.MethodPost, "/images/:image_id/objects", auth.PolicyOpen, h.ImageAddObject},
		{http.MethodPost, "/predict", auth.PolicyOpen, h.Predict},
		{http.MethodGet, "/users/me/images/", auth.PolicyAuthenticated, h.OwnImages},
		{http.MethodGet, "/users/me/images/:label", auth.PolicyAuthenticated, h.OwnImageSearch},
		{http.MethodPost, "/users/:user_id/images/", auth.PolicySelfScoped, h.ImageUpload},
		{http.MethodGet, "/users/:user_id/images/", auth.PolicySelfScoped, h.OwnImages},
		{http.MethodGet, "/users/:user_id/images/:label", auth.PolicySelfScoped, h.OwnImageSearch},
		// Albums
		{http.MethodGet, "/images/albums/", auth.PolicyOpen, h.AlbumList},
		{http.MethodPost, "/images/albums/", auth.PolicyAuthenticated, h.AlbumCreate},
		{http.MethodGet, "/users/me/images/albums/", auth.PolicyAuthenticated, h.OwnAlbumList},
		{http.MethodPost, "/users/me/images/albums/", auth.PolicyAuthenticated, h.AlbumCreate},
		{http.MethodGet, "/users/:user_id/images/albums/", auth.PolicySelfScoped, h.OwnAlbumList},
		{http.MethodPost, "/users/:user_id/images/albums/", auth.PolicySelfScoped, h.AlbumCreate},
		{http.MethodGet, "/users/:user_id/images/albums/:album_id", auth.PolicySelfScoped, h.AlbumImages},
		{http.MethodPost, "/users/:user_id/images/albums/:album_id", auth.PolicySelfScoped, h.AlbumAddImage},
		// Favorites
		{http.MethodGet, "/users/me/images/favorites/", auth.PolicyAuthenticated, h.FavoriteList},
		{http.MethodGet, "/users/:user_id/images/favorites/", auth.PolicySelfScoped, h.FavoriteList},
		{http.MethodPost, "/users/:user_id/images/:image_id/favorites", auth.PolicySelfScoped, h.FavoriteCreate},
	}
}

// Register mounts every route of the policy table on router
func (h *Handlers) Register(router gin.IRoutes) {
	authRouter := &auth.Router{
		Base:        router,
		Credentials: h.Credentials,
		OnError:     h.respondError,
	}
	for _, r := range h.Routes() {
		authRouter.Handle(r.Method, r.Path, r.Policy, r.Handler)
	}
}
