package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/identity"
	"github.com/stwalsh4118/lyra/internal/middleware"
)

// Dependencies are the long-lived collaborators shared by every handler.
// The database is reachable by resource handlers only through the scope factory.
type Dependencies struct {
	DB             *db.DB
	Factory        *db.ScopeFactory
	Provider       *identity.LocalProvider
	Issuer         *identity.TokenIssuer
	Verifier       *identity.Verifier
	RequestTimeout time.Duration
}

// SetupRoutes registers every route on router
func SetupRoutes(router gin.IRouter, deps Dependencies) {
	health := NewHealthHandler(deps.DB, deps.Verifier.RevocationEnabled())
	router.GET("/health", health.Check)

	authHandler := NewAuthHandler(deps.Provider, deps.Issuer, deps.Verifier, deps.Factory, deps.RequestTimeout)
	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := router.Group("")
	protected.Use(middleware.Authenticate(deps.Verifier, deps.Factory))

	protected.POST("/auth/logout", authHandler.Logout)

	profiles := NewProfileHandler(deps.RequestTimeout)
	protected.GET("/profile", profiles.GetProfile)
	protected.PUT("/profile", profiles.UpdateProfile)
	protected.PATCH("/profile", profiles.UpdateProfile)

	playlists := NewPlaylistHandler(deps.RequestTimeout)
	protected.POST("/playlists", playlists.CreatePlaylist)
	protected.GET("/playlists", playlists.ListPlaylists)
	protected.GET("/playlists/:id", playlists.GetPlaylist)
	protected.PATCH("/playlists/:id", playlists.UpdatePlaylist)
	protected.DELETE("/playlists/:id", playlists.DeletePlaylist)
	protected.POST("/playlists/:id/items", playlists.AddPlaylistItem)
	protected.DELETE("/playlists/:id/items/:item_id", playlists.RemovePlaylistItem)

	favorites := NewFavoriteHandler(deps.RequestTimeout)
	protected.POST("/favorites", favorites.AddFavorite)
	protected.GET("/favorites", favorites.ListFavorites)
	protected.DELETE("/favorites/:track_id", favorites.RemoveFavorite)
}
