package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/library"
)

// ProfileHandler handles requests for the caller's profile
type ProfileHandler struct {
	scopedRequest
}

// NewProfileHandler creates a new profile handler instance
func NewProfileHandler(timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{scopedRequest{timeout: timeout}}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	profile, err := library.NewProfileService(client).Get(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileEnvelope{Profile: toProfileResponse(profile)})
}

// UpdateProfile handles PUT and PATCH /profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	profile, err := library.NewProfileService(client).Update(ctx, library.ProfilePatch{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileEnvelope{Profile: toProfileResponse(profile)})
}
