package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	Bio         *string `json:"bio"`
	ImagePath   *string `json:"image_path"`
	IDCode      *string `json:"id_code"`
}

// GetProfile returns the caller's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	p := principalFrom(c)
	profile, err := h.Storage.EnsureProfile(p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile patches the caller's contact details. Only the fields present
// in the request change. Department assignment is an operator action and is
// not editable here.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := principalFrom(c)
	profile, err := h.Storage.EnsureProfile(p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.ImagePath != nil {
		profile.ImagePath = *req.ImagePath
	}
	if req.IDCode != nil {
		profile.IDCode = *req.IDCode
	}

	if err := h.Storage.UpdateProfile(profile); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
