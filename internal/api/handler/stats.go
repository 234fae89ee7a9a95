package handler

import (
	"net/http"

	"servicom/backend/internal/config"
	"servicom/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Home is the public landing payload: the global snapshot plus the freshest
// complaints. No authentication, no scoping.
func (h *Handler) Home(c *gin.Context) {
	snapshot, err := h.Stats.Compute(storage.Scope{})
	if err != nil {
		respondError(c, err)
		return
	}

	recent, err := h.Storage.ListComplaints(storage.Scope{}, "", config.RecentComplaintsLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":  snapshot,
		"recent": recent,
	})
}

// Dashboard is the caller's scoped view: a citizen sees figures over their
// own filings, a staff member over their department's queue. Staff
// additionally get the feedback totals for resolved complaints they
// personally responded to.
func (h *Handler) Dashboard(c *gin.Context) {
	p := principalFrom(c)
	scope, err := p.Scope()
	if err != nil {
		respondError(c, err)
		return
	}

	snapshot, err := h.Stats.Compute(scope)
	if err != nil {
		respondError(c, err)
		return
	}

	recent, err := h.Storage.ListComplaints(scope, "", config.RecentComplaintsLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := gin.H{
		"stats":  snapshot,
		"recent": recent,
	}

	if p.IsStaff() {
		mine, err := h.Stats.ResponderFeedback(p.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		payload["my_feedback"] = mine
	}

	c.JSON(http.StatusOK, payload)
}
