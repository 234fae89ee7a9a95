package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type feedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// GiveFeedback records the owner's one-time rating of a complaint.
func (h *Handler) GiveFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.Complaints.SubmitFeedback(principalFrom(c), c.Param("reference"), req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

// FeedbackOverview shows a staff member the feedback left on their
// department's complaints, together with the department totals and the
// figures for resolved complaints they personally responded to.
func (h *Handler) FeedbackOverview(c *gin.Context) {
	p := principalFrom(c)
	scope, err := p.Scope()
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.Storage.ListFeedback(scope, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	totals, err := h.Storage.FeedbackTotals(scope)
	if err != nil {
		respondError(c, err)
		return
	}
	mine, err := h.Stats.ResponderFeedback(p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": entries,
		"totals":   totals,
		"mine":     mine,
	})
}
