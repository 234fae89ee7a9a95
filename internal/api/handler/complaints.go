package handler

import (
	"net/http"

	"servicom/backend/internal/complaint"
	"servicom/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type submitComplaintRequest struct {
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description" binding:"required"`
	DepartmentID *uint  `json:"department_id"`
	FilePath     string `json:"file_path"`
}

type transitionRequest struct {
	Status    string `json:"status" binding:"required"`
	Narrative string `json:"narrative"`
	Response  string `json:"response"`
}

type respondRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// SubmitComplaint files a new complaint owned by the caller.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req submitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Complaints.Create(principalFrom(c), complaint.CreateInput{
		Category:     models.Category(req.Category),
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		FilePath:     req.FilePath,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// TrackComplaint looks a complaint up by its reference. Owners and staff of
// the routed department may see it; everybody else gets a 403.
func (h *Handler) TrackComplaint(c *gin.Context) {
	found, err := h.Complaints.Track(principalFrom(c), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListComplaints returns the caller's scoped complaint list: a citizen's own
// filings, or a staff member's department queue. An optional status query
// filter narrows the list.
func (h *Handler) ListComplaints(c *gin.Context) {
	status := models.Status(c.Query("status"))
	if status != "" && !status.Known() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized status filter"})
		return
	}

	complaints, err := h.Identity.VisibleComplaints(principalFrom(c), status, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// TransitionComplaint moves a complaint to a new status, optionally recording
// the narrative and a response comment in the same transaction.
func (h *Handler) TransitionComplaint(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Complaints.Transition(principalFrom(c), c.Param("reference"),
		models.Status(req.Status), req.Narrative, req.Response)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RespondToComplaint appends a staff comment without changing the status.
func (h *Handler) RespondToComplaint(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.Complaints.AddResponse(principalFrom(c), c.Param("reference"), req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// ListDepartments returns every department, for the intake routing picker.
func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.Storage.ListDepartments()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}
