package handler

import (
	"errors"
	"net/http"

	"servicom/backend/internal/complaint"
	"servicom/backend/internal/identity"
	"servicom/backend/internal/livefeed"
	"servicom/backend/internal/servierrors"
	"servicom/backend/internal/stats"
	"servicom/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler carries the services the HTTP routes dispatch into.
type Handler struct {
	Identity   *identity.Service
	Complaints *complaint.Service
	Stats      *stats.Service
	Storage    storage.Storage
	Hub        *livefeed.Hub
}

func NewHandler(id *identity.Service, cs *complaint.Service, st *stats.Service, s storage.Storage, hub *livefeed.Hub) *Handler {
	return &Handler{
		Identity:   id,
		Complaints: cs,
		Stats:      st,
		Storage:    s,
		Hub:        hub,
	}
}

// respondError maps a coded service error onto an HTTP status. Uncoded
// errors stay opaque 500s; their details belong in the log, not the client.
func respondError(c *gin.Context, err error) {
	kind := servierrors.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case servierrors.KindValidation:
		status = http.StatusBadRequest
	case servierrors.KindAuthorization:
		status = http.StatusForbidden
	case servierrors.KindNotFound:
		status = http.StatusNotFound
	case servierrors.KindAlreadyExists, servierrors.KindConflict, servierrors.KindInvalidTransition:
		status = http.StatusConflict
	case servierrors.KindConfiguration:
		status = http.StatusInternalServerError
	}

	message := "internal server error"
	var coded *servierrors.Error
	if errors.As(err, &coded) {
		message = coded.Message
	}

	c.JSON(status, gin.H{"error": message, "kind": kind})
}
