package handler

import (
	"log"
	"net/http"

	"servicom/backend/internal/livefeed"
	"servicom/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth happens before the upgrade; the origin adds nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeFeed upgrades to a websocket and streams the caller's department
// events to their dashboard. Staff only; the route sits behind StaffOnly.
func (h *Handler) ServeFeed(c *gin.Context) {
	p := principalFrom(c)
	dept, err := p.Department()
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Websocket upgrade failed for %s: %v", p.UserID, err)
		return
	}

	client := &livefeed.WebSocketClient{
		UserID:       p.UserID,
		DepartmentID: dept,
		Conn:         conn,
		Hub:          h.Hub,
		Send:         make(chan models.NotificationEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
