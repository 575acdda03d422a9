package handlers

import (
	"net/http"

	"taskboard/internal/logger"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the API is open CORS-wise, the feed carries no secrets
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS upgrades the connection and streams task change events to the client.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}
		ws.NewClient(conn, hub).Run()
	}
}
