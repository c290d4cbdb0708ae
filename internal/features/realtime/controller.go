package realtime

import (
	"go-portal/pkg/utils"

	"github.com/gofiber/contrib/websocket"
)

type RealtimeController struct {
	Hub *Hub
}

func NewRealtimeController(hub *Hub) *RealtimeController {
	return &RealtimeController{
		Hub: hub,
	}
}

// HandleWebSocket authenticates the connection by query token (browsers
// cannot set headers on websocket upgrades) and keeps it registered
// until the client goes away.
func (h *RealtimeController) HandleWebSocket(c *websocket.Conn) {
	claims, err := utils.ValidateToken(c.Query("token"))
	if err != nil {
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"))
		c.Close()
		return
	}

	h.Hub.Register(claims.UserID, c)
	defer func() {
		h.Hub.Unregister(claims.UserID, c)
		c.Close()
	}()

	// Inbound frames are ignored; the read loop only detects disconnect
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
