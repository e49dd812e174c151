package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alexanderramin/inbox/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Identity comes from the X-User-ID header set upstream, not from cookies.
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamMessage is one frame on the event stream.
type streamMessage struct {
	Type      string            `json:"type"`
	Event     domain.DraftEvent `json:"event"`
	Timestamp time.Time         `json:"timestamp"`
}

// EventStream upgrades to a websocket and forwards the caller's draft events
// until either side closes. Incoming frames are read only to observe close.
func (h *Handler) EventStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket_upgrade_failed", "error", err)
		return
	}
	user := userID(c)
	sub := h.bus.Subscribe(user)
	h.logger.Info("websocket_connected", "user_id", user)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		readTimeout := 2 * h.pingPeriod
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn("websocket_read_failed", "user_id", user, "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		conn.Close()
		h.logger.Info("websocket_disconnected", "user_id", user, "dropped", sub.Dropped())
	}()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			msg := streamMessage{Type: "draft_event", Event: event, Timestamp: time.Now().UTC()}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("websocket_write_failed", "user_id", user, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
