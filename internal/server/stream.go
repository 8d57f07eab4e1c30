package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ddx-510/opencode-pixel-office/internal/wire"
	"github.com/ddx-510/opencode-pixel-office/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local visualization feed; origins are filtered by CORS upstream
	},
}

const writeTimeout = 5 * time.Second

// hub fans scene snapshots out to connected renderer clients.
type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]string
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]string)}
}

// handleStream upgrades the connection and keeps it registered until the
// client goes away. Clients only listen; inbound frames are drained and
// dropped.
func (h *hub) handleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("stream upgrade error: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	h.mu.Lock()
	h.clients[conn] = id
	h.mu.Unlock()
	logger.Infof("stream client connected: %s", id)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		logger.Infof("stream client disconnected: %s", id)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("stream read error from %s: %v", id, err)
			}
			return
		}
	}
}

// broadcast pushes one scene message to every client, dropping connections
// that fail to accept it in time.
func (h *hub) broadcast(snap wire.SceneSnapshot) {
	msg := wire.Message{Type: wire.MessageTypeScene, Payload: snap}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.mu.Lock()
			id := h.clients[conn]
			delete(h.clients, conn)
			h.mu.Unlock()
			logger.Warnf("dropping stream client %s: %v", id, err)
			conn.Close()
		}
	}
}
