package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/logstream/pkg/logging"
	"github.com/DeBrosOfficial/logstream/pkg/stream"
)

const wsWriteWait = 30 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same policy as CORS: any origin may read the log.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the JSON envelope of one frame.
type wsMessage struct {
	Type      string `json:"type"`
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// wsClient wraps a WebSocket connection carrying one stream session.
type wsClient struct {
	conn      *websocket.Conn
	sessionID string
	clock     clock.Clock
	logger    *logging.ColoredLogger
}

func newWSClient(conn *websocket.Conn, sessionID string, clk clock.Clock, logger *logging.ColoredLogger) *wsClient {
	return &wsClient{
		conn:      conn,
		sessionID: sessionID,
		clock:     clk,
		logger:    logger,
	}
}

// send writes one frame. Heartbeats become ping control frames.
func (c *wsClient) send(f stream.Frame) error {
	// Deadlines are for the network stack and always use the wall clock.
	deadline := time.Now().Add(wsWriteWait)

	if f.Kind == stream.Heartbeat {
		return c.conn.WriteControl(websocket.PingMessage, nil, deadline)
	}

	msg := wsMessage{
		Type:      f.Kind.String(),
		Data:      f.Text(),
		Timestamp: c.clock.Now().UnixMilli(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.ComponentDebug(logging.ComponentGateway, "ws: write failed",
			zap.String("session_id", c.sessionID),
			zap.Error(err))
		return err
	}
	return nil
}

// readLoop discards client messages and calls onClose once the connection is
// gone. Reading is also what processes the client's close and pong frames.
func (c *wsClient) readLoop(onClose func()) {
	defer onClose()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.ComponentDebug(logging.ComponentGateway, "ws: read ended",
					zap.String("session_id", c.sessionID),
					zap.Error(err))
			}
			return
		}
	}
}

// close sends a close frame, best effort, and closes the connection.
func (c *wsClient) close(code int, text string) error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(time.Second))
	return c.conn.Close()
}
