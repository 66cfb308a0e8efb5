package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// The browser client connects from a different origin than the API, so
// the upgrader accepts any origin; authentication happens via the session
// token before the upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Serve upgrades the request and runs the read/write loops for an
// already-authenticated user.
func (m *ConnManager) Serve(c *gin.Context, userUuid string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := m.Register(userUuid, conn)
	go client.readLoop()
	go client.writeLoop()
}

// readLoop drains inbound frames. The gateway is push-only: clients
// mutate over HTTP, so anything received is discarded, but the loop must
// run to notice the peer closing.
func (c *Client) readLoop() {
	defer c.manager.Unregister(c)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop flushes the send channel to the socket until teardown.
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.SendTo:
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Debug("ws write failed", zap.String("user", c.UserUuid), zap.Error(err))
				c.manager.Unregister(c)
				return
			}
		}
	}
}
