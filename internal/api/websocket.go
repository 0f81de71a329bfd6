package api

import (
	"encoding/json"
	"net/http"
	"time"

	"concierge/internal/concierge"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket actions
const (
	ActionDailyCheck = "daily_check"
	ActionStatus     = "status"
	ActionEvents     = "events"
)

const (
	wsReadLimit    = 64 * 1024
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteWait    = 10 * time.Second
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Command is a request received over the websocket
type Command struct {
	Action string `json:"action"`
	Days   int    `json:"days,omitempty"`
}

// Reply answers a Command
type Reply struct {
	Action string      `json:"action,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// wsConnection maintains the websocket connection with one client
type wsConnection struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// handleWebSocket upgrades the request and starts the pumps
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Printf("Failed to upgrade connection: %v", err)
		return
	}

	ws := &wsConnection{
		conn:   conn,
		send:   make(chan []byte, 16),
		server: s,
	}

	go ws.writePump()
	go ws.readPump()
}

// readPump reads commands until the client goes away. It owns the send
// channel and closes it on exit.
func (c *wsConnection) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(wsReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Printf("WebSocket error: %v", err)
			}
			return
		}
		c.reply(c.handleMessage(message))
	}
}

// writePump writes queued replies and keeps the connection alive
func (c *wsConnection) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage runs one command against the concierge
func (c *wsConnection) handleMessage(message []byte) Reply {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		return Reply{Error: "invalid command: " + err.Error()}
	}

	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Action {
	case ActionDailyCheck:
		return Reply{Action: cmd.Action, Data: s.concierge.DailyCheck()}
	case ActionStatus:
		return Reply{Action: cmd.Action, Data: s.concierge.SystemStatus()}
	case ActionEvents:
		days := cmd.Days
		if days <= 0 {
			days = concierge.UpcomingWindowDays
		}
		return Reply{Action: cmd.Action, Data: s.concierge.UpcomingEvents(days)}
	default:
		return Reply{Error: "unknown action: " + cmd.Action}
	}
}

func (c *wsConnection) reply(r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		c.server.logger.Printf("Error marshaling reply: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.server.logger.Println("WebSocket buffer full, dropping message")
	}
}
