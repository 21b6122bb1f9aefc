package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/pkg/serverutils"
	"techgear-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	maxPending     = 4
)

// FrameLimiter counts inbound messages per caller. Allow returns an error
// once the caller is over its limit.
type FrameLimiter interface {
	Allow(key string) error
}

// Frame is the envelope of every server to client message.
type Frame struct {
	Type  string            `json:"type"`
	Data  *dto.ChatResponse `json:"data,omitempty"`
	Error string            `json:"error,omitempty"`
}

// Client is one chat connection. Each inbound frame is answered in order.
type Client struct {
	ID             uuid.UUID
	ConversationID string

	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	clientKey string
	limiter   FrameLimiter
	chat      service.IChatbotService
	logger    logger.ILogger
}

func newClient(hub *Hub, conn *websocket.Conn, chat service.IChatbotService, limiter FrameLimiter, log logger.ILogger) *Client {
	return &Client{
		ID:             uuid.New(),
		ConversationID: uuid.NewString(),
		Hub:            hub,
		Conn:           conn,
		Send:           make(chan []byte, 16),
		limiter:        limiter,
		chat:           chat,
		logger:         log,
	}
}

// handle turns one inbound frame into one reply frame. A JSON ChatRequest
// and plain text are both accepted.
func (c *Client) handle(ctx context.Context, raw []byte) []byte {
	var req dto.ChatRequest
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(raw, &req); err != nil {
			return encodeFrame(Frame{Type: "error", Error: "Invalid message"})
		}
	} else {
		req.Query = trimmed
	}
	if req.ConversationId == "" {
		req.ConversationId = c.ConversationID
	}

	if strings.TrimSpace(req.Query) == "" {
		return encodeFrame(Frame{Type: "error", Error: "Query cannot be empty"})
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return encodeFrame(Frame{Type: "error", Error: errorMessage(err)})
	}

	res, err := c.chat.Answer(ctx, &req)
	if err != nil {
		c.logger.Error("WS", "Answer failed", map[string]interface{}{
			"client_id": c.ID,
			"error":     err.Error(),
		})
		return encodeFrame(Frame{Type: "error", Error: "Internal server error"})
	}
	return encodeFrame(Frame{Type: "answer", Data: res})
}

func encodeFrame(f Frame) []byte {
	data, _ := json.Marshal(f)
	return data
}

func errorMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

// admit counts one inbound frame against the caller's rate limit and
// returns the error frame to send back when it is refused.
func (c *Client) admit() []byte {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Allow(c.clientKey); err != nil {
		c.logger.Warn("WS", "Frame rate limited", map[string]interface{}{
			"client_id":  c.ID,
			"client_key": c.clientKey,
		})
		return encodeFrame(Frame{Type: "error", Error: errorMessage(err)})
	}
	return nil
}

// reply queues a frame for the write pump. It reports false when the
// buffer is full and the client should be dropped.
func (c *Client) reply(frame []byte) bool {
	select {
	case c.Send <- frame:
		return true
	default:
		c.logger.Warn("WS", "Send buffer full, dropping client", map[string]interface{}{"client_id": c.ID})
		return false
	}
}

// answerLoop answers queued frames one at a time until queue is closed.
// Once ctx is cancelled the remaining frames are discarded.
func (c *Client) answerLoop(ctx context.Context, queue <-chan []byte) {
	dropped := false
	for message := range queue {
		if dropped || ctx.Err() != nil {
			continue
		}
		if !c.reply(c.handle(ctx, message)) {
			dropped = true
			if c.Conn != nil {
				_ = c.Conn.Close()
			}
		}
	}
}

// readPump reads queries until the peer goes away. Answers run on a
// separate goroutine under a context that is cancelled when the peer
// disconnects or the hub stops.
func (c *Client) readPump(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	queue := make(chan []byte, maxPending)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.answerLoop(ctx, queue)
	}()
	go func() {
		select {
		case <-c.Hub.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	defer func() {
		cancel()
		close(queue)
		wg.Wait()
		c.Hub.leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WS", "Unexpected close", map[string]interface{}{
					"client_id": c.ID,
					"error":     err.Error(),
				})
			}
			return
		}

		if refusal := c.admit(); refusal != nil {
			if !c.reply(refusal) {
				return
			}
			continue
		}
		select {
		case queue <- message:
		default:
			if !c.reply(encodeFrame(Frame{Type: "error", Error: "Too many pending queries"})) {
				return
			}
		}
	}
}

// writePump writes replies and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
