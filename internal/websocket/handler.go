package websocket

import (
	"context"

	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/internal/pkg/serverutils"
	"techgear-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const clientKeyLocal = "ws_client_key"

type ChatHandler struct {
	hub     *Hub
	chat    service.IChatbotService
	limiter FrameLimiter
	logger  logger.ILogger
}

// NewChatHandler serves chat over WebSocket. A nil limiter leaves frames
// unlimited.
func NewChatHandler(hub *Hub, chat service.IChatbotService, limiter FrameLimiter, log logger.ILogger) *ChatHandler {
	return &ChatHandler{hub: hub, chat: chat, limiter: limiter, logger: log}
}

// RegisterRoutes mounts /chat on r. Callers mount r under /ws behind the
// HTTP rate limiters so the upgrade request is counted too.
func (h *ChatHandler) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	handlers := append([]fiber.Handler{h.upgrade}, middleware...)
	handlers = append(handlers, websocket.New(h.serve))
	r.Get("/chat", handlers...)
}

func (h *ChatHandler) upgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		ctx.Locals(clientKeyLocal, serverutils.ClientKey(ctx))
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

// serve runs the write pump in the background and reads on the handler goroutine.
func (h *ChatHandler) serve(conn *websocket.Conn) {
	client := newClient(h.hub, conn, h.chat, h.limiter, h.logger)
	if key, ok := conn.Locals(clientKeyLocal).(string); ok {
		client.clientKey = key
	}
	if !h.hub.join(client) {
		return
	}

	go client.writePump()
	client.readPump(context.Background())
}
