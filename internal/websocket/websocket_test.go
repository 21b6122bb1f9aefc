package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/pkg/logger"
)

type echoChat struct {
	last *dto.ChatRequest
	err  error
}

func (e *echoChat) Answer(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	e.last = request
	if e.err != nil {
		return nil, e.err
	}
	return &dto.ChatResponse{Query: request.Query, Response: "ok", ConversationId: request.ConversationId}, nil
}

func (e *echoChat) Categories() *dto.CategoriesResponse { return &dto.CategoriesResponse{} }
func (e *echoChat) Products() *dto.ProductsResponse     { return &dto.ProductsResponse{} }

func decodeFrame(t *testing.T, data []byte) Frame {
	t.Helper()
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestClientHandle(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		chatErr   error
		wantType  string
		wantError string
		wantQuery string
		wantConv  string
	}{
		{name: "plain text", raw: "  What is the price of SmartWatch Pro X?  ", wantType: "answer", wantQuery: "What is the price of SmartWatch Pro X?", wantConv: "sticky"},
		{name: "json with conversation", raw: `{"query":"hours?","conversation_id":"c-9"}`, wantType: "answer", wantQuery: "hours?", wantConv: "c-9"},
		{name: "blank", raw: "   ", wantType: "error", wantError: "Query cannot be empty"},
		{name: "bad json", raw: `{"query":`, wantType: "error", wantError: "Invalid message"},
		{name: "service failure", raw: "hello", chatErr: errors.New("down"), wantType: "error", wantError: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &echoChat{err: tt.chatErr}
			c := newClient(NewHub(logger.NewNopLogger()), nil, chat, nil, logger.NewNopLogger())
			c.ConversationID = "sticky"

			f := decodeFrame(t, c.handle(context.Background(), []byte(tt.raw)))

			assert.Equal(t, tt.wantType, f.Type)
			assert.Equal(t, tt.wantError, f.Error)
			if tt.wantType == "answer" {
				require.NotNil(t, f.Data)
				assert.Equal(t, tt.wantQuery, f.Data.Query)
				assert.Equal(t, tt.wantConv, f.Data.ConversationId)
			}
		})
	}
}

func TestHubLifecycle(t *testing.T) {
	hub := NewHub(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	a := newClient(hub, nil, &echoChat{}, nil, logger.NewNopLogger())
	b := newClient(hub, nil, &echoChat{}, nil, logger.NewNopLogger())
	hub.register <- a
	hub.register <- b
	assert.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	hub.unregister <- a
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)

	cancel()
	<-done
	assert.Equal(t, 0, hub.Count())
	assert.False(t, hub.join(b))

	hub.leave(b)
	_, open = <-b.Send
	assert.False(t, open)
}

func TestUpgradeRequired(t *testing.T) {
	app := fiber.New()
	NewChatHandler(NewHub(logger.NewNopLogger()), &echoChat{}, nil, logger.NewNopLogger()).RegisterRoutes(app.Group("/ws"))

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/chat", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUpgradeRequired, res.StatusCode)
}

type quotaLimiter struct {
	quota int
	seen  map[string]int
}

func (q *quotaLimiter) Allow(key string) error {
	q.seen[key]++
	if q.seen[key] > q.quota {
		return fiber.NewError(fiber.StatusTooManyRequests, "Rate limit exceeded: 2 requests per minute. Retry after 60 seconds.")
	}
	return nil
}

func TestClientAdmit(t *testing.T) {
	limiter := &quotaLimiter{quota: 2, seen: map[string]int{}}
	c := newClient(NewHub(logger.NewNopLogger()), nil, &echoChat{}, limiter, logger.NewNopLogger())
	c.clientKey = "10.0.0.7"

	assert.Nil(t, c.admit())
	assert.Nil(t, c.admit())

	refusal := c.admit()
	require.NotNil(t, refusal)
	f := decodeFrame(t, refusal)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "Rate limit exceeded: 2 requests per minute. Retry after 60 seconds.", f.Error)
	assert.Equal(t, 3, limiter.seen["10.0.0.7"])

	unlimited := newClient(NewHub(logger.NewNopLogger()), nil, &echoChat{}, nil, logger.NewNopLogger())
	assert.Nil(t, unlimited.admit())
}

// blockingChat holds every Answer until its context is cancelled.
type blockingChat struct {
	started   chan struct{}
	cancelled chan error
}

func (b *blockingChat) Answer(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	b.started <- struct{}{}
	<-ctx.Done()
	b.cancelled <- ctx.Err()
	return nil, ctx.Err()
}

func (b *blockingChat) Categories() *dto.CategoriesResponse { return &dto.CategoriesResponse{} }
func (b *blockingChat) Products() *dto.ProductsResponse     { return &dto.ProductsResponse{} }

// serveChat runs a chat handler on a loopback listener and returns its URL
// and a func that stops the hub.
func serveChat(t *testing.T, chat *blockingChat) (string, context.CancelFunc) {
	t.Helper()
	log := logger.NewNopLogger()
	hub := NewHub(log)
	ctx, stopHub := context.WithCancel(context.Background())
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	NewChatHandler(hub, chat, nil, log).RegisterRoutes(app.Group("/ws"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		stopHub()
		_ = app.ShutdownWithTimeout(time.Second)
	})

	return "ws://" + ln.Addr().String() + "/ws/chat", stopHub
}

func TestInFlightAnswerIsCancelled(t *testing.T) {
	tests := []struct {
		name    string
		trigger func(conn *fastws.Conn, stopHub context.CancelFunc)
	}{
		{name: "peer disconnects", trigger: func(conn *fastws.Conn, stopHub context.CancelFunc) { _ = conn.Close() }},
		{name: "hub stops", trigger: func(conn *fastws.Conn, stopHub context.CancelFunc) { stopHub() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &blockingChat{started: make(chan struct{}, 1), cancelled: make(chan error, 1)}
			url, stopHub := serveChat(t, chat)

			conn, _, err := fastws.DefaultDialer.Dial(url, nil)
			require.NoError(t, err)
			defer conn.Close()
			require.NoError(t, conn.WriteMessage(fastws.TextMessage, []byte("Where is my order ORD-1042?")))

			select {
			case <-chat.started:
			case <-time.After(2 * time.Second):
				t.Fatal("answer never started")
			}

			tt.trigger(conn, stopHub)

			select {
			case err := <-chat.cancelled:
				assert.ErrorIs(t, err, context.Canceled)
			case <-time.After(2 * time.Second):
				t.Fatal("answer context was not cancelled")
			}
		})
	}
}
