package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	DefaultPath      = "/rpc"
	writeWait        = 10 * time.Second
	handshakeTimeout = 5 * time.Second
)

type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params Params `json:"params,omitempty"`
}

type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Failure        `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 64 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes a Registry over a websocket. Each request runs in its own
// goroutine so a long install does not hold up status queries.
type Server struct {
	registry *Registry
	logger   *slog.Logger
}

func NewServer(registry *Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{registry: registry, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(DefaultPath, s)
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("RPC client connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	var wg sync.WaitGroup

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("RPC read failed", "error", err)
			}
			break
		}

		wg.Add(1)
		go func(req Request) {
			defer wg.Done()

			result := s.registry.Call(ctx, req.Method, req.Params)
			resp := Response{ID: req.ID, Result: result.Value, Error: result.Failure}

			writeMu.Lock()
			defer writeMu.Unlock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(resp); err != nil {
				s.logger.Error("RPC write failed", "method", req.Method, "error", err)
			}
		}(req)
	}

	cancel()
	wg.Wait()
	s.logger.Debug("RPC client disconnected", "remote", r.RemoteAddr)
}

// Client is a Caller backed by a websocket connection to a Server.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Response
	closed  bool
	readErr error
}

type ClientOption func(*Client)

func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Dial connects to a backend address such as ws://127.0.0.1:8631/rpc.
func Dial(ctx context.Context, url string, opts ...ClientOption) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrUnavailable, url, err)
	}

	c := &Client{
		conn:    conn,
		logger:  slog.Default(),
		pending: make(map[string]chan Response),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	for {
		var resp Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.shutdown(err)
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()

		if !ok {
			c.logger.Debug("Dropping RPC response for unknown request", "id", resp.ID)
			continue
		}
		ch <- resp
	}
}

func (c *Client) shutdown(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.readErr = err
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *Client) Call(ctx context.Context, method string, params Params) Result {
	id := uuid.NewString()
	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.closed {
		err := c.readErr
		c.mu.Unlock()
		return Fail(method, ReasonUnavailable, fmt.Sprintf("connection closed: %v", err))
	}
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.conn.WriteJSON(Request{ID: id, Method: method, Params: params})
	c.writeMu.Unlock()

	if err != nil {
		c.forget(id)
		return Fail(method, ReasonUnavailable, err.Error())
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return Fail(method, ReasonUnavailable, "connection closed")
		}
		if resp.Error != nil {
			return Result{Method: method, Failure: resp.Error}
		}
		return Result{Method: method, Value: resp.Result}
	case <-ctx.Done():
		c.forget(id)
		return Fail(method, ReasonUnavailable, ctx.Err().Error())
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) Close() error {
	c.writeMu.Lock()
	err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	c.writeMu.Unlock()

	closeErr := c.conn.Close()
	c.shutdown(errors.New("client closed"))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return closeErr
}
