package api

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/notification"
	"github.com/example/storefront/internal/query"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Message types on the socket
const (
	MessageQuery        = "query"
	MessageProducts     = "products"
	MessageNotification = "notification"
	MessageError        = "error"
)

// Inbound is a message from the browser. Criteria fields that are
// omitted keep their default.
type Inbound struct {
	Type     string          `json:"type"`
	Criteria json.RawMessage `json:"criteria,omitempty"`
}

type Outbound struct {
	Type         string                     `json:"type"`
	Result       *catalog.Result            `json:"result,omitempty"`
	Notification *notification.Notification `json:"notification,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

// Hub keeps the open sockets of each session. It delivers notifications
// to them and answers live product queries, one Refresher per socket.
type Hub struct {
	catalog    *catalog.Catalog
	queryDelay time.Duration
	logger     *zap.Logger
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub(c *catalog.Catalog, queryDelay time.Duration, allowedOrigins []string, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		catalog:    c,
		queryDelay: queryDelay,
		logger:     logger.Named("ws"),
		clients:    make(map[string]map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Notify implements notification.Sink
func (h *Hub) Notify(_ context.Context, n notification.Notification) error {
	msg, err := json.Marshal(Outbound{Type: MessageNotification, Notification: &n})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients[n.SessionID] {
		cl.enqueue(msg)
	}
	return nil
}

// Connections returns the number of open sockets of a session
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Close disconnects every socket
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for cl := range set {
			cl.conn.Close()
		}
	}
}

// Serve upgrades the request and runs the socket until it closes
func (h *Hub) Serve(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		refresher: query.NewRefresher(h.catalog, h.queryDelay),
		logger:    h.logger.With(zap.String("session_id", sessionID)),
	}
	h.register(sessionID, cl)
	h.logger.Debug("websocket connected", zap.String("session_id", sessionID))

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		cl.writePump()
	}()

	ctx, cancel := context.WithCancel(c.Request.Context())
	cl.readPump(ctx)

	cancel()
	cl.refresher.Stop()
	cl.forwarders.Wait()
	h.unregister(sessionID, cl)
	cl.close()
	<-writeDone
	conn.Close()
	h.logger.Debug("websocket disconnected", zap.String("session_id", sessionID))
}

func (h *Hub) register(sessionID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[sessionID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[sessionID] = set
	}
	set[cl] = struct{}{}
}

func (h *Hub) unregister(sessionID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[sessionID], cl)
	if len(h.clients[sessionID]) == 0 {
		delete(h.clients, sessionID)
	}
}

type client struct {
	conn       *websocket.Conn
	refresher  *query.Refresher
	logger     *zap.Logger
	forwarders sync.WaitGroup

	mu     sync.Mutex
	send   chan []byte
	closed bool

	// submitted is touched only by readPump; delivered guards the order of
	// product results on the socket
	submitted uint64
	delivered uint64
}

// enqueue drops the message when the socket is slow or gone
func (cl *client) enqueue(msg []byte) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.enqueueLocked(msg)
}

func (cl *client) enqueueLocked(msg []byte) {
	if cl.closed {
		return
	}
	select {
	case cl.send <- msg:
	default:
		cl.logger.Warn("websocket send buffer full, dropping message")
	}
}

func (cl *client) close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.closed {
		cl.closed = true
		close(cl.send)
	}
}

func (cl *client) sendJSON(v Outbound) {
	msg, err := json.Marshal(v)
	if err != nil {
		cl.logger.Error("failed to encode websocket message", zap.Error(err))
		return
	}
	cl.enqueue(msg)
}

func (cl *client) readPump(ctx context.Context) {
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			cl.sendJSON(Outbound{Type: MessageError, Error: "invalid message"})
			continue
		}

		switch in.Type {
		case MessageQuery:
			cr, err := decodeCriteria(in.Criteria)
			if err != nil {
				cl.sendJSON(Outbound{Type: MessageError, Error: err.Error()})
				continue
			}
			cl.submitted++
			cl.forward(cl.submitted, cl.refresher.Submit(ctx, cr))
		default:
			cl.sendJSON(Outbound{Type: MessageError, Error: "unknown message type " + in.Type})
		}
	}
}

// forward sends the result of submission seq, if it is ever delivered
func (cl *client) forward(seq uint64, results <-chan catalog.Result) {
	cl.forwarders.Add(1)
	go func() {
		defer cl.forwarders.Done()
		for result := range results {
			cl.sendResult(seq, result)
		}
	}()
}

// sendResult enqueues the result of submission seq unless a later
// submission's result has already been sent
func (cl *client) sendResult(seq uint64, result catalog.Result) {
	msg, err := json.Marshal(Outbound{Type: MessageProducts, Result: &result})
	if err != nil {
		cl.logger.Error("failed to encode websocket message", zap.Error(err))
		return
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if seq <= cl.delivered {
		cl.logger.Debug("dropping superseded query result", zap.Uint64("seq", seq))
		return
	}
	cl.delivered = seq
	cl.enqueueLocked(msg)
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				cl.conn.Close()
				cl.drain()
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.conn.Close()
				cl.drain()
				return
			}
		}
	}
}

// drain empties send until it is closed
func (cl *client) drain() {
	for range cl.send {
	}
}

func decodeCriteria(raw json.RawMessage) (catalog.Criteria, error) {
	cr := catalog.DefaultCriteria()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cr); err != nil {
			return catalog.Criteria{}, err
		}
	}
	cr.Sort = catalog.ParseSortKey(string(cr.Sort))
	if cr.Price.Min.GreaterThan(cr.Price.Max) {
		return catalog.Criteria{}, catalog.ErrInvalidPrice
	}
	return cr, nil
}
