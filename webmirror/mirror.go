// Package webmirror serves a read-only browser copy of the dashboard. It keeps
// the last value of every status-bar slot plus the report text and pushes
// changes to connected browsers over a WebSocket.
package webmirror

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"tabledash/internal/ratelimit"
	"tabledash/markup"
	"tabledash/statusbar"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/zeebo/xxh3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	clientQueue  = 64
	writeTimeout = 5 * time.Second
	dropLogEvery = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is what browsers receive. A "state" message carries everything;
// "slot", "content" and "footer" messages carry one change.
type Message struct {
	Type    string            `json:"type"`
	Slots   map[string]string `json:"slots,omitempty"`
	Slot    string            `json:"slot,omitempty"`
	Text    string            `json:"text,omitempty"`
	Content string            `json:"content,omitempty"`
	Footer  string            `json:"footer,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Server mirrors surface writes to WebSocket clients.
type Server struct {
	listen string

	mu          sync.Mutex
	slots       map[string]string
	content     string
	contentHash uint64
	footer      string
	clients     map[*client]struct{}
	drops       *ratelimit.Counter

	httpServer *http.Server
	listener   net.Listener
	stopOnce   sync.Once
}

func New(listen string) *Server {
	return &Server{
		listen:  listen,
		slots:   make(map[string]string),
		clients: make(map[*client]struct{}),
		drops:   ratelimit.NewCounter(dropLogEvery),
	}
}

// Handler serves the page at / and the WebSocket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handlePage)
	return mux
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("Mirror: listening on http://%s/", ln.Addr())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Mirror: server failed: %v", err)
		}
	}()
	return nil
}

// Addr is the bound address once Start succeeded.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return s.listen
	}
	return s.listener.Addr().String()
}

func (s *Server) WaitReady() {}

func (s *Server) Done() <-chan struct{} { return nil }

func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = s.httpServer.Shutdown(ctx)
			cancel()
		}
		s.mu.Lock()
		for c := range s.clients {
			delete(s.clients, c)
			c.close()
		}
		s.mu.Unlock()
	})
}

func (s *Server) WriteSlot(slot statusbar.Slot, text string) {
	id := slot.ID()
	if s == nil || id == "" {
		return
	}
	text = markup.Strip(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.slots[id]; ok && prev == text {
		return
	}
	s.slots[id] = text
	s.broadcastLocked(Message{Type: "slot", Slot: id, Text: text})
}

func (s *Server) SetContent(text string) {
	if s == nil {
		return
	}
	text = markup.Strip(text)
	hash := xxh3.HashString(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if hash == s.contentHash && text == s.content {
		return
	}
	s.content = text
	s.contentHash = hash
	s.broadcastLocked(Message{Type: "content", Text: text})
}

func (s *Server) SetFooter(text string) {
	if s == nil {
		return
	}
	text = markup.Strip(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.footer {
		return
	}
	s.footer = text
	s.broadcastLocked(Message{Type: "footer", Text: text})
}

// SystemWriter discards logs; the mirror shows the cluster, not the process.
func (s *Server) SystemWriter() io.Writer {
	return io.Discard
}

// Clients is the number of connected browsers.
func (s *Server) Clients() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) stateLocked() Message {
	slots := make(map[string]string, len(s.slots))
	for k, v := range s.slots {
		slots[k] = v
	}
	return Message{Type: "state", Slots: slots, Content: s.content, Footer: s.footer}
}

func (s *Server) broadcastLocked(msg Message) {
	if len(s.clients) == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Mirror: encode %s message: %v", msg.Type, err)
		return
	}
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Slow reader: drop it rather than stall the poll loop.
			delete(s.clients, c)
			c.close()
			if total, ok := s.drops.Inc(); ok {
				log.Printf("Mirror: dropped slow client %s (%d total)", c.conn.RemoteAddr(), total)
			}
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Mirror: websocket upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientQueue)}

	s.mu.Lock()
	data, err := json.Marshal(s.stateLocked())
	if err == nil {
		c.send <- data
		s.clients[c] = struct{}{}
	}
	s.mu.Unlock()
	if err != nil {
		log.Printf("Mirror: encode state: %v", err)
		_ = conn.Close()
		return
	}

	go s.writeLoop(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.close()
	}
	s.mu.Unlock()
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, pageHTML)
}
