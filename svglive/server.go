// Serves a graph document in a browser page, whose
// pan and zoom view is driven by the server: each websocket
// connection owns a View, and receives the attribute patches
// produced by the actions it sends.
package svglive

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benoitkugler/svgzoom/svgdoc"
	"github.com/benoitkugler/svgzoom/svgzoom"
	"github.com/gorilla/websocket"
)

//go:embed viewer.html
var viewerPage []byte

const writeTimeout = 10 * time.Second

// DefaultLayerID is the id graphviz gives to the graph group.
const DefaultLayerID = "graph0"

// Loader returns a fresh copy of the served document.
type Loader func() (*svgdoc.Document, error)

// Options configures a Server.
type Options struct {
	LayerID  string  // id of the graph layer, DefaultLayerID if empty
	ZoomStep float64 // 0 means svgzoom.DefaultZoomStep
	Logger   *slog.Logger
}

// Server serves one document to any number of sessions.
type Server struct {
	load     Loader
	opts     Options
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu       sync.RWMutex
	page     []byte // encoded document
	dims     svgzoom.Dimensions
	layerID  string
	sessions map[*session]struct{}
}

// NewServer loads the document and returns a server ready to be used.
func NewServer(load Loader, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LayerID == "" {
		opts.LayerID = DefaultLayerID
	}
	if opts.ZoomStep == 0 {
		opts.ZoomStep = svgzoom.DefaultZoomStep
	}
	s := &Server{
		load:     load,
		opts:     opts,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		sessions: make(map[*session]struct{}),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload loads the document again. Opened sessions are not notified:
// see Notify.
func (s *Server) Reload() error {
	doc, err := s.load()
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	surface, err := doc.Surface(s.opts.LayerID)
	if err != nil {
		return err
	}
	// the client addresses the layer by id
	layer := surface.Graph.(*svgdoc.Element)
	layerID, _ := layer.Attribute("id")
	if layerID == "" {
		layerID = s.opts.LayerID
		layer.SetAttribute("id", layerID)
	}
	dims := doc.StripFixedSize()
	surface.Initialize(dims)

	var buf bytes.Buffer
	if err = doc.Encode(&buf); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.page, s.dims, s.layerID = buf.Bytes(), dims, layerID
	return nil
}

// Notify asks every opened session to reload the page.
func (s *Server) Notify() {
	// sending may block up to writeTimeout, so the lock is not held
	for _, sess := range s.sessionList() {
		if err := sess.send(Reply{Reload: true}); err != nil {
			sess.log.Warn("sending reload", "error", err)
		}
	}
}

func (s *Server) sessionList() []*session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// Sessions returns the number of opened sessions.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Handler serves the viewer page on "/", the document on "/graph.svg"
// and the websocket endpoint on "/ws".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleViewer)
	mux.HandleFunc("/graph.svg", s.handleDocument)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(viewerPage)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(page)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.opts.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	id := s.nextID.Add(1)
	sess := &session{conn: conn, log: s.opts.Logger.With("session", id)}

	s.mu.Lock()
	dims, layerID := s.dims, s.layerID
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		conn.Close()
	}()

	sess.run(dims, layerID, s.opts.ZoomStep)
}

// session owns the View of one connection; messages
// are applied in order, by the reading goroutine only
type session struct {
	conn    *websocket.Conn
	log     *slog.Logger
	view    *svgzoom.View
	patches []Patch

	writeMu sync.Mutex // reload notices come from other goroutines
}

func (sess *session) send(r Reply) error {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return sess.conn.WriteJSON(r)
}

// flush returns the patches recorded since the last call
func (sess *session) flush() []Patch {
	out := append([]Patch(nil), sess.patches...)
	sess.patches = sess.patches[:0]
	return out
}

func (sess *session) run(dims svgzoom.Dimensions, layerID string, zoomStep float64) {
	surface := svgzoom.Surface{
		Canvas: patchLayer{target: TargetCanvas, out: &sess.patches},
		Graph:  patchLayer{target: TargetGraph, out: &sess.patches},
	}
	sess.view = surface.Initialize(dims)
	sess.view.SetZoomStep(zoomStep)
	sess.log.Info("session started", "width", dims.Width, "height", dims.Height)
	if err := sess.send(Reply{Layer: layerID, Patches: sess.flush()}); err != nil {
		sess.log.Warn("sending initial state", "error", err)
		return
	}

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Warn("unexpected close", "error", err)
			}
			sess.log.Info("session closed")
			return
		}
		if err := sess.send(sess.handle(data)); err != nil {
			sess.log.Warn("sending reply", "error", err)
			return
		}
	}
}

func (sess *session) handle(data []byte) Reply {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		sess.log.Warn("invalid message", "error", err)
		return Reply{Error: err.Error()}
	}
	op, err := msg.op()
	if err != nil {
		sess.log.Warn("invalid message", "error", err)
		return Reply{Error: err.Error()}
	}
	op.ApplyTo(sess.view)
	sess.log.Debug("applied", "op", op.String(), "scale", sess.view.State().Scale())
	return Reply{Patches: sess.flush()}
}
