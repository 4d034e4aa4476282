// Package board is the client-side canvas session. A Session owns the
// authoritative local copy of one room's canvas, the camera, the undo
// history and the active tool, and keeps the canvas in sync with the room.
//
// All Session state is confined to the goroutine running Run; other
// goroutines hand work to it with Post.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	boardnet "RoomBoard/internal/net"
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
	"RoomBoard/internal/tool"
)

// View is the surface a session paints on.
type View interface {
	Present(f render.Frame)
	SetCursor(c tool.Cursor)
	OpenTextInput(at state.Point, done func(text string, commit bool)) tool.TextInput
	SetStatus(text string)
}

// Conn sends protocol frames to the server.
type Conn interface {
	Send(msg boardnet.Message) error
	Close() error
}

type Options struct {
	Room     string
	Measurer state.TextMeasurer
	Logger   *slog.Logger
	// DPR is the device pixel ratio frames are composed for.
	DPR float64
}

type Session struct {
	room     string
	view     View
	conn     Conn
	measurer state.TextMeasurer
	log      *slog.Logger

	shapes  []state.Shape
	camera  state.Camera
	history *state.History
	width   float64
	height  float64
	dpr     float64

	kind   tool.Kind
	active tool.Tool
	zoom   *tool.Zoom

	bootstrapped bool
	queued       []boardnet.Message
	// pending holds the encoded shapes of local creates whose echo has not
	// come back yet.
	pending [][]byte

	events chan func()
	done   chan struct{}
}

// New creates a session for opts.Room painting on view. With a nil conn
// nothing is sent.
func New(view View, conn Conn, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Measurer
	if m == nil {
		m = state.DefaultMeasurer()
	}
	dpr := opts.DPR
	if dpr <= 0 {
		dpr = 1
	}
	s := &Session{
		room:     opts.Room,
		view:     view,
		conn:     conn,
		measurer: m,
		log:      logger.With("component", "board", "room", opts.Room),
		camera:   state.NewCamera(),
		history:  state.NewHistory(nil),
		dpr:      dpr,
		events:   make(chan func(), 256),
		done:     make(chan struct{}),
	}
	s.zoom = tool.NewZoom(s)
	return s
}

// Run processes posted work until ctx is cancelled, then tears the session down.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			s.teardown()
			return ctx.Err()
		case fn := <-s.events:
			fn()
		}
	}
}

// Post queues fn to run on the session goroutine. It reports false once
// the session has stopped.
func (s *Session) Post(fn func()) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) teardown() {
	if s.active != nil {
		s.active.Close()
		s.active = nil
	}
	if s.conn != nil {
		if err := s.conn.Send(boardnet.Leave(s.room)); err != nil {
			s.log.Debug("leave room", "error", err)
		}
		if err := s.conn.Close(); err != nil {
			s.log.Debug("close connection", "error", err)
		}
	}
}

func (s *Session) Room() string            { return s.room }
func (s *Session) ToolKind() tool.Kind     { return s.kind }
func (s *Session) History() *state.History { return s.history }

// SelectTool tears down the active tool and activates kind.
func (s *Session) SelectTool(kind tool.Kind) error {
	if !slices.Contains(tool.Kinds(), kind) {
		return fmt.Errorf("unknown tool %q", kind)
	}
	if s.active != nil {
		s.active.Close()
		s.active = nil
	}
	t, err := tool.New(kind, s)
	if err != nil {
		return err
	}
	s.active = t
	s.kind = kind
	s.Redraw()
	return nil
}

// Resize records the canvas size in screen pixels.
func (s *Session) Resize(width, height float64) {
	s.width, s.height = width, height
	s.Redraw()
}

func (s *Session) MouseDown(ev tool.Pointer) {
	if s.active != nil {
		s.active.MouseDown(ev)
	}
}

func (s *Session) MouseMove(ev tool.Pointer) {
	if s.active != nil {
		s.active.MouseMove(ev)
	}
}

func (s *Session) MouseUp(ev tool.Pointer) {
	if s.active != nil {
		s.active.MouseUp(ev)
	}
}

func (s *Session) Key(k tool.Key) {
	if s.active != nil {
		s.active.Key(k)
	}
}

func (s *Session) Wheel(ev tool.Wheel) { s.zoom.Wheel(ev) }

// Host

func (s *Session) Shapes() []state.Shape          { return s.shapes }
func (s *Session) SetShapes(shapes []state.Shape) { s.shapes = shapes }
func (s *Session) Camera() state.Camera           { return s.camera }
func (s *Session) SetCamera(cam state.Camera)     { s.camera = cam }
func (s *Session) Measurer() state.TextMeasurer   { return s.measurer }
func (s *Session) SetCursor(c tool.Cursor)        { s.view.SetCursor(c) }

func (s *Session) Redraw(overlays ...render.Overlay) {
	s.view.Present(render.Compose(render.Scene{
		Shapes:   s.shapes,
		Camera:   s.camera,
		DPR:      s.dpr,
		Width:    s.width,
		Height:   s.height,
		Overlays: overlays,
		Measurer: s.measurer,
	}))
}

// OpenTextInput forwards to the view; the completion callback is moved
// back onto the session goroutine.
func (s *Session) OpenTextInput(at state.Point, done func(text string, commit bool)) tool.TextInput {
	return s.view.OpenTextInput(at, func(text string, commit bool) {
		s.Post(func() { done(text, commit) })
	})
}

// Emit applies op to the local canvas, records it in the history and sends
// it to the room.
func (s *Session) Emit(op state.Op) {
	switch op.Type {
	case state.OpCreate:
		raw, err := state.EncodeShape(op.Shape)
		if err != nil {
			s.log.Error("encode shape", "error", err)
			return
		}
		s.shapes = append(s.shapes[:len(s.shapes):len(s.shapes)], op.Shape)
		s.history.Save(s.shapes)
		s.Redraw()
		if s.send(boardnet.Create(s.room, raw)) {
			s.pending = append(s.pending, raw)
		}
	case state.OpUpdate, state.OpDelete:
		s.shapes = op.Shapes
		s.history.Save(s.shapes)
		s.Redraw()
		s.sendReplace(boardnet.MessageType(op.Type))
	default:
		s.log.Error("unknown op", "type", op.Type)
	}
}

// Undo restores the previous snapshot and overwrites the room with it.
func (s *Session) Undo() bool {
	shapes, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(shapes)
	return true
}

func (s *Session) Redo() bool {
	shapes, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(shapes)
	return true
}

func (s *Session) restore(shapes []state.Shape) {
	s.shapes = shapes
	s.Redraw()
	s.sendReplace(boardnet.TypeUpdate)
}

// Load replaces the canvas with shapes from a saved board file.
func (s *Session) Load(shapes []state.Shape) {
	s.Emit(state.UpdateOp(shapes))
}

func (s *Session) sendReplace(t boardnet.MessageType) {
	raw, err := state.EncodeShapes(s.shapes)
	if err != nil {
		s.log.Error("encode shapes", "error", err)
		return
	}
	s.send(boardnet.Replace(t, s.room, raw))
}

func (s *Session) send(msg boardnet.Message) bool {
	if s.conn == nil {
		return false
	}
	if err := s.conn.Send(msg); err != nil {
		s.log.Warn("send failed", "type", msg.Type, "error", err)
		return false
	}
	return true
}

// Bootstrap installs the persisted canvas and then applies, in arrival
// order, any live messages that came in before it.
func (s *Session) Bootstrap(shapes []state.Shape) {
	s.shapes = shapes
	s.history.Reset(shapes)
	s.bootstrapped = true
	s.reconcilePending(shapes)
	queued := s.queued
	s.queued = nil
	for _, msg := range queued {
		s.apply(msg)
	}
	s.Redraw()
	s.view.SetStatus("Connected to room " + s.room)
}

// Receive handles a message from the server.
func (s *Session) Receive(msg boardnet.Message) {
	if !s.bootstrapped {
		s.queued = append(s.queued, msg)
		return
	}
	s.apply(msg)
}

func (s *Session) apply(msg boardnet.Message) {
	switch msg.Type {
	case boardnet.TypeCreate:
		if s.consumeEcho(msg.Shape) {
			return
		}
		shape, err := state.DecodeShape(msg.Shape)
		if err != nil {
			s.log.Warn("dropping create", "error", err)
			return
		}
		s.shapes = append(s.shapes[:len(s.shapes):len(s.shapes)], shape)
	case boardnet.TypeUpdate, boardnet.TypeDelete:
		shapes, err := state.DecodeShapes(msg.Shapes)
		if err != nil {
			s.log.Warn("dropping "+string(msg.Type), "error", err)
			return
		}
		// any create still awaiting its echo was ordered after this replace
		// by the server, so its echo must be applied when it arrives
		s.pending = nil
		if state.SameShapes(s.shapes, shapes) {
			return
		}
		s.shapes = shapes
		if t, ok := s.active.(tool.ReplaceAware); ok {
			t.ShapesReplaced()
		}
	default:
		s.log.Debug("ignoring message", "type", msg.Type)
		return
	}
	s.history.Save(s.shapes)
	s.Redraw()
}

// reconcilePending keeps a pending echo only when the bootstrapped canvas
// already holds its shape. A create missing from the canvas was persisted
// after the read, so its echo has to be applied when it arrives.
func (s *Session) reconcilePending(shapes []state.Shape) {
	if len(s.pending) == 0 {
		return
	}
	have := make(map[string]int, len(shapes))
	for _, sh := range shapes {
		if raw, err := state.EncodeShape(sh); err == nil {
			have[string(raw)]++
		}
	}
	kept := s.pending[:0]
	for _, p := range s.pending {
		if have[string(p)] > 0 {
			have[string(p)]--
			kept = append(kept, p)
		}
	}
	s.pending = kept
}

// consumeEcho drops the server's echo of a create this session already applied.
func (s *Session) consumeEcho(raw json.RawMessage) bool {
	shape, err := state.DecodeShape(raw)
	if err != nil {
		return false
	}
	canon, err := state.EncodeShape(shape)
	if err != nil {
		return false
	}
	for i, p := range s.pending {
		if bytes.Equal(p, canon) {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// ZoomBy zooms around the centre of the canvas.
func (s *Session) ZoomBy(delta float64) {
	s.zoom.Wheel(tool.Wheel{Screen: state.Pt(s.width/2, s.height/2), Delta: delta})
}

// ResetView returns the camera to the origin at zoom 1.
func (s *Session) ResetView() {
	s.camera = state.NewCamera()
	s.Redraw()
}
