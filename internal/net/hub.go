package net

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"RoomBoard/internal/store"
)

// DefaultOutbox is the number of frames queued per peer before new frames
// to that peer are dropped.
const DefaultOutbox = 64

const writeWait = 10 * time.Second

// Canvas is the persistence contract the hub relies on.
type Canvas interface {
	Read(ctx context.Context, roomID string) ([]json.RawMessage, error)
	Write(ctx context.Context, roomID string, shapes []json.RawMessage) error
}

// Peer is one connected, authenticated user and the rooms it has joined.
type Peer struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	rooms  map[string]bool
	out    chan []byte
}

// Hub is the server side of the sync protocol: a registry of connected
// peers and a relay that persists every mutation before broadcasting it to
// the members of its room.
type Hub struct {
	canvas Canvas
	outbox int
	log    *slog.Logger

	mu    sync.RWMutex
	peers map[string]*Peer
}

func NewHub(canvas Canvas, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		canvas: canvas,
		outbox: DefaultOutbox,
		log:    logger.With("component", "hub"),
		peers:  make(map[string]*Peer),
	}
}

// SetOutbox changes the per-peer queue size for peers registered afterwards.
func (h *Hub) SetOutbox(n int) {
	if n > 0 {
		h.outbox = n
	}
}

func (h *Hub) newPeer(userID string, conn *websocket.Conn) *Peer {
	return &Peer{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		rooms:  make(map[string]bool),
		out:    make(chan []byte, h.outbox),
	}
}

func (h *Hub) add(p *Peer) {
	h.mu.Lock()
	h.peers[p.ID] = p
	n := len(h.peers)
	h.mu.Unlock()
	h.log.Info("peer connected", "peer", p.ID, "user", p.UserID, "peers", n)
}

// remove unregisters p; its room memberships go with it.
func (h *Hub) remove(p *Peer) {
	h.mu.Lock()
	if _, ok := h.peers[p.ID]; ok {
		delete(h.peers, p.ID)
		close(p.out)
	}
	n := len(h.peers)
	h.mu.Unlock()
	h.log.Info("peer disconnected", "peer", p.ID, "user", p.UserID, "peers", n)
}

// Serve runs one authenticated connection until it closes.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, userID string) {
	p := h.newPeer(userID, conn)
	h.add(p)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(p)
	}()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("read failed", "peer", p.ID, "error", err)
			}
			break
		}
		h.Dispatch(ctx, p, data)
	}
	h.remove(p)
	<-done
	conn.Close()
}

func (h *Hub) writeLoop(p *Peer) {
	for data := range p.out {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("write failed", "peer", p.ID, "error", err)
			p.conn.Close()
			for range p.out {
			}
			return
		}
	}
}

// Dispatch handles one frame from p. Every failure drops the frame and is
// only logged.
func (h *Hub) Dispatch(ctx context.Context, p *Peer, data []byte) {
	msg, err := Decode(data)
	if err != nil {
		h.log.Warn("dropping message", "peer", p.ID, "error", err)
		return
	}
	room := msg.Target()
	if room == "" {
		h.log.Warn("dropping message", "peer", p.ID, "type", msg.Type, "error", ErrMalformed)
		return
	}
	h.log.Debug("received", "peer", p.ID, "type", msg.Type, "room", room)

	switch msg.Type {
	case TypeJoin:
		h.mu.Lock()
		p.rooms[room] = true
		h.mu.Unlock()
		h.log.Info("joined", "peer", p.ID, "room", room)
	case TypeLeave:
		h.mu.Lock()
		delete(p.rooms, room)
		h.mu.Unlock()
		h.log.Info("left", "peer", p.ID, "room", room)
	case TypeCreate:
		h.create(ctx, room, msg.Shape)
	case TypeUpdate, TypeDelete:
		h.replace(ctx, msg.Type, room, msg.Shapes)
	}
}

// create appends one shape. The read and the write are separate calls to
// the store, so two creates racing on one room can lose one of them.
func (h *Hub) create(ctx context.Context, room string, shape json.RawMessage) {
	shapes, err := h.canvas.Read(ctx, room)
	if err != nil {
		h.logStoreError("read", room, err)
		return
	}
	next := append(shapes[:len(shapes):len(shapes)], shape)
	if err := h.canvas.Write(ctx, room, next); err != nil {
		h.logStoreError("write", room, err)
		return
	}
	n := h.broadcast(room, Message{Type: TypeCreate, Shape: shape})
	h.log.Debug("created", "room", room, "shapes", len(next), "recipients", n)
}

// replace persists the full list as sent and relays it unchanged.
func (h *Hub) replace(ctx context.Context, t MessageType, room string, shapes []json.RawMessage) {
	if shapes == nil {
		shapes = []json.RawMessage{}
	}
	if err := h.canvas.Write(ctx, room, shapes); err != nil {
		h.logStoreError("write", room, err)
		return
	}
	n := h.broadcast(room, Message{Type: t, Shapes: shapes})
	h.log.Debug("replaced", "type", t, "room", room, "shapes", len(shapes), "recipients", n)
}

func (h *Hub) logStoreError(op, room string, err error) {
	if errors.Is(err, store.ErrRoomNotFound) {
		h.log.Warn("room not found, mutation dropped", "room", room)
		return
	}
	h.log.Error("store "+op+" failed, mutation dropped", "room", room, "error", err)
}

// broadcast queues msg to every peer that joined room, the sender included,
// and returns how many peers it was queued for.
func (h *Hub) broadcast(room string, msg Message) int {
	data, err := Encode(msg)
	if err != nil {
		h.log.Error("encode broadcast", "error", err)
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, p := range h.peers {
		if !p.rooms[room] {
			continue
		}
		select {
		case p.out <- data:
			n++
		default:
			h.log.Warn("outbox full, frame dropped", "peer", p.ID, "room", room)
		}
	}
	return n
}

// Members returns the ids of peers currently joined to room.
func (h *Hub) Members(room string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var ids []string
	for _, p := range h.peers {
		if p.rooms[room] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Len is the number of connected peers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}
