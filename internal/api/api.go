// Package api is the HTTP surface of the sync server: the websocket
// endpoint, the bootstrap read and room creation.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"RoomBoard/internal/auth"
	boardnet "RoomBoard/internal/net"
	"RoomBoard/internal/store"
)

type Server struct {
	hub      *boardnet.Hub
	store    store.Store
	secret   []byte
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// New wires the handlers. An empty origins list accepts any Origin header.
func New(hub *boardnet.Hub, st store.Store, secret []byte, origins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		hub:    hub,
		store:  st,
		secret: secret,
		log:    logger.With("component", "api"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(origins),
	}
	return s
}

func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleSocket)
	r.Route("/rooms", func(r chi.Router) {
		r.With(auth.RequireBearer(s.secret)).Post("/", s.handleCreateRoom)
		r.Get("/by-slug/{slug}", s.handleRoomBySlug)
		r.Get("/{roomID}/shapes", s.handleShapes)
	})
	return r
}

// handleSocket upgrades first and then authenticates, so a bad token is
// answered by closing the socket without sending anything.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "error", err)
		return
	}
	userID, err := auth.Verify(s.secret, r.URL.Query().Get("token"))
	if err != nil {
		s.log.Warn("rejecting socket", "remote", r.RemoteAddr, "error", err)
		conn.Close()
		return
	}
	s.hub.Serve(r.Context(), conn, userID)
}

func (s *Server) handleShapes(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	shapes, err := s.store.Read(r.Context(), roomID)
	if errors.Is(err, store.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		s.log.Error("read shapes", "room", roomID, "error", err)
		writeError(w, http.StatusInternalServerError, "read failed")
		return
	}
	writeJSON(w, http.StatusOK, shapes)
}

type createRoomRequest struct {
	Slug string `json:"slug"`
}

type roomResponse struct {
	RoomID string `json:"roomId"`
	Slug   string `json:"slug,omitempty"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	// an empty body, chunked or not, creates an unnamed room
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	room := store.Room{
		ID:      uuid.NewString(),
		Slug:    strings.TrimSpace(req.Slug),
		AdminID: auth.UserID(r.Context()),
	}
	if err := s.store.CreateRoom(r.Context(), room); err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			writeError(w, http.StatusConflict, "room already exists")
			return
		}
		s.log.Error("create room", "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	s.log.Info("room created", "room", room.ID, "slug", room.Slug, "admin", room.AdminID)
	writeJSON(w, http.StatusCreated, roomResponse{RoomID: room.ID, Slug: room.Slug})
}

func (s *Server) handleRoomBySlug(w http.ResponseWriter, r *http.Request) {
	room, err := s.store.RoomBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, store.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		s.log.Error("room by slug", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, roomResponse{RoomID: room.ID, Slug: room.Slug})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
