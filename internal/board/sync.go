package board

import (
	"context"
	"errors"
	"net/http"

	boardnet "RoomBoard/internal/net"
	"RoomBoard/internal/state"
)

// Listener is the receive side of a room connection.
type Listener interface {
	Listen(handle func(boardnet.Message)) error
}

// Sync joins the session's room on conn, forwards every live message to the
// session and loads the persisted canvas from server. Messages that arrive
// before the canvas is loaded are held back and applied after it.
func (s *Session) Sync(ctx context.Context, l Listener, hc *http.Client, server string) error {
	if s.conn == nil {
		return errors.New("sync: session has no connection")
	}
	if err := s.conn.Send(boardnet.Join(s.room)); err != nil {
		return err
	}
	go func() {
		err := l.Listen(func(msg boardnet.Message) {
			s.Post(func() { s.Receive(msg) })
		})
		if err != nil {
			s.log.Warn("connection lost", "error", err)
		}
		s.Post(func() { s.view.SetStatus("Disconnected") })
	}()
	go func() {
		shapes := s.fetch(ctx, hc, server)
		s.Post(func() { s.Bootstrap(shapes) })
	}()
	return nil
}

func (s *Session) fetch(ctx context.Context, hc *http.Client, server string) []state.Shape {
	raw, err := boardnet.FetchShapes(ctx, hc, server, s.room)
	switch {
	case boardnet.IsNotFound(err):
		s.log.Info("room has no saved canvas")
		return nil
	case err != nil:
		s.log.Warn("bootstrap failed, starting empty", "error", err)
		return nil
	}
	shapes, err := state.DecodeShapes(raw)
	if err != nil {
		s.log.Warn("bootstrap canvas unreadable, starting empty", "error", err)
		return nil
	}
	return shapes
}
