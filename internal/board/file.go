package board

import (
	"encoding/json"
	"fmt"
	"io"

	"RoomBoard/internal/state"
)

// WriteJSON saves the canvas as a JSON array of shapes.
func (s *Session) WriteJSON(w io.Writer) error {
	shapes := s.shapes
	if shapes == nil {
		shapes = []state.Shape{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(shapes); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

// ReadJSON replaces the canvas with a saved board and pushes it to the room.
func (s *Session) ReadJSON(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	shapes, err := state.UnmarshalShapes(data)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	s.Load(shapes)
	return nil
}
