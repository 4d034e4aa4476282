// Package store persists one canvas (a JSON array of shapes) per room.
// Shapes are kept as raw JSON: the store never interprets them.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// Room is a collaboration unit as created by the room-creation endpoint.
type Room struct {
	ID      string
	Slug    string
	AdminID string
}

// Store is the read/write contract of the sync server plus room creation.
type Store interface {
	Read(ctx context.Context, roomID string) ([]json.RawMessage, error)
	Write(ctx context.Context, roomID string, shapes []json.RawMessage) error
	CreateRoom(ctx context.Context, room Room) error
	RoomBySlug(ctx context.Context, slug string) (Room, error)
	Close() error
}

// parseCanvas tolerates a null or non-array stored value by treating it as
// an empty canvas.
func parseCanvas(data []byte) []json.RawMessage {
	var shapes []json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &shapes) != nil || shapes == nil {
		return []json.RawMessage{}
	}
	return shapes
}

func encodeCanvas(shapes []json.RawMessage) ([]byte, error) {
	if shapes == nil {
		shapes = []json.RawMessage{}
	}
	return json.Marshal(shapes)
}
