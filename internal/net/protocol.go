package net

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformed is returned for payloads that are not a usable protocol message.
var ErrMalformed = errors.New("malformed message")

type MessageType string

const (
	TypeJoin   MessageType = "join"
	TypeLeave  MessageType = "leave"
	TypeCreate MessageType = "create"
	TypeUpdate MessageType = "update"
	TypeDelete MessageType = "delete"
)

// RoomID accepts both JSON strings and numbers, since browser clients send
// numeric room ids.
type RoomID string

func (r *RoomID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RoomID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("room id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("room id: %w", err)
	}
	*r = RoomID(n.String())
	return nil
}

// Message is a socket frame. Shape and shapes travel as raw JSON so the
// server can relay them without interpreting them. Leave names its room in
// Room; every other client message uses RoomID.
type Message struct {
	Type   MessageType       `json:"type"`
	RoomID RoomID            `json:"roomId,omitempty"`
	Room   RoomID            `json:"room,omitempty"`
	Shape  json.RawMessage   `json:"shape,omitempty"`
	Shapes []json.RawMessage `json:"shapes,omitempty"`
}

// MarshalJSON always writes the shapes array for update and delete, even
// when it is empty.
func (m Message) MarshalJSON() ([]byte, error) {
	type wire Message
	if m.Type != TypeUpdate && m.Type != TypeDelete {
		return json.Marshal(wire(m))
	}
	shapes := m.Shapes
	if shapes == nil {
		shapes = []json.RawMessage{}
	}
	return json.Marshal(struct {
		wire
		Shapes []json.RawMessage `json:"shapes"`
	}{wire(m), shapes})
}

// Target is the room the message is addressed to.
func (m Message) Target() string {
	if m.Type == TypeLeave && m.Room != "" {
		return string(m.Room)
	}
	return string(m.RoomID)
}

func Join(room string) Message  { return Message{Type: TypeJoin, RoomID: RoomID(room)} }
func Leave(room string) Message { return Message{Type: TypeLeave, Room: RoomID(room)} }

func Create(room string, shape json.RawMessage) Message {
	return Message{Type: TypeCreate, RoomID: RoomID(room), Shape: shape}
}

func Replace(t MessageType, room string, shapes []json.RawMessage) Message {
	return Message{Type: t, RoomID: RoomID(room), Shapes: shapes}
}

// Decode parses one frame and checks its type.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch m.Type {
	case TypeJoin, TypeLeave, TypeUpdate, TypeDelete:
	case TypeCreate:
		if len(m.Shape) == 0 || bytes.Equal(m.Shape, []byte("null")) {
			return Message{}, fmt.Errorf("%w: create without shape", ErrMalformed)
		}
	default:
		return Message{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, m.Type)
	}
	return m, nil
}

func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}
