package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.Mutex
	rooms map[string]Room
	state map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{rooms: map[string]Room{}, state: map[string][]byte{}}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Read(_ context.Context, roomID string) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.state[roomID]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", roomID, ErrRoomNotFound)
	}
	return parseCanvas(data), nil
}

func (m *Memory) Write(_ context.Context, roomID string, shapes []json.RawMessage) error {
	data, err := encodeCanvas(shapes)
	if err != nil {
		return fmt.Errorf("write %s: %w", roomID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state[roomID]; !ok {
		return fmt.Errorf("write %s: %w", roomID, ErrRoomNotFound)
	}
	m.state[roomID] = data
	return nil
}

func (m *Memory) CreateRoom(_ context.Context, room Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.ID]; ok {
		return fmt.Errorf("create room %s: %w", room.ID, ErrRoomExists)
	}
	if room.Slug != "" {
		for _, r := range m.rooms {
			if r.Slug == room.Slug {
				return fmt.Errorf("create room %s: %w", room.ID, ErrRoomExists)
			}
		}
	}
	m.rooms[room.ID] = room
	m.state[room.ID] = []byte("[]")
	return nil
}

func (m *Memory) RoomBySlug(_ context.Context, slug string) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.Slug == slug {
			return r, nil
		}
	}
	return Room{}, fmt.Errorf("room %q: %w", slug, ErrRoomNotFound)
}
