package tool

import (
	"testing"

	"RoomBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextCommit(t *testing.T) {
	h := newHost()
	h.camera = state.Camera{X: 10, Y: 10, Zoom: 2}
	tt := NewText(h)
	assert.Equal(t, CursorText, h.cursor)

	tt.MouseDown(At(20, 40))
	require.Len(t, h.inputs, 1)
	assert.Equal(t, state.Pt(20, 40), h.inputs[0].at)

	h.inputs[0].done("  hello  ", true)
	require.Len(t, h.ops, 1)
	assert.Equal(t, state.Text{X: 20, Y: 30, Content: "hello", FontSize: state.DefaultFontSize}, h.ops[0].Shape)
}

func TestTextCancelAndBlank(t *testing.T) {
	h := newHost()
	tt := NewText(h)

	tt.MouseDown(At(0, 0))
	h.inputs[0].done("typed", false)
	assert.Empty(t, h.ops)

	tt.MouseDown(At(0, 0))
	h.inputs[1].done("   ", true)
	assert.Empty(t, h.ops)
}

func TestNewClickDiscardsOpenBox(t *testing.T) {
	h := newHost()
	tt := NewText(h)
	tt.MouseDown(At(0, 0))
	tt.MouseDown(At(50, 50))

	require.Len(t, h.inputs, 2)
	assert.True(t, h.inputs[0].input.closed)
	// a late callback from the discarded box is ignored
	h.inputs[0].done("stale", true)
	assert.Empty(t, h.ops)

	h.inputs[1].done("fresh", true)
	require.Len(t, h.ops, 1)
	assert.Equal(t, "fresh", h.ops[0].Shape.(state.Text).Content)
}

func TestCloseDiscardsOpenBox(t *testing.T) {
	h := newHost()
	tt := NewText(h)
	tt.MouseDown(At(0, 0))
	tt.Close()
	assert.True(t, h.inputs[0].input.closed)
	h.inputs[0].done("late", true)
	assert.Empty(t, h.ops)
}
