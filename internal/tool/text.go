package tool

import "RoomBoard/internal/state"

// Text opens one text box per click and commits it as a text shape.
type Text struct {
	host  Host
	input TextInput
	gen   int
}

func NewText(h Host) *Text {
	h.SetCursor(CursorText)
	return &Text{host: h}
}

func (t *Text) MouseDown(ev Pointer) {
	t.discard()
	at := world(t.host, ev)
	t.gen++
	gen := t.gen
	t.input = t.host.OpenTextInput(ev.Screen, func(text string, commit bool) {
		if gen != t.gen {
			return
		}
		t.input = nil
		if !commit {
			return
		}
		if shape, ok := state.NewText(at.X, at.Y, text); ok {
			t.host.Emit(state.CreateOp(shape))
		}
	})
}

func (t *Text) MouseMove(Pointer) {}
func (t *Text) MouseUp(Pointer)   {}
func (t *Text) Key(Key)           {}

func (t *Text) Close() {
	t.discard()
	t.host.SetCursor(CursorDefault)
}

// discard drops the open input without committing; late callbacks from it
// are ignored.
func (t *Text) discard() {
	t.gen++
	if t.input != nil {
		t.input.Close()
		t.input = nil
	}
}
