package state

// MaxHistory bounds the undo stack.
const MaxHistory = 50

// History is a linear undo/redo stack of full canvas snapshots. The top of
// the undo stack is always the current state, so undo needs at least two
// entries.
type History struct {
	undo [][]Shape
	redo [][]Shape
}

func NewHistory(initial []Shape) *History {
	h := &History{}
	h.Reset(initial)
	return h
}

// Reset drops both stacks and starts again from initial.
func (h *History) Reset(initial []Shape) {
	h.undo = [][]Shape{CloneAll(initial)}
	h.redo = nil
}

// Save pushes a copy of shapes, evicting the oldest snapshot past MaxHistory,
// and clears the redo stack.
func (h *History) Save(shapes []Shape) {
	h.undo = append(h.undo, CloneAll(shapes))
	if len(h.undo) > MaxHistory {
		h.undo = h.undo[len(h.undo)-MaxHistory:]
	}
	h.redo = nil
}

// Undo returns the previous snapshot, or false when only one remains.
func (h *History) Undo() ([]Shape, bool) {
	if len(h.undo) <= 1 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	return CloneAll(h.undo[len(h.undo)-1]), true
}

// Redo re-applies the last undone snapshot, or returns false when there is none.
func (h *History) Redo() ([]Shape, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, next)
	return CloneAll(next), true
}

func (h *History) CanUndo() bool { return len(h.undo) > 1 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len is the number of snapshots on the undo stack.
func (h *History) Len() int { return len(h.undo) }
