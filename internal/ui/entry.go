package ui

import (
	"RoomBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// TextBoxWidth is the on-screen width of an open text box.
const TextBoxWidth = 220

// textEntry is a single-line entry that reports Escape and focus loss.
type textEntry struct {
	widget.Entry
	onCancel    func()
	onFocusLost func()
}

func newTextEntry() *textEntry {
	e := &textEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *textEntry) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape {
		if e.onCancel != nil {
			e.onCancel()
		}
		return
	}
	e.Entry.TypedKey(ev)
}

func (e *textEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onFocusLost != nil {
		e.onFocusLost()
	}
}

// textInput is the handle a tool holds on an open text box. All fields are
// touched on the fyne goroutine only.
type textInput struct {
	board    *BoardWidget
	entry    *textEntry
	finished bool
}

func (in *textInput) open(at state.Point, done func(text string, commit bool)) {
	if in.finished {
		return
	}
	e := newTextEntry()
	e.SetPlaceHolder("Type, Enter to place")
	finish := func(commit bool) {
		if in.finished {
			return
		}
		in.finished = true
		text := e.Text
		in.remove()
		done(text, commit)
	}
	e.OnSubmitted = func(string) { finish(true) }
	e.onCancel = func() { finish(false) }
	e.onFocusLost = func() { finish(true) }

	in.entry = e
	e.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	e.Resize(fyne.NewSize(TextBoxWidth, e.MinSize().Height))
	in.board.overlay.Add(e)
	if c := fyne.CurrentApp().Driver().CanvasForObject(in.board); c != nil {
		c.Focus(e)
	}
}

// Close removes the box without reporting anything.
func (in *textInput) Close() {
	fyne.Do(func() {
		if in.finished {
			return
		}
		in.finished = true
		in.remove()
	})
}

func (in *textInput) remove() {
	if in.entry == nil {
		return
	}
	in.board.overlay.Remove(in.entry)
	in.entry = nil
}
