package ui

import (
	"strings"

	"RoomBoard/internal/board"
	"RoomBoard/internal/tool"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ZoomStep is the wheel delta applied by the zoom buttons.
const ZoomStep = 200.0

func toolLabel(k tool.Kind) string {
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// NewToolPicker lists every tool; picking one activates it on the session.
func NewToolPicker(b *BoardWidget, initial tool.Kind) *widget.RadioGroup {
	labels := make([]string, 0, len(tool.Kinds()))
	byLabel := make(map[string]tool.Kind)
	for _, k := range tool.Kinds() {
		l := toolLabel(k)
		labels = append(labels, l)
		byLabel[l] = k
	}
	picker := widget.NewRadioGroup(labels, func(l string) {
		k, ok := byLabel[l]
		if !ok {
			return
		}
		b.post(func(s *board.Session) {
			if err := s.SelectTool(k); err != nil {
				b.SetStatus(err.Error())
			}
		})
	})
	picker.Horizontal = true
	picker.Required = true
	picker.SetSelected(toolLabel(initial))
	return picker
}

// Actions are the file operations the toolbar offers.
type Actions struct {
	Save      func()
	Open      func()
	ExportPDF func()
	Share     func()
}

// NewToolbar builds the top bar: tool picker, history and view controls,
// file actions.
func NewToolbar(b *BoardWidget, initial tool.Kind, act Actions) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() {
			b.post(func(s *board.Session) { s.Undo() })
		}),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() {
			b.post(func(s *board.Session) { s.Redo() })
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() {
			b.post(func(s *board.Session) { s.ZoomBy(ZoomStep) })
		}),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() {
			b.post(func(s *board.Session) { s.ZoomBy(-ZoomStep) })
		}),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), func() {
			b.post(func(s *board.Session) { s.ResetView() })
		}),
		widget.NewToolbarAction(theme.GridIcon(), b.ToggleGrid),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), act.Save),
		widget.NewToolbarAction(theme.FolderOpenIcon(), act.Open),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), act.ExportPDF),
		widget.NewToolbarAction(theme.MailForwardIcon(), act.Share),
	)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		NewToolPicker(b, initial),
		widget.NewSeparator(),
		tb,
		layout.NewSpacer(),
	)
}
