package ui

import (
	"fmt"
	"log/slog"

	"RoomBoard/internal/board"
	"RoomBoard/internal/export"
	"RoomBoard/internal/tool"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
)

type AppOptions struct {
	Title     string
	ShareLink string
	Tool      tool.Kind
	Logger    *slog.Logger
	// WheelScale multiplies scroll deltas before they reach the zoom.
	WheelScale float64
}

// RunApp builds the board widget, hands it to start to bring a running
// session up behind it, then shows the window and blocks until it is closed.
func RunApp(opts AppOptions, start func(b *BoardWidget) *board.Session) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ui")
	if opts.Tool == "" {
		opts.Tool = tool.KindPencil
	}

	a := app.NewWithID("io.roomboard.client")
	w := a.NewWindow(opts.Title)
	w.Resize(fyne.NewSize(1024, 768))

	b := NewBoardWidget(opts.WheelScale)
	b.Attach(start(b))

	act := Actions{
		Save: func() {
			dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
				if err != nil || wc == nil {
					return
				}
				b.post(func(s *board.Session) {
					defer wc.Close()
					if err := s.WriteJSON(wc); err != nil {
						logger.Error("save", "error", err)
						b.SetStatus("Error saving file")
						return
					}
					b.SetStatus(fmt.Sprintf("Saved %d shapes", len(s.Shapes())))
				})
			}, w)
		},
		Open: func() {
			dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
				if err != nil || rc == nil {
					return
				}
				b.post(func(s *board.Session) {
					defer rc.Close()
					if err := s.ReadJSON(rc); err != nil {
						logger.Error("load", "error", err)
						b.SetStatus("Error parsing file - invalid format")
						return
					}
					b.SetStatus(fmt.Sprintf("Loaded %d shapes", len(s.Shapes())))
				})
			}, w)
		},
		ExportPDF: func() {
			dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
				if err != nil || wc == nil {
					return
				}
				b.post(func(s *board.Session) {
					shapes := s.Shapes()
					go func() {
						defer wc.Close()
						err := export.PDF(wc, shapes, export.Options{Title: "Room " + s.Room()})
						if err != nil {
							logger.Error("export pdf", "error", err)
							b.SetStatus("PDF export failed")
							return
						}
						b.SetStatus("Exported PDF")
					}()
				})
			}, w)
		},
		Share: func() {
			if opts.ShareLink == "" {
				b.SetStatus("No share link")
				return
			}
			a.Clipboard().SetContent(opts.ShareLink)
			b.SetStatus("Copied " + opts.ShareLink)
		},
	}

	bindKeys(w, b)
	toolbar := NewToolbar(b, opts.Tool, act)
	w.SetContent(container.NewBorder(toolbar, b.Status(), nil, nil, b.Layer()))
	w.ShowAndRun()
}

func bindKeys(w fyne.Window, b *BoardWidget) {
	c := w.Canvas()
	undo := func(fyne.Shortcut) { b.post(func(s *board.Session) { s.Undo() }) }
	redo := func(fyne.Shortcut) { b.post(func(s *board.Session) { s.Redo() }) }
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, undo)
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, redo)
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, redo)
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		k := tool.Key(ev.Name)
		switch k {
		case tool.KeyDelete, tool.KeyBackspace, tool.KeyEscape, tool.KeyEnter:
			b.post(func(s *board.Session) { s.Key(k) })
		}
	})
}
