// Package export renders a canvas to a printable PDF page.
package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"RoomBoard/internal/render"
	"RoomBoard/internal/state"

	"github.com/jung-kurt/gofpdf"
)

// Margin around the drawing, in millimetres.
const Margin = 10.0

type Options struct {
	Title    string
	Measurer state.TextMeasurer
}

// PDF draws shapes dark-on-white on a single landscape A4 page, scaled to
// fit the page.
func PDF(w io.Writer, shapes []state.Shape, opts Options) error {
	p := gofpdf.New("L", "mm", "A4", "")
	if opts.Title != "" {
		p.SetTitle(opts.Title, true)
	}
	p.SetCreator("roomboard", true)
	p.AddPage()
	p.SetDrawColor(0, 0, 0)
	p.SetTextColor(0, 0, 0)
	p.SetFont("Helvetica", "", 12)

	box, ok := state.BoundsOf(shapes, opts.Measurer)
	if ok {
		pageW, pageH := p.GetPageSize()
		pg := newPage(box, pageW, pageH)
		frame := render.Compose(render.Scene{
			Shapes:   shapes,
			Camera:   state.Camera{X: box.X, Y: box.Y, Zoom: 1},
			Measurer: opts.Measurer,
		})
		tr := p.UnicodeTranslatorFromDescriptor("")
		for _, cmd := range frame.Commands {
			pg.draw(p, cmd, tr)
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// File writes the PDF to path.
func File(path string, shapes []state.Shape, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PDF(f, shapes, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// page maps world coordinates onto the printable area.
type page struct {
	origin state.Point
	scale  float64
	offX   float64
	offY   float64
}

func newPage(box state.Box, pageW, pageH float64) page {
	availW, availH := pageW-2*Margin, pageH-2*Margin
	scale := 1.0
	if box.Width > 0 && box.Height > 0 {
		scale = math.Min(availW/box.Width, availH/box.Height)
	} else if box.Width > 0 {
		scale = availW / box.Width
	} else if box.Height > 0 {
		scale = availH / box.Height
	}
	// never blow a tiny drawing up past 1 world unit per millimetre
	scale = math.Min(scale, 1)
	return page{
		origin: state.Point{X: box.X, Y: box.Y},
		scale:  scale,
		offX:   Margin + (availW-box.Width*scale)/2,
		offY:   Margin + (availH-box.Height*scale)/2,
	}
}

func (pg page) pt(p state.Point) (float64, float64) {
	return pg.offX + (p.X-pg.origin.X)*pg.scale, pg.offY + (p.Y-pg.origin.Y)*pg.scale
}

func (pg page) draw(p *gofpdf.Fpdf, cmd render.Command, tr func(string) string) {
	st := cmd.Style()
	p.SetLineWidth(math.Max(st.Width*pg.scale, 0.2))
	if len(st.Dash) > 0 {
		dash := make([]float64, len(st.Dash))
		for i, d := range st.Dash {
			dash[i] = d * pg.scale
		}
		p.SetDashPattern(dash, 0)
	} else {
		p.SetDashPattern([]float64{}, 0)
	}

	switch c := cmd.(type) {
	case render.RectCmd:
		r := state.Normalize(state.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height})
		x, y := pg.pt(state.Pt(r.X, r.Y))
		p.Rect(x, y, r.Width*pg.scale, r.Height*pg.scale, "D")
	case render.CircleCmd:
		x, y := pg.pt(state.Pt(c.CX, c.CY))
		p.Circle(x, y, c.Radius*pg.scale, "D")
	case render.PolylineCmd:
		for i := 0; i+1 < len(c.Points); i++ {
			x1, y1 := pg.pt(c.Points[i])
			x2, y2 := pg.pt(c.Points[i+1])
			p.Line(x1, y1, x2, y2)
		}
	case render.TextCmd:
		size := c.Size * pg.scale
		p.SetFontUnitSize(size)
		x, y := pg.pt(state.Pt(c.X, c.Y))
		p.Text(x, y+size*0.8, tr(c.Content))
	}
}
