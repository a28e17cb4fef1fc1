// Package panel is a small immediate-style parameter panel: named folders of
// numeric controllers, edited with the keyboard or the pointer and drawn
// into an RGBA image for the overlay.
package panel

import (
	"image"
)

// Key is a panel navigation key. Callers map their window system's key
// codes onto these.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyToggle
)

// Layout, in logical pixels.
const (
	DefaultWidth = 245
	RowHeight    = 20
	LabelWidth   = 80
	ValueWidth   = 56
	Margin       = 15
)

// Folder groups controllers under a collapsible title.
type Folder struct {
	Name        string
	Open        bool
	Controllers []*Controller
}

// Add appends a controller. Chain Range and WithStep on the result.
func (f *Folder) Add(c *Controller) *Controller {
	f.Controllers = append(f.Controllers, c)
	return c
}

// row is one line of the panel: a folder title when ctrl is nil.
type row struct {
	folder *Folder
	ctrl   *Controller
}

// Panel lays folders out top to bottom, anchored to the top-right corner of
// the viewport.
type Panel struct {
	Folders []*Folder
	Visible bool
	Width   int

	origin   image.Point
	selected int

	dragging *Controller
	lastX    float64

	img     *image.RGBA
	drawn   []float32
	scratch []float32
}

func New() *Panel {
	return &Panel{Visible: true, Width: DefaultWidth}
}

// AddFolder appends an open folder.
func (p *Panel) AddFolder(name string) *Folder {
	f := &Folder{Name: name, Open: true}
	p.Folders = append(p.Folders, f)
	return f
}

// Folder returns the folder called name, or nil.
func (p *Panel) Folder(name string) *Folder {
	for _, f := range p.Folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// SetViewport re-anchors the panel for a viewport of the given logical width.
func (p *Panel) SetViewport(width int) {
	x := width - p.Width - Margin
	if x < 0 {
		x = 0
	}
	p.origin = image.Pt(x, 0)
}

// Bounds is the panel rectangle in viewport coordinates.
func (p *Panel) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, len(p.rows())*RowHeight).Add(p.origin)
}

// Contains reports whether (x, y) hits the visible panel.
func (p *Panel) Contains(x, y float64) bool {
	if !p.Visible {
		return false
	}
	return image.Pt(int(x), int(y)).In(p.Bounds())
}

func (p *Panel) rows() []row {
	var rows []row
	for _, f := range p.Folders {
		rows = append(rows, row{folder: f})
		if !f.Open {
			continue
		}
		for _, c := range f.Controllers {
			rows = append(rows, row{folder: f, ctrl: c})
		}
	}
	return rows
}

// Selected returns the selected controller, or nil when a folder title or
// nothing is selected.
func (p *Panel) Selected() *Controller {
	rows := p.rows()
	if p.selected < 0 || p.selected >= len(rows) {
		return nil
	}
	return rows[p.selected].ctrl
}

// Key handles a key press and reports whether the panel consumed it.
// KeyToggle works while hidden; the others only when visible.
func (p *Panel) Key(k Key, shift bool) bool {
	if k == KeyToggle {
		p.Visible = !p.Visible
		p.dragging = nil
		return true
	}
	if !p.Visible {
		return false
	}
	rows := p.rows()
	if len(rows) == 0 {
		return false
	}
	if p.selected >= len(rows) {
		p.selected = len(rows) - 1
	}
	cur := rows[p.selected]

	n := 1
	if shift {
		n = 10
	}
	switch k {
	case KeyUp:
		if p.selected > 0 {
			p.selected--
		}
	case KeyDown:
		if p.selected < len(rows)-1 {
			p.selected++
		}
	case KeyLeft:
		if cur.ctrl == nil {
			cur.folder.Open = false
		} else {
			cur.ctrl.Nudge(-n)
		}
	case KeyRight:
		if cur.ctrl == nil {
			cur.folder.Open = true
		} else {
			cur.ctrl.Nudge(n)
		}
	default:
		return false
	}
	return true
}

// barSpan is the horizontal extent of a ranged row's bar, relative to the
// panel origin.
func (p *Panel) barSpan() (x0, x1 int) {
	return LabelWidth, p.Width - ValueWidth - 4
}

// PointerDown handles a primary button press and reports whether the panel
// captured it.
func (p *Panel) PointerDown(x, y float64) bool {
	if !p.Contains(x, y) {
		return false
	}
	rows := p.rows()
	i := (int(y) - p.origin.Y) / RowHeight
	if i < 0 || i >= len(rows) {
		return false
	}
	p.selected = i
	r := rows[i]
	if r.ctrl == nil {
		r.folder.Open = !r.folder.Open
		return true
	}
	if r.ctrl.Ranged() {
		// Only the bar edits a ranged row; the label and value just select it.
		x0, x1 := p.barSpan()
		if rel := x - float64(p.origin.X); rel < float64(x0) || rel > float64(x1) {
			return true
		}
	}
	p.dragging = r.ctrl
	p.lastX = x
	if r.ctrl.Ranged() {
		p.dragTo(x)
	}
	return true
}

func (p *Panel) dragTo(x float64) {
	x0, x1 := p.barSpan()
	rel := float32(x) - float32(p.origin.X+x0)
	p.dragging.SetFraction(rel / float32(x1-x0))
}

// PointerMove continues a drag started on a row. It reports whether a drag
// is in progress.
func (p *Panel) PointerMove(x, _ float64) bool {
	if p.dragging == nil {
		return false
	}
	c := p.dragging
	if c.Ranged() {
		p.dragTo(x)
	} else {
		c.SetValue(c.Value() + float32(x-p.lastX)*c.DragRate)
	}
	p.lastX = x
	return true
}

// PointerUp ends a drag. It reports whether one was in progress.
func (p *Panel) PointerUp() bool {
	was := p.dragging != nil
	p.dragging = nil
	return was
}
