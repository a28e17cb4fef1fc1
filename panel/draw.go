package panel

import (
	"image"
	"image/color"
	"image/draw"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	colBackground = color.RGBA{0x1a, 0x1a, 0x1a, 0xe6}
	colTitle      = color.RGBA{0x00, 0x00, 0x00, 0xf0}
	colSelected   = color.RGBA{0x30, 0x30, 0x30, 0xf0}
	colBar        = color.RGBA{0x30, 0x30, 0x30, 0xff}
	colFill       = color.RGBA{0x2f, 0xa1, 0xd6, 0xff}
	colRawAccent  = color.RGBA{0x1e, 0xd3, 0x6f, 0xff}
	colText       = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colValue      = color.RGBA{0x2f, 0xa1, 0xd6, 0xff}
)

// Size is the pixel size of the image Draw needs.
func (p *Panel) Size() image.Point {
	return p.Bounds().Size()
}

// Image returns the panel rendered at Size. The image is reused between
// calls and only redrawn when the layout or a bound value has changed,
// which the second result reports.
func (p *Panel) Image() (*image.RGBA, bool) {
	size := p.Size()
	state := p.state(p.scratch[:0])
	p.scratch, p.drawn = p.drawn, state
	if p.img != nil && p.img.Rect.Size() == size && slices.Equal(state, p.scratch) {
		return p.img, false
	}

	if p.img == nil || p.img.Rect.Size() != size {
		p.img = image.NewRGBA(image.Rectangle{Max: size})
	} else {
		clear(p.img.Pix)
	}
	p.Draw(p.img)
	return p.img, true
}

// state appends everything Draw depends on to buf.
func (p *Panel) state(buf []float32) []float32 {
	buf = append(buf, float32(p.Width), float32(p.selected))
	for _, f := range p.Folders {
		if !f.Open {
			buf = append(buf, 0)
			continue
		}
		buf = append(buf, 1)
		for _, c := range f.Controllers {
			buf = append(buf, c.Value())
		}
	}
	return buf
}

// Draw rasterises the panel with its top-left corner at dst.Bounds().Min.
func (p *Panel) Draw(dst draw.Image) {
	o := dst.Bounds().Min
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Face: face}
	ascent := face.Metrics().Ascent.Ceil()

	text := func(s string, x, y int, c color.Color) {
		d.Src = image.NewUniform(c)
		d.Dot = fixed.P(o.X+x, o.Y+y+(RowHeight+ascent)/2-1)
		d.DrawString(s)
	}
	fill := func(r image.Rectangle, c color.Color) {
		draw.Draw(dst, r.Add(o), image.NewUniform(c), image.Point{}, draw.Over)
	}

	x0, x1 := p.barSpan()
	for i, r := range p.rows() {
		y := i * RowHeight
		line := image.Rect(0, y, p.Width, y+RowHeight)

		if r.ctrl == nil {
			fill(line, colTitle)
			marker := "+ "
			if r.folder.Open {
				marker = "- "
			}
			text(marker+r.folder.Name, 6, y, colText)
			continue
		}

		bg := colBackground
		if i == p.selected {
			bg = colSelected
		}
		fill(line, bg)
		text(r.ctrl.Name, 10, y, colText)

		if r.ctrl.Ranged() {
			bar := image.Rect(x0, y+3, x1, y+RowHeight-3)
			fill(bar, colBar)
			w := int(float32(bar.Dx()) * r.ctrl.Fraction())
			fill(image.Rect(bar.Min.X, bar.Min.Y, bar.Min.X+w, bar.Max.Y), colFill)
		} else {
			fill(image.Rect(0, y, 3, y+RowHeight), colRawAccent)
		}
		text(r.ctrl.Format(), x1+4, y, colValue)
	}
}
