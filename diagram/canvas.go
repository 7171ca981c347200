package diagram

import (
	"image"
	"image/color"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Surface is what diagram elements draw themselves on.
type Surface interface {
	SetColor(c color.Color)
	SetFontSize(px float64)
	StrokeLine(x1, y1, x2, y2 float64)
	StrokeArc(cx, cy, r, startAngle, endAngle float64, anticlockwise bool)
	StrokeCircle(cx, cy, r float64)
	FillPolygon(pts []Point)
	FillRect(x, y, w, h float64, c color.Color)
	FillText(s string, x, y float64)
	MeasureText(s string) float64
}

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

func loadLabelFont() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(goregular.TTF)
	})
	return labelFont, labelFontErr
}

// Canvas is the drawing surface of one widget. It owns the raster, tracks
// input focus and forwards input events to its handler until detached.
//
// Drawing methods are not safe for concurrent use; the owning Instance
// serializes them.
type Canvas struct {
	id       string
	dc       *gg.Context
	ink      color.Color
	fontSize float64
	faces    map[float64]font.Face

	focused  atomic.Bool
	detached atomic.Bool
	handler  EventHandler
}

// NewCanvas returns a white canvas of the given size.
func NewCanvas(id string, width, height int) *Canvas {
	c := &Canvas{
		id:    id,
		ink:   color.Black,
		faces: make(map[float64]font.Face),
	}
	c.Resize(width, height)
	return c
}

// ID returns the element id the canvas was created with.
func (c *Canvas) ID() string {
	return c.id
}

// Resize replaces the raster with a blank one of the new size.
func (c *Canvas) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.dc = gg.NewContext(width, height)
	c.dc.SetLineWidth(1)
	c.Clear()
	if face, ok := c.faces[c.fontSize]; ok {
		c.dc.SetFontFace(face)
	}
}

// Size returns the raster size in pixels.
func (c *Canvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

// Clear paints the whole canvas white.
func (c *Canvas) Clear() {
	c.dc.SetColor(color.White)
	c.dc.Clear()
	c.dc.SetColor(c.ink)
}

// Image returns the raster. It is only valid until the next draw.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the raster as a PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// SavePNG writes the raster to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}

func (c *Canvas) SetColor(col color.Color) {
	c.ink = col
	c.dc.SetColor(col)
}

// SetFontSize selects the label face for the given pixel size, falling back
// to gg's built in face if the font cannot be loaded.
func (c *Canvas) SetFontSize(px float64) {
	if px == c.fontSize {
		return
	}
	c.fontSize = px
	face, ok := c.faces[px]
	if !ok {
		f, err := loadLabelFont()
		if err != nil {
			return
		}
		face = truetype.NewFace(f, &truetype.Options{
			Size:    px,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		c.faces[px] = face
	}
	c.dc.SetFontFace(face)
}

func (c *Canvas) StrokeLine(x1, y1, x2, y2 float64) {
	c.dc.NewSubPath()
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

// StrokeArc strokes the arc from startAngle to endAngle, sweeping in the
// direction of increasing angle unless anticlockwise is set.
func (c *Canvas) StrokeArc(cx, cy, r, startAngle, endAngle float64, anticlockwise bool) {
	if anticlockwise {
		for endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		for endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}
	c.dc.NewSubPath()
	c.dc.DrawArc(cx, cy, r, startAngle, endAngle)
	c.dc.Stroke()
}

func (c *Canvas) StrokeCircle(cx, cy, r float64) {
	c.dc.NewSubPath()
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Stroke()
}

func (c *Canvas) FillPolygon(pts []Point) {
	if len(pts) == 0 {
		return
	}
	c.dc.NewSubPath()
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.dc.Fill()
}

// FillRect fills a rectangle in col without changing the current ink.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
	c.dc.SetColor(c.ink)
}

// FillText draws s with its baseline at y.
func (c *Canvas) FillText(s string, x, y float64) {
	if s == "" {
		return
	}
	c.dc.DrawString(s, x, y)
}

func (c *Canvas) MeasureText(s string) float64 {
	if s == "" {
		return 0
	}
	w, _ := c.dc.MeasureString(s)
	return w
}

// HasFocus reports whether the canvas currently receives keyboard input.
func (c *Canvas) HasFocus() bool {
	return c.focused.Load()
}

// Focus gives the canvas keyboard focus.
func (c *Canvas) Focus() {
	c.focused.Store(true)
}

// Blur removes keyboard focus.
func (c *Canvas) Blur() {
	c.focused.Store(false)
}

// Attach sets the handler events are forwarded to. It must be called before
// any event is delivered.
func (c *Canvas) Attach(h EventHandler) {
	c.handler = h
}

// Detach stops all event forwarding and drops focus.
func (c *Canvas) Detach() {
	c.detached.Store(true)
	c.focused.Store(false)
}

func (c *Canvas) target() EventHandler {
	if c.detached.Load() {
		return nil
	}
	return c.handler
}

// MouseDown focuses the canvas and forwards the event.
func (c *Canvas) MouseDown(ev PointerEvent) {
	if h := c.target(); h != nil {
		c.Focus()
		h.PointerDown(ev)
	}
}

func (c *Canvas) MouseMove(ev PointerEvent) {
	if h := c.target(); h != nil {
		h.PointerMove(ev)
	}
}

func (c *Canvas) MouseUp(ev PointerEvent) {
	if h := c.target(); h != nil {
		h.PointerUp(ev)
	}
}

func (c *Canvas) DoubleClick(ev PointerEvent) {
	if h := c.target(); h != nil {
		c.Focus()
		h.DoubleClick(ev)
	}
}

// KeyDown forwards non-printable keys, only while focused.
func (c *Canvas) KeyDown(ev KeyEvent) {
	if h := c.target(); h != nil && c.HasFocus() {
		h.KeyDown(ev)
	}
}

// KeyPress forwards typed characters, only while focused.
func (c *Canvas) KeyPress(ev KeyEvent) {
	if h := c.target(); h != nil && c.HasFocus() {
		h.KeyPress(ev)
	}
}
