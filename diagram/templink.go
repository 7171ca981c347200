package diagram

import "math"

// TemporaryLink is the rubber band shown while a connector is dragged out
// over empty canvas. It is never stored in a Diagram.
type TemporaryLink struct {
	From, To Point
}

func (l *TemporaryLink) TextBox() *TextBox { return nil }

func (l *TemporaryLink) References(int) bool { return false }

func (l *TemporaryLink) remap(func(int) int) {}

func (l *TemporaryLink) labelBase(*Diagram) (x, y, angle float64, ok bool) {
	return 0, 0, 0, false
}

func (l *TemporaryLink) SetAnchorPoint(_ *Diagram, x, y float64) {
	l.To = Point{X: x, Y: y}
}

func (l *TemporaryLink) Path(*Diagram) Path {
	return Path{Start: l.From, End: l.To}
}

func (l *TemporaryLink) Draw(s Surface, d *Diagram, _ bool) {
	s.StrokeLine(l.To.X, l.To.Y, l.From.X, l.From.Y)
	arrowIfDirected(s, d, l.To.X, l.To.Y, math.Atan2(l.To.Y-l.From.Y, l.To.X-l.From.X))
}

func (l *TemporaryLink) ContainsPoint(*Diagram, float64, float64) bool {
	return false
}
