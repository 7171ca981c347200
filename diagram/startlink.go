package diagram

import "math"

// StartLink is the unlabelled arrow into an automaton's initial state. Its
// open end sits at (DeltaX, DeltaY) from the node centre.
type StartLink struct {
	Node           int
	DeltaX, DeltaY float64
}

func (l *StartLink) TextBox() *TextBox { return nil }

func (l *StartLink) References(i int) bool { return l.Node == i }

func (l *StartLink) remap(fn func(int) int) { l.Node = fn(l.Node) }

func (l *StartLink) labelBase(*Diagram) (x, y, angle float64, ok bool) {
	return 0, 0, 0, false
}

// SetAnchorPoint moves the open end to (x, y), snapping each axis to the
// node centre when within SnapToPadding.
func (l *StartLink) SetAnchorPoint(d *Diagram, x, y float64) {
	n := d.Nodes[l.Node]
	l.DeltaX = x - n.X
	l.DeltaY = y - n.Y
	if math.Abs(l.DeltaX) < SnapToPadding {
		l.DeltaX = 0
	}
	if math.Abs(l.DeltaY) < SnapToPadding {
		l.DeltaY = 0
	}
}

func (l *StartLink) Path(d *Diagram) Path {
	n := d.Nodes[l.Node]
	start := Point{X: n.X + l.DeltaX, Y: n.Y + l.DeltaY}
	return Path{
		Start: start,
		End:   n.closestPointOnCircle(start.X, start.Y, d.style.NodeRadius),
	}
}

func (l *StartLink) Draw(s Surface, d *Diagram, _ bool) {
	p := l.Path(d)
	s.StrokeLine(p.Start.X, p.Start.Y, p.End.X, p.End.Y)
	arrowIfDirected(s, d, p.End.X, p.End.Y, math.Atan2(-l.DeltaY, -l.DeltaX))
}

func (l *StartLink) ContainsPoint(d *Diagram, x, y float64) bool {
	p := l.Path(d)
	return segmentContains(p.Start, p.End, x, y)
}
