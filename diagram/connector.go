package diagram

import "math"

// Path is the computed geometry of a connector: either a straight segment
// from Start to End, or an arc of Circle between StartAngle and EndAngle.
type Path struct {
	HasCircle  bool
	Start, End Point

	StartAngle, EndAngle float64
	Circle               Circle
	ReverseScale         float64
	IsReversed           bool
}

// Connector is a drawable edge. Link, SelfLink and StartLink are stored in a
// Diagram; TemporaryLink only ever exists while a connector is being drafted.
type Connector interface {
	// Path computes the connector's current geometry.
	Path(d *Diagram) Path
	Draw(s Surface, d *Diagram, showCaret bool)
	ContainsPoint(d *Diagram, x, y float64) bool
	// SetAnchorPoint reshapes the connector so that it passes near (x, y).
	SetAnchorPoint(d *Diagram, x, y float64)
	// TextBox returns the editable label, or nil if the connector has none.
	TextBox() *TextBox
	// References reports whether the connector touches node i.
	References(i int) bool

	// remap rewrites node indices after a deletion.
	remap(fn func(int) int)
	// labelBase returns where the label sits before its offset is applied
	// and the direction it is pushed in.
	labelBase(d *Diagram) (x, y, angle float64, ok bool)
}

// segmentContains is the hit test shared by straight connectors.
func segmentContains(start, end Point, x, y float64) bool {
	dx := end.X - start.X
	dy := end.Y - start.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return false
	}
	percent := (dx*(x-start.X) + dy*(y-start.Y)) / (length * length)
	distance := (dx*(y-start.Y) - dy*(x-start.X)) / length
	return percent > 0 && percent < 1 && math.Abs(distance) < HitTargetPadding
}

func arrowIfDirected(s Surface, d *Diagram, x, y, angle float64) {
	if !d.style.Directed {
		return
	}
	head := ArrowHead(x, y, angle)
	s.FillPolygon(head[:])
}
