package diagram

import "math"

// SelfLink is a loop from a node back to itself, centred on AnchorAngle.
type SelfLink struct {
	Node        int
	AnchorAngle float64 // radians in [-π, π]
	Label       *TextBox
}

func (l *SelfLink) TextBox() *TextBox { return l.Label }

func (l *SelfLink) References(i int) bool { return l.Node == i }

func (l *SelfLink) remap(fn func(int) int) { l.Node = fn(l.Node) }

// SetAnchorPoint turns the loop towards (x, y), snapping to right angles.
func (l *SelfLink) SetAnchorPoint(d *Diagram, x, y float64) {
	n := d.Nodes[l.Node]
	angle := math.Atan2(y-n.Y, x-n.X)
	snap := math.Round(angle/(math.Pi/2)) * (math.Pi / 2)
	if math.Abs(angle-snap) < SelfLinkSnapAngle {
		angle = snap
	}
	l.AnchorAngle = normalizeAngle(angle)
}

func (l *SelfLink) Path(d *Diagram) Path {
	n := d.Nodes[l.Node]
	r := d.style.NodeRadius
	circle := Circle{
		X:      n.X + 1.5*r*math.Cos(l.AnchorAngle),
		Y:      n.Y + 1.5*r*math.Sin(l.AnchorAngle),
		Radius: 0.75 * r,
	}
	startAngle := l.AnchorAngle - math.Pi*0.8
	endAngle := l.AnchorAngle + math.Pi*0.8
	return Path{
		HasCircle:  true,
		Start:      Point{X: circle.X + circle.Radius*math.Cos(startAngle), Y: circle.Y + circle.Radius*math.Sin(startAngle)},
		End:        Point{X: circle.X + circle.Radius*math.Cos(endAngle), Y: circle.Y + circle.Radius*math.Sin(endAngle)},
		StartAngle: startAngle,
		EndAngle:   endAngle,
		Circle:     circle,
	}
}

func (l *SelfLink) labelBase(d *Diagram) (x, y, angle float64, ok bool) {
	p := l.Path(d)
	relDist := l.Label.RelDist
	angle = p.StartAngle*(1-relDist) + p.EndAngle*relDist
	return p.Circle.X + p.Circle.Radius*math.Cos(angle), p.Circle.Y + p.Circle.Radius*math.Sin(angle), angle, true
}

func (l *SelfLink) Draw(s Surface, d *Diagram, showCaret bool) {
	p := l.Path(d)
	s.StrokeArc(p.Circle.X, p.Circle.Y, p.Circle.Radius, p.StartAngle, p.EndAngle, false)
	x, y, angle, _ := l.labelBase(d)
	l.Label.draw(s, d.style, x, y, &angle, showCaret)
	arrowIfDirected(s, d, p.End.X, p.End.Y, p.EndAngle+math.Pi*0.4)
}

// ContainsPoint tests the whole loop circle; the angular gap is ignored.
func (l *SelfLink) ContainsPoint(d *Diagram, x, y float64) bool {
	p := l.Path(d)
	dx := x - p.Circle.X
	dy := y - p.Circle.Y
	return math.Abs(math.Sqrt(dx*dx+dy*dy)-p.Circle.Radius) < HitTargetPadding
}
