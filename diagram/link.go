package diagram

import "math"

// Link joins two distinct nodes. Its curvature anchor lies ParallelPart of the
// way from A to B and PerpendicularPart pixels off that line; a zero
// PerpendicularPart means a straight link.
type Link struct {
	A, B              int
	ParallelPart      float64
	PerpendicularPart float64
	// LineAngleAdjust is π when a straight link was snapped from the negative
	// side, flipping its label to that side.
	LineAngleAdjust float64
	Label           *TextBox
}

func (l *Link) TextBox() *TextBox { return l.Label }

func (l *Link) References(i int) bool { return l.A == i || l.B == i }

func (l *Link) remap(fn func(int) int) {
	l.A = fn(l.A)
	l.B = fn(l.B)
}

func (l *Link) ends(d *Diagram) (a, b *Node) {
	return d.Nodes[l.A], d.Nodes[l.B]
}

// AnchorPoint returns the curvature anchor in canvas coordinates.
func (l *Link) AnchorPoint(d *Diagram) Point {
	a, b := l.ends(d)
	dx := b.X - a.X
	dy := b.Y - a.Y
	scale := math.Sqrt(dx*dx + dy*dy)
	if scale == 0 {
		return a.center()
	}
	return Point{
		X: a.X + dx*l.ParallelPart - dy*l.PerpendicularPart/scale,
		Y: a.Y + dy*l.ParallelPart + dx*l.PerpendicularPart/scale,
	}
}

// SetAnchorPoint bends the link through (x, y), snapping it straight when the
// point is within SnapToPadding of the segment between the nodes.
func (l *Link) SetAnchorPoint(d *Diagram, x, y float64) {
	a, b := l.ends(d)
	dx := b.X - a.X
	dy := b.Y - a.Y
	scale := math.Sqrt(dx*dx + dy*dy)
	if scale == 0 {
		return
	}
	l.ParallelPart = (dx*(x-a.X) + dy*(y-a.Y)) / (scale * scale)
	l.PerpendicularPart = (dx*(y-a.Y) - dy*(x-a.X)) / scale
	if l.ParallelPart > 0 && l.ParallelPart < 1 && math.Abs(l.PerpendicularPart) < SnapToPadding {
		l.LineAngleAdjust = 0
		if l.PerpendicularPart < 0 {
			l.LineAngleAdjust = math.Pi
		}
		l.PerpendicularPart = 0
	}
}

func (l *Link) straightPath(d *Diagram) Path {
	a, b := l.ends(d)
	r := d.style.NodeRadius
	midX := (a.X + b.X) / 2
	midY := (a.Y + b.Y) / 2
	return Path{
		Start: a.closestPointOnCircle(midX, midY, r),
		End:   b.closestPointOnCircle(midX, midY, r),
	}
}

func (l *Link) Path(d *Diagram) Path {
	if l.PerpendicularPart == 0 {
		return l.straightPath(d)
	}
	a, b := l.ends(d)
	anchor := l.AnchorPoint(d)
	circle, ok := CircleFromThreePoints(a.X, a.Y, b.X, b.Y, anchor.X, anchor.Y)
	if !ok {
		return l.straightPath(d)
	}
	isReversed := l.PerpendicularPart > 0
	reverseScale := -1.0
	if isReversed {
		reverseScale = 1
	}
	rRatio := reverseScale * d.style.NodeRadius / circle.Radius
	startAngle := math.Atan2(a.Y-circle.Y, a.X-circle.X) - rRatio
	endAngle := math.Atan2(b.Y-circle.Y, b.X-circle.X) + rRatio
	return Path{
		HasCircle:    true,
		Start:        Point{X: circle.X + circle.Radius*math.Cos(startAngle), Y: circle.Y + circle.Radius*math.Sin(startAngle)},
		End:          Point{X: circle.X + circle.Radius*math.Cos(endAngle), Y: circle.Y + circle.Radius*math.Sin(endAngle)},
		StartAngle:   startAngle,
		EndAngle:     endAngle,
		Circle:       circle,
		ReverseScale: reverseScale,
		IsReversed:   isReversed,
	}
}

func (l *Link) labelBase(d *Diagram) (x, y, angle float64, ok bool) {
	p := l.Path(d)
	relDist := l.Label.RelDist
	if p.HasCircle {
		startAngle, endAngle := p.StartAngle, p.EndAngle
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
		angle = (1-relDist)*startAngle + relDist*endAngle
		if p.IsReversed {
			// Reflect across the chord so the label follows the arc.
			angle += (1 - relDist) * 2 * math.Pi
		}
		return p.Circle.X + p.Circle.Radius*math.Cos(angle), p.Circle.Y + p.Circle.Radius*math.Sin(angle), angle, true
	}
	x = (1-relDist)*p.Start.X + relDist*p.End.X
	y = (1-relDist)*p.Start.Y + relDist*p.End.Y
	angle = math.Atan2(p.End.X-p.Start.X, p.Start.Y-p.End.Y) + l.LineAngleAdjust
	return x, y, angle, true
}

func (l *Link) Draw(s Surface, d *Diagram, showCaret bool) {
	p := l.Path(d)
	if p.HasCircle {
		s.StrokeArc(p.Circle.X, p.Circle.Y, p.Circle.Radius, p.StartAngle, p.EndAngle, p.IsReversed)
		arrowIfDirected(s, d, p.End.X, p.End.Y, p.EndAngle-p.ReverseScale*(math.Pi/2))
	} else {
		s.StrokeLine(p.Start.X, p.Start.Y, p.End.X, p.End.Y)
		arrowIfDirected(s, d, p.End.X, p.End.Y, math.Atan2(p.End.Y-p.Start.Y, p.End.X-p.Start.X))
	}
	x, y, angle, _ := l.labelBase(d)
	l.Label.draw(s, d.style, x, y, &angle, showCaret)
}

// ContainsPoint reports whether (x, y) is within HitTargetPadding of the
// drawn link.
func (l *Link) ContainsPoint(d *Diagram, x, y float64) bool {
	p := l.Path(d)
	if !p.HasCircle {
		return segmentContains(p.Start, p.End, x, y)
	}
	dx := x - p.Circle.X
	dy := y - p.Circle.Y
	distance := math.Sqrt(dx*dx+dy*dy) - p.Circle.Radius
	if math.Abs(distance) >= HitTargetPadding {
		return false
	}
	angle := math.Atan2(dy, dx)
	startAngle, endAngle := p.StartAngle, p.EndAngle
	if p.IsReversed {
		startAngle, endAngle = endAngle, startAngle
	}
	if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}
	if angle < startAngle {
		angle += 2 * math.Pi
	} else if angle > endAngle {
		angle -= 2 * math.Pi
	}
	return angle > startAngle && angle < endAngle
}
