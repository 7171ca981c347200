package diagram

// Node is a labelled state drawn as a circle.
type Node struct {
	X, Y          float64
	IsAcceptState bool
	Label         *TextBox

	mouseOffsetX float64
	mouseOffsetY float64
}

func (n *Node) center() Point {
	return Point{X: n.X, Y: n.Y}
}

// setMouseStart records the node's offset from the pointer at the start of a
// drag.
func (n *Node) setMouseStart(x, y float64) {
	n.mouseOffsetX = n.X - x
	n.mouseOffsetY = n.Y - y
}

// setAnchorPoint moves the node so it keeps its offset from the pointer.
func (n *Node) setAnchorPoint(x, y float64) {
	n.X = x + n.mouseOffsetX
	n.Y = y + n.mouseOffsetY
}

func (n *Node) containsPoint(x, y, radius float64) bool {
	dx := x - n.X
	dy := y - n.Y
	return dx*dx+dy*dy < radius*radius
}

func (n *Node) closestPointOnCircle(x, y, radius float64) Point {
	return closestPointOnCircle(n.center(), radius, Point{X: x, Y: y})
}

func (n *Node) draw(s Surface, st Style, showCaret bool) {
	s.StrokeCircle(n.X, n.Y, st.NodeRadius)
	n.Label.draw(s, st, n.X, n.Y, nil, showCaret)
	if n.IsAcceptState {
		s.StrokeCircle(n.X, n.Y, st.NodeRadius-6)
	}
}
