package diagram

import "math"

// Diagram is the node/connector model of one widget. Connectors refer to
// nodes by their index in Nodes, so indices are renumbered on deletion.
type Diagram struct {
	Nodes []*Node
	Links []Connector

	style Style
}

// NewDiagram returns an empty diagram drawn with st.
func NewDiagram(st Style) *Diagram {
	return &Diagram{
		Nodes: make([]*Node, 0),
		Links: make([]Connector, 0),
		style: st,
	}
}

// Style returns the metrics the diagram is drawn with.
func (d *Diagram) Style() Style {
	return d.style
}

// NewNode returns an unlabelled node at (x, y) without adding it.
func (d *Diagram) NewNode(x, y float64) *Node {
	return &Node{X: x, Y: y, Label: newTextBox("", d.style.TextOffset)}
}

// AddNode appends a new node at (x, y) and returns its index.
func (d *Diagram) AddNode(x, y float64) int {
	d.Nodes = append(d.Nodes, d.NewNode(x, y))
	return len(d.Nodes) - 1
}

// NewLink returns a straight link from node a to node b.
func (d *Diagram) NewLink(a, b int) *Link {
	return &Link{
		A:            a,
		B:            b,
		ParallelPart: 0.5,
		Label:        newTextBox("", d.style.TextOffset),
	}
}

// NewSelfLink returns a loop on node; when toward is non-nil the loop is
// turned towards it.
func (d *Diagram) NewSelfLink(node int, toward *Point) *SelfLink {
	l := &SelfLink{Node: node, Label: newTextBox("", d.style.TextOffset)}
	if toward != nil {
		l.SetAnchorPoint(d, toward.X, toward.Y)
	}
	return l
}

// NewStartLink returns a start link into node; when start is non-nil its open
// end is placed there.
func (d *Diagram) NewStartLink(node int, start *Point) *StartLink {
	l := &StartLink{Node: node}
	if start != nil {
		l.SetAnchorPoint(d, start.X, start.Y)
	}
	return l
}

// AddLink appends c and returns its index. A Link between nodes that are
// already linked, in either direction, is bent DuplicateLinkOffset pixels
// further out than the outermost existing one so it stays distinguishable.
func (d *Diagram) AddLink(c Connector) int {
	if nl, ok := c.(*Link); ok {
		found := false
		maxPerp := 0.0
		for _, existing := range d.Links {
			l, ok := existing.(*Link)
			if !ok {
				continue
			}
			var perp float64
			switch {
			case l.A == nl.A && l.B == nl.B:
				perp = l.PerpendicularPart
			case l.A == nl.B && l.B == nl.A:
				perp = -l.PerpendicularPart
			default:
				continue
			}
			if !found || perp > maxPerp {
				maxPerp = perp
				found = true
			}
		}
		if found {
			nl.PerpendicularPart = maxPerp + DuplicateLinkOffset
		}
	}
	d.Links = append(d.Links, c)
	return len(d.Links) - 1
}

// DeleteNode removes node i and every connector touching it.
func (d *Diagram) DeleteNode(i int) {
	if i < 0 || i >= len(d.Nodes) {
		return
	}
	d.Nodes = append(d.Nodes[:i], d.Nodes[i+1:]...)
	kept := d.Links[:0]
	for _, c := range d.Links {
		if c.References(i) {
			continue
		}
		c.remap(func(n int) int {
			if n > i {
				return n - 1
			}
			return n
		})
		kept = append(kept, c)
	}
	for j := len(kept); j < len(d.Links); j++ {
		d.Links[j] = nil
	}
	d.Links = kept
}

// DeleteLink removes connector j.
func (d *Diagram) DeleteLink(j int) {
	if j < 0 || j >= len(d.Links) {
		return
	}
	d.Links = append(d.Links[:j], d.Links[j+1:]...)
}

// Clear removes everything.
func (d *Diagram) Clear() {
	d.Nodes = d.Nodes[:0]
	d.Links = d.Links[:0]
}

// NodeAt returns the index of the first node containing (x, y), or -1.
func (d *Diagram) NodeAt(x, y float64) int {
	for i, n := range d.Nodes {
		if n.containsPoint(x, y, d.style.NodeRadius) {
			return i
		}
	}
	return -1
}

// Neighbours returns the nodes joined to node i by a Link, ignoring self and
// start links.
func (d *Diagram) Neighbours(i int) []int {
	var out []int
	seen := make(map[int]bool)
	for _, c := range d.Links {
		l, ok := c.(*Link)
		if !ok {
			continue
		}
		other := -1
		if l.A == i {
			other = l.B
		} else if l.B == i {
			other = l.A
		}
		if other >= 0 && !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// Component returns node i and every node reachable from it through Links,
// in depth-first order.
func (d *Diagram) Component(i int) []int {
	var visited []int
	seen := make(map[int]bool)
	var walk func(n int)
	walk = func(n int) {
		if seen[n] {
			return
		}
		seen[n] = true
		visited = append(visited, n)
		for _, next := range d.Neighbours(n) {
			walk(next)
		}
	}
	walk(i)
	return visited
}

// SnapNode aligns node i with any other node within SnapToPadding on each
// axis independently.
func (d *Diagram) SnapNode(i int) {
	node := d.Nodes[i]
	for j, other := range d.Nodes {
		if j == i {
			continue
		}
		if math.Abs(node.X-other.X) < SnapToPadding {
			node.X = other.X
		}
		if math.Abs(node.Y-other.Y) < SnapToPadding {
			node.Y = other.Y
		}
	}
}

// LinkLabelPosition returns where connector j's label is anchored, and
// whether it has one.
func (d *Diagram) LinkLabelPosition(j int) (Point, bool) {
	c := d.Links[j]
	tb := c.TextBox()
	if tb == nil {
		return Point{}, false
	}
	x, y, angle, ok := c.labelBase(d)
	if !ok {
		return Point{}, false
	}
	return tb.anchor(x, y, angle), true
}
