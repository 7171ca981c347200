package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDiagram_AddLink_DuplicateOffset(t *testing.T) {
	d := twoNodes()

	first := d.AddLink(d.NewLink(0, 1))
	second := d.AddLink(d.NewLink(0, 1))

	p1 := d.Links[first].(*Link).PerpendicularPart
	p2 := d.Links[second].(*Link).PerpendicularPart
	assert.Equal(t, 0.0, p1)
	assert.Equal(t, DuplicateLinkOffset, p2-p1)
}

func TestDiagram_AddLink_ReversedDuplicate(t *testing.T) {
	d := twoNodes()
	d.AddLink(d.NewLink(0, 1))
	d.AddLink(d.NewLink(0, 1))

	j := d.AddLink(d.NewLink(1, 0))

	// The reversed pair's perpendicular parts count negated: max(-0, -16) = 0.
	assert.Equal(t, DuplicateLinkOffset, d.Links[j].(*Link).PerpendicularPart)
}

func TestDiagram_AddLink_SelfAndStartLinksAreNotDuplicates(t *testing.T) {
	d := twoNodes()
	d.AddLink(d.NewSelfLink(0, nil))
	d.AddLink(d.NewStartLink(0, &Point{X: -100, Y: 0}))

	j := d.AddLink(d.NewLink(0, 1))

	assert.Equal(t, 0.0, d.Links[j].(*Link).PerpendicularPart)
}

func TestDiagram_DeleteNode_CascadesAndRenumbers(t *testing.T) {
	d := NewDiagram(DefaultStyle())
	d.AddNode(0, 0)
	d.AddNode(100, 0)
	d.AddNode(200, 0)
	d.AddLink(d.NewLink(0, 1))
	d.AddLink(d.NewSelfLink(1, nil))
	d.AddLink(d.NewStartLink(2, nil))
	d.AddLink(d.NewLink(2, 0))

	d.DeleteNode(1)

	require.Len(t, d.Nodes, 2)
	require.Len(t, d.Links, 2)
	start, ok := d.Links[0].(*StartLink)
	require.True(t, ok)
	assert.Equal(t, 1, start.Node)
	link, ok := d.Links[1].(*Link)
	require.True(t, ok)
	assert.Equal(t, 1, link.A)
	assert.Equal(t, 0, link.B)
}

func TestDiagram_Component_FollowsLinksOnly(t *testing.T) {
	d := NewDiagram(DefaultStyle())
	d.AddNode(0, 0)
	d.AddNode(100, 0)
	d.AddNode(200, 0)
	d.AddNode(300, 0)
	d.AddLink(d.NewLink(0, 1))
	d.AddLink(d.NewLink(2, 1))
	d.AddLink(d.NewSelfLink(3, nil))
	d.AddLink(d.NewStartLink(3, nil))

	assert.ElementsMatch(t, []int{0, 1, 2}, d.Component(0))
	assert.Equal(t, []int{3}, d.Component(3))
}

func TestDiagram_SnapNode_PerAxis(t *testing.T) {
	d := NewDiagram(DefaultStyle())
	d.AddNode(100, 100)
	n := d.AddNode(103, 250)

	d.SnapNode(n)

	assert.Equal(t, 100.0, d.Nodes[n].X)
	assert.Equal(t, 250.0, d.Nodes[n].Y)
}

// genDiagram builds a diagram through the same operations the editor uses.
func genDiagram(t *rapid.T) *Diagram {
	d := NewDiagram(DefaultStyle())
	coord := rapid.Float64Range(-1000, 1000)
	label := rapid.StringMatching(`[a-z0-9_ \\]{0,6}`)

	nodes := rapid.IntRange(1, 6).Draw(t, "nodes")
	for i := 0; i < nodes; i++ {
		n := d.AddNode(coord.Draw(t, "x"), coord.Draw(t, "y"))
		d.Nodes[n].IsAcceptState = rapid.Bool().Draw(t, "accept")
		d.Nodes[n].Label.Text = label.Draw(t, "node label")
	}

	links := rapid.IntRange(0, 8).Draw(t, "links")
	for i := 0; i < links; i++ {
		a := rapid.IntRange(0, nodes-1).Draw(t, "a")
		b := rapid.IntRange(0, nodes-1).Draw(t, "b")
		anchor := &Point{X: coord.Draw(t, "ax"), Y: coord.Draw(t, "ay")}
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 0:
			if a == b {
				continue
			}
			l := d.NewLink(a, b)
			d.AddLink(l)
			if rapid.Bool().Draw(t, "bend") {
				l.SetAnchorPoint(d, anchor.X, anchor.Y)
			}
			l.Label.Text = label.Draw(t, "link label")
		case 1:
			l := d.NewSelfLink(a, anchor)
			l.Label.Text = label.Draw(t, "loop label")
			d.AddLink(l)
		case 2:
			d.AddLink(d.NewStartLink(a, anchor))
		}
	}
	return d
}

func TestDiagram_DeleteNode_ReferentialIntegrity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := genDiagram(t)
		deletes := rapid.IntRange(0, len(d.Nodes)).Draw(t, "deletes")
		for i := 0; i < deletes; i++ {
			d.DeleteNode(rapid.IntRange(0, len(d.Nodes)-1).Draw(t, "victim"))
		}

		for _, c := range d.Links {
			switch l := c.(type) {
			case *Link:
				assert.Less(t, l.A, len(d.Nodes))
				assert.Less(t, l.B, len(d.Nodes))
				assert.GreaterOrEqual(t, l.A, 0)
				assert.GreaterOrEqual(t, l.B, 0)
			case *SelfLink:
				assert.Less(t, l.Node, len(d.Nodes))
				assert.GreaterOrEqual(t, l.Node, 0)
			case *StartLink:
				assert.Less(t, l.Node, len(d.Nodes))
				assert.GreaterOrEqual(t, l.Node, 0)
			}
		}

		s, err := Encode(d)
		require.NoError(t, err)
		_, err = Decode(s, DefaultStyle())
		require.NoError(t, err)
	})
}
