package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncode_KeyOrderAndShape(t *testing.T) {
	d := NewDiagram(DefaultStyle())
	d.AddNode(100, 100)
	d.AddNode(300, 100)
	d.Nodes[0].Label.Text = "q<0>"
	d.Nodes[1].IsAcceptState = true
	d.AddLink(d.NewLink(0, 1))
	d.AddLink(d.NewSelfLink(1, &Point{X: 300, Y: 0}))
	d.AddLink(d.NewStartLink(0, &Point{X: 40, Y: 100}))

	s, err := Encode(d)

	require.NoError(t, err)
	assert.Equal(t,
		`{"edgeGeometry":[{"lineAngleAdjust":0,"parallelPart":0.5,"perpendicularPart":0},{"anchorAngle":-1.5707963267948966},{"deltaX":-60,"deltaY":0}],`+
			`"nodeGeometry":[[100,100],[300,100]],`+
			`"nodes":[["q<0>",false],["",true]],`+
			`"edges":[[0,1,""],[1,1,""],[-1,0,""]]}`,
		s)
}

func TestDecode_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := genDiagram(t)

		s, err := Encode(d)
		require.NoError(t, err)
		got, err := Decode(s, DefaultStyle())
		require.NoError(t, err)

		require.Len(t, got.Nodes, len(d.Nodes))
		for i, n := range d.Nodes {
			assert.Equal(t, n.X, got.Nodes[i].X)
			assert.Equal(t, n.Y, got.Nodes[i].Y)
			assert.Equal(t, n.IsAcceptState, got.Nodes[i].IsAcceptState)
			assert.Equal(t, n.Label.Text, got.Nodes[i].Label.Text)
		}
		require.Len(t, got.Links, len(d.Links))
		for j, c := range d.Links {
			switch l := c.(type) {
			case *Link:
				g, ok := got.Links[j].(*Link)
				require.True(t, ok)
				assert.Equal(t, l.A, g.A)
				assert.Equal(t, l.B, g.B)
				assert.Equal(t, l.ParallelPart, g.ParallelPart)
				assert.Equal(t, l.PerpendicularPart, g.PerpendicularPart)
				assert.Equal(t, l.LineAngleAdjust, g.LineAngleAdjust)
				assert.Equal(t, l.Label.Text, g.Label.Text)
			case *SelfLink:
				g, ok := got.Links[j].(*SelfLink)
				require.True(t, ok)
				assert.Equal(t, l.Node, g.Node)
				assert.Equal(t, l.AnchorAngle, g.AnchorAngle)
				assert.Equal(t, l.Label.Text, g.Label.Text)
			case *StartLink:
				g, ok := got.Links[j].(*StartLink)
				require.True(t, ok)
				assert.Equal(t, *l, *g)
			}
		}

		again, err := Encode(got)
		require.NoError(t, err)
		assert.Equal(t, s, again)
	})
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"not json", "not json", ErrInvalidSerialisation},
		{"array", "[1,2]", ErrInvalidSerialisation},
		{"missing edges", `{"nodes":[],"nodeGeometry":[],"edgeGeometry":[]}`, ErrInvalidSerialisation},
		{"null nodes", `{"nodes":null,"nodeGeometry":[],"edges":[],"edgeGeometry":[]}`, ErrInvalidSerialisation},
		{"node geometry count", `{"nodes":[["a",false]],"nodeGeometry":[],"edges":[],"edgeGeometry":[]}`, ErrGeometryMismatch},
		{"edge geometry count", `{"nodes":[],"nodeGeometry":[],"edges":[],"edgeGeometry":[{}]}`, ErrGeometryMismatch},
		{"dangling edge", `{"nodes":[["a",false]],"nodeGeometry":[[0,0]],"edges":[[0,3,""]],"edgeGeometry":[{"parallelPart":0.5,"perpendicularPart":0}]}`, ErrDanglingNode},
		{"dangling start", `{"nodes":[],"nodeGeometry":[],"edges":[[-1,0,""]],"edgeGeometry":[{"deltaX":1,"deltaY":1}]}`, ErrDanglingNode},
		{"negative from", `{"nodes":[["a",false]],"nodeGeometry":[[0,0]],"edges":[[-2,0,""]],"edgeGeometry":[{"deltaX":1,"deltaY":1}]}`, ErrDanglingNode},
		{"fractional index", `{"nodes":[["a",false]],"nodeGeometry":[[0,0]],"edges":[[0.5,0,""]],"edgeGeometry":[{"anchorAngle":0}]}`, ErrInvalidSerialisation},
		{"string geometry", `{"nodes":[["a",false],["b",false]],"nodeGeometry":[[0,0],[9,9]],"edges":[[0,1,""]],"edgeGeometry":[{"parallelPart":"x","perpendicularPart":0}]}`, ErrInvalidSerialisation},
		{"missing anchor angle", `{"nodes":[["a",false]],"nodeGeometry":[[0,0]],"edges":[[0,0,""]],"edgeGeometry":[{}]}`, ErrInvalidSerialisation},
		{"node geometry not numeric", `{"nodes":[["a",false]],"nodeGeometry":[["x",0]],"edges":[],"edgeGeometry":[]}`, ErrInvalidSerialisation},
		{"null label", `{"nodes":[[null,false]],"nodeGeometry":[[0,0]],"edges":[],"edgeGeometry":[]}`, ErrInvalidSerialisation},
		{"accept not bool", `{"nodes":[["a","yes"]],"nodeGeometry":[[0,0]],"edges":[],"edgeGeometry":[]}`, ErrInvalidSerialisation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode(tt.content, DefaultStyle())

			assert.Nil(t, d)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_LenientLabelsAndAccept(t *testing.T) {
	content := `{"nodes":[[7,null],[true]],"nodeGeometry":[[0,0],[100,0]],` +
		`"edges":[[0,1,2.5]],"edgeGeometry":[{"parallelPart":0.5,"perpendicularPart":0}]}`

	d, err := Decode(content, DefaultStyle())

	require.NoError(t, err)
	assert.Equal(t, "7", d.Nodes[0].Label.Text)
	assert.False(t, d.Nodes[0].IsAcceptState)
	assert.Equal(t, "true", d.Nodes[1].Label.Text)
	assert.Equal(t, "2.5", d.Links[0].TextBox().Text)
	assert.Equal(t, 0.0, d.Links[0].(*Link).LineAngleAdjust)
}

func TestDecode_DraggedLabelPosition(t *testing.T) {
	d := NewDiagram(DefaultStyle())
	d.AddNode(100, 100)
	d.AddNode(300, 100)
	l := d.NewLink(0, 1)
	d.AddLink(l)
	l.Label.Text = "a"
	l.Label.setAnchorPoint(l.Path(d), 0, 200, 138)
	require.True(t, l.Label.Dragged)

	s, err := Encode(d)
	require.NoError(t, err)
	assert.Contains(t, s, `[0,1,"a",{"x":200,"y":138}]`)

	got, err := Decode(s, DefaultStyle())
	require.NoError(t, err)
	tb := got.Links[0].TextBox()
	assert.True(t, tb.Dragged)
	assert.InDelta(t, 0.5, tb.RelDist, 1e-9)
	assert.Equal(t, 38.0, tb.Offset)
}

func TestDecode_EmptyArrays(t *testing.T) {
	d, err := Decode(`{"edgeGeometry":[],"nodeGeometry":[],"nodes":[],"edges":[]}`, DefaultStyle())

	require.NoError(t, err)
	assert.Empty(t, d.Nodes)
	assert.Empty(t, d.Links)
}
