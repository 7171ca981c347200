package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// The backing value is a JSON object of four index-aligned arrays:
//
//	nodes[i]        = [label, isAcceptState]
//	nodeGeometry[i] = [x, y]
//	edges[j]        = [from, to, label] or [from, to, label, {"x":..,"y":..}]
//	edgeGeometry[j] = per-type geometry object
//
// from == to is a self link, from == -1 a start link into to. The optional
// fourth edge element is the position of a label the user dragged.
type wireDiagram struct {
	EdgeGeometry []any    `json:"edgeGeometry"`
	NodeGeometry [][2]any `json:"nodeGeometry"`
	Nodes        [][2]any `json:"nodes"`
	Edges        [][]any  `json:"edges"`
}

type selfLinkGeometry struct {
	AnchorAngle float64 `json:"anchorAngle"`
}

type startLinkGeometry struct {
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
}

type linkGeometry struct {
	LineAngleAdjust   float64 `json:"lineAngleAdjust"`
	ParallelPart      float64 `json:"parallelPart"`
	PerpendicularPart float64 `json:"perpendicularPart"`
}

type labelPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Encode serializes d in collection order. Node indices are recomputed from
// current positions, so the output never refers to a deleted node.
func Encode(d *Diagram) (string, error) {
	w := wireDiagram{
		EdgeGeometry: make([]any, 0, len(d.Links)),
		NodeGeometry: make([][2]any, 0, len(d.Nodes)),
		Nodes:        make([][2]any, 0, len(d.Nodes)),
		Edges:        make([][]any, 0, len(d.Links)),
	}
	for _, n := range d.Nodes {
		w.Nodes = append(w.Nodes, [2]any{n.Label.Text, n.IsAcceptState})
		w.NodeGeometry = append(w.NodeGeometry, [2]any{n.X, n.Y})
	}
	for j, c := range d.Links {
		var edge []any
		var geometry any
		switch l := c.(type) {
		case *SelfLink:
			edge = []any{l.Node, l.Node, l.Label.Text}
			geometry = selfLinkGeometry{AnchorAngle: l.AnchorAngle}
		case *StartLink:
			edge = []any{-1, l.Node, ""}
			geometry = startLinkGeometry{DeltaX: l.DeltaX, DeltaY: l.DeltaY}
		case *Link:
			edge = []any{l.A, l.B, l.Label.Text}
			geometry = linkGeometry{
				LineAngleAdjust:   l.LineAngleAdjust,
				ParallelPart:      l.ParallelPart,
				PerpendicularPart: l.PerpendicularPart,
			}
		default:
			continue
		}
		if tb := c.TextBox(); tb != nil && tb.Dragged {
			if pos, ok := d.LinkLabelPosition(j); ok {
				edge = append(edge, labelPosition{X: pos.X, Y: pos.Y})
			}
		}
		w.Edges = append(w.Edges, edge)
		w.EdgeGeometry = append(w.EdgeGeometry, geometry)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		return "", fmt.Errorf("encode diagram: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

type wireDiagramIn struct {
	Nodes        []json.RawMessage `json:"nodes"`
	NodeGeometry []json.RawMessage `json:"nodeGeometry"`
	Edges        []json.RawMessage `json:"edges"`
	EdgeGeometry []json.RawMessage `json:"edgeGeometry"`
}

// Decode parses a backing value produced by Encode. On any error the
// returned diagram is nil; a partially decoded diagram is never returned.
func Decode(content string, st Style) (*Diagram, error) {
	var w wireDiagramIn
	if err := json.Unmarshal([]byte(content), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSerialisation, err)
	}
	if w.Nodes == nil || w.NodeGeometry == nil || w.Edges == nil || w.EdgeGeometry == nil {
		return nil, fmt.Errorf("%w: missing nodes, nodeGeometry, edges or edgeGeometry", ErrInvalidSerialisation)
	}
	if len(w.Nodes) != len(w.NodeGeometry) {
		return nil, fmt.Errorf("%w: %d nodes, %d node geometries", ErrGeometryMismatch, len(w.Nodes), len(w.NodeGeometry))
	}
	if len(w.Edges) != len(w.EdgeGeometry) {
		return nil, fmt.Errorf("%w: %d edges, %d edge geometries", ErrGeometryMismatch, len(w.Edges), len(w.EdgeGeometry))
	}

	d := NewDiagram(st)
	for i := range w.Nodes {
		n, err := decodeNode(d, w.Nodes[i], w.NodeGeometry[i])
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		d.Nodes = append(d.Nodes, n)
	}
	for j := range w.Edges {
		c, err := decodeEdge(d, w.Edges[j], w.EdgeGeometry[j])
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", j, err)
		}
		d.Links = append(d.Links, c)
	}
	return d, nil
}

func decodeNode(d *Diagram, data, geometry json.RawMessage) (*Node, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || len(fields) < 1 {
		return nil, fmt.Errorf("%w: node must be [label, accept]", ErrInvalidSerialisation)
	}
	label, err := decodeLabel(fields[0])
	if err != nil {
		return nil, err
	}
	accept := false
	if len(fields) > 1 {
		var b *bool
		if err := json.Unmarshal(fields[1], &b); err != nil {
			return nil, fmt.Errorf("%w: accept flag: %v", ErrInvalidSerialisation, err)
		}
		accept = b != nil && *b
	}

	var xy []float64
	if err := json.Unmarshal(geometry, &xy); err != nil || len(xy) < 2 {
		return nil, fmt.Errorf("%w: node geometry must be [x, y]", ErrInvalidSerialisation)
	}
	n := d.NewNode(xy[0], xy[1])
	n.IsAcceptState = accept
	n.Label = newTextBox(label, d.style.TextOffset)
	return n, nil
}

// decodeLabel accepts strings and, as older answers may contain them,
// numbers and booleans.
func decodeLabel(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: label: %v", ErrInvalidSerialisation, err)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("%w: label must be a string", ErrInvalidSerialisation)
	}
}

func decodeIndex(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: node index must be an integer", ErrInvalidSerialisation)
	}
	return int(f), nil
}

// requireNumbers unmarshals an object whose listed keys must all be numbers.
func requireNumbers(raw json.RawMessage, keys ...string) (map[string]float64, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: edge geometry must be an object", ErrInvalidSerialisation)
	}
	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			return nil, fmt.Errorf("%w: edge geometry missing %q", ErrInvalidSerialisation, k)
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return nil, fmt.Errorf("%w: edge geometry %q is not a number", ErrInvalidSerialisation, k)
		}
		out[k] = f
	}
	return out, nil
}

func decodeEdge(d *Diagram, data, geometry json.RawMessage) (Connector, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || len(fields) < 3 {
		return nil, fmt.Errorf("%w: edge must be [from, to, label]", ErrInvalidSerialisation)
	}
	from, err := decodeIndex(fields[0])
	if err != nil {
		return nil, err
	}
	to, err := decodeIndex(fields[1])
	if err != nil {
		return nil, err
	}
	valid := func(i int) bool { return i >= 0 && i < len(d.Nodes) }
	if !valid(to) || (from != -1 && !valid(from)) {
		return nil, fmt.Errorf("%w: [%d, %d] with %d nodes", ErrDanglingNode, from, to, len(d.Nodes))
	}

	switch {
	case from == -1:
		g, err := requireNumbers(geometry, "deltaX", "deltaY")
		if err != nil {
			return nil, err
		}
		return &StartLink{Node: to, DeltaX: g["deltaX"], DeltaY: g["deltaY"]}, nil

	case from == to:
		g, err := requireNumbers(geometry, "anchorAngle")
		if err != nil {
			return nil, err
		}
		label, err := decodeLabel(fields[2])
		if err != nil {
			return nil, err
		}
		l := &SelfLink{Node: from, AnchorAngle: g["anchorAngle"], Label: newTextBox(label, d.style.TextOffset)}
		if err := restoreLabelPosition(d, l, fields); err != nil {
			return nil, err
		}
		return l, nil

	default:
		g, err := requireNumbers(geometry, "parallelPart", "perpendicularPart")
		if err != nil {
			return nil, err
		}
		label, err := decodeLabel(fields[2])
		if err != nil {
			return nil, err
		}
		l := &Link{
			A:                 from,
			B:                 to,
			ParallelPart:      g["parallelPart"],
			PerpendicularPart: g["perpendicularPart"],
			Label:             newTextBox(label, d.style.TextOffset),
		}
		// lineAngleAdjust is absent from some older answers.
		if adj, err := requireNumbers(geometry, "lineAngleAdjust"); err == nil {
			l.LineAngleAdjust = adj["lineAngleAdjust"]
		}
		if err := restoreLabelPosition(d, l, fields); err != nil {
			return nil, err
		}
		return l, nil
	}
}

// restoreLabelPosition re-anchors a dragged label from the optional fourth
// edge element.
func restoreLabelPosition(d *Diagram, c Connector, fields []json.RawMessage) error {
	if len(fields) < 4 {
		return nil
	}
	var pos *labelPosition
	if err := json.Unmarshal(fields[3], &pos); err != nil {
		return fmt.Errorf("%w: label position: %v", ErrInvalidSerialisation, err)
	}
	if pos == nil {
		return nil
	}
	adjust := 0.0
	if l, ok := c.(*Link); ok {
		adjust = l.LineAngleAdjust
	}
	c.TextBox().setAnchorPoint(c.Path(d), adjust, pos.X, pos.Y)
	return nil
}
