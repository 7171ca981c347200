package diagram

import (
	"image/color"
	"math"
)

var labelBackground = color.RGBA{R: 255, G: 255, B: 255, A: 178}

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(x, y float64) bool {
	return x > r.x && x < r.x+r.w && y > r.y && y < r.y+r.h
}

// TextBox is the editable label of a node or connector. Caret counts runes.
type TextBox struct {
	Text    string
	Caret   int
	RelDist float64 // position along the parent connector, 0..1
	Offset  float64 // pixels off the connector
	Dragged bool    // placed by hand; suppresses automatic placement

	mouseOffset Point
	position    Point // anchor as last drawn along a connector
	bounds      rect
}

func newTextBox(text string, offset float64) *TextBox {
	return &TextBox{
		Text:    text,
		Caret:   len([]rune(text)),
		RelDist: DefaultLinkLabelRelDist,
		Offset:  offset,
	}
}

func (tb *TextBox) insertChar(r rune) {
	runes := []rune(tb.Text)
	caret := tb.clampedCaret(len(runes))
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:caret]...)
	out = append(out, r)
	out = append(out, runes[caret:]...)
	tb.Text = string(out)
	tb.Caret = caret + 1
}

// deleteChar removes the rune before the caret.
func (tb *TextBox) deleteChar() {
	runes := []rune(tb.Text)
	caret := tb.clampedCaret(len(runes))
	if caret == 0 {
		return
	}
	tb.Text = string(append(runes[:caret-1:caret-1], runes[caret:]...))
	tb.Caret = caret - 1
}

func (tb *TextBox) caretLeft() {
	if tb.Caret > 0 {
		tb.Caret--
	}
}

func (tb *TextBox) caretRight() {
	if tb.Caret < len([]rune(tb.Text)) {
		tb.Caret++
	}
}

func (tb *TextBox) clampedCaret(n int) int {
	if tb.Caret < 0 {
		return 0
	}
	if tb.Caret > n {
		return n
	}
	return tb.Caret
}

// containsPoint reports whether (x, y) is inside the box as last drawn.
func (tb *TextBox) containsPoint(x, y float64) bool {
	return tb.bounds.contains(x, y)
}

// setMouseStart records the label's offset from the pointer at the start of
// a drag.
func (tb *TextBox) setMouseStart(x, y float64) {
	tb.mouseOffset = Point{X: tb.position.X - x, Y: tb.position.Y - y}
}

// setAnchorPoint moves a connector label so that it sits at (x, y), given the
// connector's current path. Positions beyond either end are ignored.
func (tb *TextBox) setAnchorPoint(p Path, lineAngleAdjust, x, y float64) {
	x += tb.mouseOffset.X
	y += tb.mouseOffset.Y

	var relDist, offset float64
	if p.HasCircle {
		textAngle := math.Atan2(y-p.Circle.Y, x-p.Circle.X)
		startAngle, endAngle := p.StartAngle, p.EndAngle
		if textAngle < startAngle {
			textAngle += 2 * math.Pi
		}
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
		if p.IsReversed {
			relDist = (textAngle - startAngle - 2*math.Pi) / (endAngle - startAngle - 2*math.Pi)
		} else {
			relDist = (textAngle - startAngle) / (endAngle - startAngle)
		}
		offset = vectorMagnitude(Point{X: x - p.Circle.X, Y: y - p.Circle.Y}) - p.Circle.Radius
	} else {
		textVector := Point{X: x - p.Start.X, Y: y - p.Start.Y}
		linkVector := Point{X: p.End.X - p.Start.X, Y: p.End.Y - p.Start.Y}
		length := vectorMagnitude(linkVector)
		if length == 0 {
			return
		}
		projection := scalarProjection(textVector, linkVector)
		relDist = projection / length
		offset = math.Sqrt(math.Max(0, textVector.X*textVector.X+textVector.Y*textVector.Y-projection*projection))
		// Negative offsets put the label on the opposite side to its default.
		if isCCW(textVector, linkVector) != (lineAngleAdjust != 0) {
			offset = -offset
		}
	}
	if relDist > 0 && relDist < 1 {
		tb.RelDist = relDist
		tb.Offset = math.Round(offset)
		tb.Dragged = true
	}
}

// anchor returns where the label is anchored when drawn at (x, y) along a
// connector heading in direction angle. Only dragged labels round-trip
// through this position.
func (tb *TextBox) anchor(x, y, angle float64) Point {
	return Point{
		X: math.Round(x + tb.Offset*math.Cos(angle)),
		Y: math.Round(y + tb.Offset*math.Sin(angle)),
	}
}

// draw renders the label centred on (x, y), or along a connector when angle
// is non-nil. The caret is drawn when showCaret is set.
func (tb *TextBox) draw(s Surface, st Style, x, y float64, angle *float64, showCaret bool) {
	s.SetFontSize(st.FontSize)
	runes := []rune(tb.Text)
	caret := tb.clampedCaret(len(runes))
	before := ConvertLatexShortcuts(string(runes[:caret]))
	after := ConvertLatexShortcuts(string(runes[caret:]))
	width := s.MeasureText(before + after)
	dy := math.Round(st.FontSize / 2)

	if angle != nil {
		p := LabelPosition(x, y, *angle, width, st.FontSize, tb.Offset, tb.Dragged)
		tb.position = p
		x, y = p.X, p.Y
	}

	x = math.Round(x - width/2)
	y = math.Round(y)

	if width > 0 {
		s.FillRect(x, y-dy, width, dy*2, labelBackground)
	}
	baseline := y + math.Round(st.FontSize/3)
	s.FillText(before, x, baseline)
	caretX := x + s.MeasureText(before)
	s.FillText(after, caretX, baseline)

	if showCaret {
		s.StrokeLine(caretX, y-dy, caretX, y+dy)
	}
	tb.bounds = rect{x: x, y: y - dy, w: width, h: dy * 2}
}
