package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fsmdraw/diagram"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Reverse(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle     = lipgloss.NewStyle().Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true)
)

var failMessages = map[string]string{
	diagram.FailInvalidSerialisation: "The saved answer is not a valid diagram. It is shown unchanged below.",
	diagram.FailInvalidParams:        "The diagram parameters are invalid.",
}

// brailleBits[row][col] is the dot for a position within a braille cell.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type cell struct {
	r        rune
	selected bool
}

// inkAt reports whether the pixel is drawn on, and whether it is in the
// selection colour.
func inkAt(img image.Image, x, y int) (dark, blue bool) {
	var r, g, b uint32
	if rgba, ok := img.(*image.RGBA); ok {
		i := rgba.PixOffset(x, y)
		r, g, b = uint32(rgba.Pix[i]), uint32(rgba.Pix[i+1]), uint32(rgba.Pix[i+2])
	} else {
		r16, g16, b16, _ := img.At(x, y).RGBA()
		r, g, b = r16>>8, g16>>8, b16>>8
	}
	dark = r+g+b < 3*0x80
	blue = dark && b > 0xa0 && r < 0x60
	return dark, blue
}

// rasterCells reduces img to cols x rows braille cells. A dot is set when
// any pixel in its block is inked.
func rasterCells(img image.Image, cols, rows int) [][]cell {
	bounds := img.Bounds()
	out := make([][]cell, rows)
	for cy := 0; cy < rows; cy++ {
		out[cy] = make([]cell, cols)
		for cx := 0; cx < cols; cx++ {
			var mask rune
			selected := false
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					x0 := bounds.Min.X + cx*cellWidth + dx*dotWidth
					y0 := bounds.Min.Y + cy*cellHeight + dy*dotHeight
					if blockInk(img, bounds, x0, y0, &selected) {
						mask |= brailleBits[dy][dx]
					}
				}
			}
			c := cell{r: ' ', selected: selected}
			if mask != 0 {
				c.r = 0x2800 + mask
			}
			out[cy][cx] = c
		}
	}
	return out
}

func blockInk(img image.Image, bounds image.Rectangle, x0, y0 int, selected *bool) bool {
	inked := false
	for y := y0; y < y0+dotHeight && y < bounds.Max.Y; y++ {
		for x := x0; x < x0+dotWidth && x < bounds.Max.X; x++ {
			dark, blue := inkAt(img, x, y)
			if !dark {
				continue
			}
			inked = true
			if blue {
				*selected = true
				return true
			}
		}
	}
	return inked
}

// overlayLabels writes labels as plain text centred on their anchors, so
// they stay legible at terminal resolution.
func overlayLabels(cells [][]cell, labels []diagram.Label) {
	for _, l := range labels {
		row := int(l.Y) / cellHeight
		if row < 0 || row >= len(cells) {
			continue
		}
		runes := []rune(l.Text)
		col := int(l.X)/cellWidth - len(runes)/2
		for k, r := range runes {
			x := col + k
			if x < 0 || x >= len(cells[row]) {
				continue
			}
			cells[row][x] = cell{r: r, selected: l.Selected}
		}
	}
}

// styledLines renders cells, colouring runs of selected cells.
func styledLines(cells [][]cell) []string {
	lines := make([]string, len(cells))
	for y, row := range cells {
		var sb strings.Builder
		var run strings.Builder
		runSelected := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runSelected {
				sb.WriteString(selectedStyle.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.selected != runSelected {
				flush()
				runSelected = c.selected
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = sb.String()
	}
	return lines
}

func plainLines(cells [][]cell) []string {
	lines := make([]string, len(cells))
	for y, row := range cells {
		runes := make([]rune, len(row))
		for x, c := range row {
			runes[x] = c.r
		}
		lines[y] = strings.TrimRight(string(runes), " ")
	}
	return lines
}

// canvasCells snapshots the widget's canvas and labels as terminal cells.
func (m model) canvasCells() [][]cell {
	cols, rows := m.canvasSize()
	var cells [][]cell
	inst := m.widget.Instance()
	inst.View(func(img image.Image) {
		cells = rasterCells(img, cols, rows)
	})
	overlayLabels(cells, inst.Labels())
	return cells
}

func (m model) canvasSize() (cols, rows int) {
	cols, rows = m.width, m.height-statusLines
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (m model) renderStatus() string {
	left := fmt.Sprintf(" %s ", m.field.ID())
	switch {
	case m.mode == ModeFileInput:
		left += fmt.Sprintf("%s: %s_", fileOpPrompt(m.fileOp), m.filename)
	case m.mode == ModeConfirm:
		left += confirmPrompt(m.confirmAction) + " (y/n)"
	default:
		inst := m.widget.Instance()
		left += inst.Mode().String()
		if m.stickyShift {
			left += " [shift]"
		}
		if m.field.Dirty() {
			left += " *"
		}
	}
	status := statusStyle.Render(padRight(left, m.width))

	switch {
	case m.errorMessage != "":
		return errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		return successStyle.Render(m.successMessage)
	}
	return status
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func fileOpPrompt(op FileOperation) string {
	switch op {
	case FileOpSavePNG:
		return "Export PNG"
	case FileOpSaveVisualTXT:
		return "Export text"
	default:
		return "Open diagram"
	}
}

func confirmPrompt(action ConfirmAction) string {
	switch action {
	case ConfirmClear:
		return "Clear the diagram?"
	case ConfirmPaste:
		return "Replace the diagram with the clipboard?"
	default:
		return "Quit?"
	}
}

// fallbackView shows the raw answer when the widget could not start.
func (m model) fallbackView() string {
	var b strings.Builder
	msg := failMessages[m.widget.FailMessage()]
	if msg == "" {
		msg = m.widget.FailMessage()
	}
	b.WriteString(errorStyle.Render(msg))
	b.WriteString("\n\n")
	b.WriteString(m.field.Value())
	b.WriteString("\n\n")
	b.WriteString("Ctrl+O: open another file  Ctrl+V: paste a diagram  Ctrl+C: quit")
	return b.String()
}

func (m model) helpView() string {
	text := titleStyle.Render("fsmdraw") + "\n\n" + m.widget.HelpText() + "\n\n" + hostHelpText
	lines := strings.Split(text, "\n")
	start := m.helpScroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	return helpStyle.Render(strings.Join(lines[start:], "\n"))
}

const hostHelpText = `Tab: hold Shift for the next drag
Ctrl+S: write the answer now
Ctrl+E: export PNG    Ctrl+T: export text
Ctrl+O: open a diagram file
Ctrl+K: copy the diagram    Ctrl+V: paste text or a diagram
Ctrl+L: clear
F1: help    Ctrl+C: quit`
