package main

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsmdraw/diagram"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestRasterCells(t *testing.T) {
	img := whiteImage(2*cellWidth, cellHeight)
	img.Set(0, 0, color.Black)
	img.Set(5, 1, color.RGBA{B: 255, A: 255})
	img.Set(12, 14, color.Black)

	cells := rasterCells(img, 2, 1)
	require.Len(t, cells, 1)
	assert.Equal(t, cell{r: 0x2800 + 0x01 + 0x08, selected: true}, cells[0][0])
	assert.Equal(t, cell{r: 0x2800 + 0x80}, cells[0][1])
}

func TestRasterCells_BlankIsSpace(t *testing.T) {
	cells := rasterCells(whiteImage(cellWidth, 2*cellHeight), 1, 2)
	assert.Equal(t, []string{"", ""}, plainLines(cells))
}

func TestRasterCells_GenericImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, cellWidth, cellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	img.Set(7, 15, color.Black)

	cells := rasterCells(img, 1, 1)
	assert.Equal(t, rune(0x2880), cells[0][0].r)
	assert.False(t, cells[0][0].selected)
}

func TestOverlayLabels(t *testing.T) {
	cells := rasterCells(whiteImage(10*cellWidth, 2*cellHeight), 10, 2)
	overlayLabels(cells, []diagram.Label{
		{Text: "ab", X: 40, Y: 20, Selected: true},
		{Text: "edge", X: 4, Y: 4},
		{Text: "off", X: 40, Y: 500},
	})

	assert.Equal(t, []string{"ge", "    ab"}, plainLines(cells))
	assert.True(t, cells[1][4].selected)
	assert.False(t, cells[0][0].selected)
}

func TestStyledLines_PlainWithoutSelection(t *testing.T) {
	cells := [][]cell{{{r: 'a'}, {r: ' '}, {r: 'b'}}}
	assert.Equal(t, []string{"a b"}, styledLines(cells))

	cells[0][2].selected = true
	assert.Contains(t, styledLines(cells)[0], "b")
}
