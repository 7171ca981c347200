package main

import "time"

type Mode int

const (
	ModeEdit Mode = iota
	ModeHelp
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmClear ConfirmAction = iota
	ConfirmPaste
	ConfirmQuit
)

const (
	// Each terminal cell stands for a cellWidth x cellHeight block of canvas
	// pixels; a braille glyph splits it into 2x4 dots.
	cellWidth  = 8
	cellHeight = 16
	dotWidth   = cellWidth / 2
	dotHeight  = cellHeight / 4

	statusLines = 1

	defaultWidth  = 80
	defaultHeight = 24

	doubleClickWindow = 400 * time.Millisecond
	defaultWriteDelay = 300 * time.Millisecond

	defaultAnswerFile = "fsmdraw.json"
)
