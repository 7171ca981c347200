package main

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fsmdraw/diagram"
)

type model struct {
	width  int
	height int
	mode   Mode

	config *Config
	logger *zap.Logger
	params diagram.Params

	field   *fileField
	widget  *diagram.Widget
	watcher *answerWatcher
	session *session

	// stickyShift stands in for Shift on terminals that do not report
	// modifiers with mouse events.
	stickyShift bool
	pressed     bool
	doubleClick bool
	lastClick   click

	helpScroll int

	filename       string
	fileOp         FileOperation
	confirmAction  ConfirmAction
	pendingPaste   string
	errorMessage   string
	successMessage string
}

type click struct {
	x, y int
	at   time.Time
}

// session lets callbacks running outside the event loop reach the program.
type session struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *session) attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

func (s *session) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// redrawMsg asks for a repaint after the caret blinked.
type redrawMsg struct{}

// answerChangedMsg carries answer content written by another program.
type answerChangedMsg struct {
	content string
}
