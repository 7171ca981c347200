package main

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fsmdraw/diagram"
)

// pixelAt maps a terminal cell to the canvas pixel at its centre.
func pixelAt(x, y int) (float64, float64) {
	return float64(x*cellWidth + cellWidth/2), float64(y*cellHeight + cellHeight/2)
}

func (m *model) mouseMods(msg tea.MouseMsg) diagram.Modifiers {
	var mods diagram.Modifiers
	if msg.Shift || m.stickyShift {
		mods |= diagram.ModShift
	}
	if msg.Alt {
		mods |= diagram.ModAlt
	}
	if msg.Ctrl {
		mods |= diagram.ModCtrl
	}
	return mods
}

// handleMouse turns terminal mouse reports into canvas pointer events. A
// second press on the same cell within doubleClickWindow completes a
// double click when it is released.
func (m *model) handleMouse(msg tea.MouseMsg, now time.Time) {
	if m.mode != ModeEdit || m.widget.Failed() {
		return
	}
	_, rows := m.canvasSize()
	if msg.Y >= rows && msg.Action == tea.MouseActionPress {
		return
	}

	c := m.widget.Element()
	x, y := pixelAt(msg.X, msg.Y)
	ev := diagram.PointerEvent{X: x, Y: y, Mods: m.mouseMods(msg)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.clearMessages()
		m.doubleClick = m.lastClick.x == msg.X && m.lastClick.y == msg.Y &&
			now.Sub(m.lastClick.at) < doubleClickWindow
		if m.doubleClick {
			m.lastClick = click{}
		} else {
			m.lastClick = click{x: msg.X, y: msg.Y, at: now}
		}
		m.pressed = true
		c.MouseDown(ev)

	case tea.MouseActionMotion:
		if m.pressed {
			c.MouseMove(ev)
		}

	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		c.MouseUp(ev)
		if m.doubleClick {
			m.doubleClick = false
			c.DoubleClick(ev)
		}
		m.stickyShift = false
	}
}

var editKeys = map[tea.KeyType]diagram.Key{
	tea.KeyBackspace: diagram.KeyBackspace,
	tea.KeyDelete:    diagram.KeyDelete,
	tea.KeyEnter:     diagram.KeyEnter,
	tea.KeyEsc:       diagram.KeyEscape,
	tea.KeyLeft:      diagram.KeyLeft,
	tea.KeyRight:     diagram.KeyRight,
}

// handleEditKey handles a key in ModeEdit, returning a command when the
// program should quit.
func (m *model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Paste {
		m.paste(cleanClipboardText(string(msg.Runes)))
		return nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "ctrl+q":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return nil
		}
		return m.quit()
	case "f1":
		m.mode = ModeHelp
		m.helpScroll = 0
		return nil
	case "ctrl+s":
		m.flush()
		return nil
	case "ctrl+e":
		m.startFileInput(FileOpSavePNG, "fsmdraw.png")
		return nil
	case "ctrl+t":
		m.startFileInput(FileOpSaveVisualTXT, "fsmdraw.txt")
		return nil
	case "ctrl+o":
		m.startFileInput(FileOpOpen, "")
		return nil
	case "ctrl+k":
		m.copyDiagram()
		return nil
	case "ctrl+v":
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = "Clipboard unavailable: " + err.Error()
			return nil
		}
		m.paste(cleanClipboardText(text))
		return nil
	case "ctrl+l":
		m.confirm(ConfirmClear)
		return nil
	case "tab":
		m.stickyShift = !m.stickyShift
		return nil
	case "ctrl+z":
		m.forwardKey(diagram.KeyEvent{Key: diagram.KeyRune, Rune: 'z', Mods: diagram.ModCtrl})
		return nil
	case "ctrl+y":
		m.forwardKey(diagram.KeyEvent{Key: diagram.KeyRune, Rune: 'y', Mods: diagram.ModCtrl})
		return nil
	}

	if k, ok := editKeys[msg.Type]; ok {
		m.forwardKey(diagram.KeyEvent{Key: k, Mods: keyMods(msg)})
		return nil
	}
	switch msg.Type {
	case tea.KeySpace:
		m.typeRunes([]rune{' '}, keyMods(msg))
	case tea.KeyRunes:
		m.typeRunes(msg.Runes, keyMods(msg))
	}
	return nil
}

func keyMods(msg tea.KeyMsg) diagram.Modifiers {
	if msg.Alt {
		return diagram.ModAlt
	}
	return 0
}

func (m *model) forwardKey(ev diagram.KeyEvent) {
	m.widget.Element().KeyDown(ev)
}

func (m *model) typeRunes(runes []rune, mods diagram.Modifiers) {
	c := m.widget.Element()
	for _, r := range runes {
		c.KeyPress(diagram.KeyEvent{Key: diagram.KeyRune, Rune: r, Mods: mods})
	}
}

func (m *model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "f1", "q", "enter":
		m.mode = ModeEdit
	case "up", "k":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "down", "j":
		m.helpScroll++
	}
	return nil
}

func (m *model) startFileInput(op FileOperation, name string) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = name
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEsc:
		m.mode = ModeEdit
		m.filename = ""
	case tea.KeyEnter:
		name := strings.TrimSpace(m.filename)
		m.mode = ModeEdit
		m.filename = ""
		if name != "" {
			m.runFileOp(name)
		}
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.filename += " "
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return nil
}

func (m *model) confirm(action ConfirmAction) {
	if !m.config.Confirmations {
		m.runConfirmed(action)
		return
	}
	m.mode = ModeConfirm
	m.confirmAction = action
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeEdit
		if m.confirmAction == ConfirmQuit {
			return m.quit()
		}
		m.runConfirmed(m.confirmAction)
	case "n", "N", "esc":
		m.mode = ModeEdit
		m.pendingPaste = ""
	case "ctrl+c":
		return m.quit()
	}
	return nil
}

func (m *model) runConfirmed(action ConfirmAction) {
	switch action {
	case ConfirmClear:
		m.widget.Instance().Clear()
		m.successMessage = "Cleared"
	case ConfirmPaste:
		m.loadAnswer(m.pendingPaste, true)
		m.pendingPaste = ""
	}
}

// paste loads a serialized diagram, or types plain text into the selected
// label.
func (m *model) paste(text string) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		if _, err := diagram.Decode(trimmed, diagram.DefaultStyle()); err != nil {
			m.errorMessage = "Not a diagram: " + err.Error()
			return
		}
		m.pendingPaste = trimmed
		m.confirm(ConfirmPaste)
		return
	}
	if m.widget.Failed() {
		return
	}
	line := strings.SplitN(text, "\n", 2)[0]
	m.typeRunes([]rune(line), 0)
}
