package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fsmdraw/diagram"
)

func main() {
	paramsPath := flag.String("params", "", "YAML or JSON file with diagram parameters")
	readOnly := flag.Bool("readonly", false, "show the answer without allowing edits")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fsmdraw [flags] [answer-file]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	config, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	params := config.Params
	if *paramsPath != "" {
		if params, err = loadParams(*paramsPath); err != nil {
			log.Fatal(err)
		}
	}

	logger, err := newLogger(config)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var answer string
	if flag.NArg() > 0 {
		answer = flag.Arg(0)
	} else if answer, err = config.GetSavePath(defaultAnswerFile); err != nil {
		log.Fatal(err)
	}
	field, err := openFileField(answer, config.WriteDelay, *readOnly, logger)
	if err != nil {
		log.Fatal(err)
	}

	s := &session{}
	m := initialModel(config, logger, params, field, s)
	if config.Watch {
		w, err := newAnswerWatcher(field, func(content string) {
			s.send(answerChangedMsg{content: content})
		}, logger)
		if err != nil {
			logger.Warn("answer file not watched", zap.Error(err))
		} else {
			m.watcher = w
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	s.attach(p)
	final, err := p.Run()
	if fm, ok := final.(model); ok {
		fm.shutdown()
	} else {
		m.shutdown()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func initialModel(config *Config, logger *zap.Logger, params diagram.Params, field *fileField, s *session) model {
	m := model{
		width:   defaultWidth,
		height:  defaultHeight,
		mode:    ModeEdit,
		config:  config,
		logger:  logger,
		params:  params,
		field:   field,
		session: s,
	}
	m.buildWidget()
	return m
}

// buildWidget mounts a new widget on the answer field. The canvas takes the
// keyboard at once, since the terminal has nothing else to focus.
func (m *model) buildWidget() {
	cols, rows := m.canvasSize()
	s := m.session
	m.widget = diagram.NewWidget(m.field, cols*cellWidth, rows*cellHeight, m.params,
		diagram.WithLogger(m.logger),
		diagram.WithRedrawHook(func() { s.send(redrawMsg{}) }),
	)
	m.widget.Element().Focus()
	if m.widget.Failed() {
		m.logger.Warn("widget failed", zap.String("reason", m.widget.FailMessage()))
	}
}

// loadAnswer replaces the answer and remounts the widget. With write set the
// content becomes the new answer on disk too.
func (m *model) loadAnswer(content string, write bool) {
	if write && m.field.ReadOnly() {
		m.errorMessage = "The answer is read only"
		return
	}
	if write {
		m.field.SetValue(content)
	} else {
		m.field.Replace(content)
	}
	m.widget.Destroy()
	m.buildWidget()
	m.pressed = false
	m.doubleClick = false
	if m.widget.Failed() {
		m.errorMessage = failMessages[m.widget.FailMessage()]
		return
	}
	m.successMessage = "Diagram loaded"
}

func (m *model) flush() {
	if err := m.field.Flush(); err != nil {
		m.errorMessage = "Write failed: " + err.Error()
		return
	}
	m.successMessage = "Saved " + m.field.path
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) quit() tea.Cmd {
	return tea.Quit
}

func (m model) shutdown() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.widget.Destroy()
	if err := m.field.Close(); err != nil {
		m.logger.Error("write answer", zap.String("path", m.field.path), zap.Error(err))
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cols, rows := m.canvasSize()
		m.widget.Resize(cols*cellWidth, rows*cellHeight)
		return m, nil

	case redrawMsg:
		return m, nil

	case answerChangedMsg:
		m.loadAnswer(msg.content, false)
		if !m.widget.Failed() {
			m.successMessage = "Answer changed on disk; reloaded"
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg, time.Now())
		return m, nil

	case tea.KeyMsg:
		m.clearMessages()
		switch m.mode {
		case ModeHelp:
			return m, m.handleHelpKey(msg)
		case ModeFileInput:
			return m, m.handleFileInputKey(msg)
		case ModeConfirm:
			return m, m.handleConfirmKey(msg)
		default:
			return m, m.handleEditKey(msg)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}
	if m.widget.Failed() {
		return m.fallbackView() + "\n" + m.renderStatus()
	}
	lines := styledLines(m.canvasCells())
	return strings.Join(lines, "\n") + "\n" + m.renderStatus()
}
