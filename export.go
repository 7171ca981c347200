package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (m *model) exportPNG(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return m.widget.Instance().WritePNG(file)
}

// exportVisualTXT writes the diagram as it appears in the terminal, without
// colour.
func (m *model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range plainLines(m.canvasCells()) {
		fmt.Fprintln(file, line)
	}
	return nil
}

func (m *model) openDiagram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	content := strings.TrimSpace(cleanClipboardText(string(data)))
	m.loadAnswer(content, true)
	return nil
}

func (m *model) runFileOp(name string) {
	path := name
	if m.fileOp != FileOpOpen {
		var err error
		if path, err = m.config.GetSavePath(name); err != nil {
			m.errorMessage = fmt.Sprintf("%s failed: %v", fileOpPrompt(m.fileOp), err)
			return
		}
	}

	var err error
	switch m.fileOp {
	case FileOpSavePNG:
		if !strings.HasSuffix(strings.ToLower(path), ".png") {
			path += ".png"
		}
		err = m.exportPNG(path)
	case FileOpSaveVisualTXT:
		if filepath.Ext(path) == "" {
			path += ".txt"
		}
		err = m.exportVisualTXT(path)
	case FileOpOpen:
		err = m.openDiagram(path)
	}

	if err != nil {
		m.errorMessage = fmt.Sprintf("%s failed: %v", fileOpPrompt(m.fileOp), err)
		return
	}
	if m.errorMessage == "" {
		m.successMessage = fmt.Sprintf("%s: %s", fileOpPrompt(m.fileOp), path)
	}
}
