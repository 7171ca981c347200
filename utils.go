package main

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

func (m *model) copyDiagram() {
	content, err := m.widget.Instance().Encode()
	if err != nil {
		m.errorMessage = "Cannot encode diagram: " + err.Error()
		return
	}
	if err := clipboard.WriteAll(content); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.errorMessage = "Clipboard unavailable: " + err.Error()
		return
	}
	m.successMessage = "Diagram copied"
}

// readClipboardText asks for plain text where the platform can be asked,
// since rich-text editors put RTF on the macOS clipboard first.
func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText turns clipboard content into plain text with \n line
// endings: an RTF document is reduced to its text, control characters are
// dropped.
func cleanClipboardText(text string) string {
	if strings.HasPrefix(strings.TrimSpace(text), `{\rtf`) {
		text = rtfText(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)
}

// rtfDestinations are groups that hold no document text.
var rtfDestinations = map[string]bool{
	"fonttbl":          true,
	"colortbl":         true,
	"expandedcolortbl": true,
	"stylesheet":       true,
	"info":             true,
}

// rtfText extracts the document text of an RTF string. It handles what
// editors emit when a line of JSON or a label is copied: escaped braces,
// \'hh bytes, \par and \tab, and header groups, which are skipped.
func rtfText(rtf string) string {
	var out strings.Builder
	depth := 0
	skipFrom := 0 // depth of the group being skipped, or 0
	groupStart := false
	emit := func(r rune) {
		if skipFrom == 0 {
			out.WriteRune(r)
		}
	}

	for i := 0; i < len(rtf); i++ {
		c := rtf[i]
		switch c {
		case '{':
			depth++
			groupStart = true
			continue
		case '}':
			if skipFrom == depth {
				skipFrom = 0
			}
			depth--
			groupStart = false
			continue
		case '\r', '\n':
			continue
		case '\\':
		default:
			groupStart = false
			emit(rune(c))
			continue
		}

		if i+1 >= len(rtf) {
			break
		}
		next := rtf[i+1]
		switch {
		case next == '{' || next == '}' || next == '\\':
			emit(rune(next))
			i++
		case next == '\'':
			if i+3 < len(rtf) {
				if v, err := strconv.ParseUint(rtf[i+2:i+4], 16, 8); err == nil {
					emit(rune(v))
				}
			}
			i += 3
		case next == '*':
			if groupStart && skipFrom == 0 {
				skipFrom = depth
			}
			i++
		case isASCIILetter(next):
			j := i + 1
			for j < len(rtf) && isASCIILetter(rtf[j]) {
				j++
			}
			word := rtf[i+1 : j]
			for j < len(rtf) && (rtf[j] == '-' || (rtf[j] >= '0' && rtf[j] <= '9')) {
				j++
			}
			if j < len(rtf) && rtf[j] == ' ' {
				j++
			}
			i = j - 1

			if groupStart && skipFrom == 0 && rtfDestinations[word] {
				skipFrom = depth
			}
			switch word {
			case "par", "line":
				emit('\n')
			case "tab":
				emit('\t')
			}
		case next == '~':
			emit(' ')
			i++
		default:
			i++
		}
		groupStart = false
	}
	return out.String()
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
