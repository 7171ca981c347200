package diagram

import (
	"strconv"
	"strings"
)

var greekLetterNames = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon",
	"Zeta", "Eta", "Theta", "Iota", "Kappa", "Lambda",
	"Mu", "Nu", "Xi", "Omicron", "Pi", "Rho", "Sigma",
	"Tau", "Upsilon", "Phi", "Chi", "Psi", "Omega",
}

// ConvertLatexShortcuts replaces \alpha style names with greek letters and
// _0 .. _9, _a with subscripts.
func ConvertLatexShortcuts(text string) string {
	if !strings.ContainsAny(text, `\_`) {
		return text
	}
	for i, name := range greekLetterNames {
		// Final sigma sits between rho and sigma in the code chart.
		skip := 0
		if i > 16 {
			skip = 1
		}
		text = strings.ReplaceAll(text, `\`+name, string(rune(913+i+skip)))
		text = strings.ReplaceAll(text, `\`+strings.ToLower(name), string(rune(945+i+skip)))
	}
	for i := 0; i < 10; i++ {
		text = strings.ReplaceAll(text, "_"+strconv.Itoa(i), string(rune(8320+i)))
	}
	return strings.ReplaceAll(text, "_a", string(rune(8336)))
}
