package diagram

// Modifiers is the set of modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
)

// Has reports whether all of f are held.
func (m Modifiers) Has(f Modifiers) bool {
	return m&f == f
}

// PointerEvent is a mouse event in canvas pixel coordinates.
type PointerEvent struct {
	X, Y float64
	Mods Modifiers
}

// Key identifies a non-printable key, or KeyRune for a character.
type Key int

const (
	KeyRune Key = iota
	KeyBackspace
	KeyDelete
	KeyEnter
	KeyEscape
	KeyLeft
	KeyRight
)

// KeyEvent is a keyboard event. Rune is set when Key is KeyRune.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}

// EventHandler receives the events a Canvas forwards.
type EventHandler interface {
	PointerDown(ev PointerEvent)
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)
	DoubleClick(ev PointerEvent)
	KeyDown(ev KeyEvent)
	KeyPress(ev KeyEvent)
}
