package diagram

import (
	"image"
	"image/color"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"go.uber.org/zap"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeMovingComponent
	ModeMovingLabel
	ModeLinkDrafting
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging"
	case ModeMovingComponent:
		return "moving component"
	case ModeMovingLabel:
		return "moving label"
	case ModeLinkDrafting:
		return "drafting link"
	default:
		return "idle"
	}
}

type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectNode
	SelectLink
)

// Selection identifies the selected node or connector by index.
type Selection struct {
	Kind  SelectionKind
	Index int
}

func (s Selection) is(kind SelectionKind, index int) bool {
	return s.Kind == kind && s.Index == index
}

type hitKind int

const (
	hitNone hitKind = iota
	hitNode
	hitLink
	hitLabel
)

type hit struct {
	kind  hitKind
	index int
}

var (
	inkNormal   color.Color = color.Black
	inkSelected color.Color = color.RGBA{B: 255, A: 255}
)

type size struct {
	w, h int
}

// Instance is the interactive editor behind a Widget. Every entry point
// takes the instance lock, so events are handled one at a time.
type Instance struct {
	mu sync.Mutex

	field  Field
	params Params
	style  Style
	canvas *Canvas
	log    *zap.Logger
	redraw func()

	d       *Diagram
	history *history
	caret   *caretBlinker

	selected      Selection
	draft         Connector
	mode          Mode
	movingNodes   []int
	originalClick Point
	justMoved     bool
	caretVisible  bool

	failed    bool
	failKey   string
	destroyed bool

	pending atomic.Pointer[size]
}

func newInstance(field Field, params Params, canvas *Canvas, o options) *Instance {
	i := &Instance{
		field:   field,
		params:  params,
		style:   params.Style(),
		canvas:  canvas,
		log:     o.logger,
		redraw:  o.redraw,
		history: newHistory(MaxVersions),
	}
	i.d = NewDiagram(i.style)
	i.caret = newCaretBlinker(o.caretPeriod, i.blink)
	return i
}

// reload replaces the model with the decoded field value. On failure the
// model is left empty.
func (i *Instance) reload() {
	i.d = NewDiagram(i.style)
	content := i.field.Value()
	if strings.TrimSpace(content) == "" {
		return
	}
	d, err := Decode(content, i.style)
	if err != nil {
		i.failed = true
		i.failKey = FailInvalidSerialisation
		i.log.Warn("cannot load diagram", zap.String("field", i.field.ID()), zap.Error(err))
		return
	}
	i.d = d
}

// save writes the serialization unless the field is read only, or is blank
// and there is nothing to write.
func (i *Instance) save() {
	if i.field.ReadOnly() {
		return
	}
	if strings.TrimSpace(i.field.Value()) == "" && len(i.d.Nodes) == 0 {
		return
	}
	s, err := Encode(i.d)
	if err != nil {
		i.log.Error("cannot encode diagram", zap.String("field", i.field.ID()), zap.Error(err))
		return
	}
	i.field.SetValue(s)
}

func (i *Instance) saveVersion() {
	i.history.save(i.field.Value())
}

func (i *Instance) resetCaret() {
	i.caret.Reset()
	i.caretVisible = true
}

// blink runs on the caret timer.
func (i *Instance) blink() {
	i.mu.Lock()
	if i.destroyed {
		i.mu.Unlock()
		return
	}
	i.applyPending()
	i.caretVisible = !i.caretVisible
	i.render(false)
	redraw := i.redraw
	i.mu.Unlock()

	if redraw != nil {
		redraw()
	}
}

// render repaints the canvas and, when persist is set, writes the
// serialization.
func (i *Instance) render(persist bool) {
	c := i.canvas
	c.Clear()
	showCaret := i.caretVisible && c.HasFocus()

	for n, node := range i.d.Nodes {
		selected := i.selected.is(SelectNode, n)
		c.SetColor(ink(selected))
		node.draw(c, i.style, selected && showCaret)
	}
	for j, l := range i.d.Links {
		selected := i.selected.is(SelectLink, j)
		c.SetColor(ink(selected))
		l.Draw(c, i.d, selected && showCaret)
	}
	if i.draft != nil {
		c.SetColor(inkNormal)
		i.draft.Draw(c, i.d, false)
	}
	c.SetColor(inkNormal)

	if persist {
		i.save()
	}
}

func ink(selected bool) color.Color {
	if selected {
		return inkSelected
	}
	return inkNormal
}

// applyPending resizes the canvas to the latest size handed to
// requestResize, if any.
func (i *Instance) applyPending() {
	s := i.pending.Swap(nil)
	if s == nil {
		return
	}
	i.canvas.Resize(s.w, s.h)
	i.render(false)
}

// requestResize records the size and applies it now if no event is being
// handled; otherwise the next entry point picks it up.
func (i *Instance) requestResize(w, h int) {
	i.pending.Store(&size{w: w, h: h})
	if i.mu.TryLock() {
		if !i.destroyed {
			i.applyPending()
		}
		i.mu.Unlock()
	}
}

// enter takes the lock and reports whether the event should be handled.
// The caller must unlock.
func (i *Instance) enter() bool {
	i.mu.Lock()
	if i.destroyed {
		return false
	}
	i.applyPending()
	return !i.field.ReadOnly()
}

// hitTest finds what is under (x, y): nodes first, then connectors, then
// connector labels.
func (i *Instance) hitTest(x, y float64) hit {
	if n := i.d.NodeAt(x, y); n >= 0 {
		return hit{kind: hitNode, index: n}
	}
	for j, l := range i.d.Links {
		if l.ContainsPoint(i.d, x, y) {
			return hit{kind: hitLink, index: j}
		}
		if tb := l.TextBox(); tb != nil && tb.containsPoint(x, y) {
			return hit{kind: hitLabel, index: j}
		}
	}
	return hit{kind: hitNone, index: -1}
}

func (i *Instance) selectedTextBox() *TextBox {
	switch i.selected.Kind {
	case SelectNode:
		return i.d.Nodes[i.selected.Index].Label
	case SelectLink:
		return i.d.Links[i.selected.Index].TextBox()
	}
	return nil
}

func (i *Instance) canEditText() bool {
	if i.selectedTextBox() == nil {
		return false
	}
	if i.selected.Kind == SelectNode {
		return !i.params.LockNodeLabels
	}
	return !i.params.LockEdgeLabels
}

func (i *Instance) deselect() {
	i.selected = Selection{Kind: SelectNone, Index: -1}
}

// endGesture drops any drag or draft in progress. It must run before the
// selection or the model changes under a held pointer.
func (i *Instance) endGesture() {
	i.draft = nil
	i.mode = ModeIdle
	i.movingNodes = nil
}

func (i *Instance) PointerDown(ev PointerEvent) {
	defer i.mu.Unlock()
	if !i.enter() {
		return
	}
	mouse := Point{X: ev.X, Y: ev.Y}
	h := i.hitTest(ev.X, ev.Y)
	i.endGesture()
	i.originalClick = mouse

	i.saveVersion()

	switch h.kind {
	case hitNode:
		i.selected = Selection{Kind: SelectNode, Index: h.index}
		switch {
		case ev.Mods.Has(ModShift):
			if !i.params.LockEdgeSet {
				i.draft = i.d.NewSelfLink(h.index, &mouse)
			}
		case ev.Mods.Has(ModAlt):
			if !i.params.LockNodePositions {
				i.mode = ModeMovingComponent
				i.movingNodes = i.d.Component(h.index)
				for _, n := range i.movingNodes {
					i.d.Nodes[n].setMouseStart(ev.X, ev.Y)
				}
			}
		case !i.params.LockNodePositions:
			i.mode = ModeDragging
			i.d.Nodes[h.index].setMouseStart(ev.X, ev.Y)
		}
	case hitLink:
		i.selected = Selection{Kind: SelectLink, Index: h.index}
		if !i.params.LockEdgePositions {
			i.mode = ModeDragging
		}
	case hitLabel:
		i.selected = Selection{Kind: SelectLink, Index: h.index}
		if !i.params.LockEdgeLabels {
			i.mode = ModeMovingLabel
			i.d.Links[h.index].TextBox().setMouseStart(ev.X, ev.Y)
		}
	default:
		i.deselect()
		if ev.Mods.Has(ModShift) && i.params.isFSM() && !i.params.LockEdgeSet {
			i.draft = &TemporaryLink{From: mouse, To: mouse}
		}
	}
	if i.selected.Kind != SelectNone {
		i.justMoved = true
		i.resetCaret()
	}
	i.render(true)
}

func (i *Instance) PointerMove(ev PointerEvent) {
	defer i.mu.Unlock()
	if !i.enter() {
		return
	}
	mouse := Point{X: ev.X, Y: ev.Y}

	if i.draft != nil {
		i.draft = i.redraft(mouse)
		i.render(true)
	}

	switch i.mode {
	case ModeMovingComponent:
		for _, n := range i.movingNodes {
			i.d.Nodes[n].setAnchorPoint(ev.X, ev.Y)
			i.d.SnapNode(n)
		}
		i.render(true)
	case ModeMovingLabel:
		l := i.d.Links[i.selected.Index]
		adjust := 0.0
		if link, ok := l.(*Link); ok {
			adjust = link.LineAngleAdjust
		}
		l.TextBox().setAnchorPoint(l.Path(i.d), adjust, ev.X, ev.Y)
		i.render(true)
	case ModeDragging:
		switch i.selected.Kind {
		case SelectNode:
			i.d.Nodes[i.selected.Index].setAnchorPoint(ev.X, ev.Y)
			i.d.SnapNode(i.selected.Index)
		case SelectLink:
			i.d.Links[i.selected.Index].SetAnchorPoint(i.d, ev.X, ev.Y)
		}
		i.render(true)
	}
}

// redraft re-derives the kind of the connector being drafted from what is
// under the pointer.
func (i *Instance) redraft(mouse Point) Connector {
	target := i.d.NodeAt(mouse.X, mouse.Y)

	if i.selected.Kind != SelectNode {
		if target >= 0 {
			return i.d.NewStartLink(target, &i.originalClick)
		}
		return &TemporaryLink{From: i.originalClick, To: mouse}
	}

	from := i.selected.Index
	switch {
	case target == from:
		return i.d.NewSelfLink(from, &mouse)
	case target >= 0:
		return i.d.NewLink(from, target)
	default:
		n := i.d.Nodes[from]
		return &TemporaryLink{From: n.closestPointOnCircle(mouse.X, mouse.Y, i.style.NodeRadius), To: mouse}
	}
}

func (i *Instance) PointerUp(ev PointerEvent) {
	defer i.mu.Unlock()
	if !i.enter() {
		return
	}
	i.mode = ModeIdle
	i.movingNodes = nil

	if i.draft == nil {
		return
	}
	if _, temporary := i.draft.(*TemporaryLink); !temporary {
		j := i.d.AddLink(i.draft)
		i.selected = Selection{Kind: SelectLink, Index: j}
		i.resetCaret()
	}
	i.draft = nil
	i.render(true)
}

func (i *Instance) DoubleClick(ev PointerEvent) {
	defer i.mu.Unlock()
	if !i.enter() || i.params.LockNodeSet {
		return
	}
	h := i.hitTest(ev.X, ev.Y)
	i.saveVersion()

	switch h.kind {
	case hitNone:
		n := i.d.AddNode(ev.X, ev.Y)
		i.selected = Selection{Kind: SelectNode, Index: n}
		i.justMoved = true
		i.resetCaret()
		i.render(true)
	case hitNode:
		i.selected = Selection{Kind: SelectNode, Index: h.index}
		if i.params.isFSM() {
			node := i.d.Nodes[h.index]
			node.IsAcceptState = !node.IsAcceptState
		}
		i.render(true)
	}
}

func (i *Instance) KeyPress(ev KeyEvent) {
	defer i.mu.Unlock()
	if !i.enter() {
		return
	}
	if ev.Key != KeyRune || ev.Rune < 0x20 || ev.Rune > 0x7e {
		return
	}
	if ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModAlt) || ev.Mods.Has(ModMeta) {
		return
	}
	if i.selected.Kind == SelectNone || !i.canEditText() {
		return
	}
	if i.justMoved {
		i.saveVersion()
	}
	i.justMoved = false
	i.selectedTextBox().insertChar(ev.Rune)
	i.resetCaret()
	i.render(true)
}

func (i *Instance) KeyDown(ev KeyEvent) {
	defer i.mu.Unlock()
	if !i.enter() {
		return
	}
	switch ev.Key {
	case KeyBackspace:
		if i.selected.Kind != SelectNone && i.canEditText() {
			i.selectedTextBox().deleteChar()
			i.resetCaret()
			i.render(true)
		}
	case KeyDelete:
		if i.selected.Kind != SelectNone {
			i.saveVersion()
			i.endGesture()
			i.deleteSelected()
			i.deselect()
			i.render(true)
		}
	case KeyEnter:
		if i.selected.Kind != SelectNone {
			i.endGesture()
			i.deselect()
			i.render(true)
		}
	case KeyEscape:
		if i.selected.Kind != SelectNone || i.draft != nil {
			i.endGesture()
			i.deselect()
			i.render(true)
		}
	case KeyLeft, KeyRight:
		if i.selected.Kind != SelectNone && i.canEditText() {
			if ev.Key == KeyLeft {
				i.selectedTextBox().caretLeft()
			} else {
				i.selectedTextBox().caretRight()
			}
			i.resetCaret()
			i.render(true)
		}
	case KeyRune:
		if !ev.Mods.Has(ModCtrl) {
			return
		}
		switch unicode.ToLower(ev.Rune) {
		case 'y':
			i.redo()
		case 'z':
			if ev.Mods.Has(ModShift) || ev.Rune == 'Z' {
				i.redo()
			} else {
				i.undo()
			}
		}
	}
}

func (i *Instance) deleteSelected() {
	switch i.selected.Kind {
	case SelectNode:
		if !i.params.LockNodeSet {
			i.d.DeleteNode(i.selected.Index)
		}
	case SelectLink:
		if !i.params.LockEdgeSet {
			i.d.DeleteLink(i.selected.Index)
		}
	}
}

// restore loads a snapshot from the history.
func (i *Instance) restore(state string) {
	i.field.SetValue(state)
	i.endGesture()
	i.deselect()
	i.reload()
	i.render(true)
}

func (i *Instance) undo() {
	if state, ok := i.history.undo(i.field.Value()); ok {
		i.log.Debug("undo", zap.String("field", i.field.ID()))
		i.restore(state)
	}
}

func (i *Instance) redo() {
	if state, ok := i.history.redo(); ok {
		i.log.Debug("redo", zap.String("field", i.field.ID()))
		i.restore(state)
	}
}

// Undo restores the previous snapshot, if any.
func (i *Instance) Undo() {
	defer i.mu.Unlock()
	if i.enter() {
		i.undo()
	}
}

// Redo reapplies the snapshot undone last, if any.
func (i *Instance) Redo() {
	defer i.mu.Unlock()
	if i.enter() {
		i.redo()
	}
}

// Clear removes every node and connector. It can be undone.
func (i *Instance) Clear() {
	defer i.mu.Unlock()
	if !i.enter() {
		return
	}
	i.saveVersion()
	i.d.Clear()
	i.endGesture()
	i.deselect()
	i.render(true)
}

func (i *Instance) Mode() Mode {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.draft != nil {
		return ModeLinkDrafting
	}
	return i.mode
}

func (i *Instance) Selected() Selection {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.selected
}

// SelectedLabel returns the text of the selected object's label.
func (i *Instance) SelectedLabel() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.selected.Kind == SelectNone {
		return "", false
	}
	tb := i.selectedTextBox()
	if tb == nil {
		return "", false
	}
	return tb.Text, true
}

// Label is a label's display text and where it is centred on the canvas.
type Label struct {
	Text     string
	X, Y     float64
	Selected bool
}

// Labels lists the non-empty node and connector labels in drawing order.
func (i *Instance) Labels() []Label {
	i.mu.Lock()
	defer i.mu.Unlock()

	var out []Label
	for n, node := range i.d.Nodes {
		if node.Label.Text == "" {
			continue
		}
		out = append(out, Label{
			Text:     ConvertLatexShortcuts(node.Label.Text),
			X:        node.X,
			Y:        node.Y,
			Selected: i.selected.is(SelectNode, n),
		})
	}
	for j, c := range i.d.Links {
		tb := c.TextBox()
		if tb == nil || tb.Text == "" {
			continue
		}
		// position is where the last render centred the label.
		out = append(out, Label{
			Text:     ConvertLatexShortcuts(tb.Text),
			X:        tb.position.X,
			Y:        tb.position.Y,
			Selected: i.selected.is(SelectLink, j),
		})
	}
	return out
}

// Diagram returns the live model. It must not be used while events are
// being delivered from another goroutine.
func (i *Instance) Diagram() *Diagram {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.d
}

// Encode serializes the current model.
func (i *Instance) Encode() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Encode(i.d)
}

// View calls fn with the current raster while holding the instance lock.
func (i *Instance) View(fn func(img image.Image)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.applyPending()
	fn(i.canvas.Image())
}

// WritePNG encodes the current raster as a PNG.
func (i *Instance) WritePNG(w io.Writer) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.applyPending()
	return i.canvas.EncodePNG(w)
}

func (i *Instance) CaretVisible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.caretVisible
}

func (i *Instance) destroy() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return
	}
	i.destroyed = true
	i.caret.Stop()
	i.draft = nil
	i.log.Debug("diagram destroyed", zap.String("field", i.field.ID()))
}
