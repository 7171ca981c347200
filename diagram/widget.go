package diagram

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultHelpText describes the mouse and keyboard controls.
const DefaultHelpText = `Double click blank space: new node
Double click a node: toggle accept state (FSM only)
Drag a node, link or label: move it
Alt+drag a node: move everything connected to it
Shift+drag from a node: new link (release on the same node for a loop)
Shift+drag from blank space onto a node: start arrow (FSM only)
Drag a link: change its curve
Click a node or link and type: edit its label
Type _0 .. _9 for subscripts and \epsilon etc. for greek letters
Delete: remove the selected node or link
Ctrl+Z / Ctrl+Y: undo / redo`

// Field is the text value a widget reads its diagram from and writes it
// back to.
type Field interface {
	ID() string
	Value() string
	SetValue(v string)
	ReadOnly() bool
}

// TextField is an in-memory Field.
type TextField struct {
	mu       sync.Mutex
	id       string
	value    string
	readOnly bool
}

func NewTextField(id, value string) *TextField {
	return &TextField{id: id, value: value}
}

func (f *TextField) ID() string { return f.id }

func (f *TextField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *TextField) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

func (f *TextField) ReadOnly() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readOnly
}

func (f *TextField) SetReadOnly(ro bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readOnly = ro
}

type options struct {
	logger      *zap.Logger
	redraw      func()
	caretPeriod time.Duration
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRedrawHook sets a function called after the canvas is repainted by
// the caret timer rather than by an event.
func WithRedrawHook(fn func()) Option {
	return func(o *options) { o.redraw = fn }
}

func WithCaretPeriod(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.caretPeriod = d
		}
	}
}

// Widget is the answer widget: a canvas plus the editor driving it.
type Widget struct {
	field    Field
	canvas   *Canvas
	instance *Instance
	params   Params
	log      *zap.Logger

	failed  bool
	failKey string

	destroyOnce sync.Once
}

// NewWidget builds a widget for field with a width×height canvas. If the
// params are invalid or the field does not hold a valid diagram the widget
// is returned failed: its canvas ignores input and the model is empty.
func NewWidget(field Field, width, height int, params Params, opts ...Option) *Widget {
	o := options{logger: zap.NewNop(), caretPeriod: CaretBlinkPeriod}
	for _, opt := range opts {
		opt(&o)
	}

	w := &Widget{
		field:  field,
		canvas: NewCanvas("graphcanvas_"+field.ID(), width, height),
		log:    o.logger,
	}

	if err := params.Validate(); err != nil {
		w.log.Warn("invalid ui params", zap.String("field", field.ID()), zap.Error(err))
		w.failed = true
		w.failKey = FailInvalidParams
		params = Params{}
	}
	w.params = params.normalized()
	w.instance = newInstance(field, w.params, w.canvas, o)

	if w.failed {
		w.canvas.Detach()
		w.instance.destroy()
		return w
	}

	w.instance.mu.Lock()
	w.instance.reload()
	if w.instance.failed {
		w.failed = true
		w.failKey = w.instance.failKey
		w.instance.mu.Unlock()
		w.canvas.Detach()
		w.instance.destroy()
		return w
	}
	w.instance.resetCaret()
	w.instance.render(true)
	w.instance.mu.Unlock()

	w.canvas.Attach(w.instance)
	return w
}

// Element returns the canvas to mount.
func (w *Widget) Element() *Canvas {
	return w.canvas
}

func (w *Widget) Instance() *Instance {
	return w.instance
}

// Resize never blocks; if an event is in progress the new size is applied
// when it finishes.
func (w *Widget) Resize(width, height int) {
	w.instance.requestResize(width, height)
}

func (w *Widget) HasFocus() bool {
	return w.canvas.HasFocus()
}

// Sync does nothing: the field is written after every change.
func (w *Widget) Sync() {}

func (w *Widget) Failed() bool {
	return w.failed
}

func (w *Widget) FailMessage() string {
	return w.failKey
}

// HelpText returns the author's help text, or DefaultHelpText.
func (w *Widget) HelpText() string {
	if w.params.HelpMenuText != "" {
		return w.params.HelpMenuText
	}
	return DefaultHelpText
}

// Destroy stops the caret timer and detaches the canvas.
func (w *Widget) Destroy() {
	w.destroyOnce.Do(func() {
		w.instance.destroy()
		w.canvas.Detach()
	})
}
