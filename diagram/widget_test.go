package diagram

import (
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWidget_MalformedField(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w, f := newTestWidget(t, "not json", Params{}, WithLogger(zap.New(core)))

	assert.True(t, w.Failed())
	assert.Equal(t, FailInvalidSerialisation, w.FailMessage())
	assert.Empty(t, w.Instance().Diagram().Nodes)
	assert.Empty(t, w.Instance().Diagram().Links)
	assert.Equal(t, "not json", f.Value())
	assert.Equal(t, 1, logs.FilterMessage("cannot load diagram").Len())

	w.Element().MouseDown(down(10, 10, 0))
	w.Element().DoubleClick(down(10, 10, 0))
	assert.False(t, w.HasFocus())
	assert.Empty(t, w.Instance().Diagram().Nodes)
}

func TestNewWidget_DanglingEdge(t *testing.T) {
	content := `{"nodes":[["a",false]],"nodeGeometry":[[0,0]],"edges":[[0,1,""]],"edgeGeometry":[{"parallelPart":0.5,"perpendicularPart":0}]}`
	w, _ := newTestWidget(t, content, Params{})

	assert.True(t, w.Failed())
	assert.Empty(t, w.Instance().Diagram().Nodes)
}

func TestNewWidget_InvalidParams(t *testing.T) {
	w, _ := newTestWidget(t, "", Params{NodeRadius: -1})

	assert.True(t, w.Failed())
	assert.Equal(t, FailInvalidParams, w.FailMessage())
}

func TestNewWidget_ElementAndFocus(t *testing.T) {
	w, _ := newTestWidget(t, "", Params{})
	c := w.Element()

	assert.Equal(t, "graphcanvas_q1", c.ID())
	assert.False(t, w.HasFocus())

	c.KeyPress(KeyEvent{Key: KeyRune, Rune: 'a'})
	c.MouseDown(down(10, 10, 0))
	assert.True(t, w.HasFocus())

	w.Sync()
	assert.False(t, w.Failed())
	assert.Equal(t, "", w.FailMessage())
}

func TestNewWidget_KeysNeedFocus(t *testing.T) {
	w, _ := newTestWidget(t, "", Params{})
	c := w.Element()

	c.DoubleClick(down(100, 100, 0))
	c.Blur()
	c.KeyPress(KeyEvent{Key: KeyRune, Rune: 'a'})
	assert.Equal(t, "", w.Instance().Diagram().Nodes[0].Label.Text)

	c.Focus()
	c.KeyPress(KeyEvent{Key: KeyRune, Rune: 'a'})
	assert.Equal(t, "a", w.Instance().Diagram().Nodes[0].Label.Text)
}

func TestWidget_HelpText(t *testing.T) {
	w, _ := newTestWidget(t, "", Params{})
	assert.Equal(t, DefaultHelpText, w.HelpText())

	w, _ = newTestWidget(t, "", Params{HelpMenuText: "Draw the DFA."})
	assert.Equal(t, "Draw the DFA.", w.HelpText())
}

func TestWidget_Resize(t *testing.T) {
	w, _ := newTestWidget(t, "", Params{})

	w.Resize(400, 300)
	width, height := w.Element().Size()
	assert.Equal(t, 400, width)
	assert.Equal(t, 300, height)
}

func TestWidget_ResizeDuringEventIsCoalesced(t *testing.T) {
	w, _ := newTestWidget(t, "", Params{})
	inst := w.Instance()

	inst.mu.Lock()
	done := make(chan struct{})
	go func() {
		w.Resize(10, 10)
		w.Resize(320, 200)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Resize blocked")
	}
	width, _ := w.Element().Size()
	assert.Equal(t, 640, width)
	inst.mu.Unlock()

	var bounds image.Rectangle
	inst.View(func(img image.Image) { bounds = img.Bounds() })
	assert.Equal(t, 320, bounds.Dx())
	assert.Equal(t, 200, bounds.Dy())
}

func TestWidget_CaretBlinksUntilDestroyed(t *testing.T) {
	running := goleak.IgnoreCurrent()
	var redraws atomic.Int64
	w, _ := newTestWidget(t, "", Params{},
		WithCaretPeriod(2*time.Millisecond),
		WithRedrawHook(func() { redraws.Add(1) }),
	)

	assert.Eventually(t, func() bool { return redraws.Load() >= 3 }, time.Second, 2*time.Millisecond)

	w.Destroy()
	w.Destroy()
	assert.True(t, w.Instance().caret.Stopped())

	time.Sleep(20 * time.Millisecond)
	settled := redraws.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, redraws.Load())
	goleak.VerifyNone(t, running)

	w.Element().DoubleClick(down(100, 100, 0))
	assert.Empty(t, w.Instance().Diagram().Nodes)
}

func TestWidget_CaretToggles(t *testing.T) {
	w, _ := newTestWidget(t, "", Params{}, WithCaretPeriod(time.Hour))
	inst := w.Instance()

	assert.True(t, inst.CaretVisible())
	inst.blink()
	assert.False(t, inst.CaretVisible())
	inst.blink()
	assert.True(t, inst.CaretVisible())
}

func TestWidget_LogsUndo(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	w, _ := newTestWidget(t, "", Params{}, WithLogger(zap.New(core)))
	inst := w.Instance()

	inst.DoubleClick(down(100, 100, 0))
	inst.Undo()
	w.Destroy()

	assert.Equal(t, 1, logs.FilterMessage("undo").Len())
	assert.Equal(t, 1, logs.FilterMessage("diagram destroyed").Len())
}
