package selection

import "testing"

type highlightCall struct {
	h  Handle
	on bool
}

type fakeView struct {
	epoch uint64
	calls []highlightCall
	lit   map[string]bool
}

func newFakeView() *fakeView {
	return &fakeView{epoch: 1, lit: make(map[string]bool)}
}

func (v *fakeView) Attached(h Handle) bool {
	return h.Epoch == v.epoch
}

func (v *fakeView) Highlight(h Handle, on bool) {
	v.calls = append(v.calls, highlightCall{h, on})
	v.lit[h.ConversationID] = on
}

func (v *fakeView) rebuild() {
	v.epoch++
	v.lit = make(map[string]bool)
}

func (v *fakeView) handle(id string) Handle {
	return Handle{ConversationID: id, Epoch: v.epoch}
}

func TestSelect_MovesHighlight(t *testing.T) {
	v := newFakeView()
	c := New(v)

	c.Select(v.handle("a"))
	c.Select(v.handle("b"))

	if v.lit["a"] {
		t.Error("previous row should be unhighlighted")
	}
	if !v.lit["b"] {
		t.Error("new row should be highlighted")
	}
	cur, ok := c.Current()
	if !ok || cur.ConversationID != "b" {
		t.Errorf("Current() = %+v, %v", cur, ok)
	}
}

func TestClear_KeepsHandle(t *testing.T) {
	v := newFakeView()
	c := New(v)

	c.Select(v.handle("a"))
	c.Clear()

	if v.lit["a"] {
		t.Error("Clear should remove the highlight")
	}
	if _, ok := c.Current(); !ok {
		t.Error("Clear should not forget the handle")
	}
}

func TestClear_NoSelection(t *testing.T) {
	v := newFakeView()
	c := New(v)

	c.Clear()
	if len(v.calls) != 0 {
		t.Errorf("Clear without selection touched the view: %v", v.calls)
	}
}

func TestInvalidate_DropsHandle(t *testing.T) {
	v := newFakeView()
	c := New(v)

	c.Select(v.handle("a"))
	v.rebuild()
	c.Invalidate()

	if _, ok := c.Current(); ok {
		t.Error("Invalidate should forget the handle")
	}

	before := len(v.calls)
	c.Select(v.handle("b"))
	if len(v.calls) != before+1 {
		t.Errorf("only the new highlight should be applied, calls: %v", v.calls[before:])
	}
}

func TestSelect_DetachedHandleNotTouched(t *testing.T) {
	v := newFakeView()
	c := New(v)

	old := v.handle("a")
	c.Select(old)
	v.rebuild() // rebuilt without Invalidate

	c.Select(v.handle("a"))
	for _, call := range v.calls {
		if call.h == old && !call.on {
			t.Error("a handle from a torn-down view must not be unhighlighted")
		}
	}
	if !v.lit["a"] {
		t.Error("row in the new view should be highlighted")
	}
}
