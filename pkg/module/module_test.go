package module

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vpatch/pkg/vdom"
)

type counting struct {
	calls []string
}

func (c *counting) HookCalled(hook string) { c.calls = append(c.calls, "call:"+hook) }
func (c *counting) HookFailed(hook string) { c.calls = append(c.calls, "fail:"+hook) }

type createOnly struct{ seen []*vdom.VNode }

func (m *createOnly) Create(old, v *vdom.VNode) {
	if old != vdom.Empty {
		panic("create hook got a non-empty old node")
	}
	m.seen = append(m.seen, v)
}

type everything struct{ log *[]string }

func (m everything) Create(_, _ *vdom.VNode)   { *m.log = append(*m.log, "create") }
func (m everything) Activate(_, _ *vdom.VNode) { *m.log = append(*m.log, "activate") }
func (m everything) Update(_, _ *vdom.VNode)   { *m.log = append(*m.log, "update") }
func (m everything) Destroy(_ *vdom.VNode)     { *m.log = append(*m.log, "destroy") }

type failing struct{}

func (failing) Update(_, _ *vdom.VNode) { panic("update failed") }

func TestRegistryOrder(t *testing.T) {
	a, b, c := &createOnly{}, &createOnly{}, &createOnly{}
	r := NewRegistry().Base(a).Platform(b, c)

	mods := r.Modules()
	if len(mods) != 3 || mods[0] != b || mods[1] != c || mods[2] != a {
		t.Errorf("Modules() = %v, want platform modules first", mods)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
	if r.HasUpdate() {
		t.Error("HasUpdate = true without update hooks")
	}
}

func TestRegistryRejectsNonModules(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || !strings.Contains(r.(string), "implements no hook") {
			t.Errorf("recover() = %v", r)
		}
	}()
	NewRegistry().Base(struct{}{})
}

func TestDispatcher(t *testing.T) {
	var log []string
	obs := &counting{}
	d := NewRegistry().Platform(everything{&log}).Dispatcher(obs)
	v := vdom.Div()

	d.Create(v)
	d.Activate(v)
	d.Update(nil, v)
	d.Destroy(v)

	if got := strings.Join(log, ","); got != "create,activate,update,destroy" {
		t.Errorf("hooks = %s", got)
	}
	if got := strings.Join(obs.calls, ","); got != "call:create,call:activate,call:update,call:destroy" {
		t.Errorf("observer = %s", got)
	}
}

func TestDispatcherNilRegistry(t *testing.T) {
	var r *Registry
	d := r.Dispatcher(nil)
	d.Create(vdom.Div())
	if r.Len() != 0 || r.HasUpdate() {
		t.Error("nil registry should be empty")
	}
}

func TestDispatcherPanicsWithoutIsolation(t *testing.T) {
	d := NewRegistry().Base(failing{}).Dispatcher(nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	d.Update(vdom.Div(), vdom.Div())
}

func TestDispatcherIsolation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	var log []string
	obs := &counting{}
	d := NewRegistry().
		Platform(failing{}).
		Base(everything{&log}).
		Isolate(logger).
		Dispatcher(obs)

	d.Update(vdom.Div(), vdom.Div())

	if got := strings.Join(log, ","); got != "update" {
		t.Errorf("later module did not run: %v", log)
	}
	if got := strings.Join(obs.calls, ","); got != "call:update,fail:update,call:update" {
		t.Errorf("observer = %s", got)
	}
	out := buf.String()
	if !strings.Contains(out, "V101") || !strings.Contains(out, "update failed") {
		t.Errorf("log = %s", out)
	}
}

func TestRegistryFrozen(t *testing.T) {
	r := NewRegistry()
	r.Dispatcher(nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic when modifying a frozen registry")
		}
	}()
	r.Platform(&createOnly{})
}
