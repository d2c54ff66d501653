package module

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Hook names, as reported in metrics and logs.
const (
	HookCreate   = "create"
	HookActivate = "activate"
	HookUpdate   = "update"
	HookDestroy  = "destroy"
)

// CreateHook runs after a node's live object and children exist, before
// it is inserted into its parent. old is vdom.Empty.
type CreateHook interface {
	Create(old, v *vdom.VNode)
}

// ActivateHook runs once the created node is attached to the tree.
type ActivateHook interface {
	Activate(old, v *vdom.VNode)
}

// UpdateHook runs when a node is patched in place.
type UpdateHook interface {
	Update(old, v *vdom.VNode)
}

// DestroyHook runs when a node leaves the tree, children before parents.
type DestroyHook interface {
	Destroy(v *vdom.VNode)
}

// Module is a value implementing at least one of CreateHook, ActivateHook,
// UpdateHook or DestroyHook.
type Module any

// Observer receives one call per hook invocation and per recovered failure.
type Observer interface {
	HookCalled(hook string)
	HookFailed(hook string)
}

// Registry holds modules in two ordered groups. Platform modules run
// before base modules, so base modules (refs, directives) can rely on
// element state the platform modules established.
//
// A Registry is frozen when its first Dispatcher is created; registering
// afterwards panics.
type Registry struct {
	platform []Module
	base     []Module
	frozen   bool

	creates   []CreateHook
	activates []ActivateHook
	updates   []UpdateHook
	destroys  []DestroyHook
	isolate   bool
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Platform appends host-specific modules.
func (r *Registry) Platform(mods ...Module) *Registry {
	r.mustOpen()
	r.platform = append(r.platform, checked(mods)...)
	return r
}

// Base appends host-independent modules.
func (r *Registry) Base(mods ...Module) *Registry {
	r.mustOpen()
	r.base = append(r.base, checked(mods)...)
	return r
}

// Isolate recovers panics raised by individual hooks, logs them and
// carries on with the next hook. Without it a hook panic aborts the patch.
func (r *Registry) Isolate(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r.isolate = true
	r.logger = logger
	return r
}

func (r *Registry) mustOpen() {
	if r.frozen {
		panic("module: registry modified after first use")
	}
}

func checked(mods []Module) []Module {
	for _, m := range mods {
		switch m.(type) {
		case CreateHook, ActivateHook, UpdateHook, DestroyHook:
		default:
			panic(fmt.Sprintf("module: %T implements no hook", m))
		}
	}
	return mods
}

// Freeze fixes the module order and builds the per-hook lists.
// It is called implicitly by Dispatcher.
func (r *Registry) Freeze() {
	if r == nil || r.frozen {
		return
	}
	r.frozen = true
	for _, m := range r.Modules() {
		if h, ok := m.(CreateHook); ok {
			r.creates = append(r.creates, h)
		}
		if h, ok := m.(ActivateHook); ok {
			r.activates = append(r.activates, h)
		}
		if h, ok := m.(UpdateHook); ok {
			r.updates = append(r.updates, h)
		}
		if h, ok := m.(DestroyHook); ok {
			r.destroys = append(r.destroys, h)
		}
	}
}

// Modules returns all modules in dispatch order.
func (r *Registry) Modules() []Module {
	out := make([]Module, 0, len(r.platform)+len(r.base))
	out = append(out, r.platform...)
	return append(out, r.base...)
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.platform) + len(r.base)
}

// HasUpdate reports whether any module implements UpdateHook.
func (r *Registry) HasUpdate() bool {
	if r == nil {
		return false
	}
	r.Freeze()
	return len(r.updates) > 0
}

// Dispatcher returns a view of the registry that reports every hook
// call to obs. obs may be nil.
func (r *Registry) Dispatcher(obs Observer) *Dispatcher {
	if r == nil {
		r = NewRegistry()
	}
	r.Freeze()
	return &Dispatcher{r: r, obs: obs}
}

// Dispatcher routes lifecycle events to the registered modules in
// registration order.
type Dispatcher struct {
	r   *Registry
	obs Observer
}

// Create dispatches the create hook.
func (d *Dispatcher) Create(v *vdom.VNode) {
	for _, h := range d.r.creates {
		d.call(HookCreate, h, func() { h.Create(vdom.Empty, v) })
	}
}

// Activate dispatches the activate hook.
func (d *Dispatcher) Activate(v *vdom.VNode) {
	for _, h := range d.r.activates {
		d.call(HookActivate, h, func() { h.Activate(vdom.Empty, v) })
	}
}

// Update dispatches the update hook.
func (d *Dispatcher) Update(old, v *vdom.VNode) {
	if old == nil {
		old = vdom.Empty
	}
	for _, h := range d.r.updates {
		d.call(HookUpdate, h, func() { h.Update(old, v) })
	}
}

// Destroy dispatches the destroy hook.
func (d *Dispatcher) Destroy(v *vdom.VNode) {
	for _, h := range d.r.destroys {
		d.call(HookDestroy, h, func() { h.Destroy(v) })
	}
}

func (d *Dispatcher) call(hook string, m Module, fn func()) {
	if d.obs != nil {
		d.obs.HookCalled(hook)
	}
	if !d.r.isolate {
		fn()
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			if d.obs != nil {
				d.obs.HookFailed(hook)
			}
			err := errors.New(errors.CodeHookPanic).
				WithDetailf("%s hook of %T: %v", hook, m, rec)
			d.r.logger.Error("module hook panicked",
				"error", err,
				"code", err.Code,
				"hook", hook,
			)
		}
	}()
	fn()
}
