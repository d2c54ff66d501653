package patch

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/module"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Stats counts the work done by the last patch call.
type Stats struct {
	Created      int           // Live objects created
	Removed      int           // Live objects detached from their parent
	Moved        int           // Attached live objects re-inserted elsewhere
	TextUpdates  int           // SetTextContent calls
	HookCalls    int           // Module hook invocations
	HookFailures int           // Isolated hook panics
	Duration     time.Duration // Wall time of the call
}

// Patcher reconciles descriptor trees against a host.
//
// A Patcher is not safe for concurrent use. Callers must serialize patch
// calls for the subtree it manages.
type Patcher struct {
	ops     host.NodeOps
	rel     host.Releaser // nil when ops cannot release
	hooks   *module.Dispatcher
	logger  *slog.Logger
	diag    Diagnostics
	metrics *Metrics
	tracer  trace.Tracer

	queue []*vdom.VNode // created nodes awaiting activation
	stats Stats
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Patcher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDiagnostics sets how descriptor contract violations are reported.
func WithDiagnostics(d Diagnostics) Option {
	return func(p *Patcher) {
		p.diag = d
	}
}

// WithMetrics records every patch call in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Patcher) {
		p.metrics = m
	}
}

// WithTracer sets the tracer used by PatchContext.
func WithTracer(t trace.Tracer) Option {
	return func(p *Patcher) {
		p.tracer = t
	}
}

// New creates a Patcher driving ops. hooks may be nil when no module is
// needed.
func New(ops host.NodeOps, hooks *module.Registry, opts ...Option) *Patcher {
	p := &Patcher{
		ops:    ops,
		logger: slog.Default(),
		diag:   DiagnosticsWarn,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rel, _ = ops.(host.Releaser)
	p.hooks = hooks.Dispatcher(observer{p})
	return p
}

// Stats returns the counters of the last patch call.
func (p *Patcher) Stats() Stats { return p.stats }

// observer counts hook calls into the current Stats.
type observer struct{ p *Patcher }

func (o observer) HookCalled(hook string) {
	o.p.stats.HookCalls++
	o.p.metrics.hookCalled(hook)
}

func (o observer) HookFailed(hook string) {
	o.p.stats.HookFailures++
	o.p.metrics.hookFailed(hook)
}

func (p *Patcher) begin() time.Time {
	p.stats = Stats{}
	p.queue = p.queue[:0]
	return time.Now()
}

func (p *Patcher) end(start time.Time) {
	p.flushActivate()
	p.stats.Duration = time.Since(start)
	p.metrics.observe(p.stats)
}

// Patch reconciles next against old, the tree returned for the previous
// pass, and returns next's live root.
//
// With a nil old, next is created detached; the caller inserts the
// returned handle. With a nil next, old's subtree is destroyed (hooks
// only, the live objects stay where they are). When old and next are not
// the same node, next is created beside old inside old's parent and old is
// removed afterwards.
func (p *Patcher) Patch(old, next *vdom.VNode) vdom.Handle {
	start := p.begin()
	h := p.patchRoot(old, next)
	p.end(start)
	return h
}

func (p *Patcher) patchRoot(old, next *vdom.VNode) vdom.Handle {
	switch {
	case next == nil:
		if old != nil {
			p.invokeDestroyHook(old)
		}
		return vdom.NoHandle
	case old == nil:
		return p.createElm(next, vdom.NoHandle, vdom.NoHandle).Elm
	case old == next:
		return next.Elm
	case vdom.SameVNode(old, next):
		next = adopt(old, next)
		p.patchVnode(old, next)
		return next.Elm
	default:
		return p.replace(old, next)
	}
}

// PatchInto is Patch for a subtree whose container is known: a nil old
// creates next inside parent before ref (appended when ref is
// vdom.NoHandle), a nil next removes old from parent.
func (p *Patcher) PatchInto(old, next *vdom.VNode, parent, ref vdom.Handle) vdom.Handle {
	start := p.begin()
	h := p.patchInto(old, next, parent, ref)
	p.end(start)
	return h
}

func (p *Patcher) patchInto(old, next *vdom.VNode, parent, ref vdom.Handle) vdom.Handle {
	switch {
	case next == nil:
		if old != nil {
			p.removeVnodes([]*vdom.VNode{old}, 0, 0, nil)
		}
		return vdom.NoHandle
	case old == nil:
		return p.createElm(next, parent, ref).Elm
	case old == next:
		return next.Elm
	case vdom.SameVNode(old, next):
		next = adopt(old, next)
		p.patchVnode(old, next)
		return next.Elm
	default:
		return p.replace(old, next)
	}
}

// Mount replaces the existing live object target with next. The target is
// not reconciled: Mount always creates next and removes target.
func (p *Patcher) Mount(target vdom.Handle, next *vdom.VNode) vdom.Handle {
	return p.Patch(p.NodeAt(target), next)
}

// NodeAt returns an empty descriptor standing for an existing live object.
// It never matches a rendered node, so patching it replaces the object.
func (p *Patcher) NodeAt(h vdom.Handle) *vdom.VNode {
	v := &vdom.VNode{Elm: h, Key: hostPlaceholderKey}
	switch tag := p.ops.TagName(h); tag {
	case "#text":
		v.Kind = vdom.KindText
	case "#comment":
		v.Kind = vdom.KindComment
	default:
		v.Kind = vdom.KindElement
		v.Tag = tag
	}
	return v
}

// hostPlaceholderKey keeps NodeAt descriptors from matching rendered
// nodes of the same kind and tag.
const hostPlaceholderKey = "\x00host"

// replace creates next next to old, then removes old.
func (p *Patcher) replace(old, next *vdom.VNode) vdom.Handle {
	parent, ref := vdom.NoHandle, vdom.NoHandle
	if old.Elm.Valid() {
		parent = p.ops.ParentNode(old.Elm)
		ref = p.ops.NextSibling(old.Elm)
	}
	next = p.createElm(next, parent, ref)
	if parent.Valid() {
		p.removeVnodes([]*vdom.VNode{old}, 0, 0, nil)
	} else {
		p.invokeDestroyHook(old)
	}
	return next.Elm
}

// SafePatch is Patch that turns an escaped panic (a host failure, a
// failing hook without isolation, a strict-mode contract violation) into
// an error. The live tree may be partially patched when it returns an
// error; the next full patch reconciles it again.
func (p *Patcher) SafePatch(old, next *vdom.VNode) (vdom.Handle, error) {
	return p.safely(func() vdom.Handle { return p.Patch(old, next) })
}

// SafePatchInto is PatchInto with the error handling of SafePatch.
func (p *Patcher) SafePatchInto(old, next *vdom.VNode, parent, ref vdom.Handle) (vdom.Handle, error) {
	return p.safely(func() vdom.Handle { return p.PatchInto(old, next, parent, ref) })
}

func (p *Patcher) safely(fn func() vdom.Handle) (h vdom.Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = abortError(r)
			p.metrics.aborted()
			p.logger.Error("patch aborted", "error", err, "code", errors.Code(err))
		}
	}()
	return fn(), nil
}

func abortError(r any) error {
	switch v := r.(type) {
	case *errors.Error:
		return v
	case error:
		return errors.New(errors.CodePatchAborted).Wrap(v)
	default:
		return errors.New(errors.CodePatchAborted).WithDetail(fmt.Sprint(v))
	}
}

// flushActivate runs activate hooks for every node created by the call,
// children before parents.
func (p *Patcher) flushActivate() {
	for i, v := range p.queue {
		if v.Kind == vdom.KindElement {
			p.hooks.Activate(v)
		}
		if h := hooksOf(v); h != nil && h.Insert != nil {
			h.Insert(v)
		}
		p.queue[i] = nil
	}
	p.queue = p.queue[:0]
}

func hooksOf(v *vdom.VNode) *vdom.Hooks {
	if v == nil || v.Data == nil {
		return nil
	}
	return v.Data.Hook
}
