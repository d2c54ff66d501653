package server

import (
	"context"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/module"
	"github.com/vango-dev/vpatch/pkg/patch"
	"github.com/vango-dev/vpatch/pkg/protocol"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Session holds one live tree and the descriptor tree last patched into
// it.
type Session struct {
	ID string

	cfg    Config
	logger *slog.Logger

	tree    *host.Tree
	rec     *host.Recorder
	patcher *patch.Patcher
	refs    *module.Refs
	root    *vdom.VNode
	seq     uint64
}

// NewSession creates a session with an empty document.
func NewSession(id string, cfg Config) *Session {
	s := &Session{
		ID:     id,
		cfg:    cfg,
		logger: cfg.logger().With("session", id),
	}
	s.reset()
	return s
}

// reset discards the live tree and starts over with an empty document.
func (s *Session) reset() {
	s.tree = host.NewTree()
	s.rec = host.NewRecorder(s.tree)
	hooks, refs := module.Defaults(s.rec)
	if s.cfg.IsolateHooks {
		hooks.Isolate(s.logger)
	}
	opts := []patch.Option{
		patch.WithLogger(s.logger),
		patch.WithDiagnostics(s.cfg.Diagnostics),
		patch.WithMetrics(s.cfg.metrics),
	}
	if s.cfg.Tracing && s.cfg.TracerName != "" {
		opts = append(opts, patch.WithTracer(otel.Tracer(s.cfg.TracerName)))
	}
	s.patcher = patch.New(s.rec, hooks, opts...)
	s.refs = refs
	s.root = nil
}

// Apply patches next into the document and returns the operations it
// caused. The first Apply mounts next under the document; a nil next
// unmounts the current tree.
//
// When the patch aborts, the session is reset: the error is returned and
// the next Apply mounts from scratch into a fresh document. Receivers of
// earlier frames must discard their copy of the tree.
func (s *Session) Apply(ctx context.Context, next *vdom.VNode) (*protocol.Frame, error) {
	s.rec.Reset()
	old := s.root

	// The root lives directly under the document, so activate hooks run
	// on attached objects.
	doc := s.tree.Document()
	var err error
	if s.cfg.Tracing {
		_, err = s.patcher.PatchIntoContext(ctx, old, next, doc, vdom.NoHandle)
	} else {
		_, err = s.patcher.SafePatchInto(old, next, doc, vdom.NoHandle)
	}
	if err != nil {
		s.logger.Error("patch failed, session reset", "error", err, "seq", s.seq)
		s.reset()
		return nil, err
	}

	s.root = next
	s.seq++
	stats := s.patcher.Stats()
	s.logger.Debug("patched",
		"seq", s.seq,
		"ops", len(s.rec.Ops()),
		"created", stats.Created,
		"removed", stats.Removed,
		"moved", stats.Moved,
		"duration", stats.Duration,
	)
	return &protocol.Frame{Seq: s.seq, Ops: slices.Clone(s.rec.Ops())}, nil
}

// Seq returns the sequence number of the last successful Apply.
func (s *Session) Seq() uint64 { return s.seq }

// Stats returns the counters of the last Apply.
func (s *Session) Stats() patch.Stats { return s.patcher.Stats() }

// Tree returns the live tree.
func (s *Session) Tree() *host.Tree { return s.tree }

// HTML renders the document.
func (s *Session) HTML(cfg render.Config) string {
	return render.Render(s.tree, s.tree.Document(), cfg)
}

// Dispatch calls the listener bound for event on the element registered
// under ref.
func (s *Session) Dispatch(ref, event string, payload any) bool {
	h, ok := s.refs.Get(ref)
	if !ok {
		return false
	}
	return s.tree.Dispatch(h, event, payload)
}
