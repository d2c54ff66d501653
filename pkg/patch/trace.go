package patch

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// Default tracer name.
const defaultTracerName = "vpatch"

// PatchContext is SafePatch recorded as a span. The span carries the
// call's Stats as attributes and is marked as failed when the patch
// aborts. The patch itself never blocks on ctx.
func (p *Patcher) PatchContext(ctx context.Context, old, next *vdom.VNode) (vdom.Handle, error) {
	return p.traced(ctx, old, next, func() (vdom.Handle, error) {
		return p.SafePatch(old, next)
	})
}

// PatchIntoContext is SafePatchInto recorded as a span, like PatchContext.
func (p *Patcher) PatchIntoContext(ctx context.Context, old, next *vdom.VNode, parent, ref vdom.Handle) (vdom.Handle, error) {
	return p.traced(ctx, old, next, func() (vdom.Handle, error) {
		return p.SafePatchInto(old, next, parent, ref)
	})
}

func (p *Patcher) traced(ctx context.Context, old, next *vdom.VNode, fn func() (vdom.Handle, error)) (vdom.Handle, error) {
	tracer := p.tracer
	if tracer == nil {
		tracer = otel.Tracer(defaultTracerName)
	}

	_, span := tracer.Start(ctx, "vpatch.patch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Bool("vpatch.initial", old == nil),
			attribute.Int("vpatch.nodes", vdom.Count(next)),
		),
	)
	defer span.End()

	h, err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := errors.Code(err); code != "" {
			span.SetAttributes(attribute.String("vpatch.error_code", code))
		}
		return h, err
	}

	s := p.Stats()
	span.SetAttributes(
		attribute.Int("vpatch.created", s.Created),
		attribute.Int("vpatch.removed", s.Removed),
		attribute.Int("vpatch.moved", s.Moved),
		attribute.Int("vpatch.text_updates", s.TextUpdates),
		attribute.Int("vpatch.hook_calls", s.HookCalls),
	)
	span.SetStatus(codes.Ok, "")
	return h, nil
}
