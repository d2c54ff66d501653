// Package module implements the hook protocol through which auxiliary
// concerns take part in patching.
//
// A module is any value implementing at least one of CreateHook,
// ActivateHook, UpdateHook or DestroyHook. Hooks a module does not
// implement are simply never called for it. The patcher sees modules only
// through a Dispatcher and never inspects Data itself.
//
// # Ordering
//
// Modules are registered into two groups. Platform modules (attributes,
// classes, styles, events) always run before base modules (refs,
// directives), whatever the order of the Platform and Base calls:
//
//	reg := module.NewRegistry().
//	    Base(refs).
//	    Platform(module.NewAttrs(t), module.NewEvents(t))
//	// dispatch order: attrs, events, refs
//
// # Failures
//
// By default a panicking hook aborts the patch. Registry.Isolate recovers
// hook panics one by one, logs them and lets the patch continue.
package module
