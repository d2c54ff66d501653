package vdom

// EventHandler binds a listener to an event name.
type EventHandler struct {
	Event   string   // "click", "input", etc.
	Handler Listener // Function to call
}

func (e EventHandler) apply(node *VNode) {
	if e.Event == "" || e.Handler == nil {
		return
	}
	d := node.data()
	if d.On == nil {
		d.On = make(map[string]Listener)
	}
	d.On[e.Event] = e.Handler
}

// On binds handler to the named event.
func On(event string, handler Listener) EventHandler {
	return EventHandler{Event: event, Handler: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler Listener) EventHandler { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler Listener) EventHandler { return On("dblclick", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler Listener) EventHandler { return On("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler Listener) EventHandler { return On("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler Listener) EventHandler { return On("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler Listener) EventHandler { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler Listener) EventHandler { return On("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler Listener) EventHandler { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler Listener) EventHandler { return On("blur", handler) }
