// Package hooking lets observers attach to the simulation without the
// observed code knowing who is watching.
package hooking

// HookPos names a site at which hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx carries what a hook needs to know about the site that fired it.
type HookCtx struct {
	// Domain is the object raising the hook.
	Domain Hookable

	// Pos identifies the site.
	Pos *HookPos

	// Item is the primary subject, for example an event or a request.
	Item any
}

// Hookable is an object that hooks can attach to.
type Hookable interface {
	// AcceptHook registers a hook. Hooks are registered while the run is
	// being wired and are never removed.
	AcceptHook(hook Hook)

	// NumHooks returns the number of registered hooks.
	NumHooks() int

	// Hooks returns the registered hooks.
	Hooks() []Hook

	// InvokeHook calls every registered hook in registration order.
	InvokeHook(ctx HookCtx)
}

// Hook is invoked by a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function into a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase implements Hookable and is meant to be embedded.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{hookList: make([]Hook, 0)}
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns the registered hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, existing := range h.hookList {
		if sameHook(existing, hook) {
			panic("duplicated hook")
		}
	}

	h.hookList = append(h.hookList, hook)
}

// sameHook compares hooks without tripping over uncomparable dynamic types
// such as HookFunc.
func sameHook(a, b Hook) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()

	return a == b
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
