// Package reload carries the "displays changed" signal from the host app to
// display surfaces.
package reload

import (
	"context"
	"fmt"

	"github.com/verte-zerg/wordwidget/internal/model"
)

// Scope selects which display surfaces should re-read the shared store.
type Scope string

// ScopeAll reaches every display surface. Any other scope is a surface kind.
const ScopeAll Scope = "all"

// ScopeOf returns the scope that reaches only surfaces of kind.
func ScopeOf(kind model.Kind) Scope {
	return Scope(kind)
}

// ParseScope validates a scope tag.
func ParseScope(s string) (Scope, error) {
	if Scope(s) == ScopeAll || model.Kind(s).Valid() {
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown reload scope %q", s)
}

// Matches reports whether a surface of kind should refresh for this scope.
func (s Scope) Matches(kind model.Kind) bool {
	return s == ScopeAll || Scope(kind) == s
}

// Notifier is the fire-and-forget reload signal.
type Notifier interface {
	NotifyDisplaysChanged(ctx context.Context, scope Scope)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, scope Scope)

// NotifyDisplaysChanged implements Notifier.
func (f NotifierFunc) NotifyDisplaysChanged(ctx context.Context, scope Scope) {
	f(ctx, scope)
}

// Nop drops every signal.
var Nop Notifier = NotifierFunc(func(context.Context, Scope) {})

// Multi fans a signal out to several notifiers in order.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, scope Scope) {
		for _, n := range notifiers {
			if n != nil {
				n.NotifyDisplaysChanged(ctx, scope)
			}
		}
	})
}
