// Package inhibit provides system idle/screensaver inhibition via XDG
// Desktop Portal, so the screen stays on during video calls.
package inhibit

import "context"

// Inhibitor prevents system idle/screensaver while a call is active.
// Implementations use refcounting internally - multiple Inhibit calls
// require matching Uninhibit calls before inhibition is released.
type Inhibitor interface {
	// Inhibit increments the inhibit refcount. First call activates inhibition.
	// Safe to call multiple times (refcounted).
	Inhibit(ctx context.Context, reason string) error

	// Uninhibit decrements the refcount. When zero, releases inhibition.
	// Safe to call even if not currently inhibited (no-op).
	Uninhibit(ctx context.Context) error

	// IsInhibited returns true if currently inhibiting idle.
	IsInhibited() bool

	// Close releases any held resources. Should be called on application shutdown.
	Close() error
}
