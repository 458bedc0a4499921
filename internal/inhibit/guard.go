package inhibit

import (
	"context"
	"sync"
)

const videoCallReason = "Video call in progress"

// CallGuard ties idle inhibition to the video call lifecycle: the
// screen stays awake from the moment video connects until the call
// ends. Begin and End are idempotent per call.
type CallGuard struct {
	mu        sync.Mutex
	inhibitor Inhibitor
	active    bool
}

// NewCallGuard wraps an inhibitor. A nil inhibitor yields a guard that
// does nothing.
func NewCallGuard(inhibitor Inhibitor) *CallGuard {
	return &CallGuard{inhibitor: inhibitor}
}

// Begin activates inhibition for the current call.
func (g *CallGuard) Begin(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active || g.inhibitor == nil {
		return nil
	}
	if err := g.inhibitor.Inhibit(ctx, videoCallReason); err != nil {
		return err
	}
	g.active = true
	return nil
}

// End releases inhibition when the call ends.
func (g *CallGuard) End(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active || g.inhibitor == nil {
		return nil
	}
	g.active = false
	return g.inhibitor.Uninhibit(ctx)
}

// Active reports whether the guard currently holds an inhibition.
func (g *CallGuard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}
