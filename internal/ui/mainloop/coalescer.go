// Package mainloop provides helpers for scheduling work on the GTK main
// loop. Window resize storms arrive as dozens of notify events per
// frame; the coalescer folds each burst into one main-loop pass.
package mainloop

import (
	"sync"

	"github.com/jwijenbergh/puregotk/v4/glib"
)

// Well-known coalescing keys for the session window.
const (
	KeyHostResize    = "host-resize"
	KeySurfaceResize = "surface-resize"
	KeyPreviewLayout = "preview-layout"
)

// Coalescer merges bursts of same-key main-loop tasks: only the latest
// callback posted under a key runs when the loop gets to it.
type Coalescer struct {
	mu        sync.Mutex
	pending   map[string]bool
	callbacks map[string]func()
	post      func(func())
	destroyed bool
}

// NewCoalescer creates a coalescer delivering through post, which must
// hand the callback to the main loop.
func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}

	return &Coalescer{
		pending:   make(map[string]bool),
		callbacks: make(map[string]func()),
		post:      post,
	}
}

// NewGLibCoalescer creates a coalescer posting through glib idle
// sources, for use from GTK signal handlers.
func NewGLibCoalescer() *Coalescer {
	return NewCoalescer(func(fn func()) {
		var cb glib.SourceFunc = func(uintptr) bool {
			fn()
			return false
		}
		glib.IdleAdd(&cb, 0)
	})
}

// Post schedules fn under key. Posting again before the main loop ran
// the key replaces the callback instead of queueing another pass.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.callbacks[key] = fn
	if c.pending[key] {
		c.mu.Unlock()
		return
	}
	c.pending[key] = true
	post := c.post
	c.mu.Unlock()

	post(func() {
		c.mu.Lock()
		if c.destroyed {
			delete(c.pending, key)
			delete(c.callbacks, key)
			c.mu.Unlock()
			return
		}
		fn := c.callbacks[key]
		delete(c.pending, key)
		delete(c.callbacks, key)
		c.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}

// Destroy drops all queued work. Used when the session window closes
// while resize events are still in flight.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = map[string]bool{}
	c.callbacks = map[string]func(){}
	c.mu.Unlock()
}
