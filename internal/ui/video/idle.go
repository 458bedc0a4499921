package video

import (
	"sync"
	"time"
)

// idleTimeout is how long the pointer must rest on the overlay before
// the controls and cursor hide.
const idleTimeout = 3 * time.Second

// IdleMonitor hides the overlay controls after a period of pointer
// inactivity. It is a single-shot timer: every pointer move restarts
// it, entering a control or starting a drag suspends it.
type IdleMonitor struct {
	mu        sync.Mutex
	sched     FrameScheduler
	timeout   time.Duration
	timer     uint
	seq       uint64
	onIdle    func()
	onWake    func()
	suspended bool
}

// NewIdleMonitor creates a monitor firing onIdle after the timeout and
// onWake on the first pointer move of a new activity burst.
func NewIdleMonitor(sched FrameScheduler, onIdle, onWake func()) *IdleMonitor {
	return &IdleMonitor{
		sched:   sched,
		timeout: idleTimeout,
		onIdle:  onIdle,
		onWake:  onWake,
	}
}

// Start arms (or re-arms) the idle timer.
func (m *IdleMonitor) Start() {
	m.mu.Lock()
	if m.suspended {
		m.mu.Unlock()
		return
	}
	m.stopLocked()
	m.seq++
	seq := m.seq
	m.timer = m.sched.AddTimeout(m.timeout, func() bool {
		m.mu.Lock()
		stale := m.seq != seq
		if !stale {
			m.timer = 0
		}
		m.mu.Unlock()
		if !stale && m.onIdle != nil {
			m.onIdle()
		}
		return false
	})
	m.mu.Unlock()
}

// Stop disarms the timer without firing.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	m.stopLocked()
	m.mu.Unlock()
}

func (m *IdleMonitor) stopLocked() {
	if m.timer != 0 {
		m.sched.RemoveTimeout(m.timer)
		m.timer = 0
	}
	m.seq++
}

// Active reports whether the timer is armed.
func (m *IdleMonitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != 0
}

// SetSuspended pauses the monitor during drags and animations. Resuming
// does not re-arm; the next pointer event does.
func (m *IdleMonitor) SetSuspended(suspended bool) {
	m.mu.Lock()
	m.suspended = suspended
	if suspended {
		m.stopLocked()
	}
	m.mu.Unlock()
}

// PointerMoved handles pointer motion over the overlay: the first move
// after an idle period wakes the controls, and the timer restarts.
func (m *IdleMonitor) PointerMoved() {
	m.mu.Lock()
	wasIdle := m.timer == 0
	suspended := m.suspended
	m.mu.Unlock()

	if suspended {
		return
	}
	if wasIdle && m.onWake != nil {
		m.onWake()
	}
	m.Start()
}

// PointerEnteredControl suspends the countdown while the pointer rests
// on a tool button.
func (m *IdleMonitor) PointerEnteredControl() {
	m.Stop()
}

// PointerLeftControl resumes the countdown.
func (m *IdleMonitor) PointerLeftControl() {
	m.Start()
}
