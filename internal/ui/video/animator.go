package video

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skylarkphone/skylark/internal/ui/geometry"
)

// Animation frame interval (~60fps).
const frameInterval = 16 * time.Millisecond

// Target identifies which widget an animation drives. At most one
// animation per target is live at a time.
type Target int

const (
	TargetOverlay Target = iota
	TargetPreview
)

// Easing selects the progress curve of an animation.
type Easing int

const (
	EasingLinear Easing = iota
	EasingInQuad
	EasingOutQuad
)

func ease(e Easing, p float64) float64 {
	switch e {
	case EasingInQuad:
		return p * p
	case EasingOutQuad:
		return p * (2 - p)
	default:
		return p
	}
}

// Handle identifies one animation request. A handle that is cancelled,
// skipped, or replaced fires its done callback with completed=false.
type Handle struct {
	ID     uuid.UUID
	target Target
}

type animation struct {
	handle   *Handle
	from, to geometry.Rect
	started  time.Time
	duration time.Duration
	easing   Easing
	apply    func(geometry.Rect)
	done     func(completed bool)
	finished bool
}

// finish fires the done callback exactly once.
func (a *animation) finish(completed bool) {
	if a.finished {
		return
	}
	a.finished = true
	if a.done != nil {
		a.done(completed)
	}
}

// Animator interpolates widget rectangles over time. Frames are driven
// by a scheduler timeout that stays active only while animations run.
type Animator struct {
	mu     sync.Mutex
	sched  FrameScheduler
	logger zerolog.Logger

	active map[Target]*animation
	timer  uint
}

// NewAnimator creates an animator stepping on the given scheduler.
func NewAnimator(sched FrameScheduler, logger zerolog.Logger) *Animator {
	return &Animator{
		sched:  sched,
		logger: logger.With().Str("component", "animator").Logger(),
		active: make(map[Target]*animation),
	}
}

// Animate starts an animation for the target, replacing any animation
// already running on it (the replaced handle completes with false).
// apply is called with each interpolated rect, including the final one.
func (an *Animator) Animate(target Target, from, to geometry.Rect, duration time.Duration, easing Easing, apply func(geometry.Rect), done func(completed bool)) *Handle {
	handle := &Handle{ID: uuid.New(), target: target}

	an.mu.Lock()
	prev := an.active[target]
	a := &animation{
		handle:   handle,
		from:     from,
		to:       to,
		started:  an.sched.Now(),
		duration: duration,
		easing:   easing,
		apply:    apply,
		done:     done,
	}
	an.active[target] = a
	an.startTimerLocked()
	an.mu.Unlock()

	if prev != nil {
		prev.finish(false)
	}

	an.logger.Debug().
		Str("handle", handle.ID.String()).
		Int("target", int(target)).
		Dur("duration", duration).
		Msg("animation started")
	return handle
}

// Cancel abandons the target's animation, leaving the widget wherever
// the last frame put it.
func (an *Animator) Cancel(target Target) {
	an.mu.Lock()
	a := an.active[target]
	delete(an.active, target)
	an.stopTimerIfIdleLocked()
	an.mu.Unlock()

	if a != nil {
		a.finish(false)
	}
}

// SkipToEnd jumps the target's animation to its final rect and
// completes it.
func (an *Animator) SkipToEnd(target Target) {
	an.mu.Lock()
	a := an.active[target]
	delete(an.active, target)
	an.stopTimerIfIdleLocked()
	an.mu.Unlock()

	if a == nil {
		return
	}
	if a.apply != nil {
		a.apply(a.to)
	}
	a.finish(true)
}

// Retarget swaps the end rect of the target's running animation without
// restarting its clock. No-op when the target is idle.
func (an *Animator) Retarget(target Target, to geometry.Rect) {
	an.mu.Lock()
	defer an.mu.Unlock()
	if a, ok := an.active[target]; ok {
		a.to = to
	}
}

// Running reports whether the target has a live animation.
func (an *Animator) Running(target Target) bool {
	an.mu.Lock()
	defer an.mu.Unlock()
	_, ok := an.active[target]
	return ok
}

// Tick advances all running animations to the given time. Production
// calls it from the scheduler timeout; tests call it directly.
func (an *Animator) Tick(now time.Time) {
	an.mu.Lock()
	type step struct {
		a        *animation
		rect     geometry.Rect
		complete bool
	}
	steps := make([]step, 0, len(an.active))
	for target, a := range an.active {
		elapsed := now.Sub(a.started)
		if elapsed >= a.duration || a.duration <= 0 {
			delete(an.active, target)
			steps = append(steps, step{a: a, rect: a.to, complete: true})
			continue
		}
		p := ease(a.easing, float64(elapsed)/float64(a.duration))
		steps = append(steps, step{a: a, rect: lerpRect(a.from, a.to, p)})
	}
	an.mu.Unlock()

	for _, s := range steps {
		if s.a.apply != nil {
			s.a.apply(s.rect)
		}
		if s.complete {
			s.a.finish(true)
			an.logger.Debug().Str("handle", s.a.handle.ID.String()).Msg("animation completed")
		}
	}
}

func lerpRect(from, to geometry.Rect, p float64) geometry.Rect {
	lerp := func(a, b int) int {
		return a + int(float64(b-a)*p)
	}
	return geometry.Rect{
		X:      lerp(from.X, to.X),
		Y:      lerp(from.Y, to.Y),
		Width:  lerp(from.Width, to.Width),
		Height: lerp(from.Height, to.Height),
	}
}

// startTimerLocked arms the frame timer. Must be called with the lock held.
func (an *Animator) startTimerLocked() {
	if an.timer != 0 {
		return
	}
	an.timer = an.sched.AddTimeout(frameInterval, func() bool {
		an.Tick(an.sched.Now())
		an.mu.Lock()
		running := len(an.active) > 0
		if !running {
			an.timer = 0
		}
		an.mu.Unlock()
		return running
	})
}

// stopTimerIfIdleLocked releases the frame timer when nothing animates.
func (an *Animator) stopTimerIfIdleLocked() {
	if len(an.active) == 0 && an.timer != 0 {
		an.sched.RemoveTimeout(an.timer)
		an.timer = 0
	}
}
