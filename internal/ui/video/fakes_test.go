package video_test

import (
	"fmt"
	"time"

	"github.com/skylarkphone/skylark/internal/ui/geometry"
	"github.com/skylarkphone/skylark/internal/ui/video"
)

// eventLog records widget calls in order, so tests can assert protocol
// ordering across fakes.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// fakeTimer is one armed timeout in the fake scheduler.
type fakeTimer struct {
	id       uint
	fireAt   time.Time
	interval time.Duration
	fn       func() bool
}

// fakeScheduler drives timeouts from a manual clock.
type fakeScheduler struct {
	now    time.Time
	nextID uint
	timers []*fakeTimer
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Unix(1000, 0)}
}

func (s *fakeScheduler) AddTimeout(interval time.Duration, fn func() bool) uint {
	s.nextID++
	s.timers = append(s.timers, &fakeTimer{
		id:       s.nextID,
		fireAt:   s.now.Add(interval),
		interval: interval,
		fn:       fn,
	})
	return s.nextID
}

func (s *fakeScheduler) RemoveTimeout(id uint) {
	for i, t := range s.timers {
		if t.id == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

func (s *fakeScheduler) Now() time.Time { return s.now }

// Advance moves the clock forward, firing due timers in order.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.fireAt.After(target) {
				continue
			}
			if next == nil || t.fireAt.Before(next.fireAt) {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.fireAt
		if next.fn() {
			next.fireAt = s.now.Add(next.interval)
		} else {
			s.RemoveTimeout(next.id)
		}
	}
	s.now = target
}

// armed reports how many timeouts are pending.
func (s *fakeScheduler) armed() int { return len(s.timers) }

type fakeSurface struct {
	log *eventLog

	rect         geometry.Rect
	globalOffset geometry.Point // host origin while docked
	visible      bool
	topLevel     bool
	fullscreen   bool
	cursorHidden bool
	grabFails    bool

	onResized func(oldSize, newSize geometry.Size)
}

func (s *fakeSurface) Geometry() geometry.Rect { return s.rect }

func (s *fakeSurface) SetGeometry(r geometry.Rect) {
	old := s.rect.Size()
	s.rect = r
	s.log.add("surface.geometry %dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
	if s.onResized != nil && old != r.Size() {
		s.onResized(old, r.Size())
	}
}

func (s *fakeSurface) GlobalOrigin() geometry.Point {
	if s.topLevel {
		return s.rect.Origin()
	}
	return s.globalOffset.Add(s.rect.Origin())
}

func (s *fakeSurface) Show()           { s.visible = true; s.log.add("surface.show") }
func (s *fakeSurface) Hide()           { s.visible = false; s.log.add("surface.hide") }
func (s *fakeSurface) IsVisible() bool { return s.visible }

func (s *fakeSurface) SetVisible(visible bool) {
	if visible {
		s.Show()
	} else {
		s.Hide()
	}
}

func (s *fakeSurface) DockInto(video.Host) {
	s.topLevel = false
	s.log.add("surface.dock")
}

func (s *fakeSurface) MakeTopLevel() {
	s.topLevel = true
	s.log.add("surface.toplevel")
}

func (s *fakeSurface) IsTopLevel() bool { return s.topLevel }

func (s *fakeSurface) EnterFullscreen() { s.fullscreen = true; s.log.add("surface.fullscreen") }
func (s *fakeSurface) ExitFullscreen()  { s.fullscreen = false; s.log.add("surface.unfullscreen") }
func (s *fakeSurface) IsFullscreen() bool { return s.fullscreen }

func (s *fakeSurface) Grab() (video.Snapshot, bool) {
	if s.grabFails {
		return nil, false
	}
	s.log.add("surface.grab")
	return fakeSnapshot{size: s.rect.Size()}, true
}

func (s *fakeSurface) SetCursorHidden(hidden bool) { s.cursorHidden = hidden }

type fakeSnapshot struct {
	size geometry.Size
}

func (f fakeSnapshot) Size() geometry.Size { return f.size }

type fakeCover struct {
	log      *eventLog
	snapshot video.Snapshot
	rect     geometry.Rect
	visible  bool
}

func (c *fakeCover) SetSnapshot(snap video.Snapshot) {
	c.snapshot = snap
	c.log.add("cover.snapshot")
}

func (c *fakeCover) SetScreenGeometry(r geometry.Rect) {
	c.rect = r
	c.log.add("cover.geometry")
}

func (c *fakeCover) Show()  { c.visible = true; c.log.add("cover.show") }
func (c *fakeCover) Hide()  { c.visible = false; c.log.add("cover.hide") }
func (c *fakeCover) Raise() { c.log.add("cover.raise") }

type fakeHost struct {
	rect      geometry.Rect
	origin    geometry.Point
	presented int
}

func (h *fakeHost) Rect() geometry.Rect          { return h.rect }
func (h *fakeHost) GlobalOrigin() geometry.Point { return h.origin }
func (h *fakeHost) ShowWindow()                  { h.presented++ }

type fakePreview struct {
	rect        geometry.Rect
	interactive bool
	maxHeight   int
	lowered     int
}

func (p *fakePreview) Geometry() geometry.Rect     { return p.rect }
func (p *fakePreview) SetGeometry(r geometry.Rect) { p.rect = r }
func (p *fakePreview) SetInteractive(i bool)       { p.interactive = i }
func (p *fakePreview) SetMaxHeight(h int)          { p.maxHeight = h }
func (p *fakePreview) Lower()                      { p.lowered++ }

type fakeScreen struct {
	rect geometry.Rect
}

func (s *fakeScreen) AvailableGeometry() geometry.Rect { return s.rect }

type fakeControlBar struct {
	visible map[video.Control]bool
	checked map[video.Control]bool
}

func newFakeControlBar() *fakeControlBar {
	return &fakeControlBar{
		visible: make(map[video.Control]bool),
		checked: make(map[video.Control]bool),
	}
}

func (b *fakeControlBar) SetControlVisible(c video.Control, visible bool) {
	b.visible[c] = visible
}

func (b *fakeControlBar) SetControlChecked(c video.Control, checked bool) {
	b.checked[c] = checked
}

type fakeSession struct {
	muted bool
	hold  bool
	ended int
}

func (s *fakeSession) SetMuted(muted bool) { s.muted = muted }
func (s *fakeSession) SetHold(hold bool)   { s.hold = hold }
func (s *fakeSession) EndVideo()           { s.ended++ }
