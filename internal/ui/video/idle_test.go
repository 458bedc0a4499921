package video_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylarkphone/skylark/internal/ui/video"
)

type idleEvents struct {
	idle int
	wake int
}

func newIdleFixture() (*video.IdleMonitor, *fakeScheduler, *idleEvents) {
	sched := newFakeScheduler()
	ev := &idleEvents{}
	m := video.NewIdleMonitor(sched,
		func() { ev.idle++ },
		func() { ev.wake++ },
	)
	return m, sched, ev
}

func TestIdleFiresOnceAfterTimeout(t *testing.T) {
	m, sched, ev := newIdleFixture()

	m.Start()
	require.True(t, m.Active())

	sched.Advance(2 * time.Second)
	assert.Zero(t, ev.idle)

	sched.Advance(2 * time.Second)
	assert.Equal(t, 1, ev.idle)
	assert.False(t, m.Active(), "single shot, no re-arm")

	sched.Advance(10 * time.Second)
	assert.Equal(t, 1, ev.idle)
}

func TestPointerMovedRestartsCountdown(t *testing.T) {
	m, sched, ev := newIdleFixture()

	m.Start()
	sched.Advance(2 * time.Second)
	m.PointerMoved()
	sched.Advance(2 * time.Second)

	assert.Zero(t, ev.idle, "the move pushed the deadline out")

	sched.Advance(time.Second + time.Millisecond)
	assert.Equal(t, 1, ev.idle)
}

func TestFirstMoveAfterIdleWakes(t *testing.T) {
	m, sched, ev := newIdleFixture()

	m.Start()
	sched.Advance(4 * time.Second)
	require.Equal(t, 1, ev.idle)

	m.PointerMoved()
	assert.Equal(t, 1, ev.wake)
	assert.True(t, m.Active(), "waking re-arms the countdown")

	m.PointerMoved()
	assert.Equal(t, 1, ev.wake, "moves while awake do not re-wake")
}

func TestStopDisarmsWithoutFiring(t *testing.T) {
	m, sched, ev := newIdleFixture()

	m.Start()
	m.Stop()
	sched.Advance(10 * time.Second)

	assert.Zero(t, ev.idle)
	assert.False(t, m.Active())
	assert.Zero(t, sched.armed(), "the timer source is released")
}

func TestSuspendBlocksArmingUntilNextPointerEvent(t *testing.T) {
	m, sched, ev := newIdleFixture()

	m.Start()
	m.SetSuspended(true)
	sched.Advance(10 * time.Second)
	assert.Zero(t, ev.idle)

	m.Start()
	assert.False(t, m.Active(), "start is a no-op while suspended")

	m.PointerMoved()
	assert.Zero(t, ev.wake, "moves while suspended are swallowed")

	m.SetSuspended(false)
	assert.False(t, m.Active(), "resume alone does not re-arm")

	m.PointerMoved()
	assert.True(t, m.Active())
	sched.Advance(4 * time.Second)
	assert.Equal(t, 1, ev.idle)
}

func TestHoveringControlPausesCountdown(t *testing.T) {
	m, sched, ev := newIdleFixture()

	m.Start()
	m.PointerEnteredControl()
	sched.Advance(10 * time.Second)
	assert.Zero(t, ev.idle, "no hide while the pointer rests on a button")

	m.PointerLeftControl()
	sched.Advance(4 * time.Second)
	assert.Equal(t, 1, ev.idle)
}
