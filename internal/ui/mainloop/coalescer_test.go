package mainloop

import "testing"

func TestCoalescerMergesResizeBurstIntoSinglePass(t *testing.T) {
	queue := make([]func(), 0, 8)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	width := 0
	for i := 1; i <= 5; i++ {
		w := 600 + i
		c.Post(KeyHostResize, func() { width = w })
	}

	if len(queue) != 1 {
		t.Fatalf("expected 1 scheduled callback, got %d", len(queue))
	}
	queue[0]()

	if width != 605 {
		t.Fatalf("expected latest callback to run, got width %d", width)
	}
}

func TestCoalescerKeepsKeysIndependent(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	host, surface := false, false
	c.Post(KeyHostResize, func() { host = true })
	c.Post(KeySurfaceResize, func() { surface = true })

	if len(queue) != 2 {
		t.Fatalf("expected 2 scheduled callbacks, got %d", len(queue))
	}
	for _, fn := range queue {
		fn()
	}

	if !host || !surface {
		t.Fatalf("expected both keys to run, got host=%v surface=%v", host, surface)
	}
}

func TestCoalescerReschedulesAfterDelivery(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	runs := 0
	c.Post(KeyPreviewLayout, func() { runs++ })
	queue[0]()
	c.Post(KeyPreviewLayout, func() { runs++ })

	if len(queue) != 2 {
		t.Fatalf("expected a fresh callback after delivery, got %d", len(queue))
	}
	queue[1]()

	if runs != 2 {
		t.Fatalf("expected both passes to run, got %d", runs)
	}
}

func TestCoalescerDropsWorkAfterDestroy(t *testing.T) {
	queue := make([]func(), 0, 4)
	c := NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	ran := false
	c.Post(KeyHostResize, func() { ran = true })
	c.Destroy()

	if len(queue) != 1 {
		t.Fatalf("expected one queued callback before destroy, got %d", len(queue))
	}
	queue[0]()

	if ran {
		t.Fatalf("expected queued work to be dropped after destroy")
	}

	c.Post(KeyHostResize, func() { ran = true })
	if len(queue) != 1 {
		t.Fatalf("expected no new callback after destroy, got %d", len(queue))
	}
}

func TestNewCoalescerPanicsOnNilPost(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected NewCoalescer to panic when post is nil")
		}
	}()

	_ = NewCoalescer(nil)
}
