// Package media provides the frame producer boundary of the video
// subsystem: camera capture, producer ownership, and screenshot saving.
package media

import (
	"errors"
	"image"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrSlotOccupied is returned when attaching to a slot that already
	// holds a producer. Detach first; producers are never shared.
	ErrSlotOccupied = errors.New("media: producer slot occupied")
	// ErrNoProducer is returned when reading from an empty slot.
	ErrNoProducer = errors.New("media: no producer attached")
)

// Producer is a source of video frames. Frame returns the most recent
// frame, or ok=false when none has arrived yet.
type Producer interface {
	ID() uuid.UUID
	Frame() (img image.Image, ok bool)
}

// ProducerSlot holds at most one producer for one consumer. A consumer
// that wants a producer already held elsewhere must have it detached
// there first: ownership moves, it is never shared.
type ProducerSlot struct {
	mu       sync.Mutex
	producer Producer
}

// NewProducerSlot returns an empty slot.
func NewProducerSlot() *ProducerSlot {
	return &ProducerSlot{}
}

// Attach places a producer in the slot. Attaching to an occupied slot
// fails, even with the same producer.
func (s *ProducerSlot) Attach(p Producer) error {
	if p == nil {
		return ErrNoProducer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.producer != nil {
		return ErrSlotOccupied
	}
	s.producer = p
	return nil
}

// Detach empties the slot and returns the producer it held, if any.
func (s *ProducerSlot) Detach() Producer {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.producer
	s.producer = nil
	return p
}

// Producer returns the attached producer, or nil.
func (s *ProducerSlot) Producer() Producer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.producer
}

// Occupied reports whether a producer is attached.
func (s *ProducerSlot) Occupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.producer != nil
}

// Frame returns the latest frame from the attached producer.
func (s *ProducerSlot) Frame() (image.Image, error) {
	s.mu.Lock()
	p := s.producer
	s.mu.Unlock()
	if p == nil {
		return nil, ErrNoProducer
	}
	img, ok := p.Frame()
	if !ok {
		return nil, ErrNoProducer
	}
	return img, nil
}
