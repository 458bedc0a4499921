package video

import (
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skylarkphone/skylark/internal/ui/geometry"
)

// Camera preview sizing. The default height tracks the host height
// through (h + 117) / 6, scaled by the user's chosen factor and held
// between the min and max bounds.
const (
	previewMinHeight     = 45
	previewMaxHeight     = 135
	previewHeightOffset  = 117
	previewHeightDivisor = 6

	// Height of the preview once the remote video arrives and the
	// preview shrinks out of the way.
	previewShrunkHeight = 81
)

// PreviewPositioner tracks the camera preview's rect inside the surface
// and keeps its gravity zone stable when the surface is resized.
type PreviewPositioner struct {
	mu          sync.Mutex
	rect        geometry.Rect
	scaleFactor float64
	interacting bool
	logger      zerolog.Logger
}

// NewPreviewPositioner creates a positioner with scale factor 1.
func NewPreviewPositioner(logger zerolog.Logger) *PreviewPositioner {
	return &PreviewPositioner{
		scaleFactor: 1.0,
		logger:      logger.With().Str("component", "preview-positioner").Logger(),
	}
}

// Rect returns the preview's current surface-local rect.
func (p *PreviewPositioner) Rect() geometry.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rect
}

// SetRect records a rect imposed from outside (animation frames, the
// connect-phase fill, user drags).
func (p *PreviewPositioner) SetRect(r geometry.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rect = r
}

// ScaleFactor returns the user's preview size preference relative to
// the default height.
func (p *PreviewPositioner) ScaleFactor() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scaleFactor
}

// ResetScale restores the default preview scale. Called when a session
// connects and the preview starts over filling the surface.
func (p *PreviewPositioner) ResetScale() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scaleFactor = 1.0
}

// SetScaleFactor imposes a preview size preference directly. Values at
// or below zero reset to the default scale.
func (p *PreviewPositioner) SetScaleFactor(value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if value <= 0 {
		value = 1.0
	}
	p.scaleFactor = value
}

// SetInteracting suppresses repositioning while the user drags or
// resizes the preview.
func (p *PreviewPositioner) SetInteracting(interacting bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interacting = interacting
}

// DefaultHeight returns the preview height for a surface of the given
// height, honoring the scale factor and the height bounds.
func (p *PreviewPositioner) DefaultHeight(surfaceHeight int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defaultHeightLocked(surfaceHeight)
}

func (p *PreviewPositioner) defaultHeightLocked(surfaceHeight int) int {
	h := int(math.Round(float64(surfaceHeight+previewHeightOffset) / previewHeightDivisor * p.scaleFactor))
	if h < previewMinHeight {
		h = previewMinHeight
	}
	if h > previewMaxHeight {
		h = previewMaxHeight
	}
	return h
}

// ShrunkRect returns the top-left rect the preview animates to once
// remote video arrives.
func (p *PreviewPositioner) ShrunkRect() geometry.Rect {
	return geometry.Rect{
		Width:  geometry.AspectWidthForHeight(previewShrunkHeight),
		Height: previewShrunkHeight,
	}
}

// HostResized recomputes the preview rect after the surface grew or
// shrank from oldSize to newSize. It reports whether the rect changed;
// callers skip the call entirely while the preview shrink animation
// runs.
func (p *PreviewPositioner) HostResized(oldSize, newSize geometry.Size) (geometry.Rect, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.interacting {
		return p.rect, false
	}
	if !oldSize.IsValid() || !newSize.IsValid() {
		return p.rect, false
	}

	// The connect phase keeps the preview covering the whole surface.
	if p.rect.Size() == oldSize {
		p.rect = geometry.Rect{X: p.rect.X, Y: p.rect.Y, Width: newSize.Width, Height: newSize.Height}
		return p.rect, true
	}

	ratio := float64(newSize.Height) / float64(oldSize.Height)
	if ratio == 1 {
		return p.rect, false
	}

	host := geometry.Rect{Width: newSize.Width, Height: newSize.Height}
	ideal := p.rect.Scaled(ratio).ClampInto(host)

	newHeight := p.defaultHeightLocked(newSize.Height)
	sized := geometry.Rect{
		Width:  geometry.AspectWidthForHeight(newHeight),
		Height: newHeight,
	}

	gravity := geometry.ClassifyGravity(p.rect.Scaled(ratio), newSize)
	p.rect = geometry.Reanchor(sized, gravity, ideal, host)

	p.logger.Debug().
		Stringer("gravity", gravity).
		Int("width", p.rect.Width).
		Int("height", p.rect.Height).
		Msg("preview repositioned")
	return p.rect, true
}

// AdjustedByUser records a drag or resize of the preview. A size change
// rebases the scale factor so future default heights follow the user's
// choice.
func (p *PreviewPositioner) AdjustedByUser(old, updated geometry.Rect, surfaceHeight int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rect = updated
	if old.Size() == updated.Size() {
		return
	}

	defaultHeight := float64(surfaceHeight+previewHeightOffset) / previewHeightDivisor
	if defaultHeight <= 0 {
		return
	}
	p.scaleFactor = float64(updated.Height) / defaultHeight
	p.logger.Debug().Float64("scale_factor", p.scaleFactor).Msg("preview scale adjusted")
}
