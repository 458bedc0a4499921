package video

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skylarkphone/skylark/internal/logging"
	"github.com/skylarkphone/skylark/internal/media"
	"github.com/skylarkphone/skylark/internal/ui/geometry"
)

// Placement is where the surface currently lives.
type Placement int

const (
	// PlacementDocked fills the top of the session window's content area.
	PlacementDocked Placement = iota
	// PlacementDetached floats as a frameless always-on-top window.
	PlacementDetached
	// PlacementFullscreen covers the whole screen.
	PlacementFullscreen
)

var placementNames = map[Placement]string{
	PlacementDocked:     "docked",
	PlacementDetached:   "detached",
	PlacementFullscreen: "fullscreen",
}

func (p Placement) String() string {
	if name, ok := placementNames[p]; ok {
		return name
	}
	return "unknown"
}

const (
	// Floating window height and inset from the work area's top-right
	// corner when the surface detaches.
	detachedHeight = 261
	detachedInset  = 10

	// Vertical space the docked surface leaves for the chat area below it.
	dockedReservedHeight = 175

	// Smallest docked extent a degenerate host collapses to. The hint
	// must stay a valid rect so SetSizeRequest never sees a negative.
	minDockedExtent = 1

	detachDuration        = 200 * time.Millisecond
	previewShrinkDuration = 500 * time.Millisecond
)

// SessionActions is the session-layer side of the overlay's tool
// buttons.
type SessionActions interface {
	SetMuted(muted bool)
	SetHold(hold bool)
	// EndVideo removes the video stream, or ends the session when video
	// is all it carries.
	EndVideo()
}

// ControllerDeps collects the collaborators of a PlacementController.
type ControllerDeps struct {
	Surface   Surface
	Cover     Cover
	Host      Host
	Preview   PreviewWidget
	Screen    ScreenArea
	Controls  ControlBar
	Scheduler FrameScheduler
	Session   SessionActions

	// ScreenshotDir receives captured frames.
	ScreenshotDir string
}

// PlacementController owns the overlay's placement state machine, its
// transition animations, the camera preview position, the active
// control set, and the producer handoff for both video surfaces.
type PlacementController struct {
	deps       ControllerDeps
	positioner *PreviewPositioner
	animator   *Animator
	controls   *ControlSet
	idle       *IdleMonitor

	overlaySlot *media.ProducerSlot
	previewSlot *media.ProducerSlot

	mu sync.Mutex
	// placement is authoritative the moment a transition is requested;
	// animations only decorate it.
	placement Placement
	// fullscreenFromDetached remembers where fullscreen was entered
	// from, to restore that placement on exit.
	fullscreenFromDetached bool
	hasFrame               bool
	// previewArmed is set once the preview has shrunk out of the way
	// and the user may drag or resize it again.
	previewArmed bool

	logger zerolog.Logger
}

// NewPlacementController wires a controller to its widgets. The surface
// starts docked and hidden.
func NewPlacementController(ctx context.Context, deps ControllerDeps) *PlacementController {
	logger := logging.FromContext(ctx).With().Str("component", "placement-controller").Logger()

	c := &PlacementController{
		deps:        deps,
		positioner:  NewPreviewPositioner(logger),
		animator:    NewAnimator(deps.Scheduler, logger),
		controls:    NewControlSet(deps.Controls),
		overlaySlot: media.NewProducerSlot(),
		previewSlot: media.NewProducerSlot(),
		logger:      logger,
	}
	c.idle = NewIdleMonitor(deps.Scheduler, c.onIdle, c.onWake)
	return c
}

// Placement returns the surface's current placement.
func (c *PlacementController) Placement() Placement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placement
}

// HasFrame reports whether the remote producer is attached and
// delivering. The surface stays visible without frames so the layout
// does not collapse while video recovers.
func (c *PlacementController) HasFrame() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasFrame
}

// GeometryHint returns the rect the surface should occupy while
// docked: the host's full width at 4:3, capped so the chat area below
// keeps its minimum height. Hosts too small to honor the reservation
// yield the minimum valid size instead of a negative one.
func (c *PlacementController) GeometryHint() geometry.Rect {
	host := c.deps.Host.Rect()
	w := host.Width
	if w < minDockedExtent {
		w = minDockedExtent
	}
	h := geometry.AspectHeightForWidth(w)
	if maxH := host.Height - dockedReservedHeight; h > maxH {
		h = maxH
	}
	if h < minDockedExtent {
		h = minDockedExtent
	}
	return geometry.Rect{Width: w, Height: h}
}

// surfaceScreenRect returns the surface's current rect in screen
// coordinates.
func (c *PlacementController) surfaceScreenRect() geometry.Rect {
	return geometry.RectAt(c.deps.Surface.GlobalOrigin(), c.deps.Surface.Geometry().Size())
}

// Detach floats the surface: it leaves its parent under a snapshot
// cover, then glides to the top-right corner of the work area. A
// repeated request is ignored; a request while the opposite glide is
// in flight abandons it and starts from the interpolated geometry.
func (c *PlacementController) Detach() {
	c.mu.Lock()
	if c.placement == PlacementDetached {
		c.mu.Unlock()
		return
	}
	wasFullscreen := c.placement == PlacementFullscreen
	c.placement = PlacementDetached
	c.fullscreenFromDetached = false
	c.mu.Unlock()

	c.animator.Cancel(TargetOverlay)
	if wasFullscreen {
		c.deps.Surface.ExitFullscreen()
	}

	screenArea := c.deps.Screen.AvailableGeometry()
	start := c.surfaceScreenRect()
	final := geometry.Rect{
		X:      screenArea.Right() - geometry.AspectWidthForHeight(detachedHeight) - detachedInset,
		Y:      screenArea.Y + detachedInset,
		Width:  geometry.AspectWidthForHeight(detachedHeight),
		Height: detachedHeight,
	}

	// An abandoned attach glide leaves the surface top-level already;
	// only an actually docked surface needs the cover protocol.
	if !wasFullscreen && !c.deps.Surface.IsTopLevel() {
		c.reparentWithCover(false, start)
	}

	c.controls.SetChecked(ControlDetach, true)
	c.controls.SetChecked(ControlFullscreen, false)

	c.animator.Animate(TargetOverlay, start, final, detachDuration, EasingOutQuad,
		c.deps.Surface.SetGeometry,
		func(completed bool) {
			if !completed {
				return
			}
			c.controls.SetActive(ControlMute, true)
			c.controls.SetActive(ControlHold, true)
			c.controls.SetActive(ControlClose, true)
			c.deps.Surface.SetCursorHidden(false)
		})
	c.logger.Debug().Msg("surface detached")
}

// Attach glides the floating surface back over its docked position and
// re-parents it there under a snapshot cover once the animation lands.
func (c *PlacementController) Attach() {
	c.mu.Lock()
	if c.placement == PlacementDocked {
		c.mu.Unlock()
		return
	}
	wasFullscreen := c.placement == PlacementFullscreen
	c.placement = PlacementDocked
	c.fullscreenFromDetached = false
	c.mu.Unlock()

	c.animator.Cancel(TargetOverlay)
	if wasFullscreen {
		c.deps.Surface.ExitFullscreen()
	}

	start := c.surfaceScreenRect()
	final := c.GeometryHint().Translated(
		c.deps.Host.GlobalOrigin().X, c.deps.Host.GlobalOrigin().Y)

	c.deps.Host.ShowWindow()
	c.controls.SetChecked(ControlDetach, false)
	c.controls.SetChecked(ControlFullscreen, false)

	c.animator.Animate(TargetOverlay, start, final, detachDuration, EasingInQuad,
		c.deps.Surface.SetGeometry,
		func(completed bool) {
			if !completed {
				return
			}
			c.reparentWithCover(true, geometry.Rect{})
			c.controls.SetActive(ControlMute, false)
			c.controls.SetActive(ControlHold, false)
			c.controls.SetActive(ControlClose, false)
			c.deps.Surface.SetCursorHidden(false)
		})
	c.logger.Debug().Msg("surface attaching")
}

// EnterFullscreen covers the screen. From docked placement the surface
// first becomes top-level at its current screen position so the
// fullscreen transition starts where the user sees it.
func (c *PlacementController) EnterFullscreen() {
	c.mu.Lock()
	if c.placement == PlacementFullscreen {
		c.mu.Unlock()
		return
	}
	fromDetached := c.placement == PlacementDetached
	c.placement = PlacementFullscreen
	c.fullscreenFromDetached = fromDetached
	c.mu.Unlock()

	c.animator.SkipToEnd(TargetOverlay)

	if !fromDetached {
		rect := c.surfaceScreenRect()
		c.deps.Surface.MakeTopLevel()
		c.deps.Surface.SetGeometry(rect)
		c.deps.Surface.Show()
	}

	// The preview is pinned to its small corner size while the remote
	// video covers the screen; drags and resizes resume on exit.
	c.animator.Cancel(TargetPreview)
	shrunk := c.positioner.ShrunkRect()
	c.deps.Preview.SetGeometry(shrunk)
	c.positioner.SetRect(shrunk)
	c.deps.Preview.SetInteractive(false)

	c.controls.SetActive(ControlDetach, false)
	c.controls.SetActive(ControlMute, true)
	c.controls.SetActive(ControlHold, true)
	c.controls.SetActive(ControlClose, true)
	c.controls.SetChecked(ControlFullscreen, true)

	c.deps.Surface.EnterFullscreen()
	c.deps.Surface.SetCursorHidden(false)
	c.logger.Debug().Bool("from_detached", fromDetached).Msg("entered fullscreen")
}

// ExitFullscreen restores the placement fullscreen was entered from.
func (c *PlacementController) ExitFullscreen() {
	c.mu.Lock()
	if c.placement != PlacementFullscreen {
		c.mu.Unlock()
		return
	}
	toDetached := c.fullscreenFromDetached
	if toDetached {
		c.placement = PlacementDetached
	} else {
		c.placement = PlacementDocked
	}
	c.mu.Unlock()

	c.deps.Surface.ExitFullscreen()

	if !toDetached {
		// Pin the docked geometry before re-parenting so the surface does
		// not flash at its fullscreen size while unmapped.
		c.deps.Surface.SetGeometry(c.GeometryHint())
		c.deps.Surface.DockInto(c.deps.Host)
		c.deps.Surface.SetGeometry(c.GeometryHint())
		c.controls.SetActive(ControlMute, false)
		c.controls.SetActive(ControlHold, false)
		c.controls.SetActive(ControlClose, false)
	}
	c.controls.SetActive(ControlDetach, true)
	c.controls.SetChecked(ControlFullscreen, false)

	c.mu.Lock()
	armed := c.previewArmed
	c.mu.Unlock()
	c.deps.Preview.SetInteractive(armed)

	c.deps.Host.ShowWindow()
	c.deps.Surface.SetCursorHidden(false)
	c.logger.Debug().Stringer("placement", c.Placement()).Msg("exited fullscreen")
}

// ToggleFullscreen reacts to the fullscreen control.
func (c *PlacementController) ToggleFullscreen(on bool) {
	if on {
		c.EnterFullscreen()
	} else {
		c.ExitFullscreen()
	}
}

// ToggleDetached reacts to the detach control.
func (c *PlacementController) ToggleDetached(on bool) {
	if on {
		c.Detach()
	} else {
		c.Attach()
	}
}

// SetVisible shows or hides the surface. Hiding while fullscreen exits
// fullscreen first so the compositor never keeps an invisible
// fullscreen window.
func (c *PlacementController) SetVisible(visible bool) {
	if !visible && c.Placement() == PlacementFullscreen {
		c.ExitFullscreen()
	}
	c.deps.Surface.SetVisible(visible)
}

// HostResized keeps the docked surface on its geometry hint. A resize
// during the attach animation re-aims the animation instead of fighting
// it.
func (c *PlacementController) HostResized() {
	if c.Placement() != PlacementDocked {
		return
	}
	if c.animator.Running(TargetOverlay) {
		final := c.GeometryHint().Translated(
			c.deps.Host.GlobalOrigin().X, c.deps.Host.GlobalOrigin().Y)
		c.animator.Retarget(TargetOverlay, final)
		return
	}
	c.deps.Surface.SetGeometry(c.GeometryHint())
}

// SurfaceResized repositions the camera preview after the surface
// changed size, preserving the preview's gravity zone. Resizes during
// the preview shrink animation are ignored.
func (c *PlacementController) SurfaceResized(oldSize, newSize geometry.Size) {
	if c.animator.Running(TargetPreview) {
		return
	}
	if rect, changed := c.positioner.HostResized(oldSize, newSize); changed {
		c.deps.Preview.SetGeometry(rect)
	}
}

// SessionWillConnect prepares the surface for a new video session: it
// docks, clears the control set, and lets the camera preview fill the
// surface while the remote side negotiates.
func (c *PlacementController) SessionWillConnect(camera media.Producer) {
	c.animator.Cancel(TargetOverlay)
	c.animator.Cancel(TargetPreview)

	c.mu.Lock()
	c.placement = PlacementDocked
	c.fullscreenFromDetached = false
	c.previewArmed = false
	c.mu.Unlock()

	c.deps.Surface.DockInto(c.deps.Host)
	c.deps.Surface.SetGeometry(c.GeometryHint())
	c.controls.SetChecked(ControlDetach, false)
	c.controls.DeactivateAll()
	c.idle.Stop()

	surfaceRect := geometry.Rect{
		Width:  c.deps.Surface.Geometry().Width,
		Height: c.deps.Surface.Geometry().Height,
	}
	c.deps.Preview.SetMaxHeight(0) // unbounded while the preview fills the surface
	c.deps.Preview.SetGeometry(surfaceRect)
	c.deps.Preview.SetInteractive(false)
	c.deps.Preview.Lower()
	c.positioner.SetRect(surfaceRect)
	c.positioner.ResetScale()

	c.previewSlot.Detach()
	if camera != nil {
		if err := c.previewSlot.Attach(camera); err != nil {
			c.logger.Warn().Err(err).Msg("failed to attach camera producer")
		}
	}

	c.deps.Surface.SetCursorHidden(false)
	c.deps.Surface.Show()
	c.logger.Debug().Msg("session connecting")
}

// SessionDidConnect hands the remote producer to the overlay. A nil
// producer means the video stream did not come up: the surface stays
// visible without frames.
func (c *PlacementController) SessionDidConnect(remote media.Producer) {
	c.overlaySlot.Detach()

	c.mu.Lock()
	c.hasFrame = remote != nil
	c.mu.Unlock()

	if remote == nil {
		c.logger.Warn().Msg("session connected without remote video")
		return
	}
	if err := c.overlaySlot.Attach(remote); err != nil {
		c.logger.Warn().Err(err).Msg("failed to attach remote producer")
		c.mu.Lock()
		c.hasFrame = false
		c.mu.Unlock()
	}
}

// SessionDidEnd hides the surface and releases both producers.
func (c *PlacementController) SessionDidEnd() {
	c.SetVisible(false)
	c.overlaySlot.Detach()
	c.previewSlot.Detach()

	c.mu.Lock()
	c.hasFrame = false
	c.previewArmed = false
	c.mu.Unlock()

	c.idle.Stop()
	c.logger.Debug().Msg("session ended")
}

// Teardown cancels timers and animations when the session item goes
// away for good.
func (c *PlacementController) Teardown() {
	c.animator.Cancel(TargetOverlay)
	c.animator.Cancel(TargetPreview)
	c.idle.Stop()
	c.overlaySlot.Detach()
	c.previewSlot.Detach()
}

// KeyFrameReceived fires on the first decodable remote frame. If the
// preview still covers the surface, it shrinks into the top-left corner
// and the overlay controls come alive when it lands.
func (c *PlacementController) KeyFrameReceived() {
	if c.animator.Running(TargetPreview) {
		return
	}
	surfaceSize := c.deps.Surface.Geometry().Size()
	if c.deps.Preview.Geometry().Size() != surfaceSize {
		return
	}

	from := geometry.Rect{Width: surfaceSize.Width, Height: surfaceSize.Height}
	to := c.positioner.ShrunkRect()

	c.idle.SetSuspended(true)
	c.animator.Animate(TargetPreview, from, to, previewShrinkDuration, EasingOutQuad,
		func(r geometry.Rect) {
			c.deps.Preview.SetGeometry(r)
			c.positioner.SetRect(r)
		},
		func(completed bool) {
			c.idle.SetSuspended(false)
			if !completed {
				return
			}
			c.mu.Lock()
			c.previewArmed = true
			c.mu.Unlock()
			c.deps.Preview.SetMaxHeight(previewMaxHeight)
			c.deps.Preview.SetInteractive(true)
			c.controls.SetActive(ControlDetach, true)
			c.controls.SetActive(ControlFullscreen, true)
			c.controls.SetActive(ControlScreenshot, true)
			c.deps.Surface.SetCursorHidden(false)
			c.idle.Start()
		})
	c.logger.Debug().Msg("preview shrinking")
}

// RemoteFormatChanged re-applies the docked geometry hint when the
// remote video's aspect or size changes.
func (c *PlacementController) RemoteFormatChanged() {
	if c.Placement() == PlacementDocked {
		c.deps.Surface.SetGeometry(c.GeometryHint())
	}
}

// CameraChanged swaps the preview's producer for a new camera.
func (c *PlacementController) CameraChanged(camera media.Producer) {
	c.previewSlot.Detach()
	if camera == nil {
		return
	}
	if err := c.previewSlot.Attach(camera); err != nil {
		c.logger.Warn().Err(err).Msg("failed to attach new camera producer")
	}
}

// PreviewAdjusted records a user drag or resize of the preview.
func (c *PlacementController) PreviewAdjusted(old, updated geometry.Rect) {
	c.positioner.AdjustedByUser(old, updated, c.deps.Surface.Geometry().Height)
}

// SetPreviewScale imposes a preview size preference from the session
// layer and resizes the preview in place, keeping its gravity anchor.
// While the preview still fills the surface (or is animating) only the
// factor is stored; it takes effect when the preview shrinks.
func (c *PlacementController) SetPreviewScale(value float64) {
	c.positioner.SetScaleFactor(value)
	if c.animator.Running(TargetPreview) {
		return
	}

	surface := c.deps.Surface.Geometry()
	current := c.positioner.Rect()
	if !current.Size().IsValid() || current.Size() == surface.Size() {
		return
	}

	h := c.positioner.DefaultHeight(surface.Height)
	sized := geometry.Rect{
		Width:  geometry.AspectWidthForHeight(h),
		Height: h,
	}
	g := geometry.ClassifyGravity(current, surface.Size())
	rect := geometry.Reanchor(sized, g, current, geometry.Rect{Width: surface.Width, Height: surface.Height})
	c.positioner.SetRect(rect)
	c.deps.Preview.SetGeometry(rect)
}

// InteractionStarted suspends idle hiding and repositioning while the
// user drags the preview or the floating surface.
func (c *PlacementController) InteractionStarted() {
	c.positioner.SetInteracting(true)
	c.controls.ShowActive()
	c.idle.Stop()
}

// InteractionEnded resumes the idle countdown.
func (c *PlacementController) InteractionEnded() {
	c.positioner.SetInteracting(false)
	c.controls.ShowActive()
	c.idle.Start()
}

// PointerMoved forwards pointer motion over the surface.
func (c *PlacementController) PointerMoved() {
	c.idle.PointerMoved()
}

// PointerEnteredControl pauses the idle countdown over a tool button.
func (c *PlacementController) PointerEnteredControl() {
	c.idle.PointerEnteredControl()
}

// PointerLeftControl resumes the idle countdown.
func (c *PlacementController) PointerLeftControl() {
	c.idle.PointerLeftControl()
}

// MuteToggled, HoldToggled and CloseClicked forward the session
// controls.
func (c *PlacementController) MuteToggled(muted bool) {
	if c.deps.Session != nil {
		c.deps.Session.SetMuted(muted)
	}
}

func (c *PlacementController) HoldToggled(hold bool) {
	if c.deps.Session != nil {
		c.deps.Session.SetHold(hold)
	}
}

func (c *PlacementController) CloseClicked() {
	if c.deps.Session != nil {
		c.deps.Session.EndVideo()
	}
}

// MuteStateChanged and HoldStateChanged sync button state with changes
// made elsewhere (settings, the other party).
func (c *PlacementController) MuteStateChanged(muted bool) {
	c.controls.SetChecked(ControlMute, muted)
}

func (c *PlacementController) HoldStateChanged(hold bool) {
	c.controls.SetChecked(ControlHold, hold)
}

// CaptureFrame saves the overlay's current frame as a screenshot and
// returns its path.
func (c *PlacementController) CaptureFrame(ctx context.Context) (string, error) {
	img, err := c.overlaySlot.Frame()
	if err != nil {
		return "", err
	}
	return media.NewScreenshot(img, c.deps.ScreenshotDir).Save(ctx)
}

// Controls exposes the control set for widget wiring.
func (c *PlacementController) Controls() *ControlSet {
	return c.controls
}

// Animator exposes the animator so the session window can drive test
// clocks and diagnostics.
func (c *PlacementController) Animator() *Animator {
	return c.animator
}

// onIdle hides the active controls and the pointer.
func (c *PlacementController) onIdle() {
	c.controls.HideActive()
	c.deps.Surface.SetCursorHidden(true)
}

// onWake restores them on the next pointer move.
func (c *PlacementController) onWake() {
	c.controls.ShowActive()
	c.deps.Surface.SetCursorHidden(false)
}

// reparentWithCover moves the surface between the host and a top-level
// window without the unmap flashing through: the cover shows a frozen
// snapshot over the surface's screen rect until the surface is mapped
// at its destination.
func (c *PlacementController) reparentWithCover(dock bool, screenRect geometry.Rect) {
	snap, ok := c.deps.Surface.Grab()
	if ok {
		c.deps.Cover.SetSnapshot(snap)
		c.deps.Cover.SetScreenGeometry(c.surfaceScreenRect())
		c.deps.Cover.Show()
		c.deps.Cover.Raise()
	}

	if dock {
		c.deps.Surface.DockInto(c.deps.Host)
		c.deps.Surface.SetGeometry(c.GeometryHint())
	} else {
		c.deps.Surface.MakeTopLevel()
		c.deps.Surface.SetGeometry(screenRect)
	}
	c.deps.Surface.Show()

	if ok {
		c.deps.Cover.Hide()
	}
}
