// Package window provides GTK window implementations.
package window

import (
	"context"

	"github.com/jwijenbergh/puregotk/v4/gobject"
	"github.com/jwijenbergh/puregotk/v4/gtk"
	"github.com/rs/zerolog"

	"github.com/skylarkphone/skylark/internal/config"
	"github.com/skylarkphone/skylark/internal/logging"
	"github.com/skylarkphone/skylark/internal/ui/geometry"
	"github.com/skylarkphone/skylark/internal/ui/mainloop"
	"github.com/skylarkphone/skylark/internal/ui/video"
)

const (
	defaultWidth  = 640
	defaultHeight = 700
	windowTitle   = "Skylark"
)

// SessionWindow is the chat/video window of one call session. It hosts
// the chat area and the video surface, and feeds window events to the
// video placement controller.
type SessionWindow struct {
	window         *gtk.ApplicationWindow
	rootBox        *gtk.Box     // Vertical: content overlay + chat area
	contentOverlay *gtk.Overlay // The video surface docks in here
	chatArea       *gtk.Box

	host       *video.GtkHost
	surface    *video.GtkSurface
	preview    *video.GtkPreview
	cover      *video.GtkCover
	controlBar *video.GtkControlBar
	controller *video.PlacementController
	coalescer  *mainloop.Coalescer

	ctx    context.Context
	cfg    *config.Config
	logger zerolog.Logger
}

// New creates a session window wired to the given session actions.
func New(ctx context.Context, app *gtk.Application, cfg *config.Config, session video.SessionActions) (*SessionWindow, error) {
	log := logging.FromContext(ctx)

	sw := &SessionWindow{
		ctx:    ctx,
		cfg:    cfg,
		logger: log.With().Str("component", "session-window").Logger(),
	}

	// Create the application window
	sw.window = gtk.NewApplicationWindow(app)
	if sw.window == nil {
		return nil, ErrWindowCreationFailed
	}

	title := windowTitle
	sw.window.SetTitle(&title)
	sw.window.SetDefaultSize(defaultWidth, defaultHeight)

	// Create root container (vertical box)
	sw.rootBox = gtk.NewBox(gtk.OrientationVerticalValue, 0)
	if sw.rootBox == nil {
		sw.window.Unref()
		return nil, ErrWidgetCreationFailed("rootBox")
	}
	sw.rootBox.SetHexpand(true)
	sw.rootBox.SetVexpand(true)
	sw.rootBox.SetVisible(true)

	// Create content overlay (the video surface docks in here)
	sw.contentOverlay = gtk.NewOverlay()
	if sw.contentOverlay == nil {
		sw.rootBox.Unref()
		sw.window.Unref()
		return nil, ErrWidgetCreationFailed("contentOverlay")
	}
	sw.contentOverlay.SetHexpand(true)
	sw.contentOverlay.SetVexpand(true)
	sw.contentOverlay.SetVisible(true)

	// Create chat area below the video
	sw.chatArea = gtk.NewBox(gtk.OrientationVerticalValue, 0)
	if sw.chatArea == nil {
		sw.contentOverlay.Unref()
		sw.rootBox.Unref()
		sw.window.Unref()
		return nil, ErrWidgetCreationFailed("chatArea")
	}
	sw.chatArea.SetHexpand(true)
	sw.chatArea.SetVisible(true)
	sw.chatArea.AddCssClass("chat-area")

	sw.rootBox.Append(&sw.contentOverlay.Widget)
	sw.rootBox.Append(&sw.chatArea.Widget)
	sw.window.SetChild(&sw.rootBox.Widget)

	sw.coalescer = mainloop.NewGLibCoalescer()
	sw.host = video.NewGtkHost(sw.contentOverlay, &sw.window.Window)

	// Video widget tree: surface, camera preview, tool buttons.
	sw.surface = video.NewGtkSurface(sw.onSurfaceResized)
	if cfg.Video.AlwaysOnTop {
		sw.surface.SetFloatParent(&sw.window.Window)
	}
	sw.preview = video.NewGtkPreview(sw.surface, sw.onPreviewAdjusted)
	sw.controlBar = video.NewGtkControlBar(sw.surface, sw.onControlToggled)
	sw.cover = video.NewGtkCover()

	sw.controller = video.NewPlacementController(ctx, video.ControllerDeps{
		Surface:       sw.surface,
		Cover:         sw.cover,
		Host:          sw.host,
		Preview:       sw.preview,
		Screen:        video.NewGtkScreenArea(sw.window.GetDisplay()),
		Controls:      sw.controlBar,
		Scheduler:     video.GLibScheduler{},
		Session:       session,
		ScreenshotDir: cfg.Video.ScreenshotsDir,
	})

	sw.wirePointerEvents()
	sw.wireResizeEvents()

	return sw, nil
}

// wirePointerEvents forwards pointer activity over the surface and the
// tool buttons to the idle monitor.
func (sw *SessionWindow) wirePointerEvents() {
	surfaceMotion := gtk.NewEventControllerMotion()
	if surfaceMotion != nil {
		motionCb := func(_ gtk.EventControllerMotion, _ float64, _ float64) {
			sw.controller.PointerMoved()
		}
		surfaceMotion.ConnectMotion(&motionCb)
		sw.surface.Root().AddController(&surfaceMotion.EventController)
	}

	barMotion := gtk.NewEventControllerMotion()
	if barMotion != nil {
		enterCb := func(_ gtk.EventControllerMotion, _ float64, _ float64) {
			sw.controller.PointerEnteredControl()
		}
		leaveCb := func(_ gtk.EventControllerMotion) {
			sw.controller.PointerLeftControl()
		}
		barMotion.ConnectEnter(&enterCb)
		barMotion.ConnectLeave(&leaveCb)
		sw.controlBar.Root().AddController(&barMotion.EventController)
	}
}

// wireResizeEvents coalesces window size notifications into host bound
// updates for the controller.
func (sw *SessionWindow) wireResizeEvents() {
	notifyCb := func(_ gobject.Object, _ uintptr) {
		sw.coalescer.Post(mainloop.KeyHostResize, sw.refreshHostBounds)
	}
	sw.window.ConnectNotifyWithDetail("default-width", &notifyCb)
	sw.window.ConnectNotifyWithDetail("default-height", &notifyCb)

	mapCb := func(_ gtk.Widget) {
		sw.refreshHostBounds()
	}
	sw.contentOverlay.ConnectMap(&mapCb)
}

// refreshHostBounds reads the content overlay's allocation and lets the
// controller re-apply the docked geometry hint.
func (sw *SessionWindow) refreshHostBounds() {
	size := geometry.Size{
		Width:  sw.contentOverlay.GetAllocatedWidth(),
		Height: sw.contentOverlay.GetAllocatedHeight(),
	}
	if !size.IsValid() {
		return
	}
	// Window origins are not observable on Wayland; the host anchors the
	// screen-coordinate space at zero.
	sw.host.UpdateBounds(geometry.Point{}, size)
	sw.controller.HostResized()
}

// onSurfaceResized reruns the preview layout after the surface changed
// size, one pass per resize burst.
func (sw *SessionWindow) onSurfaceResized(oldSize, newSize geometry.Size) {
	sw.coalescer.Post(mainloop.KeySurfaceResize, func() {
		sw.controller.SurfaceResized(oldSize, newSize)
	})
}

// onPreviewAdjusted records preview drags, one scale rebase per burst
// of motion events.
func (sw *SessionWindow) onPreviewAdjusted(old, updated geometry.Rect) {
	sw.coalescer.Post(mainloop.KeyPreviewLayout, func() {
		sw.controller.PreviewAdjusted(old, updated)
	})
}

// onControlToggled dispatches the overlay tool buttons.
func (sw *SessionWindow) onControlToggled(c video.Control, checked bool) {
	switch c {
	case video.ControlDetach:
		sw.controller.ToggleDetached(checked)
	case video.ControlFullscreen:
		sw.controller.ToggleFullscreen(checked)
	case video.ControlScreenshot:
		if !checked {
			return
		}
		// The button is not a state toggle; uncheck it right away.
		sw.controlBar.SetControlChecked(video.ControlScreenshot, false)
		go sw.captureFrame()
	case video.ControlMute:
		sw.controller.MuteToggled(checked)
	case video.ControlHold:
		sw.controller.HoldToggled(checked)
	case video.ControlClose:
		if checked {
			sw.controlBar.SetControlChecked(video.ControlClose, false)
			sw.controller.CloseClicked()
		}
	}
}

func (sw *SessionWindow) captureFrame() {
	path, err := sw.controller.CaptureFrame(sw.ctx)
	if err != nil {
		sw.logger.Warn().Err(err).Msg("failed to capture video frame")
		return
	}
	sw.logger.Info().Str("path", path).Msg("video frame captured")
}

// Controller returns the video placement controller for session wiring.
func (sw *SessionWindow) Controller() *video.PlacementController {
	return sw.controller
}

// SurfacePicture returns the remote video picture for frame delivery.
func (sw *SessionWindow) SurfacePicture() *gtk.Picture {
	return sw.surface.Picture()
}

// PreviewPicture returns the camera preview picture for frame delivery.
func (sw *SessionWindow) PreviewPicture() *gtk.Picture {
	return sw.preview.Picture()
}

// ChatArea returns the box below the video for chat widgets.
func (sw *SessionWindow) ChatArea() *gtk.Box {
	return sw.chatArea
}

// Window returns the underlying GTK window.
func (sw *SessionWindow) Window() *gtk.ApplicationWindow {
	return sw.window
}

// Show makes the window visible.
func (sw *SessionWindow) Show() {
	sw.window.Present()
}

// Close closes the window.
func (sw *SessionWindow) Close() {
	sw.window.Close()
}

// Destroy cleans up window resources.
func (sw *SessionWindow) Destroy() {
	if sw.controller != nil {
		sw.controller.Teardown()
	}
	if sw.coalescer != nil {
		sw.coalescer.Destroy()
	}
	if sw.chatArea != nil {
		sw.chatArea.Unref()
		sw.chatArea = nil
	}
	if sw.rootBox != nil {
		sw.rootBox.Unref()
		sw.rootBox = nil
	}
	if sw.window != nil {
		sw.window.Destroy()
		sw.window = nil
	}
}

// WindowError represents a window-related error.
type WindowError struct {
	Message string
}

func (e WindowError) Error() string {
	return e.Message
}

// Error constants.
var (
	ErrWindowCreationFailed = WindowError{Message: "failed to create application window"}
)

// ErrWidgetCreationFailed creates an error for widget creation failure.
func ErrWidgetCreationFailed(name string) error {
	return WindowError{Message: "failed to create widget: " + name}
}
