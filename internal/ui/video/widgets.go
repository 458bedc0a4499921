// Package video implements the floating video overlay of a session
// window: a surface that can dock into the chat area, float as a
// frameless always-on-top window, or go fullscreen, with a draggable
// camera preview pinned inside it.
//
// Placement, animation, and preview positioning are written against the
// narrow interfaces below so the logic runs without a GTK runtime; the
// adapters in gtk.go bind them to real widgets.
package video

import (
	"time"

	"github.com/skylarkphone/skylark/internal/ui/geometry"
)

// Snapshot is an opaque still image of a widget, used to occlude it
// while it is re-parented.
type Snapshot interface {
	Size() geometry.Size
}

// Surface is the video overlay widget. Its geometry is host-local while
// docked and in screen coordinates while top-level.
type Surface interface {
	Geometry() geometry.Rect
	SetGeometry(geometry.Rect)
	// GlobalOrigin returns the surface's top-left in screen coordinates.
	GlobalOrigin() geometry.Point

	Show()
	Hide()
	SetVisible(visible bool)
	IsVisible() bool

	// DockInto re-parents the surface into the host container.
	DockInto(host Host)
	// MakeTopLevel removes the surface from its parent and presents it
	// as a frameless always-on-top window.
	MakeTopLevel()
	IsTopLevel() bool

	EnterFullscreen()
	ExitFullscreen()
	IsFullscreen() bool

	// Grab captures the surface's current pixels. ok is false when the
	// surface is not realized yet.
	Grab() (snap Snapshot, ok bool)

	SetCursorHidden(hidden bool)
}

// Cover is the static widget shown over the surface's screen area while
// it is re-parented, so the unmap/map cycle never reaches the screen.
type Cover interface {
	SetSnapshot(snap Snapshot)
	SetScreenGeometry(r geometry.Rect)
	Show()
	Hide()
	Raise()
}

// Host is the container the surface docks into: the session window's
// content area.
type Host interface {
	// Rect returns the host's local rect, origin (0, 0).
	Rect() geometry.Rect
	GlobalOrigin() geometry.Point
	// ShowWindow presents the window holding the host.
	ShowWindow()
}

// PreviewWidget is the camera preview child of the surface. Its
// geometry is always surface-local.
type PreviewWidget interface {
	Geometry() geometry.Rect
	SetGeometry(geometry.Rect)
	// SetInteractive enables dragging and resizing by the user.
	SetInteractive(interactive bool)
	SetMaxHeight(height int)
	// Lower keeps the preview under the tool controls.
	Lower()
}

// ScreenArea reports the usable desktop area for the surface's monitor,
// excluding panels and docks.
type ScreenArea interface {
	AvailableGeometry() geometry.Rect
}

// FrameScheduler abstracts main-loop timeout sources. The glib
// implementation backs production; tests drive time by hand.
type FrameScheduler interface {
	// AddTimeout runs fn every interval until fn returns false.
	// The returned id cancels the source via RemoveTimeout.
	AddTimeout(interval time.Duration, fn func() bool) uint
	RemoveTimeout(id uint)
	Now() time.Time
}
