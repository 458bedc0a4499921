package video

import (
	"time"

	"github.com/jwijenbergh/puregotk/v4/gdk"
	"github.com/jwijenbergh/puregotk/v4/glib"
	"github.com/jwijenbergh/puregotk/v4/gtk"

	"github.com/skylarkphone/skylark/internal/ui/geometry"
)

// Compile-time interface checks.
var (
	_ Surface        = (*GtkSurface)(nil)
	_ Cover          = (*GtkCover)(nil)
	_ Host           = (*GtkHost)(nil)
	_ PreviewWidget  = (*GtkPreview)(nil)
	_ ScreenArea     = (*GtkScreenArea)(nil)
	_ ControlBar     = (*GtkControlBar)(nil)
	_ FrameScheduler = (*GLibScheduler)(nil)
	_ Snapshot       = (*paintableSnapshot)(nil)
)

// GLibScheduler backs FrameScheduler with glib timeout sources.
type GLibScheduler struct{}

func (GLibScheduler) AddTimeout(interval time.Duration, fn func() bool) uint {
	var cb glib.SourceFunc
	cb = func(_ uintptr) bool {
		return fn()
	}
	ms := uint(interval.Milliseconds())
	if ms == 0 {
		ms = 1
	}
	return glib.TimeoutAdd(ms, &cb, 0)
}

func (GLibScheduler) RemoveTimeout(id uint) {
	glib.SourceRemove(id)
}

func (GLibScheduler) Now() time.Time {
	return time.Now()
}

// paintableSnapshot wraps a gdk paintable captured from a widget.
type paintableSnapshot struct {
	paintable *gtk.WidgetPaintable
	size      geometry.Size
}

func (s *paintableSnapshot) Size() geometry.Size { return s.size }

// GtkSurface is the production video surface: a gtk.Overlay holding the
// remote video picture, the camera preview, and the tool buttons. It
// lives either inside the host's overlay stack or as the child of a
// frameless top-level window.
type GtkSurface struct {
	root    *gtk.Overlay
	picture *gtk.Picture

	window *gtk.Window // non-nil while top-level
	host   *GtkHost    // non-nil while docked

	// transientFor keeps the floating window stacked above the session
	// window; GTK4 dropped the keep-above API so transiency is the only
	// portable mechanism left.
	transientFor *gtk.Window

	rect       geometry.Rect
	fullscreen bool
	onResized  func(oldSize, newSize geometry.Size)
}

// NewGtkSurface builds the surface widget tree. onResized fires after
// every geometry change with a different size.
func NewGtkSurface(onResized func(oldSize, newSize geometry.Size)) *GtkSurface {
	s := &GtkSurface{onResized: onResized}

	s.root = gtk.NewOverlay()
	s.root.SetHexpand(true)
	s.root.SetVexpand(true)
	s.root.AddCssClass("video-surface")

	s.picture = gtk.NewPicture()
	s.picture.SetHexpand(true)
	s.picture.SetVexpand(true)
	s.root.SetChild(&s.picture.Widget)

	return s
}

// Root returns the widget for embedding overlays (preview, controls).
func (s *GtkSurface) Root() *gtk.Overlay { return s.root }

// SetFloatParent marks parent as the transient anchor for the floating
// window, keeping it stacked above the session window while detached.
// A nil parent disables the behavior.
func (s *GtkSurface) SetFloatParent(parent *gtk.Window) {
	s.transientFor = parent
	if s.window != nil {
		s.window.SetTransientFor(parent)
	}
}

// Picture returns the remote video picture for frame wiring.
func (s *GtkSurface) Picture() *gtk.Picture { return s.picture }

func (s *GtkSurface) Geometry() geometry.Rect { return s.rect }

func (s *GtkSurface) SetGeometry(r geometry.Rect) {
	old := s.rect.Size()
	s.rect = r
	s.root.SetSizeRequest(r.Width, r.Height)
	if s.window != nil {
		s.window.SetDefaultSize(r.Width, r.Height)
	}
	if s.host != nil {
		s.root.SetMarginStart(r.X)
		s.root.SetMarginTop(r.Y)
	}
	if s.onResized != nil && old != r.Size() {
		s.onResized(old, r.Size())
	}
}

func (s *GtkSurface) GlobalOrigin() geometry.Point {
	if s.host != nil {
		return s.host.GlobalOrigin().Add(s.rect.Origin())
	}
	return s.rect.Origin()
}

func (s *GtkSurface) Show()                   { s.root.Show(); s.presentWindow() }
func (s *GtkSurface) Hide()                   { s.root.Hide(); s.hideWindow() }
func (s *GtkSurface) IsVisible() bool         { return s.root.GetVisible() }
func (s *GtkSurface) SetVisible(visible bool) {
	if visible {
		s.Show()
	} else {
		s.Hide()
	}
}

func (s *GtkSurface) presentWindow() {
	if s.window != nil {
		s.window.Present()
	}
}

func (s *GtkSurface) hideWindow() {
	if s.window != nil {
		s.window.Hide()
	}
}

// DockInto moves the surface into the host's overlay stack, destroying
// the floating window if one exists.
func (s *GtkSurface) DockInto(h Host) {
	gh, ok := h.(*GtkHost)
	if !ok {
		return
	}
	s.detachFromParents()
	gh.overlay.AddOverlay(&s.root.Widget)
	s.root.SetHalign(gtk.AlignStartValue)
	s.root.SetValign(gtk.AlignStartValue)
	s.host = gh
}

// MakeTopLevel moves the surface into its own frameless window.
func (s *GtkSurface) MakeTopLevel() {
	if s.window != nil {
		return
	}
	s.detachFromParents()

	s.window = gtk.NewWindow()
	s.window.SetDecorated(false)
	s.window.SetDefaultSize(s.rect.Width, s.rect.Height)
	s.window.AddCssClass("video-floating-window")
	if s.transientFor != nil {
		s.window.SetTransientFor(s.transientFor)
	}
	s.window.SetChild(&s.root.Widget)
}

func (s *GtkSurface) detachFromParents() {
	if s.host != nil {
		s.host.overlay.RemoveOverlay(&s.root.Widget)
		s.host = nil
	}
	if s.window != nil {
		s.window.SetChild(nil)
		s.window.Destroy()
		s.window = nil
	}
}

func (s *GtkSurface) IsTopLevel() bool { return s.window != nil }

func (s *GtkSurface) EnterFullscreen() {
	if s.window == nil || s.fullscreen {
		return
	}
	s.window.Fullscreen()
	s.fullscreen = true
}

func (s *GtkSurface) ExitFullscreen() {
	if s.window == nil || !s.fullscreen {
		return
	}
	s.window.Unfullscreen()
	s.fullscreen = false
}

func (s *GtkSurface) IsFullscreen() bool { return s.fullscreen }

// Grab captures the surface's current rendering as a paintable.
func (s *GtkSurface) Grab() (Snapshot, bool) {
	if !s.rect.Size().IsValid() {
		return nil, false
	}
	paintable := gtk.NewWidgetPaintable(&s.root.Widget)
	if paintable == nil {
		return nil, false
	}
	return &paintableSnapshot{paintable: paintable, size: s.rect.Size()}, true
}

func (s *GtkSurface) SetCursorHidden(hidden bool) {
	name := "default"
	if hidden {
		name = "none"
	}
	s.root.SetCursorFromName(name)
}

// GtkCover shows a frozen snapshot in a frameless window over the
// surface's screen rect during re-parent transitions.
type GtkCover struct {
	window  *gtk.Window
	picture *gtk.Picture
}

func NewGtkCover() *GtkCover {
	c := &GtkCover{}
	c.window = gtk.NewWindow()
	c.window.SetDecorated(false)
	c.window.AddCssClass("video-cover")
	c.picture = gtk.NewPicture()
	c.window.SetChild(&c.picture.Widget)
	return c
}

func (c *GtkCover) SetSnapshot(snap Snapshot) {
	ps, ok := snap.(*paintableSnapshot)
	if !ok {
		return
	}
	// gdk.Paintable is an interface type; rewrap the pointer the way
	// textures are handed to images.
	paintable := &gdk.Texture{}
	paintable.Ptr = ps.paintable.GoPointer()
	c.picture.SetPaintable(paintable)
}

func (c *GtkCover) SetScreenGeometry(r geometry.Rect) {
	c.window.SetDefaultSize(r.Width, r.Height)
}

func (c *GtkCover) Show()  { c.window.Present() }
func (c *GtkCover) Hide()  { c.window.Hide() }
func (c *GtkCover) Raise() { c.window.Present() }

// GtkHost is the session window's content area the surface docks into.
type GtkHost struct {
	overlay *gtk.Overlay
	window  *gtk.Window
	origin  geometry.Point
	size    geometry.Size
}

// NewGtkHost wraps the content overlay of the session window.
func NewGtkHost(overlay *gtk.Overlay, window *gtk.Window) *GtkHost {
	return &GtkHost{overlay: overlay, window: window}
}

// UpdateBounds records the host's allocation, fed from the window's
// size change notifications.
func (h *GtkHost) UpdateBounds(origin geometry.Point, size geometry.Size) {
	h.origin = origin
	h.size = size
}

func (h *GtkHost) Rect() geometry.Rect {
	return geometry.Rect{Width: h.size.Width, Height: h.size.Height}
}

func (h *GtkHost) GlobalOrigin() geometry.Point { return h.origin }

func (h *GtkHost) ShowWindow() {
	if h.window != nil {
		h.window.Present()
	}
}

// GtkPreview positions the camera preview picture inside the surface
// overlay using start-aligned margins.
type GtkPreview struct {
	picture     *gtk.Picture
	rect        geometry.Rect
	maxHeight   int
	interactive bool
	onAdjusted  func(old, updated geometry.Rect)
}

// NewGtkPreview creates the preview picture and adds it to the surface.
func NewGtkPreview(surface *GtkSurface, onAdjusted func(old, updated geometry.Rect)) *GtkPreview {
	p := &GtkPreview{
		maxHeight:  previewMaxHeight,
		onAdjusted: onAdjusted,
	}
	p.picture = gtk.NewPicture()
	p.picture.AddCssClass("video-preview")
	p.picture.SetHalign(gtk.AlignStartValue)
	p.picture.SetValign(gtk.AlignStartValue)
	surface.root.AddOverlay(&p.picture.Widget)
	return p
}

// Picture returns the preview picture for frame wiring.
func (p *GtkPreview) Picture() *gtk.Picture { return p.picture }

func (p *GtkPreview) Geometry() geometry.Rect { return p.rect }

func (p *GtkPreview) SetGeometry(r geometry.Rect) {
	if p.maxHeight > 0 && r.Height > p.maxHeight {
		r.Height = p.maxHeight
	}
	p.rect = r
	p.picture.SetMarginStart(r.X)
	p.picture.SetMarginTop(r.Y)
	p.picture.SetSizeRequest(r.Width, r.Height)
}

// Adjusted reports a finished user drag or resize to the controller.
func (p *GtkPreview) Adjusted(updated geometry.Rect) {
	old := p.rect
	p.SetGeometry(updated)
	if p.onAdjusted != nil {
		p.onAdjusted(old, p.rect)
	}
}

func (p *GtkPreview) SetInteractive(interactive bool) {
	p.interactive = interactive
	p.picture.SetCanTarget(interactive)
}

// Interactive reports whether drag gestures act on the preview.
func (p *GtkPreview) Interactive() bool { return p.interactive }

// SetMaxHeight bounds the preview height; zero lifts the bound for the
// connect phase where the preview fills the surface.
func (p *GtkPreview) SetMaxHeight(height int) {
	p.maxHeight = height
}

func (p *GtkPreview) Lower() {
	// Overlay children stack in add order; the preview is added first
	// and stays under the control bar.
}

// GtkScreenArea reads the work area of the display's primary monitor.
type GtkScreenArea struct {
	display *gdk.Display
}

func NewGtkScreenArea(display *gdk.Display) *GtkScreenArea {
	return &GtkScreenArea{display: display}
}

func (s *GtkScreenArea) AvailableGeometry() geometry.Rect {
	if s.display == nil {
		return geometry.Rect{Width: 1920, Height: 1080}
	}
	monitors := s.display.GetMonitors()
	if monitors == nil || monitors.GetNItems() == 0 {
		return geometry.Rect{Width: 1920, Height: 1080}
	}
	monitor := &gdk.Monitor{}
	monitor.Ptr = monitors.GetItem(0)
	var rect gdk.Rectangle
	monitor.GetGeometry(&rect)
	return geometry.Rect{
		X:      int(rect.X),
		Y:      int(rect.Y),
		Width:  int(rect.Width),
		Height: int(rect.Height),
	}
}

// GtkControlBar lays the tool buttons over the surface's bottom edge.
type GtkControlBar struct {
	box     *gtk.Box
	buttons map[Control]*gtk.ToggleButton
}

// Control icon names, shown with their checked counterparts.
var controlIcons = map[Control]string{
	ControlDetach:     "window-restore-symbolic",
	ControlFullscreen: "view-fullscreen-symbolic",
	ControlScreenshot: "camera-photo-symbolic",
	ControlMute:       "microphone-sensitivity-muted-symbolic",
	ControlHold:       "media-playback-pause-symbolic",
	ControlClose:      "window-close-symbolic",
}

// NewGtkControlBar creates the buttons and adds them to the surface.
// onToggled fires with the control and its new checked state.
func NewGtkControlBar(surface *GtkSurface, onToggled func(c Control, checked bool)) *GtkControlBar {
	bar := &GtkControlBar{
		buttons: make(map[Control]*gtk.ToggleButton),
	}

	bar.box = gtk.NewBox(gtk.OrientationHorizontalValue, 4)
	bar.box.AddCssClass("video-controls")
	bar.box.AddCssClass("osd")
	bar.box.SetHalign(gtk.AlignCenterValue)
	bar.box.SetValign(gtk.AlignEndValue)

	for _, c := range []Control{
		ControlDetach, ControlFullscreen, ControlScreenshot,
		ControlMute, ControlHold, ControlClose,
	} {
		control := c
		button := gtk.NewToggleButton()
		button.SetIconName(controlIcons[control])
		button.AddCssClass("video-control-button")
		button.SetCanFocus(false)
		button.SetVisible(false)

		var cb func(gtk.ToggleButton)
		cb = func(_ gtk.ToggleButton) {
			if onToggled != nil {
				onToggled(control, button.GetActive())
			}
		}
		button.ConnectToggled(&cb)

		bar.box.Append(&button.Widget)
		bar.buttons[control] = button
	}

	surface.root.AddOverlay(&bar.box.Widget)
	return bar
}

// Root returns the button box for event controller wiring.
func (b *GtkControlBar) Root() *gtk.Box { return b.box }

func (b *GtkControlBar) SetControlVisible(c Control, visible bool) {
	if button, ok := b.buttons[c]; ok {
		button.SetVisible(visible)
	}
}

func (b *GtkControlBar) SetControlChecked(c Control, checked bool) {
	if button, ok := b.buttons[c]; ok {
		button.SetActive(checked)
	}
}
