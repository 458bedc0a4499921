// Package app wires the GTK application together: the session window,
// the camera pipeline, screensaver inhibition and config reloads.
package app

import (
	"context"
	"os"

	"github.com/jwijenbergh/puregotk/v4/gio"
	"github.com/jwijenbergh/puregotk/v4/gtk"

	"github.com/skylarkphone/skylark/internal/config"
	"github.com/skylarkphone/skylark/internal/inhibit"
	"github.com/skylarkphone/skylark/internal/logging"
	"github.com/skylarkphone/skylark/internal/media"
	"github.com/skylarkphone/skylark/internal/ui/window"
)

// App owns the GTK application and the single session window.
type App struct {
	cfg    *config.Config
	gtkApp *gtk.Application

	window *window.SessionWindow
	camera *media.CameraProducer
	guard  *inhibit.CallGuard

	muted  bool
	onHold bool
}

// New creates the application. The inhibitor may be nil when no portal
// is reachable; the call guard degrades to a no-op then.
func New(cfg *config.Config, inhibitor inhibit.Inhibitor) *App {
	return &App{
		cfg:   cfg,
		guard: inhibit.NewCallGuard(inhibitor),
	}
}

// Run starts the GTK main loop and blocks until the window closes.
// Returns the process exit code.
func (a *App) Run(ctx context.Context) int {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating GTK application")

	// TODO: Use AppID once puregotk GC bug is fixed (nullable-string-gc-memory-corruption)
	a.gtkApp = gtk.NewApplication(nil, gio.GApplicationFlagsNoneValue)
	if a.gtkApp == nil {
		log.Error().Msg("failed to create GTK application")
		return 1
	}
	defer a.gtkApp.Unref()

	activateCb := func(_ gio.Application) {
		a.onActivate(ctx)
	}
	a.gtkApp.ConnectActivate(&activateCb)

	shutdownCb := func(_ gio.Application) {
		a.onShutdown(ctx)
	}
	a.gtkApp.ConnectShutdown(&shutdownCb)

	log.Info().Msg("starting GTK main loop")
	return a.gtkApp.Run(len(os.Args[:1]), os.Args[:1])
}

func (a *App) onActivate(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Debug().Msg("GTK application activated")

	sw, err := window.New(ctx, a.gtkApp, a.cfg, a)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session window")
		a.gtkApp.Quit()
		return
	}
	a.window = sw
	logging.Trace().Mark("session_window")

	config.OnConfigChange(func(updated *config.Config) {
		a.cfg = updated
		log.Info().Msg("configuration reloaded")
	})
	if err := config.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
	}

	a.window.Show()
	a.startVideoSession(ctx)
	logging.Trace().Mark("session_started")
	logging.Trace().Finish()
}

// startVideoSession opens the camera and hands both producers to the
// overlay. A missing camera is not fatal: the session runs without a
// local preview.
func (a *App) startVideoSession(ctx context.Context) {
	log := logging.FromContext(ctx)
	ctrl := a.window.Controller()

	camCfg := media.CameraConfig{
		Device:    a.cfg.Camera.Device,
		Width:     a.cfg.Camera.Width,
		Height:    a.cfg.Camera.Height,
		Framerate: a.cfg.Camera.Framerate,
	}
	camera, err := media.NewCameraProducer(ctx, camCfg)
	if err != nil {
		log.Warn().Err(err).Str("device", camCfg.Device).Msg("camera unavailable")
	} else if err := camera.Start(); err != nil {
		log.Warn().Err(err).Msg("camera pipeline failed to start")
		camera = nil
	} else {
		a.camera = camera
	}

	ctrl.SessionWillConnect(producerOrNil(a.camera))
	ctrl.SetVisible(true)

	if err := a.guard.Begin(ctx); err != nil {
		log.Warn().Err(err).Msg("screensaver inhibition failed")
	}
}

func producerOrNil(c *media.CameraProducer) media.Producer {
	if c == nil {
		return nil
	}
	return c
}

func (a *App) onShutdown(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Debug().Msg("GTK application shutting down")

	if err := a.guard.End(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to release screensaver inhibition")
	}
	if a.camera != nil {
		if err := a.camera.Stop(); err != nil {
			log.Warn().Err(err).Msg("camera pipeline did not stop cleanly")
		}
		a.camera = nil
	}
	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}
}

// Quit requests the application to quit.
func (a *App) Quit() {
	if a.gtkApp != nil {
		a.gtkApp.Quit()
	}
}

// SetMuted implements the session side of the mute button. Without a
// signaling stack attached the state is applied locally and echoed
// back so the button reflects it.
func (a *App) SetMuted(muted bool) {
	a.muted = muted
	if a.window != nil {
		a.window.Controller().MuteStateChanged(muted)
	}
}

// SetHold implements the session side of the hold button.
func (a *App) SetHold(hold bool) {
	a.onHold = hold
	if a.window != nil {
		a.window.Controller().HoldStateChanged(hold)
	}
}

// EndVideo tears down the video session and closes the window.
func (a *App) EndVideo() {
	if a.window != nil {
		a.window.Controller().SessionDidEnd()
	}
	a.Quit()
}
