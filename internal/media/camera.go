package media

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/skylarkphone/skylark/internal/logging"
)

// CameraConfig selects the capture device and format of the local
// camera preview.
type CameraConfig struct {
	Device    string
	Width     int
	Height    int
	Framerate int
}

// DefaultCameraConfig returns a 640x480 capture from the first v4l2
// device, the format every UVC camera can serve.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Device:    "/dev/video0",
		Width:     640,
		Height:    480,
		Framerate: 30,
	}
}

// CameraProducer captures frames from a local camera through a
// GStreamer pipeline and keeps only the newest frame.
type CameraProducer struct {
	id       uuid.UUID
	cfg      CameraConfig
	pipeline *gst.Pipeline

	mu    sync.RWMutex
	frame *image.RGBA
}

// NewCameraProducer builds the capture pipeline without starting it:
//
//	v4l2src → videoconvert → videoscale → capsfilter(RGBA) → appsink
func NewCameraProducer(ctx context.Context, cfg CameraConfig) (*CameraProducer, error) {
	log := logging.FromContext(ctx)

	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, fmt.Errorf("failed to create v4l2src: %w", err)
	}
	src.SetProperty("device", cfg.Device)

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("failed to create videoconvert: %w", err)
	}

	scaler, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, fmt.Errorf("failed to create videoscale: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("failed to create capsfilter: %w", err)
	}
	capsStr := fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d,framerate=%d/1",
		cfg.Width, cfg.Height, cfg.Framerate)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("failed to create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)
	appsink.SetProperty("max-buffers", 1)
	appsink.SetProperty("drop", true)

	pipeline.AddMany(src, converter, scaler, capsfilter, appsink.Element)
	if err := gst.ElementLinkMany(src, converter, scaler, capsfilter, appsink.Element); err != nil {
		return nil, fmt.Errorf("failed to link camera pipeline: %w", err)
	}

	p := &CameraProducer{
		id:       uuid.New(),
		cfg:      cfg,
		pipeline: pipeline,
	}

	appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			return p.onNewSample(sink)
		},
	})

	log.Debug().
		Str("producer_id", p.id.String()).
		Str("device", cfg.Device).
		Str("caps", capsStr).
		Msg("camera pipeline created")
	return p, nil
}

// onNewSample copies the newest frame out of the appsink. A corrupted
// sample skips the frame rather than stopping the pipeline.
func (p *CameraProducer) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return gst.FlowOK
	}

	frame := image.NewRGBA(image.Rect(0, 0, p.cfg.Width, p.cfg.Height))
	copy(frame.Pix, data)
	buffer.Unmap()

	p.mu.Lock()
	p.frame = frame
	p.mu.Unlock()

	return gst.FlowOK
}

// ID implements Producer.
func (p *CameraProducer) ID() uuid.UUID {
	return p.id
}

// Frame implements Producer, returning the most recent captured frame.
func (p *CameraProducer) Frame() (image.Image, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.frame == nil {
		return nil, false
	}
	return p.frame, true
}

// Start sets the pipeline playing.
func (p *CameraProducer) Start() error {
	if err := p.pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("failed to start camera pipeline: %w", err)
	}
	return nil
}

// Stop halts capture and drops the held frame.
func (p *CameraProducer) Stop() error {
	if err := p.pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("failed to stop camera pipeline: %w", err)
	}
	p.mu.Lock()
	p.frame = nil
	p.mu.Unlock()
	return nil
}
