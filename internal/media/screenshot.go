package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/skylarkphone/skylark/internal/logging"
)

// ErrNoImage is returned when saving a screenshot that captured nothing.
var ErrNoImage = errors.New("media: no image captured")

const (
	screenshotPrefix = "VideoCall"
	screenshotStamp  = "20060102-15.04.05"
	thumbnailDir     = ".thumbnails"
	thumbnailHeight  = 128

	screenshotDirPerm = 0o755
)

// Screenshot saves one captured video frame as a PNG with a
// collision-free timestamped name, plus a small thumbnail.
type Screenshot struct {
	img image.Image
	dir string
	now func() time.Time
}

// NewScreenshot prepares a screenshot of img for saving under dir.
func NewScreenshot(img image.Image, dir string) *Screenshot {
	return &Screenshot{img: img, dir: dir, now: time.Now}
}

// Save writes the PNG and its thumbnail, returning the image path.
// Existing files are never overwritten: the name gains a -1, -2, …
// suffix until it is free.
func (s *Screenshot) Save(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)

	if s.img == nil {
		return "", ErrNoImage
	}
	if err := os.MkdirAll(s.dir, screenshotDirPerm); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	base := fmt.Sprintf("%s-%s", screenshotPrefix, s.now().Format(screenshotStamp))
	path, f, err := createUnique(s.dir, base)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, s.img); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}

	if err := s.saveThumbnail(path); err != nil {
		// The screenshot itself is saved; a missing thumbnail is not fatal.
		log.Warn().Err(err).Msg("failed to save screenshot thumbnail")
	}

	log.Info().Str("path", path).Msg("screenshot saved")
	return path, nil
}

// createUnique opens the first free file among base.png, base-1.png, …
// O_EXCL keeps two concurrent captures from clobbering each other.
func createUnique(dir, base string) (string, *os.File, error) {
	for i := 0; ; i++ {
		name := base + ".png"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.png", base, i)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, fmt.Errorf("failed to create screenshot file: %w", err)
		}
	}
}

func (s *Screenshot) saveThumbnail(imagePath string) error {
	bounds := s.img.Bounds()
	if bounds.Dy() == 0 {
		return ErrNoImage
	}

	height := thumbnailHeight
	width := bounds.Dx() * height / bounds.Dy()
	if bounds.Dy() < height {
		width, height = bounds.Dx(), bounds.Dy()
	}

	thumb := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), s.img, bounds, draw.Over, nil)

	dir := filepath.Join(filepath.Dir(imagePath), thumbnailDir)
	if err := os.MkdirAll(dir, screenshotDirPerm); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, filepath.Base(imagePath)))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, thumb)
}
