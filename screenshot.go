package ambience

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// DefaultScreenshotDir is where Stage.Screenshot writes unless
// Stage.ScreenshotDir is changed.
const DefaultScreenshotDir = "screenshots"

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to ScreenshotDir with a timestamped filename.
func (s *Stage) Screenshot(label string) {
	s.screenshots = append(s.screenshots, label)
}

// flushScreenshots captures screen once for every queued label. Called at
// the end of Stage.Draw.
func (s *Stage) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshots) == 0 {
		return
	}
	defer func() { s.screenshots = s.screenshots[:0] }()

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("screenshot directory unavailable",
			zap.String("dir", s.ScreenshotDir), zap.Error(err))
		return
	}

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshots {
		path := filepath.Join(s.ScreenshotDir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			Logger().Warn("screenshot failed", zap.String("label", label), zap.Error(err))
			continue
		}
		Logger().Info("screenshot written", zap.String("path", path))
	}
}

// unpremultiply converts ebiten's premultiplied RGBA pixels to straight
// alpha.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	src := &image.RGBA{Pix: pixels, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewNRGBA(src.Rect)
	draw.Draw(dst, dst.Rect, src, image.Point{}, draw.Src)
	return dst
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("screenshot %s: %w", path, err)
	}
	return nil
}

const labelChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-."

// sanitizeLabel maps a label to a safe filename fragment. Runes outside
// labelChars become '_'; a blank label becomes "unlabeled".
func sanitizeLabel(label string) string {
	if label = strings.TrimSpace(label); label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(labelChars, r) {
			return r
		}
		return '_'
	}, label)
}
