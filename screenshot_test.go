package ambience

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"after-reveal", "after-reveal"},
		{"hero card 1", "hero_card_1"},
		{"a/b\\c", "a_b_c"},
		{"v1.2", "v1.2"},
		{"  ", "unlabeled"},
		{"", "unlabeled"},
		{"ünï", "_n_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sanitizeLabel(tt.in); got != tt.want {
				t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScreenshotQueue(t *testing.T) {
	s, _, _ := newTestStage(t, richSignals)
	if s.ScreenshotDir != DefaultScreenshotDir {
		t.Errorf("ScreenshotDir = %q, want %q", s.ScreenshotDir, DefaultScreenshotDir)
	}
	s.Screenshot("one")
	s.Screenshot("two")
	if len(s.screenshots) != 2 {
		t.Errorf("queued = %d, want 2", len(s.screenshots))
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	img := unpremultiply(pixels, 3, 1)
	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{R: 255, G: 127, B: 0, A: 128}},
		{1, color.NRGBA{R: 10, G: 20, B: 30, A: 255}},
		{2, color.NRGBA{}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	img := FallbackGradient(DefaultBackgroundColors, 8, 8)
	path := filepath.Join(t.TempDir(), "gradient.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}

	if err := writePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Error("writePNG into a missing directory should fail")
	}
}
