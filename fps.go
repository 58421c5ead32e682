package ambience

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the FPS overlay text is redrawn, in seconds.
const fpsRefresh = 0.5

// fpsCounter is the FPS/TPS overlay drawn by Stage when SetShowFPS is on.
type fpsCounter struct {
	img     *ebiten.Image
	elapsed float64
	dirty   bool
}

func (f *fpsCounter) tick(dt float64) {
	f.elapsed += dt
	if f.elapsed >= fpsRefresh {
		f.elapsed = 0
		f.dirty = true
	}
}

func (f *fpsCounter) draw(screen *ebiten.Image) {
	if f.img == nil {
		// 100x32 fits "FPS: 60.0\nTPS: 60.0"
		f.img = ebiten.NewImage(100, 32)
		f.dirty = true
	}
	if f.dirty {
		f.dirty = false
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(f.img, nil)
}

func (f *fpsCounter) release() {
	if f.img != nil {
		f.img.Deallocate()
		f.img = nil
	}
}
