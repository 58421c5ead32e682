package ambience

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds window options for Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a window and drives stage until the window closes. The stage is
// closed on return.
func Run(stage *Stage, cfg RunConfig) error {
	defer stage.Close()
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(stage.cfg.FPS)
	stage.SetShowFPS(cfg.ShowFPS)
	if err := ebiten.RunGame(stage); err != nil {
		return fmt.Errorf("run stage: %w", err)
	}
	return nil
}
