package snippets

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the user resize the window; the scene follows.
	Resizable bool
	// ShowStats adds a stats widget to the overlay.
	ShowStats bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
}

func (g *game) Update() error {
	g.scene.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.scene.ScreenSize()
	if int(w) != outsideWidth || int(h) != outsideHeight {
		g.scene.SetScreenSize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives scene until the window closes. The scene is
// closed when Run returns.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = defaultScreenWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultScreenHeight
	}
	scene.SetScreenSize(float64(cfg.Width), float64(cfg.Height))
	if cfg.ShowStats {
		scene.Overlay().AddChild(NewStatsWidget(scene))
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	scene.log.Info().Str("title", cfg.Title).Int("width", cfg.Width).Int("height", cfg.Height).Msg("window opened")
	err := ebiten.RunGame(&game{scene: scene})
	if cerr := scene.Close(); err == nil {
		err = cerr
	}
	return err
}
