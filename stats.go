package snippets

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewStatsWidget creates a sprite that shows FPS, TPS and the scene's
// pending frame callbacks, observers and surfaces. It redraws about every
// half second. Add it to Overlay so it does not scroll.
func NewStatsWidget(s *Scene) *Node {
	// 160x72 fits five lines of debug text.
	img := ebiten.NewImage(160, 72)

	node := NewSprite("stats_widget", img)
	node.ZIndex = 255

	var since float64
	redraw := func() {
		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf(
			"FPS: %.1f\nTPS: %.1f\nframes: %d\nobservers: %d\nsurfaces: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			s.PendingFrames(), s.Observers(), len(s.Surfaces()),
		))
	}
	redraw()

	node.OnUpdate = func(dt float64) {
		since += dt
		if since < 0.5 {
			return
		}
		since = 0
		redraw()
	}
	return node
}
