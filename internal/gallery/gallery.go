package gallery

import (
	"fmt"

	"github.com/phanxgames/snippets"
)

// Options overrides manifest settings at build time.
type Options struct {
	// Loader replaces the scene's loader, mainly for tests.
	Loader snippets.ImageSource
}

// Gallery is a built gallery page.
type Gallery struct {
	Images []*snippets.LazyImage
	Button *snippets.ScrollTopButton
	// Panel is the nested scroll surface in container mode, nil otherwise.
	Panel *snippets.Surface
}

// Build lays the manifest's images out in a centered column and adds a
// scroll-to-top button. In container mode the column lives in a panel that
// is attached on the next frame, so the button resolves it by polling.
func Build(scene *snippets.Scene, m *Manifest, opts Options) (*Gallery, error) {
	g := &Gallery{}
	sw, sh := scene.ScreenSize()

	parent := scene.Root()
	var root *snippets.Surface
	var supplier func() snippets.Scrollable
	viewW := sw
	if m.Container {
		inset := m.Gap
		g.Panel = scene.NewSurface("gallery", snippets.Rect{
			X: inset, Y: inset, Width: sw - 2*inset, Height: sh - 2*inset,
		})
		parent = g.Panel.Content()
		root = g.Panel
		viewW = sw - 2*inset

		mounted := false
		scene.RequestFrame(func() {
			scene.Root().AddChild(g.Panel.Frame())
			mounted = true
		})
		supplier = func() snippets.Scrollable {
			if !mounted {
				return nil
			}
			return g.Panel
		}
	}

	y := m.Gap
	for i, entry := range m.Images {
		li, err := snippets.NewLazyImage(scene, snippets.LazyImageConfig{
			Src:                entry.Src,
			Placeholder:        entry.Placeholder,
			RootMargin:         m.RootMargin,
			Root:               root,
			TransitionDuration: m.Transition,
			Width:              entry.Width,
			Height:             entry.Height,
			Alt:                entry.Caption,
			Loader:             opts.Loader,
		})
		if err != nil {
			return nil, fmt.Errorf("images[%d]: %w", i, err)
		}
		li.Node().SetPosition((viewW-entry.Width)/2, y)
		parent.AddChild(li.Node())
		g.Images = append(g.Images, li)
		y += entry.Height + m.Gap
	}

	if g.Panel != nil {
		g.Panel.SetContentHeight(y)
	} else {
		scene.Window().SetContentHeight(y)
	}

	g.Button = snippets.NewScrollTopButton(scene, snippets.ScrollTopConfig{
		Threshold: m.Threshold,
		Container: supplier,
	})
	return g, nil
}
