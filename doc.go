// Package snippets provides two viewport-driven widgets for [Ebitengine]
// scenes, along with the small retained-mode runtime they sit on.
//
// # Widgets
//
// [LazyImage] shows a blurred placeholder until its box comes within a
// margin of the viewport, then fetches the real image and crossfades to it.
// The fetch never starts before the box is near the viewport.
//
//	img, err := snippets.NewLazyImage(scene, snippets.LazyImageConfig{
//		Src:         "https://example.com/photo.jpg",
//		Placeholder: "https://example.com/photo-tiny.jpg",
//		Width:       480, Height: 320,
//	})
//	if err != nil {
//		return err
//	}
//	scene.Root().AddChild(img.Node())
//
// [ScrollTopButton] floats in the bottom-right corner once a surface has
// scrolled past a threshold and scrolls it back to the top when clicked.
// The surface may be supplied later; the button polls for it once per frame.
//
//	snippets.NewScrollTopButton(scene, snippets.ScrollTopConfig{
//		Threshold: 280,
//		Container: func() snippets.Scrollable { return panel },
//	})
//
// # Runtime
//
// A [Scene] owns a node tree, a window [Surface] whose content scrolls,
// an overlay that does not, frame callbacks ([Scene.RequestFrame]),
// intersection observers and an image [Loader]. Drive it with [Run], or call
// [Scene.Update] and [Scene.Draw] from your own ebiten.Game. Tests and
// headless hosts call [Scene.Step] instead of Update.
//
// Every listener, observer, frame request and pending load is released
// through a [Subscription]. Disposing a widget's node releases all of them.
//
// Logging goes through [github.com/rs/zerolog]; see [Scene.SetLogger].
// Tweens use [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package snippets
