// Package gallery loads the demo gallery manifest and lays its images out
// in a scene.
package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/snippets"
)

// ErrInvalidManifest is wrapped by every validation failure.
var ErrInvalidManifest = errors.New("invalid gallery manifest")

const (
	defaultWidth  = 960
	defaultHeight = 720
	defaultGap    = 24
	defaultImageW = 480
	defaultImageH = 320
)

// Manifest describes a gallery page.
type Manifest struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Threshold is the scroll-to-top threshold in pixels.
	Threshold float64 `yaml:"threshold"`
	// RootMargin is the lazy image proximity margin.
	RootMargin string `yaml:"root_margin"`
	// Transition is the crossfade duration, e.g. "600ms".
	Transition time.Duration `yaml:"transition"`
	// Container places the images in a nested scroll panel that appears a
	// frame after start-up instead of in the window.
	Container bool    `yaml:"container"`
	Gap       float64 `yaml:"gap"`

	Images []Image `yaml:"images"`
}

// Image is one gallery entry.
type Image struct {
	Src         string  `yaml:"src"`
	Placeholder string  `yaml:"placeholder"`
	Caption     string  `yaml:"caption"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest, rejecting unknown fields, fills defaults and
// validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Title == "" {
		m.Title = "snippets gallery"
	}
	if m.Width == 0 {
		m.Width = defaultWidth
	}
	if m.Height == 0 {
		m.Height = defaultHeight
	}
	if m.Gap == 0 {
		m.Gap = defaultGap
	}
	for i := range m.Images {
		img := &m.Images[i]
		if img.Width == 0 {
			img.Width = defaultImageW
		}
		if img.Height == 0 {
			img.Height = defaultImageH
		}
	}
}

// Validate reports every problem in the manifest, each naming its field.
func (m *Manifest) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidManifest, fmt.Sprintf(format, args...)))
	}
	if m.Width < 0 || m.Height < 0 {
		bad("screen size %dx%d is negative", m.Width, m.Height)
	}
	if m.Threshold < 0 {
		bad("threshold %v is negative", m.Threshold)
	}
	if m.Transition < 0 {
		bad("transition %v is negative", m.Transition)
	}
	if m.RootMargin != "" {
		if _, err := snippets.ParseMargin(m.RootMargin); err != nil {
			bad("root_margin: %v", err)
		}
	}
	if len(m.Images) == 0 {
		bad("no images")
	}
	for i, img := range m.Images {
		if img.Src == "" {
			bad("images[%d]: src is required", i)
		}
		if img.Width < 0 || img.Height < 0 {
			bad("images[%d]: size %vx%v is negative", i, img.Width, img.Height)
		}
	}
	return errors.Join(errs...)
}
