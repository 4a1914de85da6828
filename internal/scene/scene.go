// Package scene models the editable document: one background image plus an
// ordered list of overlays on a canvas of fixed logical size.
//
// A Scene is immutable. Every operation returns a new Scene and leaves the
// receiver untouched, so earlier values can be kept as history snapshots.
package scene

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/raster"
)

var (
	// ErrNoBackground is returned by operations that need a loaded image.
	ErrNoBackground = errors.New("scene: background not loaded")
	// ErrUnknownOverlay is returned when an overlay id is not in the scene.
	ErrUnknownOverlay = errors.New("scene: unknown overlay")
	// ErrInvalidSize is returned when resizing to a non-positive size.
	ErrInvalidSize = errors.New("scene: invalid canvas size")
)

// Background is the image layer the filters apply to.
type Background struct {
	Source    *raster.Image
	Transform geometry.ScaleTransform
	Filter    filter.ID
}

// Scene is one state of the document.
type Scene struct {
	background Background
	overlays   []Overlay
	canvas     geometry.Size
	selected   string
	nextID     int

	// cache is shared by scenes with the same background and canvas, so
	// overlay-only edits reuse the rendered background.
	cache *backgroundCache
}

type backgroundCache struct {
	fullOnce sync.Once
	full     *image.NRGBA
	fullErr  error

	previewOnce sync.Once
	preview     *image.NRGBA
	previewErr  error
}

// New builds a scene whose background is stretched to fill canvas.
func New(bg *raster.Image, canvas geometry.Size) *Scene {
	s := &Scene{canvas: canvas, nextID: 1, cache: &backgroundCache{}}
	s.background = Background{Source: bg, Transform: geometry.Fit(bg.Size(), canvas)}
	return s
}

// Background returns the background layer.
func (s *Scene) Background() Background { return s.background }

// Canvas returns the logical canvas size.
func (s *Scene) Canvas() geometry.Size { return s.canvas }

// Selected returns the id of the selected overlay, if any.
func (s *Scene) Selected() string { return s.selected }

// Overlays returns the overlays in ascending z-order.
func (s *Scene) Overlays() []Overlay {
	out := make([]Overlay, len(s.overlays))
	copy(out, s.overlays)
	return out
}

// Overlay looks up an overlay by id.
func (s *Scene) Overlay(id string) (Overlay, bool) {
	for _, o := range s.overlays {
		if o.ID == id {
			return o, true
		}
	}
	return Overlay{}, false
}

// FilteredBackground returns the background source with the active filter
// applied at full resolution. The result is computed once per background
// and must not be modified.
func (s *Scene) FilteredBackground() (*image.NRGBA, error) {
	c := s.cache
	c.fullOnce.Do(func() {
		if s.background.Source == nil {
			c.fullErr = ErrNoBackground
			return
		}
		c.full, c.fullErr = filter.Apply(s.background.Source.Pixels(), s.background.Filter)
	})
	return c.full, c.fullErr
}

// PreviewBackground returns the background as drawn on the canvas, built
// by draw on first use. Scenes that differ only in overlays or selection
// share the result, which must not be modified.
func (s *Scene) PreviewBackground(draw func(Background, geometry.Size) (*image.NRGBA, error)) (*image.NRGBA, error) {
	c := s.cache
	c.previewOnce.Do(func() {
		c.preview, c.previewErr = draw(s.background, s.canvas)
	})
	return c.preview, c.previewErr
}

func (s *Scene) clone() *Scene {
	return &Scene{
		background: s.background,
		overlays:   s.Overlays(),
		canvas:     s.canvas,
		selected:   s.selected,
		nextID:     s.nextID,
		cache:      s.cache,
	}
}

// AddOverlay appends o on top of every existing overlay and selects it. An
// empty id is replaced with a generated one.
func (s *Scene) AddOverlay(o Overlay) *Scene {
	n := s.clone()
	o = o.normalized()
	if o.ID == "" {
		o.ID = fmt.Sprintf("%s-%d", o.Kind, n.nextID)
		n.nextID++
	}
	o.Z = n.maxZ() + 1
	n.overlays = append(n.overlays, o)
	n.selected = o.ID
	return n
}

func (s *Scene) maxZ() int {
	z := -1
	for _, o := range s.overlays {
		if o.Z > z {
			z = o.Z
		}
	}
	return z
}

// SetFilter selects the background filter. The filtered raster is always
// recomputed from the unfiltered source.
func (s *Scene) SetFilter(id filter.ID) (*Scene, error) {
	if s.background.Source == nil {
		return nil, ErrNoBackground
	}
	if !id.Valid() {
		return nil, fmt.Errorf("unknown filter %d", int(id))
	}
	n := s.clone()
	n.background.Filter = id
	n.cache = &backgroundCache{}
	return n, nil
}

// ResizeCanvas changes the canvas size and rescales the background
// transform and every overlay by the per-axis ratios so the layout is
// preserved. Non-uniform ratios stretch the layout.
func (s *Scene) ResizeCanvas(width, height int) (*Scene, error) {
	size := geometry.Size{Width: width, Height: height}
	if !size.Valid() || !s.canvas.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	rx := float64(width) / float64(s.canvas.Width)
	ry := float64(height) / float64(s.canvas.Height)
	n := s.clone()
	n.canvas = size
	n.cache = &backgroundCache{}
	n.background.Transform = s.background.Transform.Scaled(rx, ry)
	for i := range n.overlays {
		o := &n.overlays[i]
		o.Position.X *= rx
		o.Position.Y *= ry
		o.ScaleX *= rx
		o.ScaleY *= ry
	}
	return n, nil
}

// ReplaceBackground swaps in a new source image fitted to the canvas. The
// active filter is kept and recomputed against the new source.
func (s *Scene) ReplaceBackground(img *raster.Image) *Scene {
	n := s.clone()
	n.background.Source = img
	n.background.Transform = geometry.Fit(img.Size(), n.canvas)
	n.cache = &backgroundCache{}
	return n
}

// Select marks an overlay as selected. An empty id clears the selection.
func (s *Scene) Select(id string) (*Scene, error) {
	if id != "" {
		if _, ok := s.Overlay(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOverlay, id)
		}
	}
	n := s.clone()
	n.selected = id
	return n, nil
}

// MoveOverlay places an overlay's anchor at pos.
func (s *Scene) MoveOverlay(id string, pos geometry.Point) (*Scene, error) {
	return s.update(id, func(o *Overlay) { o.Position = pos })
}

// TransformOverlay sets an overlay's scale and rotation.
func (s *Scene) TransformOverlay(id string, scaleX, scaleY, rotation float64) (*Scene, error) {
	if scaleX <= 0 || scaleY <= 0 {
		return nil, fmt.Errorf("invalid overlay scale %gx%g", scaleX, scaleY)
	}
	return s.update(id, func(o *Overlay) {
		o.ScaleX = scaleX
		o.ScaleY = scaleY
		o.Rotation = rotation
	})
}

// SetText replaces the content of a text overlay.
func (s *Scene) SetText(id, content string) (*Scene, error) {
	o, ok := s.Overlay(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOverlay, id)
	}
	if o.Kind != KindText {
		return nil, fmt.Errorf("overlay %s is not text", id)
	}
	return s.update(id, func(o *Overlay) { o.Text.Content = content })
}

// RemoveOverlay deletes an overlay. The selection is cleared if it pointed
// at the removed overlay.
func (s *Scene) RemoveOverlay(id string) (*Scene, error) {
	n := s.clone()
	idx := -1
	for i, o := range n.overlays {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOverlay, id)
	}
	n.overlays = append(n.overlays[:idx], n.overlays[idx+1:]...)
	if n.selected == id {
		n.selected = ""
	}
	return n, nil
}

func (s *Scene) update(id string, fn func(*Overlay)) (*Scene, error) {
	n := s.clone()
	for i := range n.overlays {
		if n.overlays[i].ID == id {
			fn(&n.overlays[i])
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOverlay, id)
}

// ZOrdered returns the overlays sorted by ascending Z, ties broken by
// insertion order.
func (s *Scene) ZOrdered() []Overlay {
	out := s.Overlays()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}
