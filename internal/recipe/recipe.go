// Package recipe replays scripted edits, written as YAML, through an
// editing session.
package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/photoedit/internal/crop"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/render"
	"github.com/example/photoedit/internal/scene"
	"github.com/example/photoedit/internal/theme"
)

// ErrStep is wrapped by every error raised while validating or replaying
// a step.
var ErrStep = errors.New("recipe: bad step")

// Recipe is a sequence of edits plus output settings.
type Recipe struct {
	Viewport *Size  `yaml:"viewport,omitempty"`
	Steps    []Step `yaml:"steps"`
	Output   Output `yaml:"output,omitempty"`
}

// Size is a width and height in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Output selects the export encoding.
type Output struct {
	Format  string `yaml:"format,omitempty"`
	Quality int    `yaml:"quality,omitempty"`
}

// Step holds exactly one action.
type Step struct {
	Filter string     `yaml:"filter,omitempty"`
	Text   *TextStep  `yaml:"text,omitempty"`
	Shape  *ShapeStep `yaml:"shape,omitempty"`
	Crop   *CropStep  `yaml:"crop,omitempty"`
	Resize *Size      `yaml:"resize,omitempty"`
	Undo   int        `yaml:"undo,omitempty"`
	Redo   int        `yaml:"redo,omitempty"`
	Move   *MoveStep  `yaml:"move,omitempty"`
	Remove bool       `yaml:"remove,omitempty"`
}

// Placement is shared by overlay steps.
type Placement struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x,omitempty"`
	ScaleY   float64 `yaml:"scale_y,omitempty"`
	Rotation float64 `yaml:"rotation,omitempty"`
}

// TextStep adds a text overlay. Unset fields fall back to the session's
// text defaults.
type TextStep struct {
	Placement `yaml:",inline"`

	Content string  `yaml:"content"`
	Size    float64 `yaml:"size,omitempty"`
	Color   string  `yaml:"color,omitempty"`
	Shadow  *bool   `yaml:"shadow,omitempty"`
}

// ShapeStep adds a rectangle or ellipse.
type ShapeStep struct {
	Placement `yaml:",inline"`

	Form        string  `yaml:"form,omitempty"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Fill        string  `yaml:"fill,omitempty"`
	Stroke      string  `yaml:"stroke,omitempty"`
	StrokeWidth float64 `yaml:"stroke_width,omitempty"`
}

// CropStep crops to a viewport rectangle.
type CropStep struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Aspect string  `yaml:"aspect,omitempty"`
}

// MoveStep moves the selected overlay.
type MoveStep struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Load reads a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a recipe. Unknown keys are rejected.
func Parse(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rec Recipe
	if err := dec.Decode(&rec); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Validate checks each step names exactly one action and that the output
// settings are usable.
func (r *Recipe) Validate() error {
	if r.Viewport != nil && (r.Viewport.Width <= 0 || r.Viewport.Height <= 0) {
		return fmt.Errorf("viewport %dx%d: %w", r.Viewport.Width, r.Viewport.Height, scene.ErrInvalidSize)
	}
	for i, st := range r.Steps {
		if n := st.actions(); n != 1 {
			return fmt.Errorf("step %d: %w: %d actions, want 1", i+1, ErrStep, n)
		}
	}
	if _, err := r.Output.Options(); err != nil {
		return err
	}
	return nil
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Filter != "", s.Text != nil, s.Shape != nil, s.Crop != nil,
		s.Resize != nil, s.Undo > 0, s.Redo > 0, s.Move != nil, s.Remove,
	} {
		if set {
			n++
		}
	}
	return n
}

// SessionOptions returns the options a session replaying r should start
// with.
func (r *Recipe) SessionOptions() []editor.Option {
	if r.Viewport == nil {
		return nil
	}
	return []editor.Option{editor.WithViewport(geometry.Size{Width: r.Viewport.Width, Height: r.Viewport.Height})}
}

// Options converts the output block to render options.
func (o Output) Options() (render.Options, error) {
	opts := render.DefaultOptions()
	f, err := raster.ParseFormat(o.Format)
	if err != nil {
		return opts, err
	}
	opts.Format = f
	if o.Quality != 0 {
		opts.Quality = o.Quality
	}
	return opts, nil
}

// Apply replays every step against s. It stops at the first failing step;
// the steps before it stay in the session history.
func (r *Recipe) Apply(s *editor.Session) error {
	for i, st := range r.Steps {
		if err := st.apply(s); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		editor.Logger().Debug("recipe step applied", "step", i+1, "history", s.History().Len())
	}
	return nil
}

func (st Step) apply(s *editor.Session) error {
	switch {
	case st.Filter != "":
		id, err := filter.Parse(st.Filter)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStep, err)
		}
		return s.SetFilter(id)
	case st.Text != nil:
		o, err := st.Text.overlay(s.Options().Text)
		if err != nil {
			return err
		}
		_, err = s.AddOverlay(o)
		return err
	case st.Shape != nil:
		o, err := st.Shape.overlay()
		if err != nil {
			return err
		}
		_, err = s.AddOverlay(o)
		return err
	case st.Crop != nil:
		return st.Crop.apply(s)
	case st.Resize != nil:
		return s.Resize(st.Resize.Width, st.Resize.Height)
	case st.Undo > 0:
		for n := 0; n < st.Undo; n++ {
			if !s.Undo() {
				return fmt.Errorf("%w: nothing to undo", ErrStep)
			}
		}
	case st.Redo > 0:
		for n := 0; n < st.Redo; n++ {
			if !s.Redo() {
				return fmt.Errorf("%w: nothing to redo", ErrStep)
			}
		}
	case st.Move != nil:
		return s.MoveOverlay(s.Scene().Selected(), geometry.Pt(st.Move.X, st.Move.Y))
	case st.Remove:
		return s.RemoveOverlay(s.Scene().Selected())
	}
	return nil
}

func (p Placement) apply(o *scene.Overlay) {
	o.Position = geometry.Pt(p.X, p.Y)
	if p.ScaleX != 0 {
		o.ScaleX = p.ScaleX
	}
	if p.ScaleY != 0 {
		o.ScaleY = p.ScaleY
	}
	o.Rotation = p.Rotation
}

func (t *TextStep) overlay(d scene.TextDefaults) (scene.Overlay, error) {
	col := d.Color
	if t.Color != "" {
		c, err := parseColor(t.Color)
		if err != nil {
			return scene.Overlay{}, err
		}
		col = c
	}
	size := t.Size
	if size == 0 {
		size = d.Size
	}
	content := t.Content
	if content == "" {
		content = d.Content
	}
	o := scene.NewText(content, geometry.Point{}, size, col)
	o.Text.Shadow = d.Shadow
	if t.Shadow != nil {
		o.Text.Shadow = *t.Shadow
	}
	t.Placement.apply(&o)
	return o, nil
}

func (sh *ShapeStep) overlay() (scene.Overlay, error) {
	form, err := scene.ParseForm(sh.Form)
	if err != nil {
		return scene.Overlay{}, fmt.Errorf("%w: %w", ErrStep, err)
	}
	if sh.Width <= 0 || sh.Height <= 0 {
		return scene.Overlay{}, fmt.Errorf("%w: shape %gx%g", ErrStep, sh.Width, sh.Height)
	}
	var fill, stroke color.NRGBA
	if sh.Fill != "" {
		if fill, err = parseColor(sh.Fill); err != nil {
			return scene.Overlay{}, err
		}
	}
	if sh.Stroke != "" {
		if stroke, err = parseColor(sh.Stroke); err != nil {
			return scene.Overlay{}, err
		}
	}
	o := scene.NewShape(form, geometry.Point{}, sh.Width, sh.Height, fill)
	o.Shape.Stroke = stroke
	o.Shape.StrokeWidth = sh.StrokeWidth
	sh.Placement.apply(&o)
	return o, nil
}

func (c *CropStep) apply(s *editor.Session) error {
	aspect, err := crop.ParseAspect(c.Aspect)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStep, err)
	}
	if err := s.BeginCrop(aspect); err != nil {
		return err
	}
	s.Crop().SetSelection(geometry.R(c.X, c.Y, c.Width, c.Height))
	if err := s.CommitCrop(); err != nil {
		s.CancelCrop()
		return err
	}
	return nil
}

func parseColor(v string) (color.NRGBA, error) {
	c, err := theme.ParseColor(v)
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrStep, err)
	}
	return c, nil
}
