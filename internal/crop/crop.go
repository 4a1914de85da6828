// Package crop implements the selection state machine used to crop the
// background. The selection lives in viewport space and is mapped back to
// the original image only when it is committed.
package crop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/scene"
)

var (
	// ErrInvalidRegion is returned when the mapped selection is degenerate
	// or lies entirely outside the original image.
	ErrInvalidRegion = errors.New("crop: invalid region")
	// ErrInactive is returned when committing without an active selection.
	ErrInactive = errors.New("crop: no active selection")
)

// State is the controller state.
type State int

const (
	Idle State = iota
	Selecting
	Committing
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Committing:
		return "committing"
	}
	return "idle"
}

// Aspect locks the selection to a ratio.
type Aspect int

const (
	Free Aspect = iota
	Aspect4x3
	Aspect16x9
)

// Ratio returns width/height, or 0 for Free.
func (a Aspect) Ratio() float64 {
	switch a {
	case Aspect4x3:
		return 4.0 / 3.0
	case Aspect16x9:
		return 16.0 / 9.0
	}
	return 0
}

func (a Aspect) String() string {
	switch a {
	case Aspect4x3:
		return "4:3"
	case Aspect16x9:
		return "16:9"
	}
	return "free"
}

// ParseAspect accepts "free", "4:3" and "16:9". "4x3" style is also
// accepted.
func ParseAspect(s string) (Aspect, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "x", ":") {
	case "", "free", "none":
		return Free, nil
	case "4:3":
		return Aspect4x3, nil
	case "16:9":
		return Aspect16x9, nil
	}
	return Free, fmt.Errorf("unknown aspect %q", s)
}

// Default selection placed when cropping starts.
var DefaultSelection = geometry.R(250, 150, 300, 300)

// Controller drives one crop interaction. The zero value is Idle.
type Controller struct {
	state  State
	aspect Aspect
	canvas geometry.Size
	sel    geometry.Rect

	grab      Handle
	grabAt    geometry.Point
	grabStart geometry.Rect
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active reports whether a selection is being edited.
func (c *Controller) Active() bool { return c.state != Idle }

// Aspect returns the locked aspect ratio.
func (c *Controller) Aspect() Aspect { return c.aspect }

// Selection returns the selection rectangle in viewport space.
func (c *Controller) Selection() geometry.Rect { return c.sel }

// Begin enters Selecting with the default rectangle clamped to canvas.
func (c *Controller) Begin(canvas geometry.Size, aspect Aspect) {
	c.state = Selecting
	c.canvas = canvas
	c.aspect = aspect
	c.grab = HandleNone
	c.sel = c.constrain(clampTo(DefaultSelection, canvas), HandleBR)
}

// SetAspect changes the lock and reshapes the current selection.
func (c *Controller) SetAspect(a Aspect) {
	c.aspect = a
	if c.state == Selecting {
		c.sel = c.constrain(c.sel, HandleBR)
	}
}

// SetSelection replaces the selection rectangle. The aspect lock is
// applied by adjusting the height.
func (c *Controller) SetSelection(r geometry.Rect) {
	if c.state != Selecting {
		return
	}
	c.sel = c.constrain(r.Canon(), HandleBR)
}

// Drag moves or resizes the selection by (dx, dy) using handle h.
func (c *Controller) Drag(h Handle, dx, dy float64) {
	if c.state != Selecting || h == HandleNone {
		return
	}
	c.sel = c.constrain(adjust(c.sel, h, dx, dy), h)
}

// Grab starts a pointer drag at p and returns the handle under it. Pressing
// outside the selection starts a fresh rectangle anchored at p.
func (c *Controller) Grab(p geometry.Point) Handle {
	if c.state != Selecting {
		return HandleNone
	}
	h := c.HandleAt(p)
	if h == HandleNone {
		c.sel = geometry.Rect{X: p.X, Y: p.Y}
		h = HandleBR
	}
	c.grab = h
	c.grabAt = p
	c.grabStart = c.sel
	return h
}

// DragTo continues a pointer drag started with Grab.
func (c *Controller) DragTo(p geometry.Point) {
	if c.state != Selecting || c.grab == HandleNone {
		return
	}
	r := adjust(c.grabStart, c.grab, p.X-c.grabAt.X, p.Y-c.grabAt.Y)
	c.sel = c.constrain(r, c.grab)
}

// Release ends a pointer drag.
func (c *Controller) Release() { c.grab = HandleNone }

// HandleAt returns the handle at p, HandleMove inside the selection, or
// HandleNone.
func (c *Controller) HandleAt(p geometry.Point) Handle {
	if c.state != Selecting {
		return HandleNone
	}
	for i, hr := range HandleRects(c.sel) {
		if hr.Contains(p) {
			return Handle(i + int(HandleTL))
		}
	}
	if !c.sel.Empty() && c.sel.Contains(p) {
		return HandleMove
	}
	return HandleNone
}

// Cancel discards the selection and returns to Idle.
func (c *Controller) Cancel() {
	c.state = Idle
	c.sel = geometry.Rect{}
	c.grab = HandleNone
}

// Commit maps the selection into original image space, copies exactly that
// pixel rectangle from the unfiltered source and returns the scene with the
// copy as its new background. On failure the controller stays in
// Selecting and s is not touched.
func (c *Controller) Commit(s *scene.Scene) (*scene.Scene, error) {
	if c.state != Selecting {
		return nil, ErrInactive
	}
	c.state = Committing
	n, err := commit(s, c.sel)
	if err != nil {
		c.state = Selecting
		return nil, err
	}
	c.Cancel()
	return n, nil
}

func commit(s *scene.Scene, sel geometry.Rect) (*scene.Scene, error) {
	bg := s.Background()
	if bg.Source == nil {
		return nil, scene.ErrNoBackground
	}
	if sel.Empty() {
		return nil, fmt.Errorf("%w: empty selection", ErrInvalidRegion)
	}
	r, err := geometry.RectToOriginal(sel, bg.Transform)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegion, err)
	}
	px := geometry.PixelRect(r).Intersect(bg.Source.Bounds())
	if px.Empty() {
		return nil, fmt.Errorf("%w: %v outside %v", ErrInvalidRegion, geometry.PixelRect(r), bg.Source.Bounds())
	}
	img, err := bg.Source.Sub(px)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegion, err)
	}
	return s.ReplaceBackground(img), nil
}

// constrain normalises r and applies the aspect lock. Handles on the top
// edge keep the bottom edge fixed; the vertical edge handles drive the
// width from the height instead.
func (c *Controller) constrain(r geometry.Rect, h Handle) geometry.Rect {
	r = r.Canon()
	ratio := c.aspect.Ratio()
	if ratio == 0 || h == HandleMove {
		return r
	}
	switch h {
	case HandleT, HandleB:
		r.Width = r.Height * ratio
	case HandleTL, HandleTR:
		bottom := r.Y + r.Height
		r.Height = r.Width / ratio
		r.Y = bottom - r.Height
	default:
		r.Height = r.Width / ratio
	}
	return r
}

func clampTo(r geometry.Rect, canvas geometry.Size) geometry.Rect {
	if !canvas.Valid() {
		return r
	}
	w, h := float64(canvas.Width), float64(canvas.Height)
	if r.Width > w {
		r.Width = w
	}
	if r.Height > h {
		r.Height = h
	}
	if r.X+r.Width > w {
		r.X = w - r.Width
	}
	if r.Y+r.Height > h {
		r.Y = h - r.Height
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}
