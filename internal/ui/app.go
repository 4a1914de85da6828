// Package ui is the interactive editor window. App holds the editing state
// and turns input into session calls; the shiny event loop in window.go
// feeds it and paints the frames it describes.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/example/photoedit/internal/clipboard"
	"github.com/example/photoedit/internal/crop"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/notify"
	"github.com/example/photoedit/internal/render"
	"github.com/example/photoedit/internal/scene"
	"github.com/example/photoedit/internal/theme"
)

const (
	margin       = 8
	statusHeight = 24

	nudgeSmall  = 1
	nudgeLarge  = 10
	rotateStep  = 15
	scaleFactor = 1.1
)

// ErrNoStore is reported when saving without a configured store.
var ErrNoStore = errors.New("no save location configured")

// errBusy is shown when a mutating shortcut is pressed while a save is
// still running.
var errBusy = errors.New("save in progress")

// Locator is implemented by stores that can map a stored id to a file.
type Locator interface {
	Locate(id string) (string, error)
}

// Config wires an App to its collaborators. Only Theme is required.
type Config struct {
	Theme    *theme.Theme
	Store    editor.Store
	Notifier *notify.Notifier
	Output   render.Options
	// Title overrides the window title.
	Title string
	// Copy publishes encoded PNG data. It defaults to the system clipboard.
	Copy func([]byte) error
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusBusy
	statusError
)

type saveResult struct {
	id  string
	err error
}

type loadResult struct {
	session *editor.Session
	err     error
}

type moveDrag struct {
	active bool
	id     string
	grab   geometry.Point
	origin geometry.Point
	pos    geometry.Point
}

// App is the editing state behind the window. It is driven from a single
// goroutine.
type App struct {
	cfg     Config
	session *editor.Session

	width, height int
	zoom          int

	status     string
	statusKind statusKind

	loading bool
	saving  bool
	quit    bool

	cropDrag bool
	move     moveDrag

	// editing routes typed runes into editBuf. With resizing set the
	// buffer holds a WxH canvas size instead of overlay text.
	editing  bool
	resizing bool
	editBuf  []rune
}

// NewApp creates an App with no session. It shows a loading status until
// SetSession or finishLoad is called.
func NewApp(cfg Config) *App {
	if cfg.Theme == nil {
		cfg.Theme = theme.Default()
	}
	if cfg.Output.Format == 0 && cfg.Output.Quality == 0 {
		cfg.Output = render.DefaultOptions()
	}
	if cfg.Copy == nil {
		cfg.Copy = clipboard.WriteImageBytes
	}
	vp := editor.DefaultViewport
	return &App{
		cfg:        cfg,
		width:      vp.Width + 2*margin,
		height:     vp.Height + 2*margin + statusHeight,
		zoom:       100,
		loading:    true,
		status:     "Loading...",
		statusKind: statusBusy,
	}
}

// Session returns the session being edited, or nil while loading.
func (a *App) Session() *editor.Session { return a.session }

// SetSession starts editing s and fits it to the window.
func (a *App) SetSession(s *editor.Session) {
	a.session = s
	a.loading = false
	a.fit()
	a.info(fmt.Sprintf("%s %s", s.Name(), s.Scene().Canvas()))
}

func (a *App) finishLoad(r loadResult) {
	if r.err != nil {
		a.loading = false
		a.fail(r.err)
		return
	}
	a.SetSession(r.session)
	if src := r.session.Scene().Background().Source; src != nil {
		a.cfg.Notifier.Load(r.session.Name(), src.Pixels())
	}
}

// Resize records the window size in pixels.
func (a *App) Resize(width, height int) {
	a.width, a.height = width, height
}

// Quit reports whether the user asked to close the window.
func (a *App) Quit() bool { return a.quit }

// Zoom returns the current zoom percentage.
func (a *App) Zoom() int { return a.zoom }

// Status returns the status bar message.
func (a *App) Status() string { return a.status }

func (a *App) info(msg string) {
	a.status, a.statusKind = msg, statusInfo
	log.Print(msg)
}

func (a *App) fail(err error) {
	a.status, a.statusKind = err.Error(), statusError
	log.Printf("error: %v", err)
}

func (a *App) fit() {
	if a.session == nil {
		return
	}
	avail := geometry.Size{Width: a.width - 2*margin, Height: a.height - 2*margin - statusHeight}
	a.zoom = geometry.FitZoom(a.session.Scene().Canvas(), avail)
}

func (a *App) origin() geometry.Point { return geometry.Pt(margin, margin) }

func (a *App) toViewport(x, y float32) geometry.Point {
	return geometry.ScreenToViewport(geometry.Pt(float64(x), float64(y)), a.origin(), a.zoom)
}

// run executes a named action. Mutating actions are refused while a save
// is pending or before a session exists.
func (a *App) run(name string) {
	act, ok := actions[name]
	if !ok {
		return
	}
	if act.mutating {
		if a.session == nil {
			return
		}
		if a.saving {
			a.fail(errBusy)
			return
		}
	}
	if act.needsSession && a.session == nil {
		return
	}
	if err := act.run(a); err != nil {
		a.fail(err)
	}
}

func (a *App) setFilter(id filter.ID) error {
	if err := a.session.SetFilter(id); err != nil {
		return err
	}
	a.info("filter " + id.String())
	return nil
}

func (a *App) addShape(form scene.Form) error {
	c := a.session.Scene().Canvas()
	w, h := float64(c.Width)/4, float64(c.Height)/4
	pos := geometry.Pt((float64(c.Width)-w)/2, (float64(c.Height)-h)/2)
	fill := a.session.Options().Text.Color
	fill.A = 0x80
	o := scene.NewShape(form, pos, w, h, fill)
	o.Shape.Stroke = a.session.Options().Text.Color
	o.Shape.StrokeWidth = 2
	_, err := a.session.AddOverlay(o)
	return err
}

func (a *App) selected() (scene.Overlay, bool) {
	sc := a.session.Scene()
	return sc.Overlay(sc.Selected())
}

func (a *App) nudge(dx, dy float64) error {
	o, ok := a.selected()
	if !ok {
		return nil
	}
	return a.session.MoveOverlay(o.ID, geometry.Pt(o.Position.X+dx, o.Position.Y+dy))
}

func (a *App) transform(scale, rotate float64) error {
	o, ok := a.selected()
	if !ok {
		return nil
	}
	return a.session.TransformOverlay(o.ID, o.ScaleX*scale, o.ScaleY*scale, o.Rotation+rotate)
}

func (a *App) beginCrop() error {
	if err := a.session.BeginCrop(crop.Free); err != nil {
		return err
	}
	a.info("crop: drag to select, a cycles aspect, Enter applies")
	return nil
}

func (a *App) cycleAspect() error {
	c := a.session.Crop()
	if !c.Active() {
		return nil
	}
	next := (c.Aspect() + 1) % (crop.Aspect16x9 + 1)
	c.SetAspect(next)
	a.info("aspect " + next.String())
	return nil
}

func (a *App) commit() error {
	switch {
	case a.editing:
		return a.finishEdit()
	case a.session.Crop().Active():
		if err := a.session.CommitCrop(); err != nil {
			return err
		}
		a.fit()
		a.info(fmt.Sprintf("cropped to %s", a.session.Scene().Background().Source.Size()))
	}
	return nil
}

func (a *App) cancel() error {
	switch {
	case a.editing:
		a.editing, a.resizing = false, false
		a.editBuf = nil
	case a.session.Crop().Active():
		a.session.CancelCrop()
		a.info("crop cancelled")
	default:
		return a.session.Select("")
	}
	return nil
}

func (a *App) startEdit() error {
	o, ok := a.selected()
	if !ok || o.Kind != scene.KindText {
		return nil
	}
	a.editing = true
	a.editBuf = []rune(o.Text.Content)
	a.info("editing text: Enter applies, Esc cancels")
	return nil
}

func (a *App) finishEdit() error {
	resizing := a.resizing
	a.editing, a.resizing = false, false
	buf := string(a.editBuf)
	a.editBuf = nil
	if resizing {
		return a.resizeTo(buf)
	}
	o, ok := a.selected()
	if !ok || o.Text.Content == buf {
		return nil
	}
	return a.session.SetText(o.ID, buf)
}

func (a *App) startResize() error {
	a.editing, a.resizing = true, true
	a.editBuf = []rune(a.session.Scene().Canvas().String())
	a.info("resize canvas: type WxH, Enter applies, Esc cancels")
	return nil
}

func (a *App) resizeTo(text string) error {
	size, err := geometry.ParseSize(strings.TrimSpace(text))
	if err != nil {
		return err
	}
	if size == a.session.Scene().Canvas() {
		return nil
	}
	if err := a.session.Resize(size.Width, size.Height); err != nil {
		return err
	}
	a.fit()
	a.info("canvas " + size.String())
	return nil
}

func (a *App) copyImage() error {
	data, err := a.session.Export(render.Options{Format: render.DefaultOptions().Format})
	if err != nil {
		return err
	}
	if err := a.cfg.Copy(data); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	a.info("image copied to clipboard")
	a.cfg.Notifier.Copy(a.session.Name())
	return nil
}

// startSave snapshots the current scene and returns the work to run off
// the event loop. It returns nil when a save cannot start.
func (a *App) startSave(ctx context.Context) func() saveResult {
	if a.session == nil || a.saving {
		return nil
	}
	if a.cfg.Store == nil {
		a.fail(ErrNoStore)
		return nil
	}
	a.saving = true
	a.status, a.statusKind = "Saving...", statusBusy
	sc, store, opts := a.session.Scene(), a.cfg.Store, a.cfg.Output
	return func() saveResult {
		id, err := editor.SaveScene(ctx, store, sc, opts)
		return saveResult{id: id, err: err}
	}
}

func (a *App) finishSave(r saveResult) {
	a.saving = false
	if r.err != nil {
		a.fail(r.err)
		return
	}
	location := r.id
	if l, ok := a.cfg.Store.(Locator); ok {
		if p, err := l.Locate(r.id); err == nil {
			location = p
		}
	}
	a.info("saved " + location)
	a.cfg.Notifier.Save(location)
}

func (a *App) setZoom(percent int) {
	a.zoom = geometry.ClampZoom(percent)
	a.status, a.statusKind = fmt.Sprintf("zoom %d%%", a.zoom), statusInfo
}

// Press handles a left button press at window position (x, y).
func (a *App) Press(x, y float32) {
	if a.session == nil || a.editing {
		return
	}
	p := a.toViewport(x, y)
	if c := a.session.Crop(); c.Active() {
		c.Grab(p)
		a.cropDrag = true
		return
	}
	id, ok := render.OverlayAt(a.session.Scene(), p)
	if !ok {
		if err := a.session.Select(""); err != nil {
			a.fail(err)
		}
		return
	}
	if err := a.session.Select(id); err != nil {
		a.fail(err)
		return
	}
	if a.saving {
		return
	}
	o, _ := a.session.Scene().Overlay(id)
	a.move = moveDrag{active: true, id: id, grab: p, origin: o.Position, pos: o.Position}
}

// Drag handles pointer motion with the button held.
func (a *App) Drag(x, y float32) {
	p := a.toViewport(x, y)
	switch {
	case a.cropDrag:
		a.session.Crop().DragTo(p)
	case a.move.active:
		a.move.pos = geometry.Pt(a.move.origin.X+p.X-a.move.grab.X, a.move.origin.Y+p.Y-a.move.grab.Y)
	}
}

// Release ends a drag. A moved overlay becomes one history entry.
func (a *App) Release(x, y float32) {
	if a.cropDrag {
		a.Drag(x, y)
		a.session.Crop().Release()
		a.cropDrag = false
		return
	}
	if !a.move.active {
		return
	}
	a.Drag(x, y)
	m := a.move
	a.move = moveDrag{}
	if m.pos == m.origin {
		return
	}
	if err := a.session.MoveOverlay(m.id, m.pos); err != nil {
		a.fail(err)
	}
}

// displayScene is the committed scene with any in-progress drag or text
// edit applied. It is never committed.
func (a *App) displayScene() *scene.Scene {
	if a.session == nil {
		return nil
	}
	sc := a.session.Scene()
	if a.move.active && a.move.pos != a.move.origin {
		if n, err := sc.MoveOverlay(a.move.id, a.move.pos); err == nil {
			sc = n
		}
	}
	if a.editing && !a.resizing {
		if n, err := sc.SetText(sc.Selected(), string(a.editBuf)+"|"); err == nil {
			sc = n
		}
	}
	return sc
}

// frame captures everything the painter needs. The scene is immutable, so
// the frame can be handed to another goroutine.
func (a *App) frame() frame {
	f := frame{
		width:  a.width,
		height: a.height,
		zoom:   a.zoom,
		origin: a.origin(),
		theme:  a.cfg.Theme,
		status: a.status,
		kind:   a.statusKind,
		hints:  a.hints(),
	}
	if a.resizing {
		f.status, f.kind = "resize to "+string(a.editBuf)+"|", statusInfo
	}
	sc := a.displayScene()
	if sc == nil {
		return f
	}
	f.scene = sc
	if c := a.session.Crop(); c.Active() {
		f.cropping = true
		f.crop = c.Selection()
	} else if o, ok := sc.Overlay(sc.Selected()); ok {
		if r, err := render.OverlayBounds(o); err == nil {
			f.selection = r
			f.hasSelection = true
		}
	}
	return f
}

func (a *App) hints() string {
	switch {
	case a.session == nil:
		return "q:quit"
	case a.editing:
		return "Enter:apply  Esc:cancel"
	case a.session.Crop().Active():
		return "Enter:crop  a:aspect  Esc:cancel"
	}
	return fmt.Sprintf("g/s/i/b/0:filter  t:text  r/o:shape  c:crop  w:resize  ^Z/^Y:undo/redo  ^S:save  ^C:copy  +/-:zoom (%d%%)", a.zoom)
}
