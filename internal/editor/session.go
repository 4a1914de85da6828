// Package editor runs an editing session: it owns the current scene, the
// undo history and the crop controller, and turns user actions into new
// history entries.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/photoedit/internal/crop"
	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/history"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/render"
	"github.com/example/photoedit/internal/scene"
)

// Source fetches the raw bytes of an original image.
type Source interface {
	FetchOriginal(ctx context.Context, id string) ([]byte, error)
}

// Store persists a flattened image and returns its new id.
type Store interface {
	StoreResult(ctx context.Context, data []byte) (string, error)
}

// Generator turns a text prompt into encoded image bytes.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// DefaultViewport is the working canvas size used when none is configured.
var DefaultViewport = geometry.Size{Width: 800, Height: 600}

// Options configures a session.
type Options struct {
	Viewport     geometry.Size
	HistoryLimit int
	Text         scene.TextDefaults
}

// Option mutates Options.
type Option func(*Options)

// WithViewport sets the working canvas size.
func WithViewport(s geometry.Size) Option { return func(o *Options) { o.Viewport = s } }

// WithHistoryLimit caps the number of undo entries. Zero means unlimited.
func WithHistoryLimit(n int) Option { return func(o *Options) { o.HistoryLimit = n } }

// WithTextDefaults sets the preset used by AddText.
func WithTextDefaults(d scene.TextDefaults) Option { return func(o *Options) { o.Text = d } }

func buildOptions(opts []Option) Options {
	o := Options{Viewport: DefaultViewport, Text: scene.DefaultTextDefaults()}
	for _, fn := range opts {
		fn(&o)
	}
	if !o.Viewport.Valid() {
		o.Viewport = DefaultViewport
	}
	return o
}

// Session is one editing session. It is not safe for concurrent use; the
// scenes it hands out are immutable and may be shared freely.
type Session struct {
	name    string
	opts    Options
	history *history.History[*scene.Scene]
	crop    crop.Controller
	closed  bool
}

// New starts a session over an already decoded image.
func New(img *raster.Image, opts ...Option) *Session {
	o := buildOptions(opts)
	s := &Session{opts: o, history: history.New[*scene.Scene](o.HistoryLimit)}
	s.history.Commit(scene.New(img, o.Viewport))
	Logger().Debug("session started", "size", img.Size().String(), "viewport", o.Viewport.String())
	return s
}

// Load decodes data and starts a session over it.
func Load(data []byte, opts ...Option) (*Session, error) {
	img, err := raster.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	return New(img, opts...), nil
}

// Open fetches the original image id from src and starts a session.
func Open(ctx context.Context, src Source, id string, opts ...Option) (*Session, error) {
	data, err := src.FetchOriginal(ctx, id)
	if err != nil {
		Logger().Warn("fetch original failed", "id", id, "err", err)
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrLoadFailure, id, err)
	}
	s, err := Load(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	s.name = id
	return s, nil
}

// Generate asks gen for an image and starts a session over the result.
func Generate(ctx context.Context, gen Generator, prompt string, opts ...Option) (*Session, error) {
	data, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: generate: %w", ErrLoadFailure, err)
	}
	s, err := Load(data, opts...)
	if err != nil {
		return nil, err
	}
	s.name = "generated"
	return s, nil
}

// Name identifies where the original came from.
func (s *Session) Name() string { return s.name }

// Options returns the session configuration.
func (s *Session) Options() Options { return s.opts }

// Scene returns the current scene.
func (s *Session) Scene() *scene.Scene {
	sc, _ := s.history.Current()
	return sc
}

// History exposes the undo history for inspection.
func (s *Session) History() *history.History[*scene.Scene] { return s.history }

func (s *Session) commit(n *scene.Scene) {
	s.history.Commit(n)
}

func (s *Session) check() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// AddOverlay adds o on top of the scene and returns its id.
func (s *Session) AddOverlay(o scene.Overlay) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	n := s.Scene().AddOverlay(o)
	s.commit(n)
	return n.Selected(), nil
}

// AddText adds the configured default text overlay.
func (s *Session) AddText() (string, error) {
	return s.AddOverlay(scene.DefaultText(s.opts.Text))
}

// SetFilter recomputes the background with filter id from the unfiltered
// source.
func (s *Session) SetFilter(id filter.ID) error {
	if err := s.check(); err != nil {
		return err
	}
	n, err := s.Scene().SetFilter(id)
	if errors.Is(err, scene.ErrNoBackground) {
		return fmt.Errorf("%w: %w", ErrFilterUnavailable, err)
	}
	if err != nil {
		return err
	}
	s.commit(n)
	return nil
}

// Resize changes the canvas size, scaling the layout with it.
func (s *Session) Resize(width, height int) error {
	if err := s.check(); err != nil {
		return err
	}
	n, err := s.Scene().ResizeCanvas(width, height)
	if err != nil {
		return err
	}
	s.commit(n)
	return nil
}

// Select changes the selected overlay. Selection is not an undoable edit,
// so the current history entry is replaced.
func (s *Session) Select(id string) error {
	if err := s.check(); err != nil {
		return err
	}
	n, err := s.Scene().Select(id)
	if err != nil {
		return err
	}
	s.history.Replace(n)
	return nil
}

// MoveOverlay places an overlay's anchor at pos.
func (s *Session) MoveOverlay(id string, pos geometry.Point) error {
	return s.edit(func(sc *scene.Scene) (*scene.Scene, error) { return sc.MoveOverlay(id, pos) })
}

// TransformOverlay sets an overlay's scale and rotation.
func (s *Session) TransformOverlay(id string, scaleX, scaleY, rotation float64) error {
	return s.edit(func(sc *scene.Scene) (*scene.Scene, error) {
		return sc.TransformOverlay(id, scaleX, scaleY, rotation)
	})
}

// SetText changes the content of a text overlay.
func (s *Session) SetText(id, content string) error {
	return s.edit(func(sc *scene.Scene) (*scene.Scene, error) { return sc.SetText(id, content) })
}

// RemoveOverlay deletes an overlay.
func (s *Session) RemoveOverlay(id string) error {
	return s.edit(func(sc *scene.Scene) (*scene.Scene, error) { return sc.RemoveOverlay(id) })
}

func (s *Session) edit(fn func(*scene.Scene) (*scene.Scene, error)) error {
	if err := s.check(); err != nil {
		return err
	}
	n, err := fn(s.Scene())
	if err != nil {
		return err
	}
	s.commit(n)
	return nil
}

// BeginCrop starts a crop selection over the current canvas.
func (s *Session) BeginCrop(aspect crop.Aspect) error {
	if err := s.check(); err != nil {
		return err
	}
	if s.Scene().Background().Source == nil {
		return scene.ErrNoBackground
	}
	s.crop.Begin(s.Scene().Canvas(), aspect)
	Logger().Debug("crop started", "aspect", aspect.String())
	return nil
}

// Crop returns the crop controller so callers can drag the selection.
func (s *Session) Crop() *crop.Controller { return &s.crop }

// CommitCrop replaces the background with the selected region of the
// original. An invalid region leaves the crop active and the scene
// unchanged.
func (s *Session) CommitCrop() error {
	if err := s.check(); err != nil {
		return err
	}
	sel := s.crop.Selection()
	n, err := s.crop.Commit(s.Scene())
	if err != nil {
		Logger().Warn("crop rejected", "selection", sel, "err", err)
		return err
	}
	s.commit(n)
	Logger().Debug("crop committed", "size", n.Background().Source.Size().String())
	return nil
}

// CancelCrop abandons the crop selection.
func (s *Session) CancelCrop() { s.crop.Cancel() }

// CanUndo reports whether Undo would change the scene.
func (s *Session) CanUndo() bool { return !s.closed && s.history.CanUndo() }

// CanRedo reports whether Redo would change the scene.
func (s *Session) CanRedo() bool { return !s.closed && s.history.CanRedo() }

// Undo steps back one entry. It reports false when there is nothing to
// undo. An active crop is cancelled.
func (s *Session) Undo() bool {
	if s.closed {
		return false
	}
	s.crop.Cancel()
	_, ok := s.history.Undo()
	return ok
}

// Redo steps forward one entry. It reports false at the newest entry.
func (s *Session) Redo() bool {
	if s.closed {
		return false
	}
	s.crop.Cancel()
	_, ok := s.history.Redo()
	return ok
}

// Export flattens the current scene at native resolution and encodes it.
func (s *Session) Export(opts render.Options) ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return ExportScene(s.Scene(), opts)
}

// Save exports the current scene and hands it to store.
func (s *Session) Save(ctx context.Context, store Store, opts render.Options) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return SaveScene(ctx, store, s.Scene(), opts)
}

// Close releases the session. Scenes obtained earlier stay valid.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.crop.Cancel()
	s.history.Reset()
	Logger().Debug("session closed", "name", s.name)
}

// ExportScene flattens and encodes sc. It only reads sc, so it can run on
// a snapshot in another goroutine.
func ExportScene(sc *scene.Scene, opts render.Options) ([]byte, error) {
	data, err := render.Export(sc, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailure, err)
	}
	return data, nil
}

// SaveScene exports sc and stores the result, returning the stored id.
func SaveScene(ctx context.Context, store Store, sc *scene.Scene, opts render.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := ExportScene(sc, opts)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := store.StoreResult(ctx, data)
	if err != nil {
		Logger().Warn("store result failed", "err", err)
		return "", fmt.Errorf("%w: store: %w", ErrExportFailure, err)
	}
	Logger().Debug("result stored", "id", id, "bytes", len(data))
	return id, nil
}
