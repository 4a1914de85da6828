package ui

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/photoedit/internal/editor"
)

// Title is the default window title.
const Title = "photoedit"

// Loader produces the session to edit. It runs off the event loop.
type Loader func(ctx context.Context) (*editor.Session, error)

// Run opens the editor window and blocks until it is closed. The session
// produced by load is closed on exit.
func Run(load Loader, cfg Config) {
	driver.Main(func(s screen.Screen) { Main(s, load, cfg) })
}

// Main runs the window on an existing screen.
func Main(s screen.Screen, load Loader, cfg Config) {
	app := NewApp(cfg)
	title := cfg.Title
	if title == "" {
		title = Title
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: app.width, Height: app.height, Title: title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	ctx, cancel := context.WithCancel(context.Background())
	var jobs sync.WaitGroup
	defer func() {
		// Pending loads and saves finish before the session goes away;
		// their results are dropped with the window.
		cancel()
		jobs.Wait()
		if sess := app.Session(); sess != nil {
			sess.Close()
		}
	}()

	jobs.Add(1)
	go func() {
		defer jobs.Done()
		sess, err := load(ctx)
		w.Send(loadResult{session: sess, err: err})
	}()

	painter := startPainter(ctx, func(fctx context.Context, f frame) bool {
		return publish(fctx, s, w, f)
	})
	// The window is released after this returns.
	defer painter.stop()

	save := func() {
		job := app.startSave(ctx)
		if job == nil {
			return
		}
		jobs.Add(1)
		go func() {
			defer jobs.Done()
			w.Send(job())
		}()
	}

	pressed := false
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			app.Resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			painter.submit(app.frame())
		case loadResult:
			if e.session != nil && ctx.Err() != nil {
				e.session.Close()
				continue
			}
			app.finishLoad(e)
			w.Send(paint.Event{})
		case saveResult:
			app.finishSave(e)
			w.Send(paint.Event{})
		case mouse.Event:
			if e.Button != mouse.ButtonLeft && !(pressed && e.Direction == mouse.DirNone) {
				continue
			}
			switch e.Direction {
			case mouse.DirPress:
				pressed = true
				app.Press(e.X, e.Y)
			case mouse.DirRelease:
				pressed = false
				app.Release(e.X, e.Y)
			case mouse.DirNone:
				app.Drag(e.X, e.Y)
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			if app.Key(e) {
				save()
			}
			if app.Quit() {
				return
			}
			w.Send(paint.Event{})
		case error:
			log.Printf("window: %v", e)
		}
	}
}

// publish renders f into a fresh buffer and shows it. It reports whether
// the frame completed.
func publish(ctx context.Context, s screen.Screen, w screen.Window, f frame) bool {
	b, err := s.NewBuffer(image.Point{X: f.width, Y: f.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return false
	}
	defer b.Release()
	if err := drawFrame(ctx, b.RGBA(), f); err != nil {
		if ctx.Err() == nil {
			log.Printf("paint: %v", err)
		}
		return false
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return true
}
