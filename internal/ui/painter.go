package ui

import (
	"context"
	"sync"
)

// frameDropThreshold specifies how many consecutive frames can be
// cancelled before a draw is allowed to complete.
const frameDropThreshold = 10

// painter draws frames on its own goroutine. A newer frame replaces one
// still queued and cancels the one being drawn, unless frameDropThreshold
// frames in a row have already been dropped.
type painter struct {
	draw func(ctx context.Context, f frame) bool

	mu     sync.Mutex
	cancel context.CancelFunc
	drops  int

	frames chan frame
	done   chan struct{}
}

func startPainter(ctx context.Context, draw func(context.Context, frame) bool) *painter {
	p := &painter{
		draw:   draw,
		frames: make(chan frame, 1),
		done:   make(chan struct{}),
	}
	go p.loop(ctx)
	return p
}

func (p *painter) loop(ctx context.Context) {
	defer close(p.done)
	for f := range p.frames {
		fctx, cancel := context.WithCancel(ctx)
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		ok := p.draw(fctx, f)
		p.mu.Lock()
		if ok {
			p.drops = 0
		}
		p.cancel = nil
		p.mu.Unlock()
		cancel()
	}
}

// submit queues f. It is called from the event loop only.
func (p *painter) submit(f frame) {
	p.mu.Lock()
	if p.cancel != nil && p.drops < frameDropThreshold {
		p.cancel()
		p.drops++
	}
	p.mu.Unlock()
	select {
	case p.frames <- f:
	default:
		select {
		case <-p.frames:
		default:
		}
		p.frames <- f
	}
}

// stop abandons queued and in-flight frames and waits for the painter to
// exit. Nothing is drawn once it returns.
func (p *painter) stop() {
	select {
	case <-p.frames:
	default:
	}
	close(p.frames)
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	<-p.done
}
