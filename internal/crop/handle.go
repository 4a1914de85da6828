package crop

import "github.com/example/photoedit/internal/geometry"

// HandleSize is the side of a square resize handle in viewport units.
const HandleSize = 8

// Handle identifies the part of the selection being dragged.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleTL
	HandleT
	HandleTR
	HandleR
	HandleBR
	HandleB
	HandleBL
	HandleL
)

// HandleRects returns the eight resize handles of r in the order TL, T,
// TR, R, BR, B, BL, L.
func HandleRects(r geometry.Rect) []geometry.Rect {
	hs := float64(HandleSize) / 2
	minX, minY := r.X, r.Y
	maxX, maxY := r.X+r.Width, r.Y+r.Height
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	at := func(x, y float64) geometry.Rect {
		return geometry.R(x-hs, y-hs, HandleSize, HandleSize)
	}
	return []geometry.Rect{
		at(minX, minY), // tl
		at(cx, minY),   // t
		at(maxX, minY), // tr
		at(maxX, cy),   // r
		at(maxX, maxY), // br
		at(cx, maxY),   // b
		at(minX, maxY), // bl
		at(minX, cy),   // l
	}
}

// adjust applies a drag of (dx, dy) on handle h to r.
func adjust(r geometry.Rect, h Handle, dx, dy float64) geometry.Rect {
	minX, minY := r.X, r.Y
	maxX, maxY := r.X+r.Width, r.Y+r.Height
	switch h {
	case HandleMove:
		minX, maxX = minX+dx, maxX+dx
		minY, maxY = minY+dy, maxY+dy
	case HandleTL:
		minX += dx
		minY += dy
	case HandleT:
		minY += dy
	case HandleTR:
		minY += dy
		maxX += dx
	case HandleR:
		maxX += dx
	case HandleBR:
		maxX += dx
		maxY += dy
	case HandleB:
		maxY += dy
	case HandleBL:
		minX += dx
		maxY += dy
	case HandleL:
		minX += dx
	}
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
