package engine

import (
	"math"

	"github.com/piwi3910/declutter/internal/model"
)

// geomEpsilon absorbs rounding after an exact snap so a box placed exactly
// one margin away is not reported as colliding again.
const geomEpsilon = 1e-9

// box is the working bounding box of one item at its simulated position.
// w and h are the scaled size and never change during a run.
type box struct {
	x, y    float64
	w, h    float64
	right   float64
	bottom  float64
	centerX float64
	centerY float64
	area    float64
}

func boundingBox(it model.Item) box {
	b := box{
		w:    it.ScaledWidth(),
		h:    it.ScaledHeight(),
		area: it.Area(),
	}
	b.moveTo(it.X, it.Y)
	return b
}

// moveTo repositions the box and recomputes the derived edges.
func (b *box) moveTo(x, y float64) {
	b.x = x
	b.y = y
	b.right = x + b.w
	b.bottom = y + b.h
	b.centerX = x + b.w/2
	b.centerY = y + b.h/2
}

// at returns a copy of b moved to (x, y).
func (b box) at(x, y float64) box {
	b.moveTo(x, y)
	return b
}

func (b box) origin() model.Point { return model.Point{X: b.x, Y: b.y} }
func (b box) center() model.Point { return model.Point{X: b.centerX, Y: b.centerY} }

// overlaps reports whether a and b, each grown by margin, intersect on both axes.
func overlaps(a, b box, margin float64) bool {
	separated := a.right+margin <= b.x ||
		a.x >= b.right+margin ||
		a.bottom+margin <= b.y ||
		a.y >= b.bottom+margin
	return !separated
}

// sweep returns the smallest box covering both a and b.
func sweep(a, b box) box {
	x, y := math.Min(a.x, b.x), math.Min(a.y, b.y)
	s := box{w: math.Max(a.right, b.right) - x, h: math.Max(a.bottom, b.bottom) - y}
	s.moveTo(x, y)
	return s
}

// collides is overlaps with the rounding allowance used by the resolvers.
func collides(a, b box, margin float64) bool {
	return overlaps(a, b, margin-geomEpsilon)
}

// weightedCentroid returns the area-weighted mean center of the selected boxes.
// When their total area is zero it falls back to the plain mean of the centers,
// and it returns (0, 0) only for an empty selection.
func weightedCentroid(boxes []box, members []int) model.Point {
	if len(members) == 0 {
		return model.Point{}
	}
	var sumX, sumY, total float64
	var plainX, plainY float64
	for _, i := range members {
		b := boxes[i]
		sumX += b.centerX * b.area
		sumY += b.centerY * b.area
		total += b.area
		plainX += b.centerX
		plainY += b.centerY
	}
	if total == 0 {
		n := float64(len(members))
		return model.Point{X: plainX / n, Y: plainY / n}
	}
	return model.Point{X: sumX / total, Y: sumY / total}
}

func manhattanDistance(a, b model.Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// direction is one of the four cardinal moves.
type direction int

const (
	dirRight direction = iota
	dirDown
	dirLeft
	dirUp
)

// pushDirections is the evaluation order of the push phase. Ties between
// equally short pushes resolve to the earlier entry.
var pushDirections = []direction{dirRight, dirDown, dirLeft, dirUp}

func (d direction) String() string {
	switch d {
	case dirRight:
		return "right"
	case dirDown:
		return "down"
	case dirLeft:
		return "left"
	default:
		return "up"
	}
}

// clearOf returns the position of moving along d until it sits exactly
// margin away from blocker. Only the coordinate on d's axis changes.
func clearOf(moving, blocker box, d direction, margin float64) (float64, float64) {
	switch d {
	case dirRight:
		return blocker.right + margin, moving.y
	case dirLeft:
		return blocker.x - moving.w - margin, moving.y
	case dirDown:
		return moving.x, blocker.bottom + margin
	default:
		return moving.x, blocker.y - moving.h - margin
	}
}

// clearOfAhead is the snap used when the blocker lies ahead of the moving box:
// the box stops one margin short of the blocker's near edge.
func clearOfAhead(moving, blocker box, d direction, margin float64) (float64, float64) {
	switch d {
	case dirRight:
		return blocker.x - moving.w - margin, moving.y
	case dirLeft:
		return blocker.right + margin, moving.y
	case dirDown:
		return moving.x, blocker.y - moving.h - margin
	default:
		return moving.x, blocker.bottom + margin
	}
}

// advance returns how far (x, y) lies from b's position along d.
func advance(b box, x, y float64, d direction) float64 {
	switch d {
	case dirRight:
		return x - b.x
	case dirLeft:
		return b.x - x
	case dirDown:
		return y - b.y
	default:
		return b.y - y
	}
}
