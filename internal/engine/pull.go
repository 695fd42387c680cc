package engine

import (
	"math"

	"github.com/piwi3910/declutter/internal/model"
)

// pullReport is the outcome of the pull phase for one cluster.
type pullReport struct {
	boxedIn []int // items held in place by a neighbour they still overlap
	passes  int
}

// pullCandidate is one direction an item may be pulled in, with the distance
// left before its center lines up with the centroid on that axis.
type pullCandidate struct {
	dir   direction
	limit float64
}

// pullCluster closes the gaps left by the push phase by walking items toward
// the cluster centroid. Each pass fixes its anchor from the layout it starts
// with and visits items in push order, so every item sees the positions
// already committed by the items before it. Passes repeat, at most PullLoops
// times, until one commits no move; the result is then a fixed point of a
// further pull.
func pullCluster(boxes []box, order []int, s model.Settings) pullReport {
	var report pullReport
	wanted := make(map[int]bool, len(order))
	moved := make(map[int]bool, len(order))

	for pass := 0; pass < s.PullLoops; pass++ {
		report.passes++
		anchor := weightedCentroid(boxes, order)
		progress := false
		for _, i := range order {
			w, m := pullItem(boxes, i, anchor, order, s)
			wanted[i] = wanted[i] || w
			if m {
				moved[i] = true
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	for _, i := range order {
		if wanted[i] && !moved[i] && collidesAny(boxes[i], boxes, othersOf(order, i), s.Margin) {
			report.boxedIn = append(report.boxedIn, i)
		}
	}
	return report
}

// pullItem walks item i toward anchor for up to PullLoops iterations. It
// reports whether i had any direction to go and whether it moved.
func pullItem(boxes []box, i int, anchor model.Point, order []int, s model.Settings) (wanted, moved bool) {
	for loop := 0; loop < s.PullLoops; loop++ {
		cands := pullCandidates(boxes[i], anchor)
		if len(cands) == 0 {
			return wanted, moved
		}
		wanted = true

		start := boxes[i]
		best := start
		bestDist := math.Inf(1)
		found := false
		for _, c := range cands {
			cand, ok := walk(start, i, c, boxes, order, s)
			if !ok {
				continue
			}
			// Prefer the candidate that stays closest to where this iteration began.
			dist := manhattanDistance(cand.origin(), start.origin())
			if dist < bestDist {
				best, bestDist, found = cand, dist, true
			}
		}
		if !found {
			return wanted, moved
		}
		boxes[i] = best
		moved = true
	}
	return wanted, moved
}

func othersOf(members []int, self int) []int {
	others := make([]int, 0, len(members))
	for _, j := range members {
		if j != self {
			others = append(others, j)
		}
	}
	return others
}

// pullCandidates picks up to two directions from b's center toward anchor.
// The axis with the larger delta goes first; ties favour the vertical axis.
// An axis with a zero delta contributes nothing.
func pullCandidates(b box, anchor model.Point) []pullCandidate {
	dx := anchor.X - b.centerX
	dy := anchor.Y - b.centerY
	if dx == 0 && dy == 0 {
		return nil
	}

	var horiz, vert *pullCandidate
	if dx != 0 {
		c := pullCandidate{dir: dirRight, limit: math.Abs(dx)}
		if dx < 0 {
			c.dir = dirLeft
		}
		horiz = &c
	}
	if dy != 0 {
		c := pullCandidate{dir: dirDown, limit: math.Abs(dy)}
		if dy < 0 {
			c.dir = dirUp
		}
		vert = &c
	}

	first, second := vert, horiz
	if math.Abs(dx) > math.Abs(dy) {
		first, second = horiz, vert
	}

	cands := make([]pullCandidate, 0, 2)
	for _, c := range []*pullCandidate{first, second} {
		if c != nil {
			cands = append(cands, *c)
		}
	}
	return cands
}

// walk simulates stepping the box at index self along c.dir. The walk stops
// when the budget runs out, when the center reaches the anchor's axis, or on
// the first predicted collision, in which case the box is snapped to sit
// exactly one margin from the blocker. It reports false when the resulting
// move is shorter than the spaced tolerance.
func walk(start box, self int, c pullCandidate, boxes []box, members []int, s model.Settings) (box, bool) {
	cur := start
	travelled := 0.0

	for step := 0; step < s.PullSteps && travelled < c.limit; step++ {
		stepLen := math.Min(s.StepSize, c.limit-travelled)
		next := cur.at(offset(cur, c.dir, stepLen))

		if blocker, hit := aheadBlocker(cur, next, self, c.dir, boxes, members, s.Margin); hit {
			x, y := clearOfAhead(cur, boxes[blocker], c.dir, s.Margin)
			a := math.Max(0, math.Min(stepLen, advance(cur, x, y, c.dir)))
			cur = cur.at(offset(cur, c.dir, a))
			break
		}

		cur = next
		travelled += stepLen
	}

	dist := manhattanDistance(cur.origin(), start.origin())
	if dist <= 0 || dist < s.SpacedTolerance {
		return start, false
	}
	return cur, true
}

// aheadBlocker returns the cluster box in the path from cur to next that
// allows the least advance from cur. The whole swept area is tested so a
// thin item cannot be stepped over.
func aheadBlocker(cur, next box, self int, d direction, boxes []box, members []int, margin float64) (int, bool) {
	path := sweep(cur, next)
	best := -1
	bestAdvance := math.Inf(1)
	for _, j := range members {
		if j == self || !collides(path, boxes[j], margin) {
			continue
		}
		x, y := clearOfAhead(cur, boxes[j], d, margin)
		if a := advance(cur, x, y, d); a < bestAdvance {
			best, bestAdvance = j, a
		}
	}
	return best, best >= 0
}

// offset returns b's position moved dist units along d.
func offset(b box, d direction, dist float64) (float64, float64) {
	switch d {
	case dirRight:
		return b.x + dist, b.y
	case dirLeft:
		return b.x - dist, b.y
	case dirDown:
		return b.x, b.y + dist
	default:
		return b.x, b.y - dist
	}
}
