package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/declutter/internal/model"
)

// pushReport is the outcome of the push phase for one cluster.
type pushReport struct {
	order      []int // processing order, nearest to the centroid first
	unresolved []int // items that kept their position while still overlapping
}

// pushCluster removes overlaps inside one cluster. Items are visited from the
// weighted centroid outward; each one is displaced along the single cardinal
// direction that clears every already-resolved item with the shortest move.
// boxes is updated in place.
func pushCluster(boxes []box, members []int, s model.Settings) pushReport {
	order := centroidOrder(boxes, members)
	report := pushReport{order: order}
	resolved := make([]int, 0, len(order))

	for _, i := range order {
		start := boxes[i]
		if !collidesAny(start, boxes, resolved, s.Margin) {
			resolved = append(resolved, i)
			continue
		}

		best := start
		bestDist := math.Inf(1)
		found := false
		for _, d := range pushDirections {
			cand, ok := pushAlong(start, boxes, resolved, d, s)
			if !ok {
				continue
			}
			dist := manhattanDistance(cand.origin(), start.origin())
			if dist < bestDist {
				best, bestDist, found = cand, dist, true
			}
		}

		if found {
			boxes[i] = best
		} else {
			report.unresolved = append(report.unresolved, i)
		}
		resolved = append(resolved, i)
	}

	return report
}

// centroidOrder sorts members ascending by the Manhattan distance of their
// centers from the cluster's weighted centroid. Equal distances keep input order.
func centroidOrder(boxes []box, members []int) []int {
	centroid := weightedCentroid(boxes, members)
	dist := make(map[int]float64, len(members))
	for _, i := range members {
		dist[i] = manhattanDistance(boxes[i].center(), centroid)
	}

	order := append([]int(nil), members...)
	sort.Slice(order, func(a, b int) bool {
		da, db := dist[order[a]], dist[order[b]]
		if da != db {
			return da < db
		}
		return order[a] < order[b]
	})
	return order
}

// pushAlong displaces b along d, snapping past one blocker at a time, until it
// clears every resolved box. It reports false when the iteration ceiling is
// reached first; a half-resolved position is never returned as viable.
func pushAlong(b box, boxes []box, resolved []int, d direction, s model.Settings) (box, bool) {
	for iter := 0; ; iter++ {
		blocker, hit := nearestBlocker(b, boxes, resolved, d, s.Margin)
		if !hit {
			return b, true
		}
		if iter == s.PushIterations {
			return b, false
		}
		b = b.at(clearOf(b, boxes[blocker], d, s.Margin))
	}
}

func collidesAny(b box, boxes []box, others []int, margin float64) bool {
	for _, j := range others {
		if collides(b, boxes[j], margin) {
			return true
		}
	}
	return false
}

// nearestBlocker returns the resolved box colliding with b that needs the
// least movement along d to clear.
func nearestBlocker(b box, boxes []box, resolved []int, d direction, margin float64) (int, bool) {
	best := -1
	bestAdvance := math.Inf(1)
	for _, j := range resolved {
		if !collides(b, boxes[j], margin) {
			continue
		}
		x, y := clearOf(b, boxes[j], d, margin)
		if a := advance(b, x, y, d); a < bestAdvance {
			best, bestAdvance = j, a
		}
	}
	return best, best >= 0
}
