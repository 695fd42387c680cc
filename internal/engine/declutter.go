package engine

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/declutter/internal/model"
)

// Declutterer runs the cluster, push and pull pipeline over a set of items.
// It keeps no state between calls; the same input always yields the same output.
type Declutterer struct {
	Settings model.Settings
	Logger   *log.Logger
}

func New(settings model.Settings) *Declutterer {
	return &Declutterer{Settings: settings, Logger: log.New(io.Discard)}
}

// Declutter is a convenience wrapper around New(settings).Declutter(items).
func Declutter(items []model.Item, settings model.Settings) (model.Result, error) {
	return New(settings).Declutter(items)
}

// clusterReport collects the soft failures of one solved cluster.
type clusterReport struct {
	push pushReport
	pull pullReport
}

// Declutter returns the settled positions of items. Items are grouped into
// clusters by proximity; every cluster with more than one member is first
// pushed apart until no two members overlap within the margin and then
// pulled back toward its centroid. The input slice is left untouched and the
// result lists items in input order with only X and Y changed.
//
// Malformed settings or items produce an error wrapping model.ErrInvalidSettings,
// model.ErrInvalidGeometry or model.ErrDuplicateID. Items that could not be
// resolved are reported in Result.Stats rather than as errors.
func (d *Declutterer) Declutter(items []model.Item) (model.Result, error) {
	if err := d.Settings.Validate(); err != nil {
		return model.Result{}, err
	}
	if err := model.ValidateItems(items); err != nil {
		return model.Result{}, err
	}

	logger := d.logger()
	start := time.Now()

	boxes := make([]box, len(items))
	for i, it := range items {
		boxes[i] = boundingBox(it)
	}

	clusters := detectClusters(boxes, d.Settings.ClusterDistance)
	stats := model.Stats{Items: len(items), Clusters: len(clusters)}

	var solvable [][]int
	for _, c := range clusters {
		if len(c) < 2 {
			stats.Singletons++
			continue
		}
		solvable = append(solvable, c)
	}
	logger.Debug("clusters detected", "clusters", len(clusters), "singletons", stats.Singletons)

	// Clusters own disjoint indices of boxes, so they can be solved concurrently.
	reports := make([]clusterReport, len(solvable))
	if d.Settings.Parallel && len(solvable) > 1 {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for k := range solvable {
			g.Go(func() error {
				reports[k] = solveCluster(boxes, solvable[k], d.Settings)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for k := range solvable {
			reports[k] = solveCluster(boxes, solvable[k], d.Settings)
		}
	}

	result := model.Result{
		Items: make([]model.Item, len(items)),
		Moves: []model.Move{},
	}
	for i, it := range items {
		out := it
		out.X, out.Y = boxes[i].x, boxes[i].y
		result.Items[i] = out

		if out.X != it.X || out.Y != it.Y {
			m := model.Move{ItemID: it.ID, FromX: it.X, FromY: it.Y, ToX: out.X, ToY: out.Y}
			result.Moves = append(result.Moves, m)
			stats.TotalDisplacement += m.Distance()
		}
	}
	stats.Moved = len(result.Moves)

	for k, r := range reports {
		logger.Debug("cluster settled", "items", len(solvable[k]), "pull_passes", r.pull.passes)
		for _, i := range r.push.unresolved {
			stats.PushUnresolved = append(stats.PushUnresolved, items[i].ID)
			logger.Warn("no push direction clears item, keeping position", "item", items[i].ID)
		}
		for _, i := range r.pull.boxedIn {
			stats.PullBoxedIn = append(stats.PullBoxedIn, items[i].ID)
			logger.Debug("item boxed in during pull", "item", items[i].ID)
		}
	}
	result.Stats = stats

	logger.Info("settled",
		"items", stats.Items,
		"clusters", stats.Clusters,
		"moved", stats.Moved,
		"elapsed", time.Since(start).Round(time.Microsecond),
	)
	return result, nil
}

func (d *Declutterer) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

func solveCluster(boxes []box, members []int, s model.Settings) clusterReport {
	push := pushCluster(boxes, members, s)
	pull := pullCluster(boxes, push.order, s)
	return clusterReport{push: push, pull: pull}
}

// OverlapPair names two items of the same cluster that sit closer than the margin.
type OverlapPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CheckOverlaps reports every pair of items that share a cluster at their
// current positions and violate the margin. Gaps within a rounding allowance
// of the margin are accepted. Pairs are listed in input order.
func CheckOverlaps(items []model.Item, settings model.Settings) []OverlapPair {
	boxes := make([]box, len(items))
	for i, it := range items {
		boxes[i] = boundingBox(it)
	}

	cluster := make([]int, len(items))
	for c, members := range detectClusters(boxes, settings.ClusterDistance) {
		for _, i := range members {
			cluster[i] = c
		}
	}

	var pairs []OverlapPair
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if cluster[i] == cluster[j] && collides(boxes[i], boxes[j], settings.Margin) {
				pairs = append(pairs, OverlapPair{A: items[i].ID, B: items[j].ID})
			}
		}
	}
	return pairs
}
