package model

import (
	"math"

	"github.com/google/uuid"
)

// Point represents a 2D coordinate in board units.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Item is one freely positioned, scaled rectangle on a board.
// X and Y are the top-left corner; the rendered size is Width*Scale by Height*Scale.
type Item struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`  // intrinsic width
	Height float64 `json:"height"` // intrinsic height
	Scale  float64 `json:"scale"`
	Z      int     `json:"z"` // depth order, carried through untouched
}

func NewItem(label string, x, y, w, h float64) Item {
	return Item{
		ID:     uuid.New().String()[:8],
		Label:  label,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Scale:  1,
	}
}

// ScaledWidth returns the rendered width.
func (it Item) ScaledWidth() float64 { return it.Width * it.Scale }

// ScaledHeight returns the rendered height.
func (it Item) ScaledHeight() float64 { return it.Height * it.Scale }

func (it Item) Right() float64  { return it.X + it.ScaledWidth() }
func (it Item) Bottom() float64 { return it.Y + it.ScaledHeight() }

func (it Item) CenterX() float64 { return it.X + it.ScaledWidth()/2 }
func (it Item) CenterY() float64 { return it.Y + it.ScaledHeight()/2 }

// Area returns the rendered area, width*height*scale².
func (it Item) Area() float64 {
	return it.Width * it.Height * it.Scale * it.Scale
}

// Settings holds the declutter engine tuning values.
type Settings struct {
	Margin          float64 `json:"margin" yaml:"margin" toml:"margin"`                               // Minimum gap between two items
	ClusterDistance float64 `json:"cluster_distance" yaml:"cluster_distance" toml:"cluster_distance"` // Proximity that links items into one cluster
	StepSize        float64 `json:"step_size" yaml:"step_size" toml:"step_size"`                      // Pull-phase walk step
	PushIterations  int     `json:"push_iterations" yaml:"push_iterations" toml:"push_iterations"`    // Snap ceiling per push direction
	PullSteps       int     `json:"pull_steps" yaml:"pull_steps" toml:"pull_steps"`                   // Step budget per pull walk
	PullLoops       int     `json:"pull_loops" yaml:"pull_loops" toml:"pull_loops"`                   // Pull iterations per item (1..10)
	SpacedTolerance float64 `json:"spaced_tolerance" yaml:"spaced_tolerance" toml:"spaced_tolerance"` // Moves shorter than this count as "already spaced"
	Parallel        bool    `json:"parallel" yaml:"parallel" toml:"parallel"`                         // Solve clusters concurrently
}

// MaxPullLoops is the upper bound on per-item pull iterations.
const MaxPullLoops = 10

func DefaultSettings() Settings {
	return Settings{
		Margin:          40,
		ClusterDistance: 400,
		StepSize:        10,
		PushIterations:  64,
		PullSteps:       200,
		PullLoops:       MaxPullLoops,
		SpacedTolerance: 1,
		Parallel:        true,
	}
}

// Move records the displacement of one item during a settle run.
type Move struct {
	ItemID string  `json:"item_id"`
	FromX  float64 `json:"from_x"`
	FromY  float64 `json:"from_y"`
	ToX    float64 `json:"to_x"`
	ToY    float64 `json:"to_y"`
}

// Distance returns the Manhattan length of the move.
func (m Move) Distance() float64 {
	return math.Abs(m.ToX-m.FromX) + math.Abs(m.ToY-m.FromY)
}

// Stats summarizes a settle run. Soft failures are counted here, never returned as errors.
type Stats struct {
	Items             int      `json:"items"`
	Clusters          int      `json:"clusters"`
	Singletons        int      `json:"singletons"`
	Moved             int      `json:"moved"`
	PushUnresolved    []string `json:"push_unresolved,omitempty"` // Items left overlapping after the push phase
	PullBoxedIn       []string `json:"pull_boxed_in,omitempty"`   // Items pinned by a neighbour they still overlap
	TotalDisplacement float64  `json:"total_displacement"`
}

// Result holds the output of one settle run.
type Result struct {
	Items []Item `json:"items"` // Same order as the input; only X and Y differ
	Moves []Move `json:"moves"` // Only items that actually moved
	Stats Stats  `json:"stats"`
}

// Positions returns the final top-left corner of every item keyed by ID.
func (r Result) Positions() map[string]Point {
	out := make(map[string]Point, len(r.Items))
	for _, it := range r.Items {
		out[it.ID] = Point{X: it.X, Y: it.Y}
	}
	return out
}

// Bounds returns the min and max corners enclosing all items.
func (r Result) Bounds() (min, max Point) {
	return ItemBounds(r.Items)
}

// ItemBounds returns the min and max corners enclosing the given items.
func ItemBounds(items []Item) (min, max Point) {
	if len(items) == 0 {
		return Point{}, Point{}
	}
	min = Point{X: items[0].X, Y: items[0].Y}
	max = Point{X: items[0].Right(), Y: items[0].Bottom()}
	for _, it := range items[1:] {
		min.X = math.Min(min.X, it.X)
		min.Y = math.Min(min.Y, it.Y)
		max.X = math.Max(max.X, it.Right())
		max.Y = math.Max(max.Y, it.Bottom())
	}
	return min, max
}

// Board is one spatial group of items as stored by callers.
type Board struct {
	Name     string    `json:"name"`
	Items    []Item    `json:"items"`
	Settings *Settings `json:"settings,omitempty"` // Per-board override of the engine defaults
}

func NewBoard(name string) Board {
	return Board{
		Name:  name,
		Items: []Item{},
	}
}

// Apply writes the positions of a result back onto the board's items.
// Items absent from the result keep their position.
func (b *Board) Apply(r Result) {
	pos := r.Positions()
	for i := range b.Items {
		if p, ok := pos[b.Items[i].ID]; ok {
			b.Items[i].X = p.X
			b.Items[i].Y = p.Y
		}
	}
}
