package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemDefaults(t *testing.T) {
	it := NewItem("Photo", 10, 20, 300, 200)

	assert.Len(t, it.ID, 8)
	assert.Equal(t, "Photo", it.Label)
	assert.Equal(t, 1.0, it.Scale)
	assert.Equal(t, 0, it.Z)
}

func TestItemDerivedGeometry(t *testing.T) {
	it := Item{ID: "a", X: 10, Y: 20, Width: 100, Height: 50, Scale: 2}

	assert.Equal(t, 200.0, it.ScaledWidth())
	assert.Equal(t, 100.0, it.ScaledHeight())
	assert.Equal(t, 210.0, it.Right())
	assert.Equal(t, 120.0, it.Bottom())
	assert.Equal(t, 110.0, it.CenterX())
	assert.Equal(t, 70.0, it.CenterY())
	assert.Equal(t, 20000.0, it.Area(), "area is width*height*scale²")
}

func TestItemValidate(t *testing.T) {
	valid := Item{ID: "a", Width: 10, Height: 10, Scale: 1}
	require.NoError(t, valid.Validate())

	zero := Item{ID: "z"}
	assert.NoError(t, zero.Validate(), "zero-sized items are degenerate but legal")

	tests := []struct {
		name  string
		item  Item
		field string
	}{
		{"empty id", Item{Width: 1, Height: 1, Scale: 1}, "id"},
		{"negative width", Item{ID: "a", Width: -1, Height: 1, Scale: 1}, "width"},
		{"negative height", Item{ID: "a", Width: 1, Height: -1, Scale: 1}, "height"},
		{"negative scale", Item{ID: "a", Width: 1, Height: 1, Scale: -0.5}, "scale"},
		{"nan x", Item{ID: "a", X: math.NaN(), Width: 1, Height: 1, Scale: 1}, "x"},
		{"inf y", Item{ID: "a", Y: math.Inf(1), Width: 1, Height: 1, Scale: 1}, "y"},
		{"inf width", Item{ID: "a", Width: math.Inf(1), Height: 1, Scale: 1}, "width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGeometry))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateItemsRejectsDuplicates(t *testing.T) {
	items := []Item{
		{ID: "a", Width: 1, Height: 1, Scale: 1},
		{ID: "b", Width: 1, Height: 1, Scale: 1},
		{ID: "a", Width: 1, Height: 1, Scale: 1},
	}
	err := ValidateItems(items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Contains(t, err.Error(), `"a"`)

	assert.NoError(t, ValidateItems(items[:2]))
	assert.NoError(t, ValidateItems(nil))
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"negative margin", func(s *Settings) { s.Margin = -1 }},
		{"cluster distance below margin", func(s *Settings) { s.ClusterDistance = s.Margin - 1 }},
		{"zero step", func(s *Settings) { s.StepSize = 0 }},
		{"nan step", func(s *Settings) { s.StepSize = math.NaN() }},
		{"zero push iterations", func(s *Settings) { s.PushIterations = 0 }},
		{"zero pull steps", func(s *Settings) { s.PullSteps = 0 }},
		{"too many pull loops", func(s *Settings) { s.PullLoops = MaxPullLoops + 1 }},
		{"zero pull loops", func(s *Settings) { s.PullLoops = 0 }},
		{"negative tolerance", func(s *Settings) { s.SpacedTolerance = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSettings))
		})
	}
}

func TestMoveDistanceIsManhattan(t *testing.T) {
	m := Move{FromX: 0, FromY: 0, ToX: -30, ToY: 40}
	assert.Equal(t, 70.0, m.Distance())
}

func TestResultPositionsAndBounds(t *testing.T) {
	r := Result{Items: []Item{
		{ID: "a", X: 0, Y: 0, Width: 100, Height: 100, Scale: 1},
		{ID: "b", X: 140, Y: -20, Width: 50, Height: 50, Scale: 2},
	}}

	pos := r.Positions()
	assert.Equal(t, Point{X: 140, Y: -20}, pos["b"])

	min, max := r.Bounds()
	assert.Equal(t, Point{X: 0, Y: -20}, min)
	assert.Equal(t, Point{X: 240, Y: 100}, max)

	min, max = ItemBounds(nil)
	assert.Equal(t, Point{}, min)
	assert.Equal(t, Point{}, max)
}

func TestBoardApply(t *testing.T) {
	b := NewBoard("Moodboard")
	b.Items = []Item{
		{ID: "a", X: 0, Y: 0, Width: 10, Height: 10, Scale: 1},
		{ID: "b", X: 5, Y: 5, Width: 10, Height: 10, Scale: 1},
	}
	b.Apply(Result{Items: []Item{{ID: "b", X: 50, Y: 60, Width: 10, Height: 10, Scale: 1}}})

	assert.Equal(t, 0.0, b.Items[0].X)
	assert.Equal(t, 50.0, b.Items[1].X)
	assert.Equal(t, 60.0, b.Items[1].Y)
}
