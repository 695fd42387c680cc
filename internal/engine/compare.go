package engine

import (
	"fmt"

	"github.com/piwi3910/declutter/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the settle result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario          ComparisonScenario
	Result            model.Result
	Err               error // Set when the scenario's settings were rejected
	Clusters          int
	Moved             int
	TotalDisplacement float64
	ResidualOverlaps  int
	BoundsArea        float64
}

// CompareScenarios settles the same items under each scenario and returns the
// results in scenario order. This enables side-by-side comparison of
// different tuning values (e.g., margin, cluster distance, pull loops).
func CompareScenarios(scenarios []ComparisonScenario, items []model.Item) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := Declutter(items, scenario.Settings)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		min, max := result.Bounds()
		results = append(results, ComparisonResult{
			Scenario:          scenario,
			Result:            result,
			Clusters:          result.Stats.Clusters,
			Moved:             result.Stats.Moved,
			TotalDisplacement: result.Stats.TotalDisplacement,
			ResidualOverlaps:  len(CheckOverlaps(result.Items, scenario.Settings)),
			BoundsArea:        (max.X - min.X) * (max.Y - min.Y),
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: Tighter spacing
	if baseSettings.Margin > 0 {
		tight := baseSettings
		tight.Margin = baseSettings.Margin * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Margin %.1f (half)", tight.Margin),
			Settings: tight,
		})
	}

	// Scenario: Larger neighbourhoods
	loose := baseSettings
	loose.ClusterDistance = baseSettings.ClusterDistance * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Cluster distance %.1f (double)", loose.ClusterDistance),
		Settings: loose,
	})

	// Scenario: Minimal nudge, a single pull pass per item
	if baseSettings.PullLoops > 1 {
		minimal := baseSettings
		minimal.PullLoops = 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Single Pull Pass",
			Settings: minimal,
		})
	}

	return scenarios
}
