package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/declutter/internal/engine"
)

// compareCommand creates the compare command that settles a board under
// several what-if settings and prints the outcomes side by side.
func (c *CLI) compareCommand() *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "compare [input]",
		Short: "Compare settle outcomes under alternative settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.loadBoard(args[0])
			if err != nil {
				return fmt.Errorf("load board %s: %w", args[0], err)
			}
			settings := c.resolveSettings(cmd, board, flags)

			p := newProgress(c.Logger)
			results := engine.CompareScenarios(engine.BuildDefaultScenarios(settings), board.Items)
			p.done(fmt.Sprintf("Compared %d scenarios", len(results)))

			c.printTitle(fmt.Sprintf("%s (%d items)", board.Name, len(board.Items)))
			fmt.Fprintln(c.out, comparisonTable(results))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func comparisonTable(results []engine.ComparisonResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Scenario", "Clusters", "Moved", "Displacement", "Overlaps", "Bounds Area")

	for _, r := range results {
		if r.Err != nil {
			t.Row(r.Scenario.Name, "-", "-", "-", "-", r.Err.Error())
			continue
		}
		t.Row(
			r.Scenario.Name,
			fmt.Sprintf("%d", r.Clusters),
			fmt.Sprintf("%d", r.Moved),
			fmt.Sprintf("%.1f", r.TotalDisplacement),
			fmt.Sprintf("%d", r.ResidualOverlaps),
			fmt.Sprintf("%.0f", r.BoundsArea),
		)
	}
	return t.Render()
}
