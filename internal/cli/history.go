package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/declutter/internal/store"
)

// historyCommand creates the history command that lists recorded settle runs.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		db    string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history [board]",
		Short: "List recorded settle runs for a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.databasePath(db)
			if path == "" {
				return fmt.Errorf("no history database: pass --db or set database_path in %s", c.configPath)
			}

			s, err := store.Open(path)
			if err != nil {
				return fmt.Errorf("open history %s: %w", path, err)
			}
			defer s.Close()

			runs, err := s.History(cmd.Context(), args[0], limit)
			if errors.Is(err, store.ErrNotFound) {
				c.printWarning("No runs recorded for %s", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			c.printTitle(fmt.Sprintf("%s: %d runs", args[0], len(runs)))
			for _, r := range runs {
				c.printKeyValue(fmt.Sprintf("#%d", r.ID), r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				c.printStats(
					fmt.Sprintf("%d items", r.Items),
					fmt.Sprintf("%d moved", r.Moved),
					fmt.Sprintf("%.1f displacement", r.TotalDisplacement),
					fmt.Sprintf("margin %.1f", r.Settings.Margin),
					fmt.Sprintf("%d unresolved", r.Unresolved),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "SQLite history database (default: config database_path)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum runs to list (0 for all)")

	return cmd
}
