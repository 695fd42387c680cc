package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/declutter/internal/engine"
	"github.com/piwi3910/declutter/internal/export"
	"github.com/piwi3910/declutter/internal/model"
	"github.com/piwi3910/declutter/internal/store"
)

type settleOptions struct {
	output string
	pdf    string
	labels string
	db     string
	flags  settingsFlags
}

// settleCommand creates the settle command that runs the engine over one board.
func (c *CLI) settleCommand() *cobra.Command {
	var opts settleOptions

	cmd := &cobra.Command{
		Use:   "settle [input]",
		Short: "Resolve overlaps in a board and write the settled positions",
		Long: `Resolve overlaps in a board and write the settled positions.

The input may be a saved board (.board.json), a CSV or Excel sheet with
x/y/width/height columns, or a DXF drawing whose closed shapes become items.
The output format follows the extension of --output: .json writes a board,
.xlsx a workbook and .dxf a drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSettle(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.settled.board.json)")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "also write a before/after PDF report")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "also write a PDF of QR-coded item tags")
	cmd.Flags().StringVar(&opts.db, "db", "", "record the run in this SQLite database (default: config database_path)")
	opts.flags.register(cmd)

	return cmd
}

func (c *CLI) runSettle(cmd *cobra.Command, input string, opts settleOptions) error {
	ctx := cmd.Context()

	board, err := c.loadBoard(input)
	if err != nil {
		return fmt.Errorf("load board %s: %w", input, err)
	}
	settings := c.resolveSettings(cmd, board, opts.flags)

	p := newProgress(c.Logger)
	d := engine.New(settings)
	d.Logger = c.Logger
	result, err := d.Declutter(board.Items)
	if err != nil {
		return fmt.Errorf("settle %s: %w", input, err)
	}
	p.done(fmt.Sprintf("Settled %d items", len(result.Items)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	settled := board
	settled.Items = append([]model.Item(nil), board.Items...)
	settled.Apply(result)

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutputPath(input)
	}
	if err := writeBoardOutput(outputPath, settled, result); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	written := []string{outputPath}
	if opts.pdf != "" {
		if err := export.ExportPDF(opts.pdf, board, result, settings); err != nil {
			return fmt.Errorf("write report %s: %w", opts.pdf, err)
		}
		written = append(written, opts.pdf)
	}
	if opts.labels != "" {
		if err := export.ExportLabels(opts.labels, result); err != nil {
			return fmt.Errorf("write labels %s: %w", opts.labels, err)
		}
		written = append(written, opts.labels)
	}

	if dbPath := c.databasePath(opts.db); dbPath != "" {
		id, err := recordRun(ctx, dbPath, settled.Name, settings, result)
		if err != nil {
			return err
		}
		c.Logger.Debug("recorded settle run", "db", dbPath, "run", id)
		written = append(written, dbPath)
	}

	c.rememberBoard(input)

	c.printSuccess("Settled %s", settled.Name)
	for _, path := range written {
		c.printFile(path)
	}
	st := result.Stats
	c.printStats(
		fmt.Sprintf("%d items", st.Items),
		fmt.Sprintf("%d clusters", st.Clusters),
		fmt.Sprintf("%d moved", st.Moved),
		fmt.Sprintf("%.1f displacement", st.TotalDisplacement),
	)
	if n := len(st.PushUnresolved); n > 0 {
		c.printWarning("%d items still overlap a neighbour", n)
	}
	return nil
}

func recordRun(ctx context.Context, path, board string, settings model.Settings, result model.Result) (int64, error) {
	s, err := store.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open history %s: %w", path, err)
	}
	defer s.Close()

	id, err := s.RecordSettle(ctx, board, settings, result)
	if err != nil {
		return 0, fmt.Errorf("record settle run: %w", err)
	}
	return id, nil
}
