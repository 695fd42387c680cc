package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/declutter/internal/export"
	"github.com/piwi3910/declutter/internal/importer"
	"github.com/piwi3910/declutter/internal/model"
	"github.com/piwi3910/declutter/internal/project"
)

// loadBoard reads items from a saved board or from any importable file.
// Import warnings are logged; import errors fail the load.
func (c *CLI) loadBoard(path string) (model.Board, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if project.IsBoardFile(path) || ext == ".json" {
		// A partial board override is layered onto the configured defaults.
		return project.LoadBoardWithDefaults(path, c.config.Settings())
	}

	var res importer.ImportResult
	switch ext {
	case ".csv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(path)
	case ".dxf":
		res = importer.ImportDXF(path)
	default:
		return model.Board{}, fmt.Errorf("unsupported input format %q", ext)
	}

	for _, w := range res.Warnings {
		c.Logger.Warn(w, "file", path)
	}
	if len(res.Errors) > 0 {
		return model.Board{}, fmt.Errorf("import %s: %s", path, strings.Join(res.Errors, "; "))
	}

	board := model.NewBoard(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	board.Items = res.Items
	return board, nil
}

// writeBoardOutput writes the settled board in the format named by the extension.
func writeBoardOutput(path string, board model.Board, result model.Result) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.ExportXLSX(path, result)
	case ".dxf":
		return export.ExportDXF(path, result)
	case ".json":
		return project.SaveBoard(path, board)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

// defaultOutputPath derives "<name>.settled.board.json" next to the input.
func defaultOutputPath(input string) string {
	base := input
	if project.IsBoardFile(base) {
		base = base[:len(base)-len(project.BoardExt)]
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + ".settled" + project.BoardExt
}

// settingsFlags are per-run overrides of the resolved engine settings.
type settingsFlags struct {
	margin          float64
	clusterDistance float64
	step            float64
	pullLoops       int
	sequential      bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	defaults := model.DefaultSettings()
	cmd.Flags().Float64Var(&f.margin, "margin", defaults.Margin, "minimum gap between items")
	cmd.Flags().Float64Var(&f.clusterDistance, "cluster-distance", defaults.ClusterDistance, "distance that links items into one cluster")
	cmd.Flags().Float64Var(&f.step, "step", defaults.StepSize, "pull-phase step size")
	cmd.Flags().IntVar(&f.pullLoops, "pull-loops", defaults.PullLoops, "pull iterations per item (1..10)")
	cmd.Flags().BoolVar(&f.sequential, "sequential", false, "solve clusters one at a time")
}

// resolveSettings layers the config defaults, the board's own override and
// any flags the user set explicitly. Boards loaded through loadBoard already
// carry the config values under any keys their override leaves out.
func (c *CLI) resolveSettings(cmd *cobra.Command, board model.Board, f settingsFlags) model.Settings {
	s := c.config.Settings()
	if board.Settings != nil {
		s = *board.Settings
	}

	flags := cmd.Flags()
	if flags.Changed("margin") {
		s.Margin = f.margin
	}
	if flags.Changed("cluster-distance") {
		s.ClusterDistance = f.clusterDistance
	}
	if flags.Changed("step") {
		s.StepSize = f.step
	}
	if flags.Changed("pull-loops") {
		s.PullLoops = f.pullLoops
	}
	if f.sequential {
		s.Parallel = false
	}
	return s
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
