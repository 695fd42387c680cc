package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/declutter/internal/model"
	"github.com/yofu/dxf"
)

// dxfTextHeight is the label height relative to the smaller item side.
const dxfTextHeight = 0.15

// ExportDXF writes each settled item as a closed LWPOLYLINE with its label as
// a TEXT entity at the item center. The board's y axis points down while DXF's
// points up, so every y coordinate is negated.
func ExportDXF(path string, result model.Result) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no items to export")
	}

	d := dxf.NewDrawing()

	for _, it := range result.Items {
		x0, x1 := it.X, it.Right()
		y0, y1 := -it.Bottom(), -it.Y

		if _, err := d.LwPolyline(true,
			[]float64{x0, y0},
			[]float64{x1, y0},
			[]float64{x1, y1},
			[]float64{x0, y1},
		); err != nil {
			return fmt.Errorf("failed to write outline for %q: %w", it.ID, err)
		}

		label := it.Label
		if label == "" {
			continue
		}
		height := math.Max(math.Min(it.ScaledWidth(), it.ScaledHeight())*dxfTextHeight, 0.1)
		if _, err := d.Text(label, it.CenterX(), -it.CenterY(), 0, height); err != nil {
			return fmt.Errorf("failed to write label for %q: %w", it.ID, err)
		}
	}

	return d.SaveAs(path)
}
