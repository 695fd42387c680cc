// Package export provides functionality for exporting settle results
// to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/declutter/internal/model"
)

// itemColor represents an RGB fill color for an item.
type itemColor struct {
	R, G, B int
}

// itemColors is the fill palette, cycled by item index.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 10.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// viewport maps board coordinates onto the drawing area of a page.
type viewport struct {
	min     model.Point
	scale   float64
	offsetX float64
	offsetY float64
}

// newViewport fits the union of all given item sets into the page drawing area.
// Before and after pages share one viewport so positions are comparable.
func newViewport(sets ...[]model.Item) viewport {
	var all []model.Item
	for _, s := range sets {
		all = append(all, s...)
	}
	min, max := model.ItemBounds(all)

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	spanX := math.Max(max.X-min.X, 1)
	spanY := math.Max(max.Y-min.Y, 1)
	scale := math.Min(drawWidth/spanX, drawHeight/spanY)

	return viewport{
		min:     min,
		scale:   scale,
		offsetX: marginLeft + (drawWidth-spanX*scale)/2,
		offsetY: drawAreaTop,
	}
}

func (v viewport) point(x, y float64) (float64, float64) {
	return v.offsetX + (x-v.min.X)*v.scale, v.offsetY + (y-v.min.Y)*v.scale
}

// ExportPDF generates a PDF document comparing the board before and after
// a settle run. The first page shows the original layout, the second the
// settled layout with displacement lines, and the last page summarizes the
// run statistics and the settings used.
func ExportPDF(path string, board model.Board, result model.Result, settings model.Settings) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no items to export")
	}

	before := board.Items
	if len(before) == 0 {
		before = result.Items
	}
	vp := newViewport(before, result.Items)
	flagged := flaggedItems(result.Stats)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, vp, fmt.Sprintf("%s: before", boardTitle(board)), before, nil, flagged)

	pdf.AddPage()
	renderLayoutPage(pdf, vp, fmt.Sprintf("%s: after", boardTitle(board)), result.Items, result.Moves, flagged)

	pdf.AddPage()
	renderSummaryPage(pdf, board, result, settings)

	return pdf.OutputFileAndClose(path)
}

func boardTitle(b model.Board) string {
	if b.Name == "" {
		return "Board"
	}
	return b.Name
}

// flaggedItems returns the IDs of items the engine could not fully settle.
func flaggedItems(stats model.Stats) map[string]bool {
	flagged := make(map[string]bool, len(stats.PushUnresolved))
	for _, id := range stats.PushUnresolved {
		flagged[id] = true
	}
	return flagged
}

// renderLayoutPage draws one set of item positions on the current PDF page.
// When moves are given, each is drawn as a line from the old to the new center.
func renderLayoutPage(pdf *fpdf.Fpdf, vp viewport, title string, items []model.Item, moves []model.Move, flagged map[string]bool) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	min, max := model.ItemBounds(items)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Bounds: %.0f x %.0f | Moved: %d", len(items), max.X-min.X, max.Y-min.Y, len(moves))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	for i, it := range items {
		col := itemColors[i%len(itemColors)]
		px, py := vp.point(it.X, it.Y)
		pw := it.ScaledWidth() * vp.scale
		ph := it.ScaledHeight() * vp.scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		if flagged[it.ID] {
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.8)
		}
		pdf.Rect(px, py, pw, ph, "FD")

		// Item label (only if rectangle is large enough)
		if pw > 15 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := it.Label
			if label == "" {
				label = it.ID
			}
			if labelW := pdf.GetStringWidth(label); labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawMoves(pdf, vp, items, moves)
	pdf.SetTextColor(0, 0, 0)
}

// drawMoves draws a line from each moved item's old center to its new one.
func drawMoves(pdf *fpdf.Fpdf, vp viewport, items []model.Item, moves []model.Move) {
	if len(moves) == 0 {
		return
	}
	byID := make(map[string]model.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for _, m := range moves {
		it, ok := byID[m.ItemID]
		if !ok {
			continue
		}
		hw, hh := it.ScaledWidth()/2, it.ScaledHeight()/2
		x1, y1 := vp.point(m.FromX+hw, m.FromY+hh)
		x2, y2 := vp.point(m.ToX+hw, m.ToY+hh)
		pdf.Line(x1, y1, x2, y2)
		pdf.Circle(x2, y2, 0.6, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, board model.Board, result model.Result, settings model.Settings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Declutter Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	st := result.Stats

	y = renderKeyValues(pdf, y, "Run Statistics", []keyValue{
		{"Board", boardTitle(board)},
		{"Items", fmt.Sprintf("%d", st.Items)},
		{"Clusters", fmt.Sprintf("%d (%d singletons)", st.Clusters, st.Singletons)},
		{"Items Moved", fmt.Sprintf("%d", st.Moved)},
		{"Total Displacement", fmt.Sprintf("%.1f", st.TotalDisplacement)},
		{"Boxed In During Pull", fmt.Sprintf("%d", len(st.PullBoxedIn))},
	})

	if len(st.PushUnresolved) > 0 {
		y += 4
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Items left overlapping", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, id := range st.PushUnresolved {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, "- "+id, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 4
	renderKeyValues(pdf, y, "Settings", []keyValue{
		{"Margin", fmt.Sprintf("%.1f", settings.Margin)},
		{"Cluster Distance", fmt.Sprintf("%.1f", settings.ClusterDistance)},
		{"Pull Step", fmt.Sprintf("%.1f", settings.StepSize)},
		{"Push Iterations", fmt.Sprintf("%d", settings.PushIterations)},
		{"Pull Steps / Loops", fmt.Sprintf("%d / %d", settings.PullSteps, settings.PullLoops)},
	})

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by declutter", "", 0, "C", false, 0, "")
}

type keyValue struct {
	label string
	value string
}

// renderKeyValues draws a titled two-column list and returns the next free y.
func renderKeyValues(pdf *fpdf.Fpdf, y float64, title string, rows []keyValue) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, row.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, row.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
