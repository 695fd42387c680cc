package importer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/declutter/internal/model"
	"github.com/yofu/dxf"
)

func TestImportDXF_ShapesBecomeItems(t *testing.T) {
	d := dxf.NewDrawing()
	// Rectangle from (10, -90) to (110, -10): top-left (10, 10) on the board.
	if _, err := d.LwPolyline(true, []float64{10, -90}, []float64{110, -90}, []float64{110, -10}, []float64{10, -10}); err != nil {
		t.Fatalf("LwPolyline: %v", err)
	}
	if _, err := d.Text("Logo", 60, -50, 0, 5); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if _, err := d.Circle(500, -500, 0, 25); err != nil {
		t.Fatalf("Circle: %v", err)
	}

	path := filepath.Join(t.TempDir(), "board.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	result := ImportDXF(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	rect := result.Items[0]
	if rect.Label != "Logo" {
		t.Errorf("expected label from text tag, got %q", rect.Label)
	}
	if rect.X != 10 || rect.Y != 10 || rect.Width != 100 || rect.Height != 80 {
		t.Errorf("unexpected rectangle geometry: %+v", rect)
	}

	circle := result.Items[1]
	if math.Abs(circle.Width-50) > 0.01 || math.Abs(circle.Height-50) > 0.01 {
		t.Errorf("expected 50x50 circle bounds, got %fx%f", circle.Width, circle.Height)
	}
	if circle.Z != 1 {
		t.Errorf("expected z to follow shape order, got %d", circle.Z)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/path/file.dxf")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestChainSegments_ClosedSquare(t *testing.T) {
	p := func(x, y float64) model.Point { return model.Point{X: x, Y: y} }
	segs := []segment{
		{p(0, 0), p(10, 0)},
		{p(10, 10), p(10, 0)}, // reversed on purpose
		{p(10, 10), p(0, 10)},
		{p(0, 10), p(0, 0)},
	}

	outlines := chainSegments(segs, 0.01)

	if len(outlines) != 1 {
		t.Fatalf("expected 1 outline, got %d", len(outlines))
	}
	if len(outlines[0]) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(outlines[0]))
	}
	min, max := outlines[0].bounds()
	if min != p(0, 0) || max != p(10, 10) {
		t.Errorf("unexpected bounds %v %v", min, max)
	}
}

func TestChainSegments_OpenChainDropped(t *testing.T) {
	p := func(x, y float64) model.Point { return model.Point{X: x, Y: y} }
	segs := []segment{
		{p(0, 0), p(10, 0)},
		{p(10, 0), p(10, 10)},
	}

	if got := chainSegments(segs, 0.01); len(got) != 0 {
		t.Errorf("expected open chain to be dropped, got %d outlines", len(got))
	}
}

func TestOutlineArea(t *testing.T) {
	o := outline{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}}
	if got := outlineArea(o); got != 12 {
		t.Errorf("expected area 12, got %f", got)
	}
	if got := outlineArea(o[:2]); got != 0 {
		t.Errorf("expected degenerate area 0, got %f", got)
	}
}
