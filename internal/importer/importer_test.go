package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Label,X,Y,Width,Height\nLogo,0,0,100,80\nNote,50,40,200,120\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Label;X;Y;Width;Height\nLogo;0;0;100;80\nNote;50;40;200;120\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Label\tX\tY\tWidth\tHeight\nLogo\t0\t0\t100\t80\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Label|X|Y|Width|Height\nLogo|0|0|100|80\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"ID", "Label", "X", "Y", "Width", "Height", "Scale", "Z"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{ID: 0, Label: 1, X: 2, Y: 3, Width: 4, Height: 5, Scale: 6, Z: 7}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"Name", "Left", "Top", "W", "H", "Zoom", "Layer"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.ID != -1 {
		t.Errorf("expected ID absent, got %d", mapping.ID)
	}
	if mapping.Label != 0 || mapping.X != 1 || mapping.Y != 2 {
		t.Errorf("unexpected label/x/y mapping: %+v", mapping)
	}
	if mapping.Width != 3 || mapping.Height != 4 {
		t.Errorf("unexpected size mapping: %+v", mapping)
	}
	if mapping.Scale != 5 || mapping.Z != 6 {
		t.Errorf("unexpected scale/z mapping: %+v", mapping)
	}
}

func TestDetectColumns_CaseInsensitive(t *testing.T) {
	row := []string{"  WIDTH ", "HEIGHT", "X", "Y"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Width != 0 || mapping.Height != 1 || mapping.X != 2 || mapping.Y != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"Logo", "0", "0", "100", "80"}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header for data row")
	}
	if mapping != positionalMapping {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	input := "id,label,x,y,width,height,scale,z\nlogo,Logo,10,20,100,80,1.5,3\nnote,Note,50,40,200,120,1,4\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	it := result.Items[0]
	if it.ID != "logo" || it.Label != "Logo" {
		t.Errorf("unexpected identity: %+v", it)
	}
	if it.X != 10 || it.Y != 20 || it.Width != 100 || it.Height != 80 {
		t.Errorf("unexpected geometry: %+v", it)
	}
	if it.Scale != 1.5 {
		t.Errorf("expected scale 1.5, got %f", it.Scale)
	}
	if it.Z != 3 {
		t.Errorf("expected z 3, got %d", it.Z)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	input := "Logo,10,20,100,80\nNote,50,40,200,120,2\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].Scale != 1 {
		t.Errorf("expected default scale 1, got %f", result.Items[0].Scale)
	}
	if result.Items[1].Scale != 2 {
		t.Errorf("expected scale 2, got %f", result.Items[1].Scale)
	}
}

func TestImportCSVFromReader_DefaultsForMissingFields(t *testing.T) {
	input := "x,y,width,height\n0,0,100,100\n5,5,50,50\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	a, b := result.Items[0], result.Items[1]
	if len(a.ID) != 8 || a.ID == b.ID {
		t.Errorf("expected distinct generated ids, got %q and %q", a.ID, b.ID)
	}
	if a.Label != "Item 1" || b.Label != "Item 2" {
		t.Errorf("unexpected default labels: %q, %q", a.Label, b.Label)
	}
	if a.Z != 0 || b.Z != 1 {
		t.Errorf("expected z to follow row order, got %d, %d", a.Z, b.Z)
	}
}

func TestImportCSVFromReader_SemicolonDelimiter(t *testing.T) {
	input := "Label;X;Y;Width;Height\nLogo;0;0;100;80\n"
	result := ImportCSVFromReader(strings.NewReader(input), ';')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	input := "Height,Width,Y,X,Label\n80,100,20,10,Logo\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	it := result.Items[0]
	if it.X != 10 || it.Y != 20 || it.Width != 100 || it.Height != 80 || it.Label != "Logo" {
		t.Errorf("unexpected item: %+v", it)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSVFromReader_InvalidNumber(t *testing.T) {
	input := "Label,X,Y,Width,Height\nLogo,0,0,abc,80\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Invalid width 'abc'") {
		t.Errorf("expected invalid width error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_NegativeSize(t *testing.T) {
	input := "Label,X,Y,Width,Height\nLogo,0,0,-10,80\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 0 {
		t.Errorf("expected negative width to be rejected, got %d items", len(result.Items))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Line 2") {
		t.Errorf("expected one error for line 2, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_DuplicateID(t *testing.T) {
	input := "id,x,y,width,height\na,0,0,10,10\na,5,5,10,10\nb,9,9,10,10\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Duplicate id 'a'") {
		t.Errorf("expected duplicate id error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_InvalidOptionalFields(t *testing.T) {
	input := "x,y,width,height,scale,z\n0,0,10,10,big,top\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Scale != 1 || result.Items[0].Z != 0 {
		t.Errorf("expected defaults, got %+v", result.Items[0])
	}

	warned := 0
	for _, w := range result.Warnings {
		if strings.Contains(w, "Invalid scale") || strings.Contains(w, "Invalid z") {
			warned++
		}
	}
	if warned != 2 {
		t.Errorf("expected scale and z warnings, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	input := "Label,Width,Height\nLogo,100,80\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Required columns not found in header: X, Y") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing X, Y error, got: %v", result.Errors)
	}
}

func TestImportCSVFromReader_UnrecognizedHeaderSkipped(t *testing.T) {
	input := "Thing,Across,Down,Wide,Tall\nLogo,0,0,100,80\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportCSVFromReader_EmptyRows(t *testing.T) {
	input := "Label,X,Y,Width,Height\n\nLogo,0,0,100,80\n,,,,\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 1 {
		t.Errorf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func TestImportCSV_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	content := "Label,X,Y,Width,Height\nLogo,0,0,100,80\nNote,50,40,200,120\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	content := "Label;X;Y;Width;Height\nLogo;0;0;100;80\nNote;50;40;200;120\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}

	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "items.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"ID", "Label", "X", "Y", "Width", "Height", "Scale"},
		{"logo", "Logo", 10, 20, 100, 80, 2},
		{"note", "Note", 50, 40, 200, 120, 1},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].ID != "logo" || result.Items[0].Scale != 2 {
		t.Errorf("unexpected first item: %+v", result.Items[0])
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Logo", 10, 20, 100, 80},
	})

	result := ImportExcel(path)

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Width != 100 {
		t.Errorf("expected width 100, got %f", result.Items[0].Width)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/path/file.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
