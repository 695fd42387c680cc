package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/declutter/internal/model"
)

func testBoard(name string) model.Board {
	b := model.NewBoard(name)
	b.Items = []model.Item{
		{ID: "a", Label: "Logo", X: 0, Y: 0, Width: 100, Height: 50, Scale: 1},
		{ID: "b", X: 10, Y: 10, Width: 20, Height: 20, Scale: 2, Z: 1},
	}
	return b
}

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultStepSize = 2.5
	cfg.OutputFormat = "xlsx"

	if err := ExportAllData(path, cfg, []model.Board{testBoard("one"), testBoard("two")}); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultStepSize != 2.5 {
		t.Errorf("expected DefaultStepSize=2.5, got %f", backup.Config.DefaultStepSize)
	}
	if backup.Config.OutputFormat != "xlsx" {
		t.Errorf("expected OutputFormat=xlsx, got %s", backup.Config.OutputFormat)
	}
	if len(backup.Boards) != 2 || backup.Boards[1].Name != "two" {
		t.Fatalf("unexpected boards: %+v", backup.Boards)
	}
	if got := backup.Boards[0].Items[1]; got.Scale != 2 || got.Z != 1 {
		t.Errorf("item fields lost in backup: %+v", got)
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	data := []byte(`{"config":{"log_level":"warn"}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataInvalidBoard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "badboard.json")
	data := []byte(`{"version":"1.0.0","boards":[{"name":"x","items":[{"id":"a","width":-1,"height":1,"scale":1}]}]}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for negative width in backup board")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "backup.json")

	cfg := model.DefaultAppConfig()
	if err := ExportAllData(path, cfg, nil); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataNilSlices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_boards":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentBoards == nil {
		t.Error("RecentBoards should not be nil after import")
	}
	if backup.Boards == nil {
		t.Error("Boards should not be nil after import")
	}
}
