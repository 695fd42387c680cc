package export

import (
	"fmt"

	"github.com/piwi3910/declutter/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet = "Items"
	movesSheet = "Moves"
)

var itemHeaders = []string{"ID", "Label", "X", "Y", "Width", "Height", "Scale", "Z"}
var moveHeaders = []string{"ID", "From X", "From Y", "To X", "To Y", "Distance"}

// ExportXLSX writes the settled items and their moves to an Excel workbook.
// The first sheet uses the same headers the importer recognizes, so the file
// can be loaded back as a board.
func ExportXLSX(path string, result model.Result) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no items to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeRow(f, itemsSheet, 1, toCells(itemHeaders)); err != nil {
		return err
	}
	for i, it := range result.Items {
		row := []interface{}{it.ID, it.Label, it.X, it.Y, it.Width, it.Height, it.Scale, it.Z}
		if err := writeRow(f, itemsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(movesSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", movesSheet, err)
	}
	if err := writeRow(f, movesSheet, 1, toCells(moveHeaders)); err != nil {
		return err
	}
	for i, m := range result.Moves {
		row := []interface{}{m.ItemID, m.FromX, m.FromY, m.ToX, m.ToY, m.Distance()}
		if err := writeRow(f, movesSheet, i+2, row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}
