package flatfile

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"ordersynth/internal/model"
)

// SheetName is the worksheet WriteFlatXLSX writes to.
const SheetName = "clean_data"

// WriteFlatXLSX writes the normalized table to a spreadsheet. Numeric
// columns are stored as numbers.
func WriteFlatXLSX(path string, rows []model.FlatRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, 0, len(model.Columns()))
	for _, c := range model.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.OrderDate.Format(model.DateLayout),
			r.CustomerID,
			r.ProductName,
			r.MonthNumber,
			r.UnitPrice,
			r.Quantity,
			r.LineTotal,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	log.Printf("data saved to %s", path)
	return nil
}
