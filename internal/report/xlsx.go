package report

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"k8s.io/klog/v2"

	"github.com/Hru-s/vaultpermdiff/internal/model"
)

const (
	// DefaultPath is the spreadsheet written when no output path is given.
	DefaultPath = "permissions_diff_results.xlsx"
	// DefaultSheetName names the single worksheet of the report.
	DefaultSheetName = "Permission Diff Results"

	// defaultSheet is the sheet excelize creates with every new workbook.
	defaultSheet = "Sheet1"
)

// Header is the column layout of the exported sheet.
var Header = []string{"Object", "Permission Group", "Permission Subgroup", "Permission List", "Diff"}

// Style is the row highlight applied to a comparison row.
type Style string

const (
	StyleMismatch Style = "mismatch"
	StyleMatch    Style = "match"
)

// Fill colors (ARGB hex without alpha) for each style.
const (
	ColorMismatch = "F08080" // lightcoral
	ColorMatch    = "90EE90" // lightgreen
)

// Color returns the background fill color of the style.
func (s Style) Color() string {
	if s == StyleMatch {
		return ColorMatch
	}
	return ColorMismatch
}

// Classify maps a row to its highlight style.
func Classify(row model.ComparisonRow) Style {
	switch row.Classification {
	case model.SourceOnly, model.TargetOnly:
		return StyleMismatch
	default:
		return StyleMatch
	}
}

// WriteError is returned when the output file is locked or not writable.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("Unable to write the file to %s. Please close the file if it's open before attempting again!", e.Path)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// UnknownWriteError is returned for any other failure while exporting.
type UnknownWriteError struct {
	Path string
	Err  error
}

func (e *UnknownWriteError) Error() string {
	return fmt.Sprintf("an error occurred while saving the Excel file %s: %v", e.Path, e.Err)
}

func (e *UnknownWriteError) Unwrap() error {
	return e.Err
}

func classifyWriteError(path string, err error) error {
	if isLockError(err) {
		return &WriteError{Path: path, Err: err}
	}
	return &UnknownWriteError{Path: path, Err: err}
}

// Export writes rows to a single sheet of the workbook at filePath, filling
// every cell of a row with the color of its style. An existing file is
// overwritten.
func Export(rows []model.ComparisonRow, filePath, sheetName string) error {
	if err := export(rows, filePath, sheetName); err != nil {
		var writeErr *WriteError
		var unknownErr *UnknownWriteError
		if errors.As(err, &writeErr) || errors.As(err, &unknownErr) {
			return err
		}
		return &UnknownWriteError{Path: filePath, Err: err}
	}
	klog.InfoS("Permission diff results were written", "path", filePath, "rows", len(rows))
	return nil
}

func export(rows []model.ComparisonRow, filePath, sheetName string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return fmt.Errorf("naming sheet %q: %w", sheetName, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	fills := map[Style]int{}
	for _, s := range []Style{StyleMismatch, StyleMatch} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Color()}},
		})
		if err != nil {
			return fmt.Errorf("creating %s style: %w", s, err)
		}
		fills[s] = id
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := writeRow(f, sheetName, 1, header, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		values := []any{
			row.Record.Object,
			row.Record.PermissionGroup,
			row.Record.PermissionSubgroup,
			row.Record.Permissions(),
			row.Classification.Label(),
		}
		if err := writeRow(f, sheetName, i+2, values, fills[Classify(row)]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return classifyWriteError(filePath, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any, styleID int) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(values), rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	if err := f.SetCellStyle(sheet, start, end, styleID); err != nil {
		return fmt.Errorf("styling row %d: %w", rowNum, err)
	}
	return nil
}
