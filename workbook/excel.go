package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// File is an opened .xlsx workbook.
type File struct {
	f        *excelize.File
	date1904 bool
}

// Open parses a workbook from r.
func Open(r io.Reader) (*File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		if strings.Contains(err.Error(), "zip: not a valid zip file") {
			return nil, fmt.Errorf("failed to open XLSX file: %w (is it an .xlsx workbook?)", err)
		}
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	wb := &File{f: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Close releases temporary files held by the parser.
func (w *File) Close() error {
	return w.f.Close()
}

// Sheets returns every worksheet in tab order.
func (w *File) Sheets() ([]Sheet, error) {
	names := w.f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}
	out := make([]Sheet, len(names))
	for i, n := range names {
		out[i] = &excelSheet{file: w, name: n}
	}
	return out, nil
}

type excelSheet struct {
	file *File
	name string
}

func (s *excelSheet) Name() string   { return s.name }
func (s *excelSheet) Date1904() bool { return s.file.date1904 }

func (s *excelSheet) Cell(col, row int) (Value, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Value{}, err
	}
	raw, err := s.file.f.GetCellValue(s.name, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{}, fmt.Errorf("read %s!%s: %w", s.name, axis, err)
	}
	if strings.TrimSpace(raw) == "" {
		return Value{Kind: Empty}, nil
	}
	typ, err := s.file.f.GetCellType(s.name, axis)
	if err != nil {
		return Value{}, fmt.Errorf("read %s!%s type: %w", s.name, axis, err)
	}

	switch typ {
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return Value{Kind: Date, Time: t}, nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return Value{Kind: Number, Num: n}, nil
		}
	}
	return Value{Kind: String, Str: raw}, nil
}

func (s *excelSheet) Display(col, row int) (string, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	v, err := s.file.f.GetCellValue(s.name, axis)
	if err != nil {
		return "", fmt.Errorf("read %s!%s: %w", s.name, axis, err)
	}
	return v, nil
}

// parseISODate reads the ISO 8601 text stored in t="d" cells.
func parseISODate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
