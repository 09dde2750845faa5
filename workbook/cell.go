// Package workbook reads trial result workbooks: one sheet per class, round
// date/judge pairs in rows 5-6 and one entrant per row from row 7.
package workbook

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// Kind is the stored type of a cell.
type Kind int

const (
	Empty Kind = iota
	String
	Number
	Date
)

// Value is a cell's stored content. Only the field matching Kind is set.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

// IsEmpty reports whether the cell holds nothing but whitespace.
func (v Value) IsEmpty() bool {
	return v.Kind == Empty || (v.Kind == String && strings.TrimSpace(v.Str) == "")
}

// Sheet gives coordinate access to one worksheet. Columns and rows are 1-based.
type Sheet interface {
	Name() string
	Cell(col, row int) (Value, error)
	// Display renders the cell the way the spreadsheet shows it.
	Display(col, row int) (string, error)
}

// Workbook lists its sheets in tab order.
type Workbook interface {
	Sheets() ([]Sheet, error)
}

// Sheets using the 1904 date system implement this.
type date1904 interface {
	Date1904() bool
}

// Spreadsheet serials in this range are treated as dates. Smaller numbers
// are registration or level numbers.
const (
	minDateSerial = 40000
	maxDateSerial = 60000
)

var (
	ordinalSuffix = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)

	dateLayouts = []string{
		"2006-01-02",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/1/2",
		"1/2/2006",
		"1/2/06",
		"1/2/2006 15:04",
		"1/2/06 15:04",
		"1-2-2006",
		"1-2-06",
		"1-2-06 15:04",
		"January 2, 2006",
		"January 2 2006",
		"Jan 2, 2006",
		"Jan 2 2006",
		"Monday, January 2, 2006",
		"Monday January 2, 2006",
		"Mon, Jan 2, 2006",
		"Mon Jan 2, 2006",
		"2 January 2006",
		"2 Jan 2006",
		"02-Jan-06",
		"2-Jan-2006",
	}
)

// noonOf returns local noon on t's calendar date so that later date-only
// formatting cannot shift the day.
func noonOf(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
}

// parseDateString accepts the date spellings seen in trial workbooks.
func parseDateString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return noonOf(t, loc), true
		}
	}
	return time.Time{}, false
}

// serialToDate converts a spreadsheet serial. The calendar date is taken
// from the serial itself, independent of the server time zone.
func serialToDate(serial float64, use1904 bool, loc *time.Location) (time.Time, bool) {
	t, err := excelize.ExcelDateToTime(serial, use1904)
	if err != nil {
		return time.Time{}, false
	}
	return noonOf(t, loc), true
}

// asDate classifies a cell as a date: a native date, a parseable date
// string, or a number in the date-serial range.
func asDate(v Value, use1904 bool, loc *time.Location) (time.Time, bool) {
	switch v.Kind {
	case Date:
		return noonOf(v.Time, loc), true
	case String:
		return parseDateString(v.Str, loc)
	case Number:
		if v.Num >= minDateSerial && v.Num < maxDateSerial {
			return serialToDate(v.Num, use1904, loc)
		}
	}
	return time.Time{}, false
}
