package workbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Fixed layout of a class sheet.
const (
	FirstRoundColumn = 4  // D
	LastRoundColumn  = 26 // Z
	MetaRowA         = 5
	MetaRowB         = 6
	FirstEntrantRow  = 7
	LastEntrantRow   = 100
	// Past this row the first blank registration number ends the scan.
	entrantScanFloor = 20

	colRegistration = 1 // A
	colDogName      = 2 // B
	colHandlerName  = 3 // C
)

// DateKeyLayout formats the date-only keys used for trial days.
const DateKeyLayout = "2006-01-02"

// RoundInfo is one round column: its date and the raw judge text.
type RoundInfo struct {
	Date        time.Time
	DateKey     string
	Judge       string
	Column      string
	ColumnIndex int
	// Ambiguous is set when both header rows parsed as dates.
	Ambiguous bool
}

// EntrantRow is one handler/dog row with the raw score text per round column.
type EntrantRow struct {
	Row                int
	RegistrationNumber string
	DogName            string
	HandlerName        string
	Scores             map[string]string
}

// SkippedColumn is a header column that could not be turned into a round.
type SkippedColumn struct {
	Column string
	Reason string
}

// ClassSheet is the structure recovered from one class sheet.
type ClassSheet struct {
	Name    string
	Rounds  []RoundInfo
	Entries []EntrantRow
	Skipped []SkippedColumn
}

// ReadHeader returns the trial name (A1) and club name (A2).
func ReadHeader(s Sheet) (trialName, clubName string, err error) {
	if trialName, err = s.Display(1, 1); err != nil {
		return "", "", err
	}
	if clubName, err = s.Display(1, 2); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(trialName), strings.TrimSpace(clubName), nil
}

// Extract scans the round header window and entrant rows of a class sheet.
// Dates are returned at noon in loc.
func Extract(s Sheet, loc *time.Location) (*ClassSheet, error) {
	if loc == nil {
		loc = time.Local
	}
	use1904 := false
	if d, ok := s.(date1904); ok {
		use1904 = d.Date1904()
	}

	out := &ClassSheet{Name: s.Name()}
	for col := FirstRoundColumn; col <= LastRoundColumn; col++ {
		letter, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return nil, err
		}
		round, skip, err := readRoundHeader(s, col, letter, use1904, loc)
		if err != nil {
			return nil, err
		}
		switch {
		case skip != nil:
			out.Skipped = append(out.Skipped, *skip)
		case round != nil:
			out.Rounds = append(out.Rounds, *round)
		}
	}

	for row := FirstEntrantRow; row <= LastEntrantRow; row++ {
		reg, err := s.Display(colRegistration, row)
		if err != nil {
			return nil, err
		}
		reg = strings.TrimSpace(reg)
		if reg == "" {
			if len(out.Entries) > 0 && row > entrantScanFloor {
				break
			}
			continue
		}

		entry := EntrantRow{
			Row:                row,
			RegistrationNumber: reg,
			Scores:             make(map[string]string, len(out.Rounds)),
		}
		if entry.DogName, err = displayTrimmed(s, colDogName, row); err != nil {
			return nil, err
		}
		if entry.HandlerName, err = displayTrimmed(s, colHandlerName, row); err != nil {
			return nil, err
		}
		for _, r := range out.Rounds {
			text, err := s.Display(r.ColumnIndex, row)
			if err != nil {
				return nil, err
			}
			entry.Scores[r.Column] = text
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

// readRoundHeader decides which of rows 5 and 6 holds the date. When only
// one parses it is the date; when both do row 6 wins; when neither does the
// column is skipped. A column with both rows empty yields nothing.
func readRoundHeader(s Sheet, col int, letter string, use1904 bool, loc *time.Location) (*RoundInfo, *SkippedColumn, error) {
	top, err := s.Cell(col, MetaRowA)
	if err != nil {
		return nil, nil, err
	}
	bottom, err := s.Cell(col, MetaRowB)
	if err != nil {
		return nil, nil, err
	}
	if top.IsEmpty() && bottom.IsEmpty() {
		return nil, nil, nil
	}

	topDate, topOK := asDate(top, use1904, loc)
	bottomDate, bottomOK := asDate(bottom, use1904, loc)

	round := &RoundInfo{Column: letter, ColumnIndex: col}
	judgeRow := MetaRowA
	switch {
	case topOK && !bottomOK:
		round.Date = topDate
		judgeRow = MetaRowB
	case bottomOK && !topOK:
		round.Date = bottomDate
	case topOK && bottomOK:
		round.Date = bottomDate
		round.Ambiguous = true
	default:
		return nil, &SkippedColumn{
			Column: letter,
			Reason: fmt.Sprintf("no date in %s%d or %s%d", letter, MetaRowA, letter, MetaRowB),
		}, nil
	}

	judge, err := s.Display(col, judgeRow)
	if err != nil {
		return nil, nil, err
	}
	round.Judge = strings.TrimSpace(judge)
	round.DateKey = round.Date.Format(DateKeyLayout)
	return round, nil, nil
}

func displayTrimmed(s Sheet, col, row int) (string, error) {
	v, err := s.Display(col, row)
	return strings.TrimSpace(v), err
}
