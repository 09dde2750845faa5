package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/padraicbc/trialapi/classes"
	"github.com/padraicbc/trialapi/workbook"
)

// round is a round column with its judge resolved against the roster.
type round struct {
	workbook.RoundInfo
	JudgeName  string
	JudgeKnown bool
}

// classDay holds the rounds one class ran on one date, in column order.
type classDay struct {
	DateKey string
	Rounds  []round
}

type sheetClass struct {
	Sheet   string
	Name    string
	Type    string
	Days    []classDay
	Entries []workbook.EntrantRow
	Skipped []workbook.SkippedColumn
}

type parsedWorkbook struct {
	TrialName string
	ClubName  string
	Start     time.Time
	End       time.Time
	HasRange  bool
	// Dates is the sorted union of round dates over all sheets.
	Dates   []string
	Classes []sheetClass
}

// read runs the extractor over every sheet and resolves class names and
// judges. It does not touch the store.
func (im *Importer) read(wb workbook.Workbook) (*parsedWorkbook, error) {
	sheets, err := wb.Sheets()
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	if len(sheets) == 0 {
		return nil, workbook.ErrNoSheets
	}

	out := &parsedWorkbook{}
	if out.TrialName, out.ClubName, err = workbook.ReadHeader(sheets[0]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	out.Start, out.End, out.HasRange = workbook.ParseDateRange(out.TrialName, im.loc)

	dates := map[string]struct{}{}
	for _, s := range sheets {
		cs, err := workbook.Extract(s, im.loc)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name(), err)
		}
		sc := sheetClass{
			Sheet:   s.Name(),
			Name:    classes.Normalize(s.Name()),
			Type:    classes.TypeOf(s.Name()),
			Entries: cs.Entries,
			Skipped: cs.Skipped,
		}

		byDate := map[string]int{}
		for _, r := range cs.Rounds {
			name, known := im.roster.Match(r.Judge)
			i, ok := byDate[r.DateKey]
			if !ok {
				i = len(sc.Days)
				byDate[r.DateKey] = i
				sc.Days = append(sc.Days, classDay{DateKey: r.DateKey})
			}
			sc.Days[i].Rounds = append(sc.Days[i].Rounds, round{RoundInfo: r, JudgeName: name, JudgeKnown: known})
			dates[r.DateKey] = struct{}{}
		}
		sort.SliceStable(sc.Days, func(a, b int) bool { return sc.Days[a].DateKey < sc.Days[b].DateKey })
		out.Classes = append(out.Classes, sc)
	}

	for d := range dates {
		out.Dates = append(out.Dates, d)
	}
	sort.Strings(out.Dates)
	return out, nil
}

// trialDates returns the dates stored on the trial row. Without a range in
// the trial name both default to today.
func (p *parsedWorkbook) trialDates(now time.Time) (start, end string) {
	if p.HasRange {
		return p.Start.Format(workbook.DateKeyLayout), p.End.Format(workbook.DateKeyLayout)
	}
	today := now.Format(workbook.DateKeyLayout)
	return today, today
}

func judgeWarning(sheet string, r round) SkippedUnit {
	return SkippedUnit{
		Unit:   UnitJudge,
		Sheet:  sheet,
		Column: r.Column,
		Date:   r.DateKey,
		Reason: fmt.Sprintf("judge %q not on roster, stored as %q", strings.TrimSpace(r.Judge), r.JudgeName),
	}
}

func ambiguousWarning(sheet string, r round) SkippedUnit {
	return SkippedUnit{
		Unit:   UnitColumn,
		Sheet:  sheet,
		Column: r.Column,
		Date:   r.DateKey,
		Reason: fmt.Sprintf("rows %d and %d both hold dates, used row %d", workbook.MetaRowA, workbook.MetaRowB, workbook.MetaRowB),
	}
}
