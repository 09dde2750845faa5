package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/padraicbc/trialapi/scoring"
	"github.com/padraicbc/trialapi/workbook"
)

// Summary is what an import of the workbook would create, plus the problems
// found while reading it. Errors mean the import would fail or create nothing.
type Summary struct {
	TrialName string       `json:"trialName"`
	ClubName  string       `json:"clubName"`
	DateRange DateRange    `json:"dateRange"`
	Stats     Stats        `json:"stats"`
	Days      []DaySummary `json:"days"`
	Warnings  []string     `json:"warnings"`
	Errors    []string     `json:"errors"`
}

// DateRange holds the trial's first and last day as YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Stats counts the rows an import would create. TotalEntries counts distinct
// registration numbers.
type Stats struct {
	TotalDays    int `json:"totalDays"`
	TotalClasses int `json:"totalClasses"`
	TotalRounds  int `json:"totalRounds"`
	TotalEntries int `json:"totalEntries"`
	TotalScores  int `json:"totalScores"`
}

// DaySummary lists the classes held on one trial day. DayNumber is 1-based
// in date order.
type DaySummary struct {
	DayNumber int            `json:"dayNumber"`
	Date      string         `json:"date"`
	Classes   []ClassSummary `json:"classes"`
}

// ClassSummary describes one class on one day. Sheets that normalize to the
// same class are merged, and Entries counts each registration number once.
type ClassSummary struct {
	ClassName string `json:"className"`
	Rounds    int    `json:"rounds"`
	Entries   int    `json:"entries"`
}

// Preview reads the workbook the way Import does and reports what an import
// would create. It never touches the store.
func (im *Importer) Preview(ctx context.Context, wb workbook.Workbook) (*Summary, error) {
	start := time.Now()
	sum, err := im.preview(ctx, wb)
	im.metrics.Run("preview", err, time.Since(start).Seconds())
	return sum, err
}

func (im *Importer) preview(ctx context.Context, wb workbook.Workbook) (*Summary, error) {
	parsed, err := im.read(wb)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start, end := parsed.trialDates(im.now().In(im.loc))
	sum := &Summary{
		TrialName: parsed.TrialName,
		ClubName:  parsed.ClubName,
		DateRange: DateRange{Start: start, End: end},
		Days:      make([]DaySummary, 0, len(parsed.Dates)),
		Warnings:  []string{},
		Errors:    []string{},
	}

	if parsed.TrialName == "" {
		sum.Errors = append(sum.Errors, "trial name (A1) is empty")
	} else if !parsed.HasRange {
		sum.Warnings = append(sum.Warnings, fmt.Sprintf("no date range in trial name, trial will be dated %s", start))
	}
	if parsed.ClubName == "" {
		sum.Warnings = append(sum.Warnings, "club name (A2) is empty")
	}

	dayIndex := make(map[string]int, len(parsed.Dates))
	for i, d := range parsed.Dates {
		dayIndex[d] = i
		sum.Days = append(sum.Days, DaySummary{DayNumber: i + 1, Date: d, Classes: []ClassSummary{}})
	}

	regNumbers := map[string]struct{}{}
	classEntries := map[dayClass]map[string]struct{}{}
	for _, sc := range parsed.Classes {
		for _, col := range sc.Skipped {
			u := SkippedUnit{Unit: UnitColumn, Sheet: sc.Sheet, Column: col.Column, Reason: col.Reason}
			sum.Warnings = append(sum.Warnings, u.String())
		}
		for _, day := range sc.Days {
			key := dayClass{date: day.DateKey, class: sc.Name}
			if classEntries[key] == nil {
				classEntries[key] = map[string]struct{}{}
			}
			for _, rd := range day.Rounds {
				if !rd.JudgeKnown {
					sum.Warnings = append(sum.Warnings, judgeWarning(sc.Sheet, rd).String())
				}
				if rd.Ambiguous {
					sum.Warnings = append(sum.Warnings, ambiguousWarning(sc.Sheet, rd).String())
				}
			}
			for _, row := range sc.Entries {
				scored := false
				for _, rd := range day.Rounds {
					raw := row.Scores[rd.Column]
					switch _, outcome := scoring.Interpret(raw); outcome {
					case scoring.Scored:
						scored = true
						sum.Stats.TotalScores++
					case scoring.Unrecognized:
						u := SkippedUnit{
							Unit: UnitScore, Sheet: sc.Sheet, Column: rd.Column, Row: row.Row,
							Reason: fmt.Sprintf("unrecognized score %q", raw),
						}
						sum.Warnings = append(sum.Warnings, u.String())
					}
				}
				if scored {
					classEntries[key][row.RegistrationNumber] = struct{}{}
					regNumbers[row.RegistrationNumber] = struct{}{}
				}
			}

			ds := &sum.Days[dayIndex[day.DateKey]]
			ds.Classes = mergeClass(ds.Classes, ClassSummary{ClassName: sc.Name, Rounds: len(day.Rounds)})
			sum.Stats.TotalRounds += len(day.Rounds)
		}
	}

	for _, ds := range sum.Days {
		sum.Stats.TotalClasses += len(ds.Classes)
		for i := range ds.Classes {
			c := &ds.Classes[i]
			c.Entries = len(classEntries[dayClass{date: ds.Date, class: c.ClassName}])
			if c.Entries == 0 {
				sum.Warnings = append(sum.Warnings, fmt.Sprintf("%s on %s has no entries", c.ClassName, ds.Date))
			}
		}
	}
	sum.Stats.TotalDays = len(parsed.Dates)
	sum.Stats.TotalEntries = len(regNumbers)

	if len(parsed.Dates) == 0 {
		sum.Errors = append(sum.Errors, "no valid round dates found")
	}
	if sum.Stats.TotalClasses == 0 {
		sum.Errors = append(sum.Errors, "no classes found")
	}
	return sum, nil
}

// dayClass keys the registration numbers seen for one class on one day.
type dayClass struct {
	date, class string
}

// mergeClass folds sheets that normalize to the same class on one day into
// a single listing, matching how Import reuses the class row. Entries are
// filled in afterwards from the per-class registration numbers.
func mergeClass(list []ClassSummary, c ClassSummary) []ClassSummary {
	for i := range list {
		if list[i].ClassName == c.ClassName {
			list[i].Rounds += c.Rounds
			return list
		}
	}
	return append(list, c)
}
