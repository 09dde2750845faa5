package importer

import (
	"fmt"

	"github.com/google/uuid"
)

// Unit names used in reports, logs and metrics.
const (
	UnitColumn    = "column"
	UnitClass     = "class"
	UnitRound     = "round"
	UnitEntry     = "entry"
	UnitSelection = "selection"
	UnitScore     = "score"
	UnitJudge     = "judge"
)

// SkippedUnit identifies one skipped or questionable unit of a workbook.
type SkippedUnit struct {
	Unit               string `json:"unit"`
	Sheet              string `json:"sheet"`
	Column             string `json:"column,omitempty"`
	Row                int    `json:"row,omitempty"`
	Date               string `json:"date,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Reason             string `json:"reason"`
}

func (i SkippedUnit) String() string {
	loc := i.Sheet
	if i.Column != "" {
		loc += " column " + i.Column
	}
	if i.Row > 0 {
		loc += fmt.Sprintf(" row %d", i.Row)
	}
	return fmt.Sprintf("%s (%s): %s", loc, i.Unit, i.Reason)
}

// Report summarizes one import run.
type Report struct {
	RunID   uuid.UUID `json:"runId"`
	TrialID int64     `json:"trialId"`

	DaysCreated       int `json:"daysCreated"`
	ClassesCreated    int `json:"classesCreated"`
	RoundsCreated     int `json:"roundsCreated"`
	EntriesCreated    int `json:"entriesCreated"`
	SelectionsCreated int `json:"selectionsCreated"`
	ScoresCreated     int `json:"scoresCreated"`

	// Skipped lists units that were not written.
	Skipped []SkippedUnit `json:"skipped"`
	// Warnings lists units written on a best-effort reading.
	Warnings []SkippedUnit `json:"warnings"`
}
