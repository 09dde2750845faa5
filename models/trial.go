package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Trial statuses written by the importer.
const (
	TrialStatusCompleted = "completed"
	EntryStatusClosed    = "closed"
)

// Trial is one competition event.
type Trial struct {
	bun.BaseModel `bun:"table:trials,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	TrialName   string    `bun:"trial_name,notnull" json:"trialName"`
	ClubName    string    `bun:"club_name,notnull" json:"clubName"`
	StartDate   string    `bun:"start_date,notnull,type:date" json:"startDate"`
	EndDate     string    `bun:"end_date,notnull,type:date" json:"endDate"`
	TrialStatus string    `bun:"trial_status,notnull" json:"trialStatus"`
	EntryStatus string    `bun:"entry_status,notnull" json:"entryStatus"`
	EntryFee    float64   `bun:"entry_fee,notnull,default:0" json:"entryFee"`
	Secretary   string    `bun:"secretary,notnull" json:"secretary"`
	ImportRunID uuid.UUID `bun:"import_run_id,type:uuid,nullzero" json:"importRunID,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// TrialDay is one calendar date on which a trial ran.
type TrialDay struct {
	bun.BaseModel `bun:"table:trial_days,alias:td"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	TrialID   int64  `bun:"trial_id,notnull" json:"trialID"`
	DayNumber int    `bun:"day_number,notnull" json:"dayNumber"`
	TrialDate string `bun:"trial_date,notnull,type:date" json:"trialDate"`

	Trial *Trial `bun:"rel:belongs-to,join:trial_id=id" json:"-"`
}

// TrialClass is one class held on one trial day.
type TrialClass struct {
	bun.BaseModel `bun:"table:trial_classes,alias:tc"`

	ID         int64   `bun:"id,pk,autoincrement" json:"id"`
	TrialID    int64   `bun:"trial_id,notnull" json:"trialID"`
	TrialDayID int64   `bun:"trial_day_id,notnull" json:"trialDayID"`
	ClassName  string  `bun:"class_name,notnull" json:"className"`
	ClassType  string  `bun:"class_type,notnull" json:"classType"`
	EntryFee   float64 `bun:"entry_fee,notnull,default:0" json:"entryFee"`

	Day *TrialDay `bun:"rel:belongs-to,join:trial_day_id=id" json:"-"`
}

// TrialRound is one judged running of a class.
type TrialRound struct {
	bun.BaseModel `bun:"table:trial_rounds,alias:tr"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	TrialClassID int64  `bun:"trial_class_id,notnull" json:"trialClassID"`
	JudgeName    string `bun:"judge_name,notnull" json:"judgeName"`
	RoundNumber  int    `bun:"round_number,notnull" json:"roundNumber"`

	Class *TrialClass `bun:"rel:belongs-to,join:trial_class_id=id" json:"-"`
}
