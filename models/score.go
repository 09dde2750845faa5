package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PresencePresent marks a dog that ran the round.
const PresencePresent = "present"

// Score is the judged outcome of one entry selection.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	EntrySelectionID int64     `bun:"entry_selection_id,notnull" json:"entrySelectionID"`
	TrialRoundID     int64     `bun:"trial_round_id,notnull" json:"trialRoundID"`
	PassFail         string    `bun:"pass_fail,notnull" json:"passFail"`
	EntryStatus      string    `bun:"entry_status,notnull" json:"entryStatus"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Selection *EntrySelection `bun:"rel:belongs-to,join:entry_selection_id=id" json:"-"`
}
