package models

import "github.com/uptrace/bun"

// Defaults applied to imported entries.
const (
	PlaceholderEmail     = "imported@trial.local"
	PaymentStatusPaid    = "paid"
	EntryStatusConfirmed = "confirmed"
	EntryTypeRegular     = "regular"
)

// Entry is one handler+dog pair competing in a trial.
type Entry struct {
	bun.BaseModel `bun:"table:entries,alias:e"`

	ID                 int64   `bun:"id,pk,autoincrement" json:"id"`
	TrialID            int64   `bun:"trial_id,notnull" json:"trialID"`
	RegistrationNumber string  `bun:"registration_number,notnull" json:"registrationNumber"`
	HandlerName        string  `bun:"handler_name,notnull" json:"handlerName"`
	DogCallName        string  `bun:"dog_call_name,notnull" json:"dogCallName"`
	HandlerEmail       string  `bun:"handler_email,notnull" json:"handlerEmail"`
	EntryFee           float64 `bun:"entry_fee,notnull,default:0" json:"entryFee"`
	PaymentStatus      string  `bun:"payment_status,notnull" json:"paymentStatus"`
	EntryStatus        string  `bun:"entry_status,notnull" json:"entryStatus"`

	Trial *Trial `bun:"rel:belongs-to,join:trial_id=id" json:"-"`
}

// EntrySelection records that an entry ran a round.
type EntrySelection struct {
	bun.BaseModel `bun:"table:entry_selections,alias:es"`

	ID           int64   `bun:"id,pk,autoincrement" json:"id"`
	EntryID      int64   `bun:"entry_id,notnull" json:"entryID"`
	TrialRoundID int64   `bun:"trial_round_id,notnull" json:"trialRoundID"`
	EntryType    string  `bun:"entry_type,notnull" json:"entryType"`
	Fee          float64 `bun:"fee,notnull,default:0" json:"fee"`
	EntryStatus  string  `bun:"entry_status,notnull" json:"entryStatus"`

	Entry *Entry      `bun:"rel:belongs-to,join:entry_id=id" json:"-"`
	Round *TrialRound `bun:"rel:belongs-to,join:trial_round_id=id" json:"-"`
}
