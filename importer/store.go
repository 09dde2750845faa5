package importer

import (
	"context"
	"errors"

	"github.com/padraicbc/trialapi/models"
)

var (
	// ErrNotFound is returned by Store lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrTrialCreate aborts an import: nothing can be written without a trial.
	ErrTrialCreate = errors.New("create trial")
	// ErrTrialMissing means Options.TrialID names no trial.
	ErrTrialMissing = errors.New("trial not found")
	// ErrDayCreate aborts an import: every class hangs off a day.
	ErrDayCreate = errors.New("create trial day")
)

// Store persists the trial graph. Find methods return ErrNotFound when no
// row matches. Each call is its own unit of work.
type Store interface {
	CreateTrial(ctx context.Context, t *models.Trial) error
	GetTrial(ctx context.Context, id int64) (*models.Trial, error)

	ListTrialDays(ctx context.Context, trialID int64) ([]models.TrialDay, error)
	CreateTrialDay(ctx context.Context, d *models.TrialDay) error

	FindTrialClass(ctx context.Context, dayID int64, className string) (*models.TrialClass, error)
	CreateTrialClass(ctx context.Context, c *models.TrialClass) error

	FindTrialRound(ctx context.Context, classID int64, roundNumber int) (*models.TrialRound, error)
	CreateTrialRound(ctx context.Context, r *models.TrialRound) error

	FindEntry(ctx context.Context, trialID int64, regNumber string) (*models.Entry, error)
	CreateEntry(ctx context.Context, e *models.Entry) error

	FindEntrySelection(ctx context.Context, entryID, roundID int64) (*models.EntrySelection, error)
	CreateEntrySelection(ctx context.Context, s *models.EntrySelection) error

	FindScore(ctx context.Context, selectionID int64) (*models.Score, error)
	CreateScore(ctx context.Context, s *models.Score) error
}

// Registry resolves a registration number to its registered handler and
// dog. It returns nil, nil for unknown numbers.
type Registry interface {
	Lookup(ctx context.Context, regNumber string) (*models.RegistryEntry, error)
}

// A Registry that caches lookups can implement forgetter to have its cache
// dropped at the start of every import run.
type forgetter interface {
	Forget()
}
