package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/padraicbc/trialapi/importer"
	"github.com/padraicbc/trialapi/models"
)

// TrialStore persists the trial graph for the importer. Every call is a
// single statement; no transaction spans an import.
type TrialStore struct {
	db bun.IDB
}

var _ importer.Store = (*TrialStore)(nil)

func NewTrialStore(db bun.IDB) *TrialStore {
	return &TrialStore{db: db}
}

// notFound maps sql.ErrNoRows onto importer.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return importer.ErrNotFound
	}
	return err
}

func (s *TrialStore) insert(ctx context.Context, model interface{}) error {
	_, err := s.db.NewInsert().Model(model).Returning("id").Exec(ctx)
	return err
}

func (s *TrialStore) CreateTrial(ctx context.Context, t *models.Trial) error {
	return s.insert(ctx, t)
}

func (s *TrialStore) GetTrial(ctx context.Context, id int64) (*models.Trial, error) {
	t := new(models.Trial)
	if err := s.db.NewSelect().Model(t).Where("t.id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *TrialStore) ListTrialDays(ctx context.Context, trialID int64) ([]models.TrialDay, error) {
	var days []models.TrialDay
	err := s.db.NewSelect().Model(&days).
		Where("td.trial_id = ?", trialID).
		Order("td.day_number ASC").
		Scan(ctx)
	return days, err
}

func (s *TrialStore) CreateTrialDay(ctx context.Context, d *models.TrialDay) error {
	return s.insert(ctx, d)
}

func (s *TrialStore) FindTrialClass(ctx context.Context, dayID int64, className string) (*models.TrialClass, error) {
	c := new(models.TrialClass)
	err := s.db.NewSelect().Model(c).
		Where("tc.trial_day_id = ?", dayID).
		Where("tc.class_name = ?", className).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *TrialStore) CreateTrialClass(ctx context.Context, c *models.TrialClass) error {
	return s.insert(ctx, c)
}

func (s *TrialStore) FindTrialRound(ctx context.Context, classID int64, roundNumber int) (*models.TrialRound, error) {
	r := new(models.TrialRound)
	err := s.db.NewSelect().Model(r).
		Where("tr.trial_class_id = ?", classID).
		Where("tr.round_number = ?", roundNumber).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (s *TrialStore) CreateTrialRound(ctx context.Context, r *models.TrialRound) error {
	return s.insert(ctx, r)
}

func (s *TrialStore) FindEntry(ctx context.Context, trialID int64, regNumber string) (*models.Entry, error) {
	e := new(models.Entry)
	err := s.db.NewSelect().Model(e).
		Where("e.trial_id = ?", trialID).
		Where("e.registration_number = ?", regNumber).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (s *TrialStore) CreateEntry(ctx context.Context, e *models.Entry) error {
	return s.insert(ctx, e)
}

func (s *TrialStore) FindEntrySelection(ctx context.Context, entryID, roundID int64) (*models.EntrySelection, error) {
	sel := new(models.EntrySelection)
	err := s.db.NewSelect().Model(sel).
		Where("es.entry_id = ?", entryID).
		Where("es.trial_round_id = ?", roundID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return sel, nil
}

func (s *TrialStore) CreateEntrySelection(ctx context.Context, sel *models.EntrySelection) error {
	return s.insert(ctx, sel)
}

func (s *TrialStore) FindScore(ctx context.Context, selectionID int64) (*models.Score, error) {
	sc := new(models.Score)
	err := s.db.NewSelect().Model(sc).
		Where("s.entry_selection_id = ?", selectionID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return sc, nil
}

func (s *TrialStore) CreateScore(ctx context.Context, sc *models.Score) error {
	return s.insert(ctx, sc)
}
