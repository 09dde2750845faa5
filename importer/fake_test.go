package importer

import (
	"context"

	"github.com/padraicbc/trialapi/models"
	"github.com/padraicbc/trialapi/registry"
)

// fakeStore is an in-memory Store. The *Func hooks run before the default
// behavior; a non-nil error from a hook is returned as-is.
type fakeStore struct {
	trace  []string
	nextID int64

	trials     []*models.Trial
	days       []*models.TrialDay
	classes    []*models.TrialClass
	rounds     []*models.TrialRound
	entries    []*models.Entry
	selections []*models.EntrySelection
	scores     []*models.Score

	CreateTrialFunc          func(t *models.Trial) error
	CreateTrialDayFunc       func(d *models.TrialDay) error
	CreateTrialClassFunc     func(c *models.TrialClass) error
	CreateTrialRoundFunc     func(r *models.TrialRound) error
	CreateEntryFunc          func(e *models.Entry) error
	CreateEntrySelectionFunc func(s *models.EntrySelection) error
	CreateScoreFunc          func(s *models.Score) error
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore { return &fakeStore{trace: []string{}} }

func (f *fakeStore) record(step string) { f.trace = append(f.trace, step) }

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) count(step string) int {
	n := 0
	for _, s := range f.trace {
		if s == step {
			n++
		}
	}
	return n
}

func (f *fakeStore) CreateTrial(_ context.Context, t *models.Trial) error {
	f.record("CreateTrial")
	if f.CreateTrialFunc != nil {
		if err := f.CreateTrialFunc(t); err != nil {
			return err
		}
	}
	t.ID = f.id()
	f.trials = append(f.trials, t)
	return nil
}

func (f *fakeStore) GetTrial(_ context.Context, id int64) (*models.Trial, error) {
	f.record("GetTrial")
	for _, t := range f.trials {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListTrialDays(_ context.Context, trialID int64) ([]models.TrialDay, error) {
	f.record("ListTrialDays")
	var out []models.TrialDay
	for _, d := range f.days {
		if d.TrialID == trialID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateTrialDay(_ context.Context, d *models.TrialDay) error {
	f.record("CreateTrialDay")
	if f.CreateTrialDayFunc != nil {
		if err := f.CreateTrialDayFunc(d); err != nil {
			return err
		}
	}
	d.ID = f.id()
	f.days = append(f.days, d)
	return nil
}

func (f *fakeStore) FindTrialClass(_ context.Context, dayID int64, name string) (*models.TrialClass, error) {
	f.record("FindTrialClass")
	for _, c := range f.classes {
		if c.TrialDayID == dayID && c.ClassName == name {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateTrialClass(_ context.Context, c *models.TrialClass) error {
	f.record("CreateTrialClass")
	if f.CreateTrialClassFunc != nil {
		if err := f.CreateTrialClassFunc(c); err != nil {
			return err
		}
	}
	c.ID = f.id()
	f.classes = append(f.classes, c)
	return nil
}

func (f *fakeStore) FindTrialRound(_ context.Context, classID int64, number int) (*models.TrialRound, error) {
	f.record("FindTrialRound")
	for _, r := range f.rounds {
		if r.TrialClassID == classID && r.RoundNumber == number {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateTrialRound(_ context.Context, r *models.TrialRound) error {
	f.record("CreateTrialRound")
	if f.CreateTrialRoundFunc != nil {
		if err := f.CreateTrialRoundFunc(r); err != nil {
			return err
		}
	}
	r.ID = f.id()
	f.rounds = append(f.rounds, r)
	return nil
}

func (f *fakeStore) FindEntry(_ context.Context, trialID int64, reg string) (*models.Entry, error) {
	f.record("FindEntry")
	for _, e := range f.entries {
		if e.TrialID == trialID && e.RegistrationNumber == reg {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateEntry(_ context.Context, e *models.Entry) error {
	f.record("CreateEntry")
	if f.CreateEntryFunc != nil {
		if err := f.CreateEntryFunc(e); err != nil {
			return err
		}
	}
	e.ID = f.id()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeStore) FindEntrySelection(_ context.Context, entryID, roundID int64) (*models.EntrySelection, error) {
	f.record("FindEntrySelection")
	for _, s := range f.selections {
		if s.EntryID == entryID && s.TrialRoundID == roundID {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateEntrySelection(_ context.Context, s *models.EntrySelection) error {
	f.record("CreateEntrySelection")
	if f.CreateEntrySelectionFunc != nil {
		if err := f.CreateEntrySelectionFunc(s); err != nil {
			return err
		}
	}
	s.ID = f.id()
	f.selections = append(f.selections, s)
	return nil
}

func (f *fakeStore) FindScore(_ context.Context, selectionID int64) (*models.Score, error) {
	f.record("FindScore")
	for _, s := range f.scores {
		if s.EntrySelectionID == selectionID {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateScore(_ context.Context, s *models.Score) error {
	f.record("CreateScore")
	if f.CreateScoreFunc != nil {
		if err := f.CreateScoreFunc(s); err != nil {
			return err
		}
	}
	s.ID = f.id()
	f.scores = append(f.scores, s)
	return nil
}

// fakeRegistry answers lookups from a fixed map.
type fakeRegistry struct {
	entries map[string]*models.RegistryEntry
	err     error
	calls   int
	forgets int
}

func (r *fakeRegistry) Forget() { r.forgets++ }

var (
	_ forgetter = (*fakeRegistry)(nil)
	_ forgetter = (*registry.Service)(nil)
)

func (r *fakeRegistry) Lookup(_ context.Context, reg string) (*models.RegistryEntry, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.entries[reg], nil
}
