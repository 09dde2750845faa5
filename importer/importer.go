// Package importer turns trial-results workbooks into the trial graph
// (trial, days, classes, rounds, entries, selections, scores) and previews
// them without writing.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/padraicbc/trialapi/judges"
	"github.com/padraicbc/trialapi/metrics"
	"github.com/padraicbc/trialapi/models"
	"github.com/padraicbc/trialapi/scoring"
	"github.com/padraicbc/trialapi/workbook"
)

// Options control one import run.
type Options struct {
	// Secretary is recorded on a newly created trial.
	Secretary string
	// TrialID imports into an existing trial instead of creating one.
	TrialID int64
}

// Importer reconciles workbooks against a Store.
type Importer struct {
	store    Store
	registry Registry
	roster   *judges.Roster
	metrics  *metrics.Import
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

func WithLogger(l *zap.Logger) Option { return func(im *Importer) { im.log = l } }

func WithMetrics(m *metrics.Import) Option { return func(im *Importer) { im.metrics = m } }

// WithLocation sets the zone trial dates are interpreted in.
func WithLocation(loc *time.Location) Option { return func(im *Importer) { im.loc = loc } }

// New returns an Importer. store and registry may be nil for preview-only use.
func New(store Store, registry Registry, roster *judges.Roster, opts ...Option) *Importer {
	im := &Importer{
		store:    store,
		registry: registry,
		roster:   roster,
		log:      zap.NewNop(),
		loc:      time.Local,
		now:      time.Now,
	}
	for _, o := range opts {
		o(im)
	}
	if im.roster == nil {
		im.roster = judges.NewRoster(nil)
	}
	return im
}

// run carries the per-import state.
type run struct {
	*Importer
	report  *Report
	log     *zap.Logger
	trialID int64
	days    map[string]int64
	// next round number per class, so sheets sharing a class continue numbering
	nextRound map[int64]int
	entries   map[string]*models.Entry
}

// Import writes the workbook into the store. Trial and day failures abort
// the run; every later failure skips its unit and is listed in the report.
func (im *Importer) Import(ctx context.Context, wb workbook.Workbook, opts Options) (*Report, error) {
	if im.store == nil {
		return nil, errors.New("importer: no store configured")
	}
	start := time.Now()
	rep, err := im.importWorkbook(ctx, wb, opts)
	im.metrics.Run("import", err, time.Since(start).Seconds())
	return rep, err
}

func (im *Importer) importWorkbook(ctx context.Context, wb workbook.Workbook, opts Options) (*Report, error) {
	parsed, err := im.read(wb)
	if err != nil {
		return nil, err
	}
	if f, ok := im.registry.(forgetter); ok {
		f.Forget()
	}

	r := &run{
		Importer:  im,
		report:    &Report{RunID: uuid.New(), Skipped: []SkippedUnit{}, Warnings: []SkippedUnit{}},
		days:      map[string]int64{},
		nextRound: map[int64]int{},
		entries:   map[string]*models.Entry{},
	}
	r.log = im.log.With(zap.String("run_id", r.report.RunID.String()))

	if err := r.trial(ctx, parsed, opts); err != nil {
		return nil, err
	}
	r.report.TrialID = r.trialID
	r.log = r.log.With(zap.Int64("trial_id", r.trialID))

	if err := r.trialDays(ctx, parsed.Dates, opts.TrialID != 0); err != nil {
		return nil, err
	}

	for _, sc := range parsed.Classes {
		for _, col := range sc.Skipped {
			r.skip(SkippedUnit{Unit: UnitColumn, Sheet: sc.Sheet, Column: col.Column, Reason: col.Reason}, nil)
		}
		for _, day := range sc.Days {
			r.classDay(ctx, sc, day)
		}
	}

	r.log.Info("import finished",
		zap.Int("entries_created", r.report.EntriesCreated),
		zap.Int("scores_created", r.report.ScoresCreated),
		zap.Int("skipped", len(r.report.Skipped)),
		zap.Int("warnings", len(r.report.Warnings)),
	)
	return r.report, nil
}

func (r *run) trial(ctx context.Context, p *parsedWorkbook, opts Options) error {
	if opts.TrialID != 0 {
		t, err := r.store.GetTrial(ctx, opts.TrialID)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrTrialMissing, opts.TrialID)
		}
		if err != nil {
			return fmt.Errorf("load trial %d: %w", opts.TrialID, err)
		}
		r.trialID = t.ID
		return nil
	}

	start, end := p.trialDates(r.now().In(r.loc))
	t := &models.Trial{
		TrialName:   p.TrialName,
		ClubName:    p.ClubName,
		StartDate:   start,
		EndDate:     end,
		TrialStatus: models.TrialStatusCompleted,
		EntryStatus: models.EntryStatusClosed,
		Secretary:   opts.Secretary,
		ImportRunID: r.report.RunID,
	}
	if err := r.store.CreateTrial(ctx, t); err != nil {
		r.log.Error("create trial", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrTrialCreate, err)
	}
	r.trialID = t.ID
	r.metrics.Created("trial")
	return nil
}

// trialDays creates one day per date in ascending order. When importing
// into an existing trial, days already present are reused and new ones are
// numbered after the highest existing day.
func (r *run) trialDays(ctx context.Context, dates []string, existing bool) error {
	next := 1
	if existing {
		days, err := r.store.ListTrialDays(ctx, r.trialID)
		if err != nil {
			return fmt.Errorf("%w: list days: %w", ErrDayCreate, err)
		}
		for _, d := range days {
			key := d.TrialDate
			if len(key) > len(workbook.DateKeyLayout) {
				key = key[:len(workbook.DateKeyLayout)]
			}
			r.days[key] = d.ID
			if d.DayNumber >= next {
				next = d.DayNumber + 1
			}
		}
	}

	for _, date := range dates {
		if _, ok := r.days[date]; ok {
			continue
		}
		d := &models.TrialDay{TrialID: r.trialID, DayNumber: next, TrialDate: date}
		if err := r.store.CreateTrialDay(ctx, d); err != nil {
			r.log.Error("create trial day", zap.String("date", date), zap.Error(err))
			return fmt.Errorf("%w %s: %w", ErrDayCreate, date, err)
		}
		r.days[date] = d.ID
		next++
		r.report.DaysCreated++
		r.metrics.Created("day")
	}
	return nil
}

func (r *run) classDay(ctx context.Context, sc sheetClass, day classDay) {
	class, err := r.class(ctx, sc, day.DateKey)
	if err != nil {
		r.skip(SkippedUnit{Unit: UnitClass, Sheet: sc.Sheet, Date: day.DateKey, Reason: err.Error()}, err)
		return
	}

	rounds := make([]*models.TrialRound, 0, len(day.Rounds))
	cols := make([]round, 0, len(day.Rounds))
	for _, rd := range day.Rounds {
		if !rd.JudgeKnown {
			r.warn(judgeWarning(sc.Sheet, rd))
		}
		if rd.Ambiguous {
			r.warn(ambiguousWarning(sc.Sheet, rd))
		}
		r.nextRound[class.ID]++
		tr, err := r.round(ctx, class.ID, r.nextRound[class.ID], rd.JudgeName)
		if err != nil {
			r.skip(SkippedUnit{Unit: UnitRound, Sheet: sc.Sheet, Column: rd.Column, Date: day.DateKey, Reason: err.Error()}, err)
			continue
		}
		rounds = append(rounds, tr)
		cols = append(cols, rd)
	}

	for _, row := range sc.Entries {
		for i, tr := range rounds {
			col := cols[i]
			raw := row.Scores[col.Column]
			result, outcome := scoring.Interpret(raw)
			switch outcome {
			case scoring.NoScore:
				continue
			case scoring.Unrecognized:
				r.skip(SkippedUnit{
					Unit: UnitScore, Sheet: sc.Sheet, Column: col.Column, Row: row.Row, Date: day.DateKey,
					RegistrationNumber: row.RegistrationNumber,
					Reason:             fmt.Sprintf("unrecognized score %q", raw),
				}, nil)
				continue
			}
			if !r.score(ctx, sc.Sheet, col, row, tr, result) {
				break
			}
		}
	}
}

func (r *run) class(ctx context.Context, sc sheetClass, date string) (*models.TrialClass, error) {
	dayID := r.days[date]
	c, err := r.store.FindTrialClass(ctx, dayID, sc.Name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find class %s: %w", sc.Name, err)
	}
	c = &models.TrialClass{TrialID: r.trialID, TrialDayID: dayID, ClassName: sc.Name, ClassType: sc.Type}
	if err := r.store.CreateTrialClass(ctx, c); err != nil {
		return nil, fmt.Errorf("create class %s: %w", sc.Name, err)
	}
	r.report.ClassesCreated++
	r.metrics.Created("class")
	return c, nil
}

func (r *run) round(ctx context.Context, classID int64, number int, judge string) (*models.TrialRound, error) {
	tr, err := r.store.FindTrialRound(ctx, classID, number)
	if err == nil {
		return tr, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find round %d: %w", number, err)
	}
	tr = &models.TrialRound{TrialClassID: classID, JudgeName: judge, RoundNumber: number}
	if err := r.store.CreateTrialRound(ctx, tr); err != nil {
		return nil, fmt.Errorf("create round %d: %w", number, err)
	}
	r.report.RoundsCreated++
	r.metrics.Created("round")
	return tr, nil
}

// score writes the entry, selection and score for one judged cell. It
// returns false when the entry itself could not be resolved, which ends
// processing of the row.
func (r *run) score(ctx context.Context, sheet string, col round, row workbook.EntrantRow, tr *models.TrialRound, result scoring.Result) bool {
	unit := func(kind string, err error) SkippedUnit {
		return SkippedUnit{
			Unit: kind, Sheet: sheet, Column: col.Column, Row: row.Row, Date: col.DateKey,
			RegistrationNumber: row.RegistrationNumber, Reason: err.Error(),
		}
	}

	entry, err := r.entry(ctx, row)
	if err != nil {
		r.skip(unit(UnitEntry, err), err)
		return false
	}

	sel, err := r.selection(ctx, entry.ID, tr.ID)
	if err != nil {
		r.skip(unit(UnitSelection, err), err)
		return true
	}

	_, err = r.store.FindScore(ctx, sel.ID)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("find score: %w", err)
		r.skip(unit(UnitScore, err), err)
		return true
	}
	s := &models.Score{
		EntrySelectionID: sel.ID,
		TrialRoundID:     tr.ID,
		PassFail:         string(result),
		EntryStatus:      models.PresencePresent,
	}
	if err := r.store.CreateScore(ctx, s); err != nil {
		err = fmt.Errorf("create score: %w", err)
		r.skip(unit(UnitScore, err), err)
		return true
	}
	r.report.ScoresCreated++
	r.metrics.Created("score")
	return true
}

func (r *run) entry(ctx context.Context, row workbook.EntrantRow) (*models.Entry, error) {
	if e, ok := r.entries[row.RegistrationNumber]; ok {
		return e, nil
	}
	e, err := r.store.FindEntry(ctx, r.trialID, row.RegistrationNumber)
	if err == nil {
		r.entries[row.RegistrationNumber] = e
		return e, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find entry: %w", err)
	}

	handler, dog := row.HandlerName, row.DogName
	if r.registry != nil {
		reg, err := r.registry.Lookup(ctx, row.RegistrationNumber)
		if err != nil {
			r.log.Warn("registry lookup failed, using sheet names",
				zap.String("registration_number", row.RegistrationNumber), zap.Error(err))
		} else if reg != nil {
			handler, dog = reg.HandlerName, reg.DogCallName
		}
	}

	e = &models.Entry{
		TrialID:            r.trialID,
		RegistrationNumber: row.RegistrationNumber,
		HandlerName:        handler,
		DogCallName:        dog,
		HandlerEmail:       models.PlaceholderEmail,
		PaymentStatus:      models.PaymentStatusPaid,
		EntryStatus:        models.EntryStatusConfirmed,
	}
	if err := r.store.CreateEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	r.entries[row.RegistrationNumber] = e
	r.report.EntriesCreated++
	r.metrics.Created("entry")
	return e, nil
}

func (r *run) selection(ctx context.Context, entryID, roundID int64) (*models.EntrySelection, error) {
	sel, err := r.store.FindEntrySelection(ctx, entryID, roundID)
	if err == nil {
		return sel, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find selection: %w", err)
	}
	sel = &models.EntrySelection{
		EntryID:      entryID,
		TrialRoundID: roundID,
		EntryType:    models.EntryTypeRegular,
		EntryStatus:  models.EntryStatusConfirmed,
	}
	if err := r.store.CreateEntrySelection(ctx, sel); err != nil {
		return nil, fmt.Errorf("create selection: %w", err)
	}
	r.report.SelectionsCreated++
	r.metrics.Created("selection")
	return sel, nil
}

func (r *run) skip(u SkippedUnit, err error) {
	r.report.Skipped = append(r.report.Skipped, u)
	r.metrics.Skip(u.Unit)
	fields := []zap.Field{
		zap.String("unit", u.Unit),
		zap.String("sheet", u.Sheet),
		zap.String("column", u.Column),
		zap.Int("row", u.Row),
		zap.String("date", u.Date),
		zap.String("registration_number", u.RegistrationNumber),
	}
	if err != nil {
		r.log.Error("skipped "+u.Unit, append(fields, zap.Error(err))...)
		return
	}
	r.log.Warn("skipped "+u.Unit, append(fields, zap.String("reason", u.Reason))...)
}

func (r *run) warn(u SkippedUnit) {
	r.report.Warnings = append(r.report.Warnings, u)
	r.log.Warn("import warning",
		zap.String("unit", u.Unit),
		zap.String("sheet", u.Sheet),
		zap.String("column", u.Column),
		zap.String("date", u.Date),
		zap.String("reason", u.Reason),
	)
}
