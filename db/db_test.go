package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"

	"github.com/padraicbc/trialapi/importer"
	"github.com/padraicbc/trialapi/models"
	"github.com/padraicbc/trialapi/registry"
)

// startPostgres runs a throwaway PostgreSQL with the schema created.
func startPostgres(t *testing.T) *bun.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("trials"),
		postgres.WithUsername("trials"),
		postgres.WithPassword("trials"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, CreateTables(ctx, db))
	return db
}

func TestTrialStore(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	store := NewTrialStore(db)

	// schema creation is idempotent
	require.NoError(t, CreateTables(ctx, db))

	_, err := store.GetTrial(ctx, 12345)
	assert.ErrorIs(t, err, importer.ErrNotFound)

	trial := &models.Trial{
		TrialName:   "Summer Trial June 6 -- June 7, 2024",
		ClubName:    "Scent Club",
		StartDate:   "2024-06-06",
		EndDate:     "2024-06-07",
		TrialStatus: models.TrialStatusCompleted,
		EntryStatus: models.EntryStatusClosed,
		Secretary:   "admin",
	}
	require.NoError(t, store.CreateTrial(ctx, trial))
	require.NotZero(t, trial.ID)

	got, err := store.GetTrial(ctx, trial.ID)
	require.NoError(t, err)
	assert.Equal(t, "Scent Club", got.ClubName)

	day := &models.TrialDay{TrialID: trial.ID, DayNumber: 1, TrialDate: "2024-06-06"}
	require.NoError(t, store.CreateTrialDay(ctx, day))
	assert.Error(t, store.CreateTrialDay(ctx, &models.TrialDay{TrialID: trial.ID, DayNumber: 2, TrialDate: "2024-06-06"}),
		"a trial has one day per date")

	days, err := store.ListTrialDays(ctx, trial.ID)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].DayNumber)

	_, err = store.FindTrialClass(ctx, day.ID, "Patrol 1")
	assert.ErrorIs(t, err, importer.ErrNotFound)
	class := &models.TrialClass{TrialID: trial.ID, TrialDayID: day.ID, ClassName: "Patrol 1", ClassType: "scent"}
	require.NoError(t, store.CreateTrialClass(ctx, class))
	foundClass, err := store.FindTrialClass(ctx, day.ID, "Patrol 1")
	require.NoError(t, err)
	assert.Equal(t, class.ID, foundClass.ID)

	round := &models.TrialRound{TrialClassID: class.ID, JudgeName: "John Smith", RoundNumber: 1}
	require.NoError(t, store.CreateTrialRound(ctx, round))
	foundRound, err := store.FindTrialRound(ctx, class.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", foundRound.JudgeName)

	entry := &models.Entry{
		TrialID:            trial.ID,
		RegistrationNumber: "12-0001-01",
		HandlerName:        "Ann Lee",
		DogCallName:        "Rex",
		HandlerEmail:       models.PlaceholderEmail,
		PaymentStatus:      models.PaymentStatusPaid,
		EntryStatus:        models.EntryStatusConfirmed,
	}
	require.NoError(t, store.CreateEntry(ctx, entry))
	foundEntry, err := store.FindEntry(ctx, trial.ID, "12-0001-01")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, foundEntry.ID)

	sel := &models.EntrySelection{
		EntryID:      entry.ID,
		TrialRoundID: round.ID,
		EntryType:    models.EntryTypeRegular,
		EntryStatus:  models.EntryStatusConfirmed,
	}
	require.NoError(t, store.CreateEntrySelection(ctx, sel))
	_, err = store.FindEntrySelection(ctx, entry.ID, round.ID)
	require.NoError(t, err)

	_, err = store.FindScore(ctx, sel.ID)
	assert.ErrorIs(t, err, importer.ErrNotFound)
	score := &models.Score{EntrySelectionID: sel.ID, TrialRoundID: round.ID, PassFail: "Pass", EntryStatus: models.PresencePresent}
	require.NoError(t, store.CreateScore(ctx, score))
	foundScore, err := store.FindScore(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pass", foundScore.PassFail)
	assert.False(t, foundScore.CreatedAt.IsZero())

	assert.Error(t, store.CreateScore(ctx, &models.Score{EntrySelectionID: sel.ID, TrialRoundID: round.ID, PassFail: "Fail", EntryStatus: models.PresencePresent}),
		"a selection has one score")
}

func TestUsersAndRegistry(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	users := NewUsers(db)
	require.NoError(t, users.Save(ctx, &models.User{Username: "sec", Password: "hash1"}))
	u, err := users.ByUsername(ctx, "sec")
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)

	require.NoError(t, users.Save(ctx, &models.User{Username: "sec", Password: "hash2", Role: models.RoleAdministrator}))
	u, err = users.ByUsername(ctx, "sec")
	require.NoError(t, err)
	assert.Equal(t, "hash2", u.Password)
	assert.Equal(t, models.RoleAdministrator, u.Role)

	_, err = db.NewInsert().Model(&models.RegistryEntry{
		RegistrationNumber: "12-0001-01",
		HandlerName:        "Ann Registered",
		DogCallName:        "Rexy",
	}).Exec(ctx)
	require.NoError(t, err)

	reg := registry.New(db, time.Minute)
	hit, err := reg.Lookup(ctx, "12-0001-01")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "Rexy", hit.DogCallName)

	miss, err := reg.Lookup(ctx, "99-9999-99")
	require.NoError(t, err)
	assert.Nil(t, miss)
}
