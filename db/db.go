package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/trialapi/config"
	"github.com/padraicbc/trialapi/models"
)

// Setup opens a PostgreSQL connection using the provided config and exits
// if the database cannot be reached.
func Setup(cfg *config.Config) *bun.DB {
	db, err := Open(context.Background(), cfg.PostgresDSN(), cfg.Debug)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	return db
}

// Open connects to dsn and pings it.
func Open(ctx context.Context, dsn string, debug bool) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.RegistryEntry)(nil),
		(*models.Trial)(nil),
		(*models.TrialDay)(nil),
		(*models.TrialClass)(nil),
		(*models.TrialRound)(nil),
		(*models.Entry)(nil),
		(*models.EntrySelection)(nil),
		(*models.Score)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().WithForeignKeys().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []struct{ table, name, cols string }{
		{"trial_days", "trial_days_no_dupes", "trial_id, trial_date"},
		{"trial_classes", "trial_classes_no_dupes", "trial_day_id, class_name"},
		{"trial_rounds", "trial_rounds_no_dupes", "trial_class_id, round_number"},
		{"entries", "entries_no_dupes", "trial_id, registration_number"},
		{"entry_selections", "entry_selections_no_dupes", "entry_id, trial_round_id"},
		{"scores", "scores_no_dupes", "entry_selection_id"},
	}
	for _, c := range constraints {
		stmt := fmt.Sprintf(
			`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s); END IF; END $$`,
			c.name, c.table, c.name, c.cols)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
