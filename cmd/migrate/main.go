// cmd/migrate/main.go
// Copies users and the dog registry from the legacy MySQL database into PostgreSQL.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/registry?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/trialapi/config"
	bundb "github.com/padraicbc/trialapi/db"
	"github.com/padraicbc/trialapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.LoadCLI()
	if err := cfg.RequireDB(); err != nil {
		log.Fatal(err)
	}

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/registry?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return migrateUsers(ctx, myDB, pgDB) }},
		{"registry", func() (int, error) { return migrateRegistry(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// bulkInsert inserts a batch. onConflict makes re-runs idempotent.
func bulkInsert[T any](ctx context.Context, pgDB bun.IDB, rows []T, onConflict string) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On(onConflict).Exec(ctx)
	return err
}

// copyRows streams query results into PostgreSQL in batches of batchSize.
func copyRows[T any](ctx context.Context, myDB *sql.DB, pgDB bun.IDB, query, onConflict string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := myDB.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []T
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch, onConflict); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := bulkInsert(ctx, pgDB, batch, onConflict); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// --- per-table migrations ---

func migrateUsers(ctx context.Context, myDB *sql.DB, pgDB bun.IDB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT id, username, password, role FROM users",
		"CONFLICT DO NOTHING",
		func(rows *sql.Rows) (models.User, error) {
			var (
				u    models.User
				role sql.NullString
			)
			err := rows.Scan(&u.ID, &u.Username, &u.Password, &role)
			u.Role = normalizeRole(role)
			return u, err
		})
}

func migrateRegistry(ctx context.Context, myDB *sql.DB, pgDB bun.IDB) (int, error) {
	return copyRows(ctx, myDB, pgDB,
		"SELECT registration_number, handler_name, call_name FROM registry",
		"CONFLICT (registration_number) DO UPDATE SET handler_name = EXCLUDED.handler_name, dog_call_name = EXCLUDED.dog_call_name",
		func(rows *sql.Rows) (models.RegistryEntry, error) {
			var (
				r       models.RegistryEntry
				handler sql.NullString
				dog     sql.NullString
			)
			err := rows.Scan(&r.RegistrationNumber, &handler, &dog)
			r.RegistrationNumber = strings.TrimSpace(r.RegistrationNumber)
			r.HandlerName = strings.TrimSpace(handler.String)
			r.DogCallName = strings.TrimSpace(dog.String)
			return r, err
		})
}

// normalizeRole maps legacy role labels onto the roles this API checks.
func normalizeRole(role sql.NullString) string {
	switch strings.ToLower(strings.TrimSpace(role.String)) {
	case "admin", models.RoleAdministrator:
		return models.RoleAdministrator
	default:
		return "user"
	}
}

// resetSequences advances each PG sequence to MAX(id) so new inserts don't conflict.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []struct{ seq, table, col string }{
		{"users_id_seq", "users", "id"},
	}
	for _, s := range seqs {
		q := fmt.Sprintf(
			"SELECT setval('%s', COALESCE((SELECT MAX(%s) FROM %s), 1))",
			s.seq, s.col, s.table,
		)
		if _, err := pgDB.ExecContext(ctx, q); err != nil {
			log.Printf("reset seq %s: %v", s.seq, err)
		}
	}
	log.Println("sequences reset")
}
