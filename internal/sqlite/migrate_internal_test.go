package sqlite

import (
	"log/slog"
	"testing"

	"github.com/myrjola/fitcoach/internal/testhelpers"
)

func newTestDatabase(t *testing.T) (*Database, *slog.Logger) {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := connect(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("connect() error = %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db, logger
}

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	const (
		table        = "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)"
		failTrigger  = "CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT RAISE(FAIL, 'fail'); END"
		quietTrigger = "CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT 1; END"
	)
	tests := []struct {
		name    string
		schemas []string
		query   string
		wantErr bool
	}{
		{"empty schema", []string{""}, "SELECT * FROM sqlite_schema", false},
		{"create table", []string{table}, "INSERT INTO test (name) VALUES ('a')", false},
		{"drop table", []string{table, ""}, "INSERT INTO test (name) VALUES ('a')", true},
		{"add column", []string{"CREATE TABLE test (id INTEGER PRIMARY KEY)", table}, "INSERT INTO test (name) VALUES ('a')", false},
		{"remove column", []string{table, "CREATE TABLE test (id INTEGER PRIMARY KEY)"}, "INSERT INTO test (name) VALUES ('a')", true},
		{"create index", []string{table + "; CREATE INDEX test_name ON test (name)"}, "DROP INDEX test_name", false},
		{"drop index", []string{table + "; CREATE INDEX test_name ON test (name)", table}, "DROP INDEX test_name", true},
		{
			"change index",
			[]string{table + "; CREATE INDEX test_name ON test (name)", table + "; CREATE INDEX test_name ON test (id, name)"},
			"DROP INDEX test_name",
			false,
		},
		{"create trigger", []string{table + "; " + failTrigger}, "INSERT INTO test (name) VALUES ('a')", true},
		{"drop trigger", []string{table + "; " + failTrigger, table}, "INSERT INTO test (name) VALUES ('a')", false},
		{"change trigger", []string{table + "; " + failTrigger, table + "; " + quietTrigger}, "INSERT INTO test (name) VALUES ('a')", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := t.Context()
			db, logger := newTestDatabase(t)
			for _, schema := range tt.schemas {
				logger.LogAttrs(ctx, slog.LevelInfo, "migrating", slog.String("schema", schema))
				if err := db.migrate(ctx, schema); err != nil {
					t.Fatalf("migrate() error = %v", err)
				}
			}
			_, err := db.ReadWrite.ExecContext(ctx, tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("Exec(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestDatabase_migrate_RebuildKeepsRows(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	db, _ := newTestDatabase(t)

	if err := db.migrate(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("migrate() error = %v", err)
	}
	if _, err := db.ReadWrite.ExecContext(ctx, "INSERT INTO test (name) VALUES ('squat'), ('bench')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.migrate(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT, sets INTEGER NOT NULL DEFAULT 3)"); err != nil {
		t.Fatalf("migrate() error = %v", err)
	}

	var count, sets int
	if err := db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*), SUM(sets) FROM test").Scan(&count, &sets); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 2 || sets != 6 {
		t.Errorf("got %d rows with %d sets, want 2 rows with 6 sets", count, sets)
	}
}

func TestNewDatabase_SeedsCatalogs(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	// Migrating and seeding again must be a no-op.
	if err = db.migrate(ctx, schemaDefinition); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, fixtures); err != nil {
		t.Fatalf("second fixtures run: %v", err)
	}

	for table, want := range map[string]int{"exercises": 35, "nutrition_items": 26} {
		var got int
		if err = db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s has %d rows, want %d", table, got, want)
		}
	}
}
