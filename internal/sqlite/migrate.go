package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type objectType string

const (
	objectTable   objectType = "table"
	objectIndex   objectType = "index"
	objectTrigger objectType = "trigger"
)

// changedObject is a schema object whose definition differs between the live and the target schema.
type changedObject struct {
	name      string
	liveSQL   string
	targetSQL string
}

// schemaDiff lists what has to happen to one object type to reach the target schema.
type schemaDiff struct {
	dropped []string
	created []string
	changed []changedObject
}

// migrate makes the live schema match the declarative schema.
//
// The schema is first created in a scratch in-memory database that is attached as "target". Tables missing from it
// are dropped and new ones created. Changed tables are rebuilt following
// https://www.sqlite.org/lang_altertable.html#otheralter: the new definition is created under a temporary name, common
// columns are copied over, and the new table replaces the old one. Indexes and triggers are synchronised last since
// rebuilding a table drops them.
func (db *Database) migrate(ctx context.Context, schema string) (err error) {
	start := time.Now()

	detach, err := db.attachTarget(ctx, schema)
	if err != nil {
		return fmt.Errorf("attach target schema: %w", err)
	}
	defer detach()

	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, fmt.Errorf("enable foreign keys: %w", fkErr))
		}
	}()

	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
		}
	}()

	if err = db.migrateTables(ctx, tx); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	for _, typ := range []objectType{objectIndex, objectTrigger} {
		if err = db.syncObjects(ctx, tx, typ); err != nil {
			return fmt.Errorf("sync %ss: %w", typ, err)
		}
	}
	if err = checkForeignKeys(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachTarget builds schema in a scratch database and attaches it as "target". The returned function detaches it.
func (db *Database) attachTarget(ctx context.Context, schema string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	scratch, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open scratch database: %w", err)
	}
	// The shared-cache database lives as long as one connection to it is open, which the ATTACH below keeps.
	defer func() {
		if closeErr := scratch.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "close scratch database", slog.Any("error", closeErr))
		}
	}()
	if _, err = scratch.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create target schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS target", dsn); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE target"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "detach target schema", slog.Any("error", detachErr))
		}
	}, nil
}

func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	diff, err := diffObjects(ctx, tx, objectTable)
	if err != nil {
		return err
	}
	for _, name := range diff.dropped {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", name))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", name)); err != nil {
			return fmt.Errorf("drop table %s: %w", name, err)
		}
	}
	for _, createSQL := range diff.created {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", createSQL))
		if _, err = tx.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, table := range diff.changed {
		if err = db.rebuildTable(ctx, tx, table); err != nil {
			return fmt.Errorf("rebuild table %s: %w", table.name, err)
		}
	}
	return nil
}

func (db *Database) rebuildTable(ctx context.Context, tx *sql.Tx, table changedObject) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "rebuilding table",
		slog.String("table", table.name),
		slog.String("liveSql", table.liveSQL),
		slog.String("targetSql", table.targetSQL))

	tempName := table.name + "_rebuild"
	createSQL := strings.Replace(table.targetSQL, table.name, tempName, 1)
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("create %s: %w", tempName, err)
	}

	// Quoted so that columns named after SQLite keywords survive.
	columns, err := queryStrings(ctx, tx, `SELECT '"' || live.name || '"'
FROM PRAGMA_TABLE_INFO(:table) AS live
         JOIN PRAGMA_TABLE_INFO(:table, 'target') AS target ON target.name = live.name`,
		sql.Named("table", table.name))
	if err != nil {
		return fmt.Errorf("query common columns: %w", err)
	}
	if len(columns) > 0 {
		list := strings.Join(columns, ", ")
		//nolint:gosec // identifiers come from sqlite_schema.
		copySQL := fmt.Sprintf("INSERT INTO %q (%s) SELECT %s FROM %q", tempName, list, list, table.name)
		if _, err = tx.ExecContext(ctx, copySQL); err != nil {
			return fmt.Errorf("copy rows: %w", err)
		}
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q", table.name)); err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %q RENAME TO %q", tempName, table.name)); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// syncObjects drops, creates and recreates indexes or triggers so that they match the target schema.
func (db *Database) syncObjects(ctx context.Context, tx *sql.Tx, typ objectType) error {
	diff, err := diffObjects(ctx, tx, typ)
	if err != nil {
		return err
	}
	keyword := strings.ToUpper(string(typ))
	drops := diff.dropped
	creates := diff.created
	for _, c := range diff.changed {
		drops = append(drops, c.name)
		creates = append(creates, c.targetSQL)
	}
	for _, name := range drops {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping", slog.String("type", string(typ)), slog.String("name", name))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP %s IF EXISTS %q", keyword, name)); err != nil {
			return fmt.Errorf("drop %s %s: %w", typ, name, err)
		}
	}
	for _, createSQL := range creates {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating", slog.String("type", string(typ)), slog.String("query", createSQL))
		if _, err = tx.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("create %s: %w", typ, err)
		}
	}
	return nil
}

// diffObjects compares live and target definitions of one object type. Internal sqlite_ objects are ignored. Quotes
// are stripped before comparing since ALTER TABLE RENAME quotes the table name in the stored SQL.
func diffObjects(ctx context.Context, tx *sql.Tx, typ objectType) (schemaDiff, error) {
	var (
		diff schemaDiff
		err  error
	)
	if diff.dropped, err = queryStrings(ctx, tx, `SELECT live.name
FROM main.sqlite_schema AS live
         LEFT JOIN target.sqlite_schema AS t ON t.type = live.type AND t.name = live.name
WHERE live.type = ?
  AND t.name IS NULL
  AND live.name NOT LIKE 'sqlite_%'`, typ); err != nil {
		return schemaDiff{}, fmt.Errorf("query dropped %ss: %w", typ, err)
	}
	if diff.created, err = queryStrings(ctx, tx, `SELECT t.sql
FROM target.sqlite_schema AS t
         LEFT JOIN main.sqlite_schema AS live ON live.type = t.type AND live.name = t.name
WHERE t.type = ?
  AND live.name IS NULL
  AND t.name NOT LIKE 'sqlite_%'
  AND t.sql IS NOT NULL`, typ); err != nil {
		return schemaDiff{}, fmt.Errorf("query created %ss: %w", typ, err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT live.name, live.sql, t.sql
FROM main.sqlite_schema AS live
         JOIN target.sqlite_schema AS t ON t.type = live.type AND t.name = live.name
WHERE live.type = ?
  AND live.name NOT LIKE 'sqlite_%'
  AND REPLACE(live.sql, '"', '') <> REPLACE(t.sql, '"', '')`, typ)
	if err != nil {
		return schemaDiff{}, fmt.Errorf("query changed %ss: %w", typ, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()
	for rows.Next() {
		var c changedObject
		if err = rows.Scan(&c.name, &c.liveSQL, &c.targetSQL); err != nil {
			return schemaDiff{}, fmt.Errorf("scan changed %s: %w", typ, err)
		}
		diff.changed = append(diff.changed, c)
	}
	if err = rows.Err(); err != nil {
		return schemaDiff{}, fmt.Errorf("iterate changed %ss: %w", typ, err)
	}
	return diff, nil
}

func checkForeignKeys(ctx context.Context, tx *sql.Tx) error {
	var (
		table  string
		rowID  sql.NullInt64
		parent string
		fkID   int
	)
	err := tx.QueryRowContext(ctx, "PRAGMA foreign_key_check").Scan(&table, &rowID, &parent, &fkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	return fmt.Errorf("foreign key violation in %s referencing %s", table, parent)
}

// queryStrings collects the single string column of a query.
func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) (_ []string, err error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()
	var out []string
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
