package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"swcommons/pkg/models"
)

type dialect struct {
	driver    string
	schema    []string
	forUpdate string
	numbered  bool
	docCast   string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		schema: []string{
			`PRAGMA journal_mode = WAL`,
			`PRAGMA busy_timeout = 5000`,
			`CREATE TABLE IF NOT EXISTS records (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				collection TEXT NOT NULL,
				id TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				doc TEXT NOT NULL,
				UNIQUE (collection, id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_records_collection_seq ON records (collection, seq)`,
		},
	}
	postgresDialect = dialect{
		driver: "postgres",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS records (
				seq BIGSERIAL PRIMARY KEY,
				collection TEXT NOT NULL,
				id TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				doc JSONB NOT NULL,
				UNIQUE (collection, id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_records_collection_seq ON records (collection, seq)`,
		},
		forUpdate: " FOR UPDATE",
		numbered:  true,
		docCast:   "::jsonb",
	}
)

// bind rewrites ? placeholders to $n for numbered dialects
func (d dialect) bind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore keeps all collections in one table of JSON documents
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite database file
func OpenSQLite(path string) (*SQLStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps SQLite free of SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)
	return newSQLStore(db, sqliteDialect)
}

// OpenPostgres connects to PostgreSQL with a lib/pq DSN
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return newSQLStore(db, postgresDialect)
}

func newSQLStore(db *sql.DB, d dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d, now: time.Now}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize %s schema: %w", s.dialect.driver, err)
		}
	}
	return nil
}

func (s *SQLStore) Insert(ctx context.Context, c models.Collection, doc models.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	query := s.dialect.bind(`INSERT INTO records (collection, id, created_at, doc) VALUES (?, ?, ?, ?` + s.dialect.docCast + `)`)
	if _, err := s.db.ExecContext(ctx, query, string(c), id, s.now().UTC(), string(data)); err != nil {
		return "", fmt.Errorf("insert into %s: %w", c, err)
	}
	return id, nil
}

func (s *SQLStore) Patch(ctx context.Context, c models.Collection, id string, fields models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw []byte
	query := s.dialect.bind(`SELECT doc FROM records WHERE collection = ? AND id = ?` + s.dialect.forUpdate)
	if err := tx.QueryRowContext(ctx, query, string(c), id).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return notFound(c, id)
		}
		return fmt.Errorf("load %s %s: %w", c, id, err)
	}

	var current models.Document
	if err := json.Unmarshal(raw, &current); err != nil {
		return fmt.Errorf("decode %s %s: %w", c, id, err)
	}
	data, err := json.Marshal(applyPatch(current, fields))
	if err != nil {
		return err
	}

	update := s.dialect.bind(`UPDATE records SET doc = ?` + s.dialect.docCast + ` WHERE collection = ? AND id = ?`)
	if _, err := tx.ExecContext(ctx, update, string(data), string(c), id); err != nil {
		return fmt.Errorf("update %s %s: %w", c, id, err)
	}
	return tx.Commit()
}

func (s *SQLStore) Delete(ctx context.Context, c models.Collection, id string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.bind(`DELETE FROM records WHERE collection = ? AND id = ?`), string(c), id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(c, id)
	}
	return nil
}

func (s *SQLStore) QueryAll(ctx context.Context, c models.Collection, order Order) ([]Stored, error) {
	direction := "ASC"
	if order == OrderNewestFirst {
		direction = "DESC"
	}
	rows, err := s.db.QueryContext(ctx,
		s.dialect.bind(`SELECT id, seq, created_at, doc FROM records WHERE collection = ? ORDER BY seq `+direction),
		string(c))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}
	defer rows.Close()

	out := []Stored{}
	for rows.Next() {
		entry, err := scanStored(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetByID(ctx context.Context, c models.Collection, id string) (Stored, bool, error) {
	row := s.db.QueryRowContext(ctx,
		s.dialect.bind(`SELECT id, seq, created_at, doc FROM records WHERE collection = ? AND id = ?`),
		string(c), id)
	entry, err := scanStored(row)
	if err == sql.ErrNoRows {
		return Stored{}, false, nil
	}
	if err != nil {
		return Stored{}, false, err
	}
	return entry, true, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStored(row scanner) (Stored, error) {
	var (
		entry Stored
		raw   []byte
	)
	if err := row.Scan(&entry.ID, &entry.Seq, &entry.CreatedAt, &raw); err != nil {
		return Stored{}, err
	}
	if err := json.Unmarshal(raw, &entry.Fields); err != nil {
		return Stored{}, fmt.Errorf("decode record %s: %w", entry.ID, err)
	}
	if entry.Fields == nil {
		entry.Fields = models.Document{}
	}
	return entry, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
