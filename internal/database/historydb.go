package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkscout/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "linkscout.db"

// timestampLayout is fixed width so text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when no discovery matches a lookup.
var ErrNotFound = errors.New("discovery not found")

// HistoryDB stores discoveries in SQLite.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL turns on write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns options that create the database with WAL.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the database in dbDir, creating it if opts allow.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s (run discover first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	ctx := context.Background()
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := hdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS discoveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		seed TEXT NOT NULL,
		limit_value INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		url_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_discoveries_seed ON discoveries(seed);
	CREATE INDEX IF NOT EXISTS idx_discoveries_run ON discoveries(run_id);
	CREATE INDEX IF NOT EXISTS idx_discoveries_timestamp ON discoveries(timestamp);

	CREATE TABLE IF NOT EXISTS discovered_urls (
		discovery_id INTEGER NOT NULL REFERENCES discoveries(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		PRIMARY KEY (discovery_id, position)
	);
	`
	_, err := h.db.ExecContext(ctx, schema)
	return err
}

// SaveDiscovery stores d and its URLs in one transaction and sets d.ID.
func (h *HistoryDB) SaveDiscovery(ctx context.Context, d *model.Discovery) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO discoveries (run_id, seed, limit_value, timestamp, duration_ms, status, error, url_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.RunID,
		d.Seed,
		d.Limit,
		d.StartedAt.UTC().Format(timestampLayout),
		d.Duration.Milliseconds(),
		string(d.Status),
		nullString(d.Error),
		len(d.URLs),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert discovery: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read discovery id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO discovered_urls (discovery_id, position, url) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare url insert: %w", err)
	}
	defer stmt.Close()

	for i, u := range d.URLs {
		if _, err := stmt.ExecContext(ctx, id, i, u); err != nil {
			return 0, fmt.Errorf("failed to insert url: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit discovery: %w", err)
	}

	d.ID = id
	return id, nil
}

const selectDiscovery = `
	SELECT id, run_id, seed, limit_value, timestamp, duration_ms, status, error
	FROM discoveries
	`

// GetDiscoveryByID returns the discovery with the given id, or ErrNotFound.
func (h *HistoryDB) GetDiscoveryByID(ctx context.Context, id int64) (*model.Discovery, error) {
	row := h.db.QueryRowContext(ctx, selectDiscovery+"WHERE id = ?", id)
	return h.scanOne(ctx, row)
}

// GetLatestDiscovery returns the newest discovery of seed, or ErrNotFound.
func (h *HistoryDB) GetLatestDiscovery(ctx context.Context, seed string) (*model.Discovery, error) {
	row := h.db.QueryRowContext(ctx, selectDiscovery+"WHERE seed = ? ORDER BY timestamp DESC, id DESC LIMIT 1", seed)
	return h.scanOne(ctx, row)
}

// GetHistory returns every discovery of seed, newest first.
func (h *HistoryDB) GetHistory(ctx context.Context, seed string) ([]*model.Discovery, error) {
	rows, err := h.db.QueryContext(ctx, selectDiscovery+"WHERE seed = ? ORDER BY timestamp DESC, id DESC", seed)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	var history []*model.Discovery
	for rows.Next() {
		d, err := scanDiscovery(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		history = append(history, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	// The single connection must be released before loading URLs.
	_ = rows.Close()

	for _, d := range history {
		if d.URLs, err = h.loadURLs(ctx, d.ID); err != nil {
			return nil, err
		}
	}
	return history, nil
}

// ListSeeds returns every seed with at least one stored discovery, sorted.
func (h *HistoryDB) ListSeeds(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT DISTINCT seed FROM discoveries ORDER BY seed`)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}
	defer rows.Close()

	var seeds []string
	for rows.Next() {
		var seed string
		if err := rows.Scan(&seed); err != nil {
			return nil, fmt.Errorf("failed to scan seed: %w", err)
		}
		seeds = append(seeds, seed)
	}
	return seeds, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (h *HistoryDB) scanOne(ctx context.Context, row *sql.Row) (*model.Discovery, error) {
	d, err := scanDiscovery(row)
	if err != nil {
		return nil, err
	}
	if d.URLs, err = h.loadURLs(ctx, d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func scanDiscovery(row rowScanner) (*model.Discovery, error) {
	var (
		d          model.Discovery
		timestamp  string
		durationMS int64
		status     string
		errText    sql.NullString
	)
	err := row.Scan(&d.ID, &d.RunID, &d.Seed, &d.Limit, &timestamp, &durationMS, &status, &errText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan discovery: %w", err)
	}

	d.StartedAt = parseTimestamp(timestamp)
	d.Duration = time.Duration(durationMS) * time.Millisecond
	d.Status = model.Status(status)
	d.Error = errText.String
	return &d, nil
}

func (h *HistoryDB) loadURLs(ctx context.Context, id int64) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT url FROM discovered_urls WHERE discovery_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load urls: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// timestampFormats are the layouts SQLite text timestamps may use.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses s with the first matching layout, or returns the
// zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
