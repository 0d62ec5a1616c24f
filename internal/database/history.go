package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// HistoryDB provides SQLite-based storage for audit reports, so score
// changes can be tracked across runs.
//
// Design decision: We store the full report as JSON next to a few indexed
// summary columns rather than normalizing every section into tables. The
// report structure evolves with the checkers; the summary columns are what
// history listings and trend queries actually need.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "seoaudit.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; history reads are rare enough that a
	// single connection is fine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Audit reports store complete runs as JSON with summary columns
	CREATE TABLE IF NOT EXISTS audit_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		overall_score INTEGER,
		critical_count INTEGER DEFAULT 0,
		warning_count INTEGER DEFAULT 0,
		report_json TEXT NOT NULL,
		scores_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON audit_reports(url);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON audit_reports(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores an audit report with its summary columns.
func (hdb *HistoryDB) Save(ctx context.Context, report *model.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	scoresJSON, _ := json.Marshal(report.SectionScores()) //nolint:errcheck,errchkjson // section scores are plain ints; Marshal won't fail

	var overall sql.NullInt64
	if score, ok := report.OverallScore(); ok {
		overall = sql.NullInt64{Int64: int64(score), Valid: true}
	}

	query := `
	INSERT INTO audit_reports (report_id, url, timestamp, overall_score, critical_count, warning_count, report_json, scores_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.ID,
		report.URL,
		report.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		overall,
		report.CriticalCount(),
		report.WarningCount(),
		string(reportJSON),
		string(scoresJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Latest retrieves the most recent report for a URL, nil when none exists.
func (hdb *HistoryDB) Latest(ctx context.Context, url string) (*model.Report, error) {
	query := `
	SELECT report_json FROM audit_reports
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, url).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// History retrieves every stored report for a URL, newest first.
func (hdb *HistoryDB) History(ctx context.Context, url string) ([]*model.Report, error) {
	query := `
	SELECT report_json FROM audit_reports
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.Report
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// ListURLs returns every audited URL, sorted.
func (hdb *HistoryDB) ListURLs(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT url FROM audit_reports
	ORDER BY url
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// ReportMetadata contains summary information about a stored report.
// This is used for displaying audit history without loading full reports.
type ReportMetadata struct {
	// ID is the unique identifier of the report row in the database.
	ID int64

	// ReportID is the report's own identifier.
	ReportID string

	// URL is the audited address.
	URL string

	// Timestamp is when the audit was performed.
	Timestamp time.Time

	// OverallScore is the averaged section score. Negative when the run
	// produced no scored sections.
	OverallScore int

	// CriticalCount is the number of blocking findings.
	CriticalCount int

	// WarningCount is the number of non-blocking findings.
	WarningCount int
}

// ListMetadata retrieves report summaries, newest first. An empty URL lists
// every stored report.
func (hdb *HistoryDB) ListMetadata(ctx context.Context, url string) ([]ReportMetadata, error) {
	query := `
	SELECT id, report_id, url, timestamp, overall_score, critical_count, warning_count
	FROM audit_reports
	`
	args := make([]any, 0, 1)
	if url != "" {
		query += " WHERE url = ?"
		args = append(args, url)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var timestamp string
		var overall sql.NullInt64

		if err := rows.Scan(&meta.ID, &meta.ReportID, &meta.URL, &timestamp,
			&overall, &meta.CriticalCount, &meta.WarningCount); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		if overall.Valid {
			meta.OverallScore = int(overall.Int64)
		} else {
			meta.OverallScore = -1
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetByID retrieves a stored report by its database row ID.
func (hdb *HistoryDB) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	query := `
	SELECT report_json FROM audit_reports
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
