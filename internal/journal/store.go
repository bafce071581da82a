package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"shoebox/internal/config"
)

// Store manages run journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the journal database file.
func (s *Store) Path() string {
	return s.path
}

// Record inserts one outcome row and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, item *Item) (*Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	if item.BatchID == "" {
		return nil, errors.New("batch id is required")
	}
	if item.SourcePath == "" {
		return nil, errors.New("source path is required")
	}
	if _, ok := statusSet[item.Status]; !ok {
		return nil, fmt.Errorf("unknown status %q", item.Status)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO journal_items (
            batch_id, operation, source_path, dest_path, status, detail, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.BatchID,
		string(item.Operation),
		item.SourcePath,
		nullableString(item.DestPath),
		string(item.Status),
		nullableString(item.Detail),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert journal item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a journal item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM journal_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get journal item: %w", err)
	}
	return item, nil
}

// ItemsByBatch returns all items recorded for a batch ordered by insertion.
func (s *Store) ItemsByBatch(ctx context.Context, batchID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM journal_items WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query by batch: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// List returns journal items filtered by status set (or all items when no
// status is provided), newest first.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Item, error) {
	baseQuery := `SELECT ` + itemColumns + ` FROM journal_items`
	orderClause := ` ORDER BY id DESC`

	var args []any
	if len(statuses) > 0 {
		placeholders := makePlaceholders(len(statuses))
		baseQuery += ` WHERE status IN (` + placeholders + `)`
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query := baseQuery + orderClause
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Batches summarizes recorded runs, newest first.
func (s *Store) Batches(ctx context.Context, limit int) ([]BatchSummary, error) {
	query := `SELECT batch_id, operation, MIN(created_at), status, COUNT(1)
        FROM journal_items GROUP BY batch_id, status ORDER BY MIN(id)`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("summarize batches: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*BatchSummary)
	order := make([]string, 0)
	for rows.Next() {
		var (
			batchID    string
			op         string
			startedRaw string
			statusStr  string
			count      int
		)
		if err := rows.Scan(&batchID, &op, &startedRaw, &statusStr, &count); err != nil {
			return nil, err
		}
		summary, ok := byID[batchID]
		if !ok {
			summary = &BatchSummary{
				BatchID:   batchID,
				Operation: Operation(op),
				Counts:    make(map[Status]int),
			}
			byID[batchID] = summary
			order = append(order, batchID)
		}
		if started, err := parseTimeString(startedRaw); err == nil {
			if summary.StartedAt.IsZero() || started.Before(summary.StartedAt) {
				summary.StartedAt = started
			}
		}
		summary.Counts[Status(statusStr)] += count
		summary.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summaries := make([]BatchSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byID[id])
	}
	// Newest batches first.
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM journal_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("journal stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// ClearBatch removes all items recorded for a batch.
func (s *Store) ClearBatch(ctx context.Context, batchID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM journal_items WHERE batch_id = ?`, batchID)
	if err != nil {
		return 0, fmt.Errorf("clear batch: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all items from the journal.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM journal_items`)
	if err != nil {
		return 0, fmt.Errorf("clear journal: %w", err)
	}
	return res.RowsAffected()
}

const itemColumns = "id, batch_id, operation, source_path, dest_path, status, detail, created_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id         int64
		batchID    string
		op         string
		sourcePath string
		destPath   sql.NullString
		statusStr  string
		detail     sql.NullString
		createdRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&batchID,
		&op,
		&sourcePath,
		&destPath,
		&statusStr,
		&detail,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:         id,
		BatchID:    batchID,
		Operation:  Operation(op),
		SourcePath: sourcePath,
		DestPath:   destPath.String,
		Status:     Status(statusStr),
		Detail:     detail.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	return item, nil
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
