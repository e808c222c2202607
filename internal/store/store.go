// Package store implements chronicler's SQLite-backed history and path
// store: WAL journal mode, a single-writer connection pool, a background
// checkpoint loop, all layered onto a single "history" table holding
// original_source/chronicler/src/history.rs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const walCheckpointInterval = 5 * time.Minute

// Entry is one recorded shell command execution.
type Entry struct {
	ID       int64
	Cmd      string
	Status   int64
	Cwd      string
	Hostname string
	User     string
	StartTS  float64
	EndTS    float64
	Session  string
}

// Duration is the wall-clock time the command ran for.
func (e Entry) Duration() time.Duration {
	return time.Duration((e.EndTS - e.StartTS) * float64(time.Second))
}

// Update is a partial Entry: nil fields are left unchanged on an existing
// row, or defaulted on insert. It mirrors the Rust HistoryUpdate's
// Option<T>-per-field shape.
type Update struct {
	ID       *int64   `json:"id,omitempty"`
	Cmd      *string  `json:"cmd,omitempty"`
	Status   *int64   `json:"status,omitempty"`
	Cwd      *string  `json:"cwd,omitempty"`
	Hostname *string  `json:"hostname,omitempty"`
	User     *string  `json:"user,omitempty"`
	StartTS  *float64 `json:"start_ts,omitempty"`
	EndTS    *float64 `json:"end_ts,omitempty"`
	Session  *string  `json:"session,omitempty"`
}

// ParseUpdateRecord parses the \x00-sentinel "key\nvalue" record format
// chronicler's shell hook writes to stdin, grounded on HistoryUpdate's
// FromStr in original_source/chronicler/src/history.rs.
func ParseUpdateRecord(s string) (Update, error) {
	var u Update
	for _, kv := range strings.Split(s, "\x00") {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "\n", 2)
		if len(parts) != 2 {
			continue
		}
		key, val := parts[0], strings.TrimSpace(parts[1])
		switch key {
		case "id":
			n, err := parseInt64(val)
			if err != nil {
				return Update{}, fmt.Errorf("store: invalid id: %w", err)
			}
			u.ID = &n
		case "cmd":
			// cmd is not trimmed: leading/trailing shell whitespace is significant.
			raw := parts[1]
			u.Cmd = &raw
		case "status", "return":
			n, err := parseInt64(val)
			if err != nil {
				return Update{}, fmt.Errorf("store: invalid status: %w", err)
			}
			u.Status = &n
		case "cwd":
			u.Cwd = &val
		case "hostname":
			u.Hostname = &val
		case "user":
			u.User = &val
		case "start_ts":
			f, err := parseFloat64(val)
			if err != nil {
				return Update{}, fmt.Errorf("store: invalid start_ts: %w", err)
			}
			u.StartTS = &f
		case "end_ts":
			f, err := parseFloat64(val)
			if err != nil {
				return Update{}, fmt.Errorf("store: invalid end_ts: %w", err)
			}
			u.EndTS = &f
		case "session":
			u.Session = &val
		default:
			return Update{}, fmt.Errorf("store: invalid key %q", key)
		}
	}
	return u, nil
}

// PathCount is a directory paired with how many recorded commands ran there.
type PathCount struct {
	Path  string
	Count int64
}

// Store is chronicler's SQLite-backed history database.
type Store struct {
	db        *sql.DB
	stopCh    chan struct{}
	stoppedCh chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if missing) the SQLite database at path in WAL mode
// and ensures the history schema exists.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	s := &Store{db: db, stopCh: make(chan struct{}), stoppedCh: make(chan struct{})}
	go s.walCheckpointLoop()
	return s, nil
}

// Close flushes the WAL into the main database file and closes the
// connection. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		<-s.stoppedCh
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

func (s *Store) walCheckpointLoop() {
	defer close(s.stoppedCh)
	ticker := time.NewTicker(walCheckpointInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
				log.Printf("store: WAL checkpoint failed: %v", err)
			}
		}
	}
}

// Entries returns every history entry, most recent first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("store: list entries: %w", err)
	}
	return scanEntries(rows)
}

// EntriesUniqueCmd returns one entry per distinct command text: the most
// recent execution of each, ordered by that execution's end time.
func (s *Store) EntriesUniqueCmd(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, listUniqueCmdQuery)
	if err != nil {
		return nil, fmt.Errorf("store: list unique commands: %w", err)
	}
	return scanEntries(rows)
}

// PathCounts returns every visited working directory with how many
// commands ran there, most-visited first.
func (s *Store) PathCounts(ctx context.Context) ([]PathCount, error) {
	rows, err := s.db.QueryContext(ctx, pathQuery)
	if err != nil {
		return nil, fmt.Errorf("store: list paths: %w", err)
	}
	defer rows.Close()

	var out []PathCount
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, fmt.Errorf("store: scan path count: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// Update inserts a new entry (u.ID == nil) or merges u into an existing
// row (u.ID != nil), returning the row id.
func (s *Store) Update(ctx context.Context, u Update) (int64, error) {
	if u.ID == nil {
		row := s.db.QueryRowContext(ctx, insertQuery,
			nullString(u.Cmd), nullInt64(u.Status), nullString(u.Cwd),
			nullString(u.Hostname), nullString(u.User),
			nullFloat64(u.StartTS), nullFloat64(u.EndTS), nullString(u.Session))
		var id int64
		if err := row.Scan(&id); err != nil {
			return 0, fmt.Errorf("store: insert entry: %w", err)
		}
		return id, nil
	}

	_, err := s.db.ExecContext(ctx, updateQuery,
		*u.ID, nullString(u.Cmd), nullInt64(u.Status), nullString(u.Cwd),
		nullString(u.Hostname), nullString(u.User),
		nullFloat64(u.StartTS), nullFloat64(u.EndTS), nullString(u.Session))
	if err != nil {
		return 0, fmt.Errorf("store: update entry %d: %w", *u.ID, err)
	}
	return *u.ID, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var cmd, cwd, host, user, sess sql.NullString
		var status sql.NullInt64
		var start, end sql.NullFloat64
		if err := rows.Scan(&e.ID, &cmd, &status, &cwd, &host, &user, &start, &end, &sess); err != nil {
			return nil, fmt.Errorf("store: scan entry: %w", err)
		}
		e.Cmd, e.Status, e.Cwd, e.Hostname, e.User = cmd.String, status.Int64, cwd.String, host.String, user.String
		e.StartTS, e.EndTS, e.Session = start.Float64, end.Float64, sess.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt64(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullFloat64(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func parseInt64(s string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func parseFloat64(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS history (
    id       INTEGER PRIMARY KEY,
    cmd      TEXT,
    status   INTEGER,
    cwd      TEXT,
    hostname TEXT,
    user     TEXT,
    start_ts REAL,
    end_ts   REAL,
    session  TEXT
) STRICT;

CREATE INDEX IF NOT EXISTS history_cwd ON history(cwd, end_ts);
CREATE INDEX IF NOT EXISTS history_end_ts ON history(end_ts);
`

const listQuery = `
SELECT id, cmd, status, cwd, hostname, user, start_ts, end_ts, session
FROM history ORDER BY end_ts DESC;
`

const listUniqueCmdQuery = `
SELECT h1.id, h1.cmd, h1.status, h1.cwd, h1.hostname, h1.user, h1.start_ts, h1.end_ts, h1.session
FROM history h1
JOIN (
    SELECT cmd, MAX(end_ts) as max_ts
    FROM history
    GROUP BY cmd
) h2
ON h1.cmd = h2.cmd AND h1.end_ts = h2.max_ts
ORDER BY h1.end_ts DESC;
`

const pathQuery = `
SELECT cwd as path, COUNT(cwd) as count FROM history GROUP BY cwd ORDER BY COUNT(cwd) DESC;
`

const insertQuery = `
INSERT INTO history (cmd, status, cwd, hostname, user, start_ts, end_ts, session)
VALUES (?1, COALESCE(?2, -1), ?3, ?4, ?5, ?6, COALESCE(?7, ?6), ?8)
RETURNING id;
`

const updateQuery = `
UPDATE history SET
    cmd = COALESCE(?2, cmd),
    status = COALESCE(?3, status),
    cwd = COALESCE(?4, cwd),
    hostname = COALESCE(?5, hostname),
    user = COALESCE(?6, user),
    start_ts = COALESCE(?7, start_ts),
    end_ts = COALESCE(?8, end_ts),
    session = COALESCE(?9, session)
WHERE id = ?1;
`
