package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("snapshot not found")

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Close() error
}

// Snapshot is a rendered chart persisted under its cache key.
type Snapshot struct {
	ID        string
	Key       string
	Format    string
	Image     []byte
	CreatedAt time.Time
}

type Store struct {
	db  DB
	now func() time.Time
}

// OpenSQLite opens the database with a single connection so ":memory:" keeps
// one database for the life of the handle.
func OpenSQLite(dsn string) (DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots(
		id TEXT PRIMARY KEY, key TEXT NOT NULL UNIQUE, format TEXT NOT NULL,
		image BLOB NOT NULL, created_at INTEGER NOT NULL
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db, now: time.Now} }

// SaveSnapshot inserts or replaces the image stored under key.
func (s *Store) SaveSnapshot(key, format string, img []byte) error {
	_, err := s.db.Exec(`INSERT INTO snapshots(id,key,format,image,created_at) VALUES(?,?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET format=excluded.format, image=excluded.image, created_at=excluded.created_at`,
		uuid.NewString(), key, format, img, s.now().Unix())
	return err
}

func (s *Store) LoadSnapshot(key string) (Snapshot, error) {
	var (
		snap Snapshot
		ts   int64
	)
	err := s.db.QueryRow(`SELECT id,key,format,image,created_at FROM snapshots WHERE key=?`, key).
		Scan(&snap.ID, &snap.Key, &snap.Format, &snap.Image, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.CreatedAt = time.Unix(ts, 0)
	return snap, nil
}

// Keys lists stored keys, newest first.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM snapshots ORDER BY created_at DESC, key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// PurgeBefore deletes snapshots created before cutoff and reports how many went.
func (s *Store) PurgeBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM snapshots WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
