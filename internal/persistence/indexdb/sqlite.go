package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/sim/tuning"
	"anthill.ai/internal/sim/world"
)

// SQLiteIndex is a read-model over generated recordings. The recording files stay
// the source of truth; the index only makes them searchable.
type SQLiteIndex struct {
	db   *sql.DB
	once sync.Once
}

// RecordingRow is one indexed recording.
type RecordingRow struct {
	ID          int64
	Path        string
	Seed        uint64
	Width       float64
	Height      float64
	Frames      int
	Ants        int
	AntHills    int
	Raspberries int
	SugarHills  int
	RecordedAt  string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS configs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recordings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			frames INTEGER NOT NULL,
			ants INTEGER NOT NULL,
			anthills INTEGER NOT NULL,
			raspberries INTEGER NOT NULL,
			sugar_hills INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recordings_path ON recordings(path);`,
		`CREATE TABLE IF NOT EXISTS placements (
			recording_id INTEGER NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			mirrored INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (recording_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_placements_kind ON placements(kind, recording_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}

// RecordRecording inserts a row for a recording written to path and returns its id.
func (s *SQLiteIndex) RecordRecording(path string, seed uint64, rec recording.Recording) (int64, error) {
	c := rec.Counts()
	res, err := s.db.Exec(
		`INSERT INTO recordings(path,seed,width,height,frames,ants,anthills,raspberries,sugar_hills,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		path, int64(seed), rec.Map.Width, rec.Map.Height, len(rec.Frames),
		c.Ants, c.AntHills, c.Raspberries, c.SugarHills,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordPlacements stores the placement log of a recording in one transaction.
func (s *SQLiteIndex) RecordPlacements(recordingID int64, entries []world.PlacementEntry) error {
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO placements(recording_id,seq,kind,mirrored,raw_json) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		mirrored := 0
		if e.Mirrored {
			mirrored = 1
		}
		if _, err := stmt.Exec(recordingID, int64(e.Seq), string(e.Kind), mirrored, string(b)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpsertTuning stores the effective tuning, keyed by its canonical JSON digest.
func (s *SQLiteIndex) UpsertTuning(t tuning.Tuning) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(b)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO configs(name,digest,json,updated_at) VALUES(?,?,?,?)`,
		"tuning", hex.EncodeToString(sum[:]), string(b), now); err != nil {
		return err
	}
	return tx.Commit()
}

// Recordings lists indexed recordings, newest first.
func (s *SQLiteIndex) Recordings() ([]RecordingRow, error) {
	rows, err := s.db.Query(`SELECT id,path,seed,width,height,frames,ants,anthills,raspberries,sugar_hills,recorded_at FROM recordings ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecordingRow
	for rows.Next() {
		var (
			r    RecordingRow
			seed int64
		)
		if err := rows.Scan(&r.ID, &r.Path, &seed, &r.Width, &r.Height, &r.Frames, &r.Ants, &r.AntHills, &r.Raspberries, &r.SugarHills, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.Seed = uint64(seed)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlacementCounts returns the number of logged placements per kind for a recording.
func (s *SQLiteIndex) PlacementCounts(recordingID int64) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM placements WHERE recording_id=? GROUP BY kind`, recordingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}
