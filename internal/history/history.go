// Package history kesim denemelerini yerel bir SQLite günlüğünde
// tutar. Yazımlar en iyi çabayla yapılır; günlük hatası kesimi düşürmez.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry tek bir kesim denemesinin kaydı.
type Entry struct {
	ID            int64
	CreatedAt     time.Time
	InputPath     string
	InTime        string
	OutTime       string
	Mode          string
	AudioOrder    int
	SubtitleIndex int
	OutputPath    string
	Status        string // "ok" | "error"
	Message       string
}

// Store günlük veritabanını sarar.
type Store struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS cuts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at INTEGER NOT NULL,
	input_path TEXT NOT NULL,
	in_time TEXT NOT NULL,
	out_time TEXT NOT NULL,
	mode TEXT NOT NULL,
	audio_order INTEGER NOT NULL,
	subtitle_index INTEGER NOT NULL,
	output_path TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_cuts_created_at ON cuts(created_at DESC);
`

// Open veritabanını açar ve şemayı hazırlar.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("günlük dizini oluşturulamadı: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("günlük veritabanı açılamadı: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s çalıştırılamadı: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("günlük şeması oluşturulamadı: %w", err)
	}

	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Record bir kesim denemesini günlüğe yazar.
func (s *Store) Record(e Entry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.conn.Exec(
		`INSERT INTO cuts (created_at, input_path, in_time, out_time, mode, audio_order, subtitle_index, output_path, status, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.Unix(), e.InputPath, e.InTime, e.OutTime, e.Mode,
		e.AudioOrder, e.SubtitleIndex, e.OutputPath, e.Status, e.Message,
	)
	if err != nil {
		return fmt.Errorf("günlük kaydı yazılamadı: %w", err)
	}
	return nil
}

// Recent en yeni n kaydı döner.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.conn.Query(
		`SELECT id, created_at, input_path, in_time, out_time, mode, audio_order, subtitle_index, output_path, status, message
		 FROM cuts ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("günlük okunamadı: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &created, &e.InputPath, &e.InTime, &e.OutTime, &e.Mode,
			&e.AudioOrder, &e.SubtitleIndex, &e.OutputPath, &e.Status, &e.Message); err != nil {
			return nil, fmt.Errorf("günlük satırı okunamadı: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
