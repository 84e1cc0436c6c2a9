package credits

import (
	"database/sql"
	"errors"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists the single credits record as one row. Used when a
// shared database is available; the semantics are identical to FileStore.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ensureSchema() error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`CREATE TABLE IF NOT EXISTS user_credits (
			id INTEGER PRIMARY KEY,
			available INTEGER NOT NULL,
			last_reset TEXT NOT NULL,
			plan TEXT NOT NULL
		)`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Load() (Record, bool, error) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false, err
	}
	var rec Record
	err := s.db.QueryRow(`SELECT available, last_reset, plan FROM user_credits WHERE id = 1`).
		Scan(&rec.Available, &rec.LastReset, &rec.Plan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *PostgresStore) Save(rec Record) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO user_credits (id, available, last_reset, plan)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET available = $1, last_reset = $2, plan = $3`,
		rec.Available, rec.LastReset, rec.Plan)
	return err
}

func (s *PostgresStore) Close() error { return s.db.Close() }
