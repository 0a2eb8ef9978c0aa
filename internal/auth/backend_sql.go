package auth

import (
	"database/sql"
	"fmt"
)

// DBBackend stores credentials in the application's SQLite database,
// one row per key in the credentials table.
type DBBackend struct {
	db *sql.DB
}

// NewDBBackend creates a DBBackend over an open database connection.
// The credentials table is created by the shared migrations.
func NewDBBackend(db *sql.DB) *DBBackend {
	return &DBBackend{db: db}
}

func (b *DBBackend) Name() string { return "database" }

func (b *DBBackend) Get(key string) (string, error) {
	var value string
	err := b.db.QueryRow("SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query credential: %w", err)
	}
	return value, nil
}

func (b *DBBackend) Set(key, value string) error {
	query := `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := b.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

func (b *DBBackend) Delete(key string) error {
	if _, err := b.db.Exec("DELETE FROM credentials WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
