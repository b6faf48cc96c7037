package main

import (
	"database/sql"
	"log"
)

func initDB() {
	// User table
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	);`)
	if err != nil {
		log.Fatalf("Failed to create users table: %v", err)
	}

	// Configuration table
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS configuration (
		key TEXT PRIMARY KEY NOT NULL,
		value TEXT
	);`)
	if err != nil {
		log.Fatalf("Failed to create configuration table: %v", err)
	}
	db.Exec(`INSERT OR IGNORE INTO configuration (key, value) VALUES ('token_signing', 'none');`)
	db.Exec(`INSERT OR IGNORE INTO configuration (key, value) VALUES ('token_cleanup_enabled', 'true');`)
	db.Exec(`INSERT OR IGNORE INTO configuration (key, value) VALUES ('token_cleanup_schedule', '0 * * * *');`)
	db.Exec(`INSERT OR IGNORE INTO configuration (key, value) VALUES ('library_remote_url', '');`)

	// Auth state table. Holds a single row, key = "authToken".
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS auth_state (
		key TEXT PRIMARY KEY NOT NULL,
		value TEXT
	);`)
	if err != nil {
		log.Fatalf("Failed to create auth_state table: %v", err)
	}

	seedUsers(db)
}

// seedUsers installs the two demo accounts when the table is empty.
func seedUsers(db *sql.DB) {
	var count int
	row := db.QueryRow("SELECT COUNT(*) FROM users")
	if err := row.Scan(&count); err != nil || count > 0 {
		return
	}

	seed := []struct {
		id, username, password, role string
	}{
		{"1", "admin", "admin123", RoleAdmin},
		{"2", "user", "user123", RoleUser},
	}
	for _, u := range seed {
		hashedPassword, err := hashPassword(u.password)
		if err != nil {
			log.Printf("Could not hash password for %s: %v", u.username, err)
			continue
		}
		_, err = db.Exec("INSERT INTO users (id, username, password_hash, role) VALUES (?, ?, ?, ?)",
			u.id, u.username, hashedPassword, u.role)
		if err != nil {
			log.Printf("Could not create default user %s: %v", u.username, err)
		} else {
			log.Printf("Default %s user '%s' created", u.role, u.username)
		}
	}
}

// ============================================================================
// CONFIGURATION HELPERS
// ============================================================================

// GetConfig retrieves a configuration value by key
func GetConfig(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM configuration WHERE key = ?`, key).Scan(&value)
	return value, err
}

// SetConfig sets a configuration value
func SetConfig(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT OR REPLACE INTO configuration (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ============================================================================
// AUTH STATE STORE
// ============================================================================

// TokenStore is the persisted key/value entry backing the session manager.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Get returns the stored value, or "" when the key is absent.
func (s *TokenStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM auth_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *TokenStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO auth_state (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (s *TokenStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM auth_state WHERE key = ?`, key)
	return err
}
