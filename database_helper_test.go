package main

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB swaps the package-level db for an in-memory sqlite database
// with the full schema and seed users.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	prev := db
	db = testDB
	t.Cleanup(func() {
		testDB.Close()
		db = prev
	})
	initDB()
	return testDB
}

func TestTokenStoreSetGetDelete(t *testing.T) {
	store := NewTokenStore(setupTestDB(t))

	value, err := store.Get(authTokenKey)
	if err != nil {
		t.Fatalf("get on empty store failed: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty value, got %q", value)
	}

	if err := store.Set(authTokenKey, "abc"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(authTokenKey, "def"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, err = store.Get(authTokenKey)
	if err != nil || value != "def" {
		t.Fatalf("expected 'def', got %q (err %v)", value, err)
	}

	if err := store.Delete(authTokenKey); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(authTokenKey); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	value, _ = store.Get(authTokenKey)
	if value != "" {
		t.Fatalf("expected empty value after delete, got %q", value)
	}
}

func TestConfigDefaultsSeeded(t *testing.T) {
	testDB := setupTestDB(t)

	mode, err := GetConfig(testDB, "token_signing")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if mode != "none" {
		t.Fatalf("expected default token_signing 'none', got %q", mode)
	}

	if err := SetConfig(testDB, "token_signing", "hmac"); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	mode, _ = GetConfig(testDB, "token_signing")
	if mode != "hmac" {
		t.Fatalf("expected 'hmac' after SetConfig, got %q", mode)
	}
}

func TestSeedUsersCreatesBothRoles(t *testing.T) {
	testDB := setupTestDB(t)

	var role string
	if err := testDB.QueryRow("SELECT role FROM users WHERE username = 'admin'").Scan(&role); err != nil {
		t.Fatalf("admin user missing: %v", err)
	}
	if role != RoleAdmin {
		t.Fatalf("expected admin role, got %q", role)
	}
	if err := testDB.QueryRow("SELECT role FROM users WHERE username = 'user'").Scan(&role); err != nil {
		t.Fatalf("regular user missing: %v", err)
	}
	if role != RoleUser {
		t.Fatalf("expected user role, got %q", role)
	}
}
