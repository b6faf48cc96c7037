package main

import (
	"database/sql"
	"errors"
	"fmt"
)

// authTokenKey is the single auth_state entry the session manager owns.
const authTokenKey = "authToken"

// ErrInvalidCredentials is deliberately generic: it never reveals whether the
// username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionManager owns the active session: it validates credentials against the
// users table, issues tokens, and persists the current token in the auth-state
// store. At most one session is active at a time.
type SessionManager struct {
	db    *sql.DB
	codec TokenCodec
	store *TokenStore
}

func NewSessionManager(db *sql.DB, codec TokenCodec, store *TokenStore) *SessionManager {
	return &SessionManager{db: db, codec: codec, store: store}
}

// Login checks the credentials with an exact, case-sensitive match. On success
// it persists the freshly issued token and returns the session alongside it.
func (m *SessionManager) Login(username, password string) (Session, string, error) {
	var user User
	var passwordHash string
	row := m.db.QueryRow("SELECT id, username, password_hash, role FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &passwordHash, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return Session{}, "", ErrInvalidCredentials
		}
		return Session{}, "", fmt.Errorf("login lookup for %q: %w", username, err)
	}

	if user.Username != username || !checkPasswordHash(password, passwordHash) {
		return Session{}, "", ErrInvalidCredentials
	}

	session := Session{ID: user.ID, Username: user.Username, Role: user.Role}
	token, err := m.codec.Encode(session)
	if err != nil {
		return Session{}, "", fmt.Errorf("encode token: %w", err)
	}
	if err := m.store.Set(authTokenKey, token); err != nil {
		return Session{}, "", fmt.Errorf("persist token: %w", err)
	}
	return session, token, nil
}

// Restore rebuilds the session from the persisted token. A missing token means
// no session; a malformed or expired one is deleted and also means no session.
func (m *SessionManager) Restore() (Session, bool) {
	token, err := m.store.Get(authTokenKey)
	if err != nil || token == "" {
		return Session{}, false
	}
	session, err := m.codec.Decode(token)
	if err != nil {
		m.store.Delete(authTokenKey)
		return Session{}, false
	}
	return session, true
}

// Logout deletes the persisted token. Calling it with no active session is a
// no-op.
func (m *SessionManager) Logout() {
	m.store.Delete(authTokenKey)
}

// Verify decodes a presented token without touching the store. The auth
// middleware uses it on every request.
func (m *SessionManager) Verify(token string) (Session, error) {
	return m.codec.Decode(token)
}

// PruneExpired drops the persisted token if it no longer decodes. Reports
// whether anything was removed.
func (m *SessionManager) PruneExpired() bool {
	token, err := m.store.Get(authTokenKey)
	if err != nil || token == "" {
		return false
	}
	if _, err := m.codec.Decode(token); err != nil {
		m.store.Delete(authTokenKey)
		return true
	}
	return false
}
