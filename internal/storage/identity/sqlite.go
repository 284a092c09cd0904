// Package identity persists the synthetic browser fingerprint assigned to
// each account, so the same account presents the same User-Agent on every
// run. Entries are append-only: an existing profile is never rewritten.
package identity

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/voloshyn/leks-tap-bot/pkg/utils"
)

// FallbackUserAgent is handed out when the candidate pool is empty or the
// store is unavailable.
const FallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36 Edg/136.0.0.0"

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	createStmt := `CREATE TABLE IF NOT EXISTS identity_profiles (
        display_name TEXT NOT NULL PRIMARY KEY,
        user_agent TEXT NOT NULL
    )`
	_, err := s.db.Exec(createStmt)
	return err
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Resolve returns the profile bound to the display name, assigning one from
// the candidate pool on first sight. The insert is a no-op when a profile
// already exists, so a stored binding survives any later pool change.
func (s *Store) Resolve(displayName string, pool []string) (string, error) {
	name := normalizeName(displayName)
	if name == "" {
		return FallbackUserAgent, nil
	}

	var ua string
	err := s.db.QueryRow(`SELECT user_agent FROM identity_profiles WHERE display_name = ?`, name).Scan(&ua)
	if err == nil {
		return ua, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	ua = pickUserAgent(pool)
	if _, err := s.db.Exec(`INSERT INTO identity_profiles(display_name, user_agent)
    VALUES(?, ?)
    ON CONFLICT(display_name) DO NOTHING`, name, ua); err != nil {
		return "", err
	}

	// Re-read in case a concurrent writer won the insert.
	if err := s.db.QueryRow(`SELECT user_agent FROM identity_profiles WHERE display_name = ?`, name).Scan(&ua); err != nil {
		return "", err
	}
	return ua, nil
}

func pickUserAgent(pool []string) string {
	candidates := make([]string, 0, len(pool))
	for _, ua := range pool {
		if ua = strings.TrimSpace(ua); ua != "" {
			candidates = append(candidates, ua)
		}
	}
	if len(candidates) == 0 {
		return FallbackUserAgent
	}
	return candidates[utils.RandomInt(0, len(candidates)-1)]
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
