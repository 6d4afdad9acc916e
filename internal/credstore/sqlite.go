package credstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/teamgensourei/boundary/internal/credstore/migrations"
	"github.com/teamgensourei/boundary/internal/dbx"
	"github.com/teamgensourei/boundary/internal/models"
)

// Table names. credentials is the durable store, oauth_flow the
// session-scoped one.
const (
	tableCredentials = "credentials"
	tableOAuthFlow   = "oauth_flow"
)

// Keys within the tables.
const (
	keyToken    = "token"
	keyUser     = "user"
	keyVerifier = "code_verifier"
	keyState    = "state"
)

// SQLiteStore is the Store implementation over a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the credential database at dsn and
// applies pending migrations.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening credential db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating credential db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-migrated database handle. Used by tests.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, session *models.Session) error {
	if session == nil || session.Token == "" || session.User == nil {
		return fmt.Errorf("refusing to save incomplete session")
	}
	profile, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encoding user profile: %w", err)
	}

	// Token and profile go in one transaction: load must never observe
	// one without the other.
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := kvSet(ctx, tx, tableCredentials, keyToken, []byte(session.Token)); err != nil {
			return err
		}
		return kvSet(ctx, tx, tableCredentials, keyUser, profile)
	})
}

func (s *SQLiteStore) LoadSession(ctx context.Context) (*models.Session, error) {
	token, err := kvGet(ctx, s.db, tableCredentials, keyToken)
	if err != nil {
		return nil, err
	}
	profile, err := kvGet(ctx, s.db, tableCredentials, keyUser)
	if err != nil {
		return nil, err
	}

	if token == nil && profile == nil {
		return nil, nil
	}

	// Half a session means a crashed or tampered write. Self-heal.
	if len(token) == 0 || len(profile) == 0 {
		if err := s.ClearSession(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var user models.UserProfile
	if err := json.Unmarshal(profile, &user); err != nil {
		if clearErr := s.ClearSession(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}

	return &models.Session{Token: string(token), User: &user}, nil
}

func (s *SQLiteStore) ClearSession(ctx context.Context) error {
	return kvClear(ctx, s.db, tableCredentials)
}

func (s *SQLiteStore) SavePKCE(ctx context.Context, flow *models.PKCESession) error {
	if flow == nil || flow.CodeVerifier == "" || flow.State == "" {
		return fmt.Errorf("refusing to save incomplete pkce session")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := kvSet(ctx, tx, tableOAuthFlow, keyVerifier, []byte(flow.CodeVerifier)); err != nil {
			return err
		}
		return kvSet(ctx, tx, tableOAuthFlow, keyState, []byte(flow.State))
	})
}

func (s *SQLiteStore) LoadPKCE(ctx context.Context) (*models.PKCESession, error) {
	verifier, err := kvGet(ctx, s.db, tableOAuthFlow, keyVerifier)
	if err != nil {
		return nil, err
	}
	state, err := kvGet(ctx, s.db, tableOAuthFlow, keyState)
	if err != nil {
		return nil, err
	}

	if len(verifier) == 0 || len(state) == 0 {
		if verifier != nil || state != nil {
			if err := s.ClearPKCE(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	return &models.PKCESession{CodeVerifier: string(verifier), State: string(state)}, nil
}

func (s *SQLiteStore) ClearPKCE(ctx context.Context) error {
	return kvClear(ctx, s.db, tableOAuthFlow)
}

// kv helpers over the two fixed tables. Table names are compile-time
// constants, never user input.

func kvGet(ctx context.Context, q dbx.DBTX, table, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, table), key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", table, key, err)
	}
	return value, nil
}

func kvSet(ctx context.Context, q dbx.DBTX, table, key string, value []byte) error {
	_, err := q.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, table), key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s[%s]: %w", table, key, err)
	}
	return nil
}

func kvClear(ctx context.Context, q dbx.DBTX, table string) error {
	if _, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	return nil
}
