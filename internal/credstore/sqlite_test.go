package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamgensourei/boundary/internal/models"

	_ "modernc.org/sqlite"
)

var dbSeq int

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbSeq++
	db, err := sql.Open("sqlite", fmt.Sprintf("file:credstore%d?mode=memory&cache=shared", dbSeq))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (key TEXT PRIMARY KEY, value BLOB NOT NULL);
CREATE TABLE oauth_flow  (key TEXT PRIMARY KEY, value BLOB NOT NULL);
`)
	require.NoError(t, err)
	return NewSQLiteStore(db)
}

func insertKV(t *testing.T, s *SQLiteStore, table, k string, v []byte) {
	t.Helper()
	_, err := s.db.Exec(fmt.Sprintf(`INSERT INTO %s(key,value) VALUES(?,?)`, table), k, v)
	require.NoError(t, err)
}

func sampleSession() *models.Session {
	return &models.Session{
		Token: "tok1",
		User: &models.UserProfile{
			ID:          "u1",
			DisplayName: "Alice",
			Email:       "a@x.com",
			Level:       2,
			Verified:    true,
			CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestSession_SaveLoadRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	want := sampleSession()
	require.NoError(t, s.SaveSession(ctx, want))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Token, got.Token)
	assert.Equal(t, want.User, got.User)
}

func TestSession_ClearThenLoadReturnsNone(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, sampleSession()))
	require.NoError(t, s.ClearSession(ctx))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSession_SaveRejectsIncomplete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.Error(t, s.SaveSession(ctx, nil))
	require.Error(t, s.SaveSession(ctx, &models.Session{Token: "t"}))
	require.Error(t, s.SaveSession(ctx, &models.Session{User: sampleSession().User}))
}

func TestSession_PartialRowSelfHeals(t *testing.T) {
	tests := []struct {
		name string
		seed func(t *testing.T, s *SQLiteStore)
	}{
		{
			name: "profile without token",
			seed: func(t *testing.T, s *SQLiteStore) {
				insertKV(t, s, tableCredentials, keyUser, []byte(`{"id":"u1"}`))
			},
		},
		{
			name: "token without profile",
			seed: func(t *testing.T, s *SQLiteStore) {
				insertKV(t, s, tableCredentials, keyToken, []byte("tok1"))
			},
		},
		{
			name: "unparseable profile",
			seed: func(t *testing.T, s *SQLiteStore) {
				insertKV(t, s, tableCredentials, keyToken, []byte("tok1"))
				insertKV(t, s, tableCredentials, keyUser, []byte("{broken"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupStore(t)
			ctx := context.Background()
			tt.seed(t, s)

			got, err := s.LoadSession(ctx)
			require.NoError(t, err)
			assert.Nil(t, got, "corrupt data must read as none")

			// The bad rows must be gone afterwards.
			var n int
			require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM credentials`).Scan(&n))
			assert.Zero(t, n, "corrupt rows must be cleared")
		})
	}
}

func TestSession_SaveOverwritesPrevious(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, sampleSession()))

	next := sampleSession()
	next.Token = "tok2"
	next.User.DisplayName = "Bob"
	require.NoError(t, s.SaveSession(ctx, next))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok2", got.Token)
	assert.Equal(t, "Bob", got.User.DisplayName)
}

func TestPKCE_SaveLoadClear(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	got, err := s.LoadPKCE(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	flow := &models.PKCESession{CodeVerifier: "verifier-1", State: "state-1"}
	require.NoError(t, s.SavePKCE(ctx, flow))

	got, err = s.LoadPKCE(ctx)
	require.NoError(t, err)
	assert.Equal(t, flow, got)

	require.NoError(t, s.ClearPKCE(ctx))
	got, err = s.LoadPKCE(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPKCE_PartialRowSelfHeals(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	insertKV(t, s, tableOAuthFlow, keyState, []byte("state-only"))

	got, err := s.LoadPKCE(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM oauth_flow`).Scan(&n))
	assert.Zero(t, n)
}

func TestPKCE_SaveRejectsIncomplete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.Error(t, s.SavePKCE(ctx, nil))
	require.Error(t, s.SavePKCE(ctx, &models.PKCESession{CodeVerifier: "v"}))
	require.Error(t, s.SavePKCE(ctx, &models.PKCESession{State: "s"}))
}

func TestPKCE_DoesNotTouchSession(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, sampleSession()))
	require.NoError(t, s.SavePKCE(ctx, &models.PKCESession{CodeVerifier: "v1", State: "s1"}))
	require.NoError(t, s.ClearPKCE(ctx))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got, "clearing the oauth flow must not clear the session")
}
