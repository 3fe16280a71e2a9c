// Package sqlite provides a SQLite-backed credential store so the service
// runs end-to-end without an external store. Records hold the same fields
// the platform's encrypted store exposes through the adapter contract.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/brygal1/flowise/pkg/credentials"
	flowerr "github.com/brygal1/flowise/pkg/errors"
)

// Store implements credentials.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

var _ credentials.Store = (*Store)(nil)

// NewStore opens (or creates) the database at path and applies pending
// migrations. Use ":memory:" for an ephemeral database in tests.
func NewStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY churn under concurrent callbacks.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is still usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const credentialColumns = `id, type, client_id, client_secret, redirect_uri,
	access_token, refresh_token, token_expiry, auth_status, created_at, updated_at`

// Load retrieves the credential record with the given id.
func (s *Store) Load(ctx context.Context, id string) (*credentials.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE id = ?`, id)

	var rec credentials.Record
	var expiry sql.NullTime
	var status string
	err := row.Scan(
		&rec.ID, &rec.Type, &rec.ClientID, &rec.ClientSecret, &rec.RedirectURI,
		&rec.AccessToken, &rec.RefreshToken, &expiry, &status,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, flowerr.NewNotFoundError("credential "+id+" not found", nil)
	}
	if err != nil {
		return nil, flowerr.NewInternalError("failed to load credential", err)
	}

	if expiry.Valid {
		rec.TokenExpiry = expiry.Time
	}
	rec.AuthStatus = credentials.AuthStatus(status)

	return &rec, nil
}

// Create inserts a new credential record and returns its assigned id.
func (s *Store) Create(ctx context.Context, rec *credentials.Record) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	status := rec.AuthStatus
	if status == "" {
		status = credentials.StatusNotAuthenticated
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (
			id, type, client_id, client_secret, redirect_uri,
			access_token, refresh_token, token_expiry, auth_status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Type, rec.ClientID, rec.ClientSecret, rec.RedirectURI,
		rec.AccessToken, rec.RefreshToken, nullableTime(rec.TokenExpiry),
		string(status), now, now,
	)
	if err != nil {
		return "", flowerr.NewInternalError("failed to create credential", err)
	}

	return id, nil
}

// UpdateTokens writes new tokens and marks the record authenticated.
func (s *Store) UpdateTokens(ctx context.Context, id string, update credentials.TokenUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE credentials
		SET access_token = ?, refresh_token = ?, token_expiry = ?,
		    auth_status = ?, updated_at = ?
		WHERE id = ?`,
		update.AccessToken, update.RefreshToken, nullableTime(update.TokenExpiry),
		string(credentials.StatusAuthenticated), time.Now().UTC(), id,
	)
	if err != nil {
		return flowerr.NewInternalError("failed to update credential tokens", err)
	}

	return checkRowUpdated(res, id)
}

// UpdateStatus changes only the auth status of the record.
func (s *Store) UpdateStatus(ctx context.Context, id string, status credentials.AuthStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE credentials SET auth_status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return flowerr.NewInternalError("failed to update credential status", err)
	}

	return checkRowUpdated(res, id)
}

func checkRowUpdated(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return flowerr.NewInternalError("failed to check update result", err)
	}
	if affected == 0 {
		return flowerr.NewNotFoundError("credential "+id+" not found", nil)
	}
	return nil
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
