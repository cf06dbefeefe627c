// Package signup wraps the mailing-list tables with the three queries the
// API needs. Every operation is an independent round trip; there is no
// transaction spanning a lookup and the insert that may follow it.
package signup

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrStoreFailure masks engine-specific errors from callers. The
	// underlying error is logged, never returned.
	ErrStoreFailure = errors.New("signup store failure")

	// ErrAlreadySignedUp reports an insert that hit the unique
	// (listId, email) constraint. Callers treat it as success.
	ErrAlreadySignedUp = errors.New("already signed up")
)

// mysqlDuplicateEntry is the server error number for a unique-key violation.
const mysqlDuplicateEntry = 1062

// Store provides database operations for mailing-list signups
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore creates a new signup store
func NewStore(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// FindList retrieves a mailing list by ID. Returns nil when the list does
// not exist.
func (s *Store) FindList(ctx context.Context, listID string) (*List, error) {
	query := `SELECT listId FROM mailingLists WHERE listId = ?`

	list := &List{}
	err := s.db.QueryRowContext(ctx, query, listID).Scan(&list.ID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Str("listId", listID).Msg("list lookup failed")
		return nil, ErrStoreFailure
	}
	return list, nil
}

// FindSignup retrieves an existing signup for (listID, email). Returns nil
// when no row exists.
func (s *Store) FindSignup(ctx context.Context, listID, email string) (*Signup, error) {
	query := `SELECT id, listId, email, createdAt FROM mailingListSignups WHERE listId = ? AND email = ?`

	su := &Signup{}
	err := s.db.QueryRowContext(ctx, query, listID, email).Scan(&su.ID, &su.ListID, &su.Email, &su.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Str("listId", listID).Msg("signup lookup failed")
		return nil, ErrStoreFailure
	}
	return su, nil
}

// InsertSignup records a new signup. A duplicate (listId, email) insert
// returns ErrAlreadySignedUp so concurrent identical requests collapse to
// one row instead of racing past the existence check.
func (s *Store) InsertSignup(ctx context.Context, listID, email string) error {
	query := `INSERT INTO mailingListSignups (id, listId, email, createdAt) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, uuid.New(), listID, email, time.Now())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrAlreadySignedUp
		}
		s.logger.Error().Err(err).Str("query", query).Str("listId", listID).Msg("signup insert failed")
		return ErrStoreFailure
	}
	return nil
}
