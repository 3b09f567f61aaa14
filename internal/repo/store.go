// Package repo implements the data persistence layer for rides, backed by
// GORM. This file provides Store, the only component allowed to issue ride
// statements. It turns raw store outcomes into rows or classified errors:
//
//   - driver failure      -> SERVER_ERROR "Unknown error" (cause logged only)
//   - read with zero rows -> RIDES_NOT_FOUND_ERROR "Could not find any rides"
//   - read with rows      -> the rows
//
// Each method issues exactly one statement and bounds it with Timeout.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-rides-backend/internal/domain"
)

// DefaultTimeout bounds a single store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Store executes SQL against the shared database handle.
type Store struct {
	// DB is the GORM handle; it may be transaction-bound.
	DB *gorm.DB
	// Timeout bounds each call. Zero or negative disables the bound.
	Timeout time.Duration
}

// NewStore constructs a Store over db.
func NewStore(db *gorm.DB, timeout time.Duration) *Store {
	return &Store{DB: db, Timeout: timeout}
}

// QueryAll runs a read and scans every row into a Ride. A successful read
// with no rows is reported as a not-found error, so callers always receive a
// non-empty slice on success.
func (s *Store) QueryAll(ctx context.Context, query string, args ...any) ([]domain.Ride, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var rows []domain.Ride
	if err := s.DB.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		logFailure("query", query, err)
		return nil, domain.ServerError(err)
	}
	if len(rows) == 0 {
		return nil, domain.NotFoundError()
	}
	return rows, nil
}

// Execute runs an INSERT and returns the rowid assigned to the new row. The
// statement goes through GORM's callback chain (RETURNING rowid) so plugins
// such as the tracing plugin observe writes as well as reads.
func (s *Store) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var id int64
	res := s.DB.WithContext(ctx).Raw(query+" RETURNING rowid", args...).Scan(&id)
	if res.Error != nil {
		logFailure("execute", query, res.Error)
		return 0, domain.ServerError(res.Error)
	}
	if id <= 0 {
		err := errors.New("insert returned no rowid")
		logFailure("execute", query, err)
		return 0, domain.ServerError(err)
	}
	return id, nil
}

// Stats returns the row count and highest rideID, used for list ETags.
func (s *Store) Stats(ctx context.Context) (RideStats, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	st, err := RidesStats(ctx, s.DB)
	if err != nil {
		logFailure("stats", "", err)
		return RideStats{}, domain.ServerError(err)
	}
	return st, nil
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.Timeout)
}

// logFailure records the suppressed driver error; clients only ever see
// "Unknown error".
func logFailure(op, query string, err error) {
	log.Error().
		Err(err).
		Str("op", op).
		Str("sql", query).
		Msg("store failure")
}
