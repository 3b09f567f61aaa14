// Package services – RideService
//
// This file implements the RideService, which composes validation and the
// data access store into the three ride operations: create, list (optionally
// paginated) and get by id. Every failure leaving this package is a
// *domain.Error so handlers can pick a status from the kind alone.
package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-rides-backend/internal/domain"
	"github.com/tbourn/go-rides-backend/internal/observability"
	"github.com/tbourn/go-rides-backend/internal/repo"
)

// SQL issued against the Rides table.
const (
	insertRideSQL  = "INSERT INTO Rides(startLat, startLong, endLat, endLong, riderName, driverName, driverVehicle) VALUES (?, ?, ?, ?, ?, ?, ?)"
	selectRideSQL  = "SELECT * FROM Rides WHERE rideID = ?"
	selectRidesSQL = "SELECT * FROM Rides"
	pageRidesSQL   = "SELECT * FROM Rides LIMIT ? OFFSET ?"
)

// RideStore is the data access contract required by RideService.
// Implementations classify their own failures (see repo.Store).
type RideStore interface {
	// QueryAll returns at least one row, or a not-found/server error.
	QueryAll(ctx context.Context, query string, args ...any) ([]domain.Ride, error)
	// Execute runs a write and returns the id assigned to the new row.
	Execute(ctx context.Context, query string, args ...any) (int64, error)
	// Stats summarizes the table for conditional responses.
	Stats(ctx context.Context) (repo.RideStats, error)
}

// RideCache is an optional read-through cache for single rides. Get returns
// (nil, nil) on a miss.
type RideCache interface {
	Get(ctx context.Context, id int64) (*domain.Ride, error)
	Set(ctx context.Context, ride domain.Ride) error
}

// RideService provides ride-level operations on top of a RideStore.
type RideService struct {
	// Store is the only path to persistence.
	Store RideStore
	// Cache is consulted by Get when non-nil.
	Cache RideCache
}

// NewRideService constructs a RideService. cache may be nil.
func NewRideService(store RideStore, cache RideCache) *RideService {
	return &RideService{Store: store, Cache: cache}
}

// Create validates in, inserts the ride and reads it back by its new id.
// The result holds exactly one ride.
func (s *RideService) Create(ctx context.Context, in RideInput) (_ []domain.Ride, err error) {
	ctx, span := observability.StartSpan(ctx, "create")
	defer func() { observability.EndSpan(span, err) }()

	v, err := ValidateRide(in)
	if err != nil {
		return nil, err
	}

	id, err := s.Store.Execute(ctx, insertRideSQL, v.InsertArgs()...)
	if err != nil {
		return nil, domain.AsError(err)
	}

	rows, err := s.Store.QueryAll(ctx, selectRideSQL, id)
	if err != nil {
		return nil, domain.AsError(err)
	}

	s.remember(ctx, rows[0])
	return rows, nil
}

// List returns all rides, or one page of them when both pageNumber and
// rowsPerPage are positive. Pages are 1-based.
func (s *RideService) List(ctx context.Context, pageNumber, rowsPerPage int) (_ []domain.Ride, err error) {
	ctx, span := observability.StartSpan(ctx, "list",
		attribute.Int("rides.page_number", pageNumber),
		attribute.Int("rides.rows_per_page", rowsPerPage),
	)
	defer func() { observability.EndSpan(span, err) }()

	var rows []domain.Ride
	if pageNumber > 0 && rowsPerPage > 0 {
		// An offset that does not fit in an int lies past any table.
		if pageNumber-1 > math.MaxInt/rowsPerPage {
			return nil, domain.NotFoundError()
		}
		offset := (pageNumber - 1) * rowsPerPage
		rows, err = s.Store.QueryAll(ctx, pageRidesSQL, rowsPerPage, offset)
	} else {
		rows, err = s.Store.QueryAll(ctx, selectRidesSQL)
	}
	if err != nil {
		return nil, domain.AsError(err)
	}
	return rows, nil
}

// Get returns the ride identified by id as a one-element slice. id is passed
// to the store as given; a value matching no row yields a not-found error.
func (s *RideService) Get(ctx context.Context, id string) (_ []domain.Ride, err error) {
	ctx, span := observability.StartSpan(ctx, "get", attribute.String("rides.id", id))
	defer func() { observability.EndSpan(span, err) }()

	key, cacheable := cacheKey(id)
	if cacheable && s.Cache != nil {
		hit, err := s.Cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Int64("ride_id", key).Msg("ride cache get failed")
		} else if hit != nil {
			return []domain.Ride{*hit}, nil
		}
	}

	rows, err := s.Store.QueryAll(ctx, selectRideSQL, id)
	if err != nil {
		return nil, domain.AsError(err)
	}

	s.remember(ctx, rows[0])
	return rows, nil
}

// Stats exposes the table summary used for list ETags.
func (s *RideService) Stats(ctx context.Context) (repo.RideStats, error) {
	st, err := s.Store.Stats(ctx)
	if err != nil {
		return repo.RideStats{}, domain.AsError(err)
	}
	return st, nil
}

// remember writes ride to the cache, best effort. Rides are immutable so a
// cached copy never goes stale.
func (s *RideService) remember(ctx context.Context, ride domain.Ride) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, ride); err != nil {
		log.Warn().Err(err).Int64("ride_id", ride.RideID).Msg("ride cache set failed")
	}
}

// cacheKey reports the canonical rideID for id when it is a plain integer.
func cacheKey(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
