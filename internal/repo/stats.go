// Package repo implements the data persistence layer for rides. This file
// provides a small aggregate query used for conditional list responses
// (ETag generation) in the HTTP layer.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-rides-backend/internal/domain"
)

// RideStats summarizes the Rides table. Rides are append-only, so the pair
// (Count, MaxRideID) changes whenever the table does.
type RideStats struct {
	Count     int64
	MaxRideID int64
}

// RidesStats returns the total number of rides and the greatest rideID.
// When the table is empty both values are 0.
func RidesStats(ctx context.Context, db *gorm.DB) (RideStats, error) {
	var st RideStats
	q := db.WithContext(ctx).Model(&domain.Ride{})

	if err := q.Count(&st.Count).Error; err != nil {
		return RideStats{}, err
	}
	if st.Count == 0 {
		return st, nil
	}

	var row struct {
		RideID int64 `gorm:"column:rideID"`
	}
	if err := db.WithContext(ctx).Model(&domain.Ride{}).
		Select("rideID").
		Order("rideID DESC").
		Limit(1).
		Scan(&row).Error; err != nil {
		return RideStats{}, err
	}
	st.MaxRideID = row.RideID
	return st, nil
}
