// Package domain defines the persistence model for rides and the classified
// error type shared by the repository, service and HTTP layers.
package domain

// Ride is a single recorded trip: two geographic endpoints plus the rider,
// driver and vehicle involved. Rows are created once and never updated.
//
// Column names are camelCase to match the public JSON shape, so every field
// carries an explicit column tag.
//
// Fields:
//   - RideID: store-assigned autoincrement primary key.
//   - StartLat/EndLat: latitudes in [-90, 90].
//   - StartLong/EndLong: longitudes in [-180, 180].
//   - RiderName/DriverName/DriverVehicle: non-empty text.
type Ride struct {
	RideID        int64   `json:"rideID"        gorm:"column:rideID;primaryKey;autoIncrement"`
	StartLat      float64 `json:"startLat"      gorm:"column:startLat;type:DECIMAL;not null"`
	StartLong     float64 `json:"startLong"     gorm:"column:startLong;type:DECIMAL;not null"`
	EndLat        float64 `json:"endLat"        gorm:"column:endLat;type:DECIMAL;not null"`
	EndLong       float64 `json:"endLong"       gorm:"column:endLong;type:DECIMAL;not null"`
	RiderName     string  `json:"riderName"     gorm:"column:riderName;type:TEXT;not null"`
	DriverName    string  `json:"driverName"    gorm:"column:driverName;type:TEXT;not null"`
	DriverVehicle string  `json:"driverVehicle" gorm:"column:driverVehicle;type:TEXT;not null"`
}

// TableName returns the database table name for Ride.
func (Ride) TableName() string { return "Rides" }
