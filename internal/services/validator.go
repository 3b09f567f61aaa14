// Package services – ride validation
//
// This file implements the validation gate that every ride passes before a
// row is created. Checks run in a fixed order and the first failure wins;
// no attempt is made to accumulate several problems into one response.
package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tbourn/go-rides-backend/internal/domain"
)

// Validation messages returned to clients verbatim.
const (
	MsgStartCoords   = "Start latitude and longitude must be between -90 - 90 and -180 to 180 degrees respectively"
	MsgEndCoords     = "End latitude and longitude must be between -90 - 90 and -180 to 180 degrees respectively"
	MsgRiderName     = "Rider name must be a non empty string"
	MsgDriverName    = "Driver name must be a non empty string"
	MsgDriverVehicle = "Driver vehicle must be a non empty string"
)

// Request field names.
const (
	FieldStartLat      = "start_lat"
	FieldStartLong     = "start_long"
	FieldEndLat        = "end_lat"
	FieldEndLong       = "end_long"
	FieldRiderName     = "rider_name"
	FieldDriverName    = "driver_name"
	FieldDriverVehicle = "driver_vehicle"
)

// RideInput carries the seven raw request fields exactly as decoded from the
// body. Any field may be nil (absent) or of an unexpected type.
type RideInput struct {
	StartLat      any
	StartLong     any
	EndLat        any
	EndLong       any
	RiderName     any
	DriverName    any
	DriverVehicle any
}

// RideInputFromMap picks the ride fields out of a decoded request body.
func RideInputFromMap(m map[string]any) RideInput {
	return RideInput{
		StartLat:      m[FieldStartLat],
		StartLong:     m[FieldStartLong],
		EndLat:        m[FieldEndLat],
		EndLong:       m[FieldEndLong],
		RiderName:     m[FieldRiderName],
		DriverName:    m[FieldDriverName],
		DriverVehicle: m[FieldDriverVehicle],
	}
}

// ValidRide is the canonical tuple produced by a successful validation.
// The float fields are the coerced coordinates used for the range checks;
// InsertArgs persists the request's own coordinate values instead.
type ValidRide struct {
	StartLat      float64
	StartLong     float64
	EndLat        float64
	EndLong       float64
	RiderName     string
	DriverName    string
	DriverVehicle string

	raw [4]any
}

// InsertArgs returns the INSERT parameters in column order: startLat,
// startLong, endLat, endLong, riderName, driverName, driverVehicle.
func (v ValidRide) InsertArgs() []any {
	return []any{
		v.raw[0], v.raw[1], v.raw[2], v.raw[3],
		v.RiderName, v.DriverName, v.DriverVehicle,
	}
}

// ValidateRide checks in against the ride rules:
//
//  1. start coordinates in range
//  2. end coordinates in range
//  3. rider name is a non-empty string
//  4. driver name is a non-empty string
//  5. driver vehicle is a non-empty string
//
// Coordinates that cannot be read as a finite number are out of range.
// Failures are VALIDATION_ERROR values; the function has no side effects.
func ValidateRide(in RideInput) (ValidRide, error) {
	var v ValidRide
	var ok bool

	sLat, okLat := toNumber(in.StartLat)
	sLong, okLong := toNumber(in.StartLong)
	if !okLat || !okLong || !inRange(sLat, sLong) {
		return ValidRide{}, domain.ValidationError(MsgStartCoords)
	}

	eLat, okLat := toNumber(in.EndLat)
	eLong, okLong := toNumber(in.EndLong)
	if !okLat || !okLong || !inRange(eLat, eLong) {
		return ValidRide{}, domain.ValidationError(MsgEndCoords)
	}

	if v.RiderName, ok = nonEmptyString(in.RiderName); !ok {
		return ValidRide{}, domain.ValidationError(MsgRiderName)
	}
	if v.DriverName, ok = nonEmptyString(in.DriverName); !ok {
		return ValidRide{}, domain.ValidationError(MsgDriverName)
	}
	if v.DriverVehicle, ok = nonEmptyString(in.DriverVehicle); !ok {
		return ValidRide{}, domain.ValidationError(MsgDriverVehicle)
	}

	v.StartLat, v.StartLong, v.EndLat, v.EndLong = sLat, sLong, eLat, eLong
	v.raw = [4]any{
		storable(in.StartLat), storable(in.StartLong),
		storable(in.EndLat), storable(in.EndLong),
	}
	return v, nil
}

func inRange(lat, long float64) bool {
	return lat >= -90 && lat <= 90 && long >= -180 && long <= 180
}

// toNumber coerces a decoded JSON or form value to a float64. It reports
// false for values with no numeric reading (nil, booleans, objects, blank or
// malformed strings) and for NaN or infinities.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		return parseNumber(string(n))
	case string:
		return parseNumber(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// storable returns the value written to a coordinate column. Numeric
// strings are kept as text (trimmed) and left to the column's DECIMAL
// affinity; json.Number is unwrapped to its literal.
func storable(v any) any {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case string:
		return strings.TrimSpace(n)
	default:
		return v
	}
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || len(s) < 1 {
		return "", false
	}
	return s, true
}
