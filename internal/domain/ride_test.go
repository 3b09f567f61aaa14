package domain

import (
	"encoding/json"
	"testing"
)

func TestRide_TableName(t *testing.T) {
	if got := (Ride{}).TableName(); got != "Rides" {
		t.Fatalf("TableName = %q", got)
	}
}

func TestRide_Migration_AutoincrementAndColumns(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&Ride{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	m := db.Migrator()
	for _, col := range []string{"rideID", "startLat", "startLong", "endLat", "endLong", "riderName", "driverName", "driverVehicle"} {
		if !m.HasColumn(&Ride{}, col) {
			t.Fatalf("expected column %q", col)
		}
	}

	a := &Ride{StartLat: 1, StartLong: 2, EndLat: 3, EndLong: 4, RiderName: "r", DriverName: "d", DriverVehicle: "v"}
	b := &Ride{StartLat: 1, StartLong: 2, EndLat: 3, EndLong: 4, RiderName: "r", DriverName: "d", DriverVehicle: "v"}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("insert b: %v", err)
	}
	if a.RideID == 0 || b.RideID <= a.RideID {
		t.Fatalf("expected increasing ids, got %d then %d", a.RideID, b.RideID)
	}
}

func TestRide_JSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(Ride{RideID: 1, StartLat: 10, RiderName: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"rideID", "startLat", "startLong", "endLat", "endLong", "riderName", "driverName", "driverVehicle"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing json key %q in %s", k, raw)
		}
	}
}
