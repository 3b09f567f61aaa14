package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/tbourn/go-rides-backend/internal/domain"
	"github.com/tbourn/go-rides-backend/internal/repo"
)

// ----- Fake store -----

type storeCall struct {
	query string
	args  []any
}

type fakeStore struct {
	calls []storeCall

	execID  int64
	execErr error

	rows     []domain.Ride
	queryErr error

	stats    repo.RideStats
	statsErr error
}

func (f *fakeStore) QueryAll(ctx context.Context, query string, args ...any) ([]domain.Ride, error) {
	f.calls = append(f.calls, storeCall{query, args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeStore) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	f.calls = append(f.calls, storeCall{query, args})
	return f.execID, f.execErr
}

func (f *fakeStore) Stats(ctx context.Context) (repo.RideStats, error) {
	return f.stats, f.statsErr
}

// ----- Fake cache -----

type fakeCache struct {
	items  map[int64]domain.Ride
	getErr error
	setErr error
	gets   int
	sets   int
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[int64]domain.Ride{}} }

func (c *fakeCache) Get(ctx context.Context, id int64) (*domain.Ride, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	if r, ok := c.items[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (c *fakeCache) Set(ctx context.Context, r domain.Ride) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.items[r.RideID] = r
	return nil
}

var sampleRide = domain.Ride{
	RideID: 7, StartLat: 10, StartLong: 50, EndLat: 20, EndLong: 70,
	RiderName: "Test Rider", DriverName: "Test Driver", DriverVehicle: "Test Vehicle",
}

// ----- Create -----

func TestCreate_ValidationFailure_NoStoreCalls(t *testing.T) {
	st := &fakeStore{}
	svc := NewRideService(st, nil)

	in := validInput()
	in.EndLong = float64(-500)
	_, err := svc.Create(context.Background(), in)
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if len(st.calls) != 0 {
		t.Fatalf("store must not be called on invalid input, got %d calls", len(st.calls))
	}
}

func TestCreate_InsertsThenReadsBackByID(t *testing.T) {
	st := &fakeStore{execID: 7, rows: []domain.Ride{sampleRide}}
	svc := NewRideService(st, nil)

	rows, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(rows) != 1 || rows[0].StartLat != 10 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if len(st.calls) != 2 {
		t.Fatalf("expected insert+select, got %d calls", len(st.calls))
	}
	if st.calls[0].query != insertRideSQL || len(st.calls[0].args) != 7 {
		t.Fatalf("first call = %+v", st.calls[0])
	}
	if st.calls[1].query != selectRideSQL || st.calls[1].args[0] != int64(7) {
		t.Fatalf("second call = %+v", st.calls[1])
	}
}

func TestCreate_InsertFailure_Propagates(t *testing.T) {
	st := &fakeStore{execErr: domain.ServerError(errors.New("Database INSERT failed"))}
	svc := NewRideService(st, nil)

	_, err := svc.Create(context.Background(), validInput())
	var ce *domain.Error
	if !errors.As(err, &ce) || ce.Kind != domain.KindServer || ce.Message != domain.MsgUnknown {
		t.Fatalf("expected SERVER_ERROR, got %v", err)
	}
	if len(st.calls) != 1 {
		t.Fatalf("select must not run after failed insert")
	}
}

func TestCreate_SelectFailure_Propagates(t *testing.T) {
	st := &fakeStore{execID: 1, queryErr: domain.ServerError(errors.New("Database SELECT failed"))}
	svc := NewRideService(st, nil)

	_, err := svc.Create(context.Background(), validInput())
	if domain.KindOf(err) != domain.KindServer {
		t.Fatalf("expected SERVER_ERROR, got %v", err)
	}
}

func TestCreate_UnclassifiedStoreError_BecomesServerError(t *testing.T) {
	st := &fakeStore{execErr: context.DeadlineExceeded}
	svc := NewRideService(st, nil)

	_, err := svc.Create(context.Background(), validInput())
	var ce *domain.Error
	if !errors.As(err, &ce) || ce.Kind != domain.KindServer || ce.Message != domain.MsgUnknown {
		t.Fatalf("expected SERVER_ERROR, got %v", err)
	}
}

func TestCreate_PrimesCache(t *testing.T) {
	st := &fakeStore{execID: 7, rows: []domain.Ride{sampleRide}}
	c := newFakeCache()
	svc := NewRideService(st, c)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := c.items[7]; !ok {
		t.Fatalf("created ride should be cached")
	}
}

// ----- List -----

func TestList_Pagination(t *testing.T) {
	cases := []struct {
		page, per int
		query     string
		args      []any
	}{
		{1, 20, pageRidesSQL, []any{20, 0}},
		{3, 10, pageRidesSQL, []any{10, 20}},
		{0, 20, selectRidesSQL, nil},
		{1, 0, selectRidesSQL, nil},
		{-1, 5, selectRidesSQL, nil},
		{0, 0, selectRidesSQL, nil},
	}
	for _, tc := range cases {
		st := &fakeStore{rows: []domain.Ride{sampleRide}}
		svc := NewRideService(st, nil)

		if _, err := svc.List(context.Background(), tc.page, tc.per); err != nil {
			t.Fatalf("List(%d,%d): %v", tc.page, tc.per, err)
		}
		if len(st.calls) != 1 {
			t.Fatalf("expected exactly one store call, got %d", len(st.calls))
		}
		got := st.calls[0]
		if got.query != tc.query || len(got.args) != len(tc.args) {
			t.Fatalf("List(%d,%d) issued %q %v", tc.page, tc.per, got.query, got.args)
		}
		for i := range tc.args {
			if got.args[i] != tc.args[i] {
				t.Fatalf("List(%d,%d) arg %d = %v, want %v", tc.page, tc.per, i, got.args[i], tc.args[i])
			}
		}
	}
}

func TestList_NotFound_Propagates(t *testing.T) {
	st := &fakeStore{queryErr: domain.NotFoundError()}
	svc := NewRideService(st, nil)

	_, err := svc.List(context.Background(), 0, 0)
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList_HugePageNumber_NotFoundWithoutQuery(t *testing.T) {
	cases := []struct{ page, per int }{
		{math.MaxInt, 2},
		{math.MaxInt/2 + 2, 2},
		{3, math.MaxInt},
	}
	for _, tc := range cases {
		st := &fakeStore{rows: []domain.Ride{sampleRide}}
		svc := NewRideService(st, nil)

		rows, err := svc.List(context.Background(), tc.page, tc.per)
		if rows != nil || domain.KindOf(err) != domain.KindNotFound {
			t.Fatalf("List(%d,%d) = %v, %v; want not found", tc.page, tc.per, rows, err)
		}
		if len(st.calls) != 0 {
			t.Fatalf("List(%d,%d) must not reach the store, calls=%+v", tc.page, tc.per, st.calls)
		}
	}
}

// ----- Get -----

func TestGet_PassesIDThrough(t *testing.T) {
	st := &fakeStore{rows: []domain.Ride{sampleRide}}
	svc := NewRideService(st, nil)

	rows, err := svc.Get(context.Background(), "7")
	if err != nil || len(rows) != 1 {
		t.Fatalf("Get: rows=%v err=%v", rows, err)
	}
	if st.calls[0].query != selectRideSQL || st.calls[0].args[0] != "7" {
		t.Fatalf("unexpected call %+v", st.calls[0])
	}
}

func TestGet_NotFound(t *testing.T) {
	st := &fakeStore{queryErr: domain.NotFoundError()}
	svc := NewRideService(st, newFakeCache())

	_, err := svc.Get(context.Background(), "999")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGet_CacheHitSkipsStore(t *testing.T) {
	st := &fakeStore{rows: []domain.Ride{sampleRide}}
	c := newFakeCache()
	svc := NewRideService(st, c)
	ctx := context.Background()

	first, err := svc.Get(ctx, "7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := svc.Get(ctx, "7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(st.calls) != 1 {
		t.Fatalf("second Get should be served from cache, store calls=%d", len(st.calls))
	}
	if first[0] != second[0] {
		t.Fatalf("repeated Get returned different content: %+v vs %+v", first[0], second[0])
	}
}

func TestGet_CacheErrorsIgnored(t *testing.T) {
	st := &fakeStore{rows: []domain.Ride{sampleRide}}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	svc := NewRideService(st, c)

	rows, err := svc.Get(context.Background(), "7")
	if err != nil || len(rows) != 1 {
		t.Fatalf("cache failure must not fail Get: rows=%v err=%v", rows, err)
	}
}

func TestGet_NonIntegerIDBypassesCache(t *testing.T) {
	st := &fakeStore{queryErr: domain.NotFoundError()}
	c := newFakeCache()
	svc := NewRideService(st, c)

	_, _ = svc.Get(context.Background(), "abc")
	if c.gets != 0 {
		t.Fatalf("cache should not be consulted for non-integer ids")
	}
}

// ----- Stats -----

func TestStats(t *testing.T) {
	st := &fakeStore{stats: repo.RideStats{Count: 2, MaxRideID: 5}}
	svc := NewRideService(st, nil)
	got, err := svc.Stats(context.Background())
	if err != nil || got.Count != 2 || got.MaxRideID != 5 {
		t.Fatalf("Stats = %+v err=%v", got, err)
	}

	st.statsErr = errors.New("boom")
	if _, err := svc.Stats(context.Background()); domain.KindOf(err) != domain.KindServer {
		t.Fatalf("expected SERVER_ERROR, got %v", err)
	}
}

// ----- Against a real store -----

func TestRideService_WithSQLiteStore(t *testing.T) {
	db, err := repo.OpenSQLite(repo.MemoryPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(db) })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	svc := NewRideService(repo.NewStore(db, time.Second), nil)
	ctx := context.Background()

	if _, err := svc.List(ctx, 0, 0); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("empty list should be not found, got %v", err)
	}

	for i := 0; i < 30; i++ {
		if _, err := svc.Create(ctx, validInput()); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	page, err := svc.List(ctx, 1, 20)
	if err != nil || len(page) != 20 {
		t.Fatalf("page 1 = %d rows, err=%v", len(page), err)
	}
	last, err := svc.List(ctx, 2, 20)
	if err != nil || len(last) != 10 {
		t.Fatalf("page 2 = %d rows, err=%v", len(last), err)
	}
	if _, err := svc.List(ctx, 3, 20); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("page past the end should be not found, got %v", err)
	}
	all, err := svc.List(ctx, 0, 20)
	if err != nil || len(all) != 30 {
		t.Fatalf("unpaged = %d rows, err=%v", len(all), err)
	}

	one, err := svc.Get(ctx, "1")
	if err != nil || len(one) != 1 || one[0].RideID != 1 || one[0].StartLat != 10 {
		t.Fatalf("Get(1) = %+v err=%v", one, err)
	}
	if _, err := svc.Get(ctx, "31"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("Get(31) should be not found, got %v", err)
	}
	if _, err := svc.List(ctx, math.MaxInt, 2); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("overflowing page should be not found, got %v", err)
	}
}

func TestGet_RepeatedCallsReturnIdenticalRows(t *testing.T) {
	for _, withCache := range []bool{false, true} {
		db, err := repo.OpenSQLite(repo.MemoryPath)
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		t.Cleanup(func() { _ = repo.Close(db) })
		if err := repo.AutoMigrate(db); err != nil {
			t.Fatalf("AutoMigrate: %v", err)
		}

		var c *fakeCache
		svc := NewRideService(repo.NewStore(db, time.Second), nil)
		if withCache {
			c = newFakeCache()
			svc = NewRideService(repo.NewStore(db, time.Second), c)
		}
		ctx := context.Background()

		created, err := svc.Create(ctx, validInput())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		id := strconv.FormatInt(created[0].RideID, 10)

		first, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("cache=%v first Get: %v", withCache, err)
		}
		second, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("cache=%v second Get: %v", withCache, err)
		}
		if len(first) != 1 || len(second) != 1 || first[0] != second[0] || first[0] != created[0] {
			t.Fatalf("cache=%v rows differ: created=%+v first=%+v second=%+v", withCache, created, first, second)
		}
		if withCache && c.gets != 2 {
			t.Fatalf("expected both Gets to consult the cache, got %d", c.gets)
		}
	}
}
