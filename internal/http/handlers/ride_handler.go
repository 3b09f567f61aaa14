// Ride HTTP handlers.
//
// This file exposes the rides endpoints:
//   - POST /rides       (create; JSON or form body, optional Idempotency-Key)
//   - GET  /rides       (list, optional page_number/rows_per_page, weak ETag)
//   - GET  /rides/{id}  (get one)
//   - GET  /health      (liveness)
//
// Handlers are transport-thin: they decode input, call the ride service and
// turn classified errors into {error_code, message} responses via StatusFor.
// Successful ride responses are always JSON arrays.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-rides-backend/internal/domain"
	"github.com/tbourn/go-rides-backend/internal/http/middleware"
	"github.com/tbourn/go-rides-backend/internal/repo"
	"github.com/tbourn/go-rides-backend/internal/services"
	"github.com/tbourn/go-rides-backend/internal/utils"
)

// ErrCodeBodyTooLarge is returned when the request body exceeds the limit
// installed by the router.
const ErrCodeBodyTooLarge = "REQUEST_TOO_LARGE"

// HeaderReplayed marks a POST /rides response served from a stored
// idempotency record.
const HeaderReplayed = "Idempotency-Replayed"

//
// Service contracts (context-aware)
//

// RideService defines the ride operations consumed by the handlers.
// Every returned error is expected to be a *domain.Error; anything else is
// answered as SERVER_ERROR.
type RideService interface {
	// Create validates and stores a ride, returning it as a one-element slice.
	Create(ctx context.Context, in services.RideInput) ([]domain.Ride, error)
	// List returns all rides, or one page when both arguments are positive.
	List(ctx context.Context, pageNumber, rowsPerPage int) ([]domain.Ride, error)
	// Get returns the ride with the given id as a one-element slice.
	Get(ctx context.Context, id string) ([]domain.Ride, error)
	// Stats summarizes the table for list ETags.
	Stats(ctx context.Context) (repo.RideStats, error)
}

// IdempotencyRecorder remembers which ride an Idempotency-Key created.
// repo.IdempotencyStore implements it.
type IdempotencyRecorder interface {
	Remember(ctx context.Context, key string, rideID int64, status int) error
}

// Handlers groups the ride endpoints.
type Handlers struct {
	rides RideService
	idem  IdempotencyRecorder
}

// New constructs Handlers. idem may be nil, which disables recording of
// idempotency keys.
func New(rides RideService, idem IdempotencyRecorder) *Handlers {
	return &Handlers{rides: rides, idem: idem}
}

//
// DTOs
//

// CreateRideRequest documents the POST /rides body. The handler decodes into
// a generic map so that wrongly-typed fields reach validation and produce
// the proper message instead of a decoding error.
type CreateRideRequest struct {
	StartLat      float64 `json:"start_lat" example:"1.3521"`
	StartLong     float64 `json:"start_long" example:"103.8198"`
	EndLat        float64 `json:"end_lat" example:"1.2903"`
	EndLong       float64 `json:"end_long" example:"103.8520"`
	RiderName     string  `json:"rider_name" example:"Alice"`
	DriverName    string  `json:"driver_name" example:"Bob"`
	DriverVehicle string  `json:"driver_vehicle" example:"Toyota Prius"`
}

//
// Helpers
//

var rideFields = []string{
	services.FieldStartLat, services.FieldStartLong,
	services.FieldEndLat, services.FieldEndLong,
	services.FieldRiderName, services.FieldDriverName, services.FieldDriverVehicle,
}

// decodeRideBody reads the create payload. JSON numbers are kept as
// json.Number so the raw value can be persisted. An empty, malformed or
// non-object body decodes to an empty map and fails validation downstream,
// as does a body of any type other than JSON or form data.
func decodeRideBody(c *gin.Context) (map[string]any, error) {
	if isFormContent(c.ContentType()) {
		if err := c.Request.ParseMultipartForm(32 << 10); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		m := make(map[string]any, len(rideFields))
		for _, f := range rideFields {
			if vs, ok := c.Request.PostForm[f]; ok && len(vs) > 0 {
				m[f] = vs[0]
			}
		}
		return m, nil
	}

	if !isJSONContent(c.ContentType()) {
		return map[string]any{}, nil
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return m, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		middleware.LoggerFrom(c).Debug().Err(err).Msg("ride body is not a JSON object")
		return map[string]any{}, nil
	}
	return m, nil
}

// isJSONContent reports whether ct (already stripped of parameters) should
// be decoded as JSON. A missing Content-Type is treated as JSON.
func isJSONContent(ct string) bool {
	return ct == "" || ct == "application/json"
}

func isFormContent(ct string) bool {
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

// etagMatches reports whether an If-None-Match header value matches etag,
// honoring lists and "*".
func etagMatches(inm, etag string) bool {
	for _, t := range strings.Split(inm, ",") {
		t = strings.TrimSpace(t)
		if t == "*" || t == etag {
			return true
		}
	}
	return false
}

//
// Handlers
//

// CreateRide godoc
// @ID          createRide
// @Summary     Create a ride
// @Description Validates and stores a ride, returning it as a one-element array. Accepts JSON or form bodies.
// @Description Supports idempotency via the Idempotency-Key header (same key → same ride).
// @Tags        Rides
// @Accept      json
// @Accept      x-www-form-urlencoded
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreateRideRequest  true  "Ride payload"
//
// @Success     200  {array}   domain.Ride
// @Header      200  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid Idempotency-Key"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation error"
// @Failure     500  {object}  handlers.ErrorResponse  "Server error"
// @Router      /rides [post]
func (h *Handlers) CreateRide(c *gin.Context) {
	ctx := c.Request.Context()

	// Replay path: the validator found a ride created under this key.
	if id, replay := middleware.ReplayRideID(c); replay {
		rides, err := h.rides.Get(ctx, strconv.FormatInt(id, 10))
		if err != nil {
			failWith(c, err)
			return
		}
		middleware.RecordReplay()
		c.Header(HeaderReplayed, "true")
		ok(c, http.StatusOK, rides)
		return
	}

	body, err := decodeRideBody(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeBodyTooLarge, "Request body too large")
			return
		}
		failWith(c, domain.ServerError(err))
		return
	}

	rides, err := h.rides.Create(ctx, services.RideInputFromMap(body))
	if err != nil {
		failWith(c, err)
		return
	}
	middleware.RecordCreated()

	// Store path, best effort.
	if key, has := middleware.GetIdempotencyKey(c); has && h.idem != nil {
		if err := h.idem.Remember(ctx, key, rides[0].RideID, http.StatusOK); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusOK, rides)
}

// ListRides godoc
// @ID          listRides
// @Summary     List rides
// @Description Returns all rides, or one page when page_number and rows_per_page are both positive.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Rides
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"rides:3:3\")
// @Param       page_number    query   int     false "1-based page number"         minimum(1)
// @Param       rows_per_page  query   int     false "Rows per page"               minimum(1)
//
// @Success     200  {array}   domain.Ride
// @Header      200  {string}  ETag  "Weak ETag for the current table state"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "No rides found"
// @Failure     500  {object}  handlers.ErrorResponse "Server error"
// @Router      /rides [get]
func (h *Handlers) ListRides(c *gin.Context) {
	ctx := c.Request.Context()
	page, per := utils.PageParams(c.Query("page_number"), c.Query("rows_per_page"))

	// ETag pre-check (best effort). Rides are append-only, so count and
	// max id identify the table state.
	if st, err := h.rides.Stats(ctx); err == nil && st.Count > 0 {
		etag := fmt.Sprintf(`W/"rides:%d:%d"`, st.Count, st.MaxRideID)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && etagMatches(inm, etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	rides, err := h.rides.List(ctx, page, per)
	if err != nil {
		c.Writer.Header().Del("ETag")
		failWith(c, err)
		return
	}
	ok(c, http.StatusOK, rides)
}

// GetRide godoc
// @ID          getRide
// @Summary     Get a ride
// @Description Returns the ride with the given id as a one-element array.
// @Tags        Rides
// @Produce     json
//
// @Param       id  path  string  true  "Ride ID"  example(1)
//
// @Success     200  {array}   domain.Ride
// @Failure     400  {object}  handlers.ErrorResponse "Ride not found"
// @Failure     500  {object}  handlers.ErrorResponse "Server error"
// @Router      /rides/{id} [get]
func (h *Handlers) GetRide(c *gin.Context) {
	rides, err := h.rides.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, http.StatusOK, rides)
}

// Health godoc
// @ID          health
// @Summary     Liveness check
// @Tags        Health
// @Produce     plain
// @Success     200  {string}  string  "Healthy"
// @Router      /health [get]
func Health(c *gin.Context) {
	middleware.LoggerFrom(c).Info().Msg("Healthy")
	c.String(http.StatusOK, "Healthy")
}
