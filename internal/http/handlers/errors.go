// Package handlers defines the error taxonomy of the HTTP surface.
//
// Ride errors carry a domain.ErrorKind and are mapped to a status by
// StatusFor. Transport-level failures that never reach the ride service
// (unknown route, wrong method) use the routing codes below. Every error
// body has the shape {"error_code": ..., "message": ...}.
package handlers

import (
	"net/http"

	"github.com/tbourn/go-rides-backend/internal/domain"
)

// Routing error codes.
const (
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// StatusFor maps an error kind to its HTTP status:
//
//	VALIDATION_ERROR      -> 422
//	RIDES_NOT_FOUND_ERROR -> 400
//	anything else         -> 500
//
// Not-found reads answer 400 rather than 404; existing clients depend on it.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
