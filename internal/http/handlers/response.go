// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by all endpoints. Error
// responses always use ErrorResponse; fail() also logs 5xx responses with the
// request-scoped logger and counts every error by code.
//
// Example error response:
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "error_code": "VALIDATION_ERROR",
//	  "message": "Rider name must be a non empty string"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-rides-backend/internal/domain"
	"github.com/tbourn/go-rides-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Stable, machine-readable code
	ErrorCode string `json:"error_code" example:"VALIDATION_ERROR"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"Rider name must be a non empty string"`
}

// fail aborts the request with an ErrorResponse. 5xx responses are logged
// with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	failCause(c, status, code, msg, nil)
}

func failCause(c *gin.Context, status int, code, msg string, cause error) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		ev := lg.Error().
			Int("status", status).
			Str("error_code", code).
			Str("message", msg)
		if cause != nil {
			ev = ev.AnErr("cause", cause)
		}
		ev.Msg("api error")
	}

	middleware.SetErrorCode(c, code)
	middleware.RecordError(code)
	c.AbortWithStatusJSON(status, ErrorResponse{ErrorCode: code, Message: msg})
}

// failWith classifies err and responds with the matching status and body.
// Unclassified errors become SERVER_ERROR / "Unknown error".
func failWith(c *gin.Context, err error) {
	ce := domain.AsError(err)
	failCause(c, StatusFor(ce.Kind), string(ce.Kind), ce.Message, ce.Cause())
}

// Fail is the exported variant of fail(), used by the router for fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
