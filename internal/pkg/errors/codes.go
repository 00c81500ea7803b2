package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrLocationNotFound = New(
		"LOCATION_NOT_FOUND",
		"Location not found. Try a different search.",
		http.StatusNotFound,
	)

	ErrUpstreamError = New(
		"UPSTREAM_ERROR",
		"Upstream map service error. Please try again later.",
		http.StatusBadGateway,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
