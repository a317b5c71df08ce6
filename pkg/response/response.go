// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// ruleCodes gives each event-admission rule its own machine-readable code so
// scoreboard clients can react to the exact rejection reason.
var ruleCodes = []struct {
	err  error
	code string
}{
	{service.ErrTeamNotInMatch, "team_not_in_match"},
	{service.ErrPlayerTeamMismatch, "player_team_mismatch"},
	{service.ErrRelatedPlayerNotInMatch, "related_player_not_in_match"},
	{service.ErrMatchNotLive, "match_not_live"},
	{service.ErrEventTimeOutOfBounds, "event_time_out_of_bounds"},
	{service.ErrDuplicatePlayerNumber, "duplicate_player_number"},
	{service.ErrSameTeamMatch, "same_team_match"},
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	for _, rc := range ruleCodes {
		if errors.Is(err, rc.err) {
			return http.StatusBadRequest, ErrorPayload{
				Error:       rc.code,
				Message:     rc.err.Error(),
				FieldErrors: service.FieldErrors(err),
			}
		}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
