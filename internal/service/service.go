// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/scoring"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// Event admission rule violations. Each is a distinct sentinel so callers can
// branch on the exact rule, and each unwraps to ErrInvalidInput so the
// transport layer treats them uniformly as client errors.
var (
	ErrTeamNotInMatch          = errors.New("team is not part of the match")
	ErrPlayerTeamMismatch      = errors.New("player does not belong to the event team")
	ErrRelatedPlayerNotInMatch = errors.New("related player is not part of the match")
	ErrMatchNotLive            = errors.New("match is not live")
	ErrEventTimeOutOfBounds    = errors.New("event time exceeds match duration")
	ErrDuplicatePlayerNumber   = errors.New("jersey number already taken in team")
	ErrSameTeamMatch           = errors.New("home and away teams must differ")
)

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// ruleError ties one admission rule sentinel to the field it blames.
// Unwrap reports both the sentinel and ErrInvalidInput.
type ruleError struct {
	rule  error
	field string
}

func (e *ruleError) Error() string   { return e.rule.Error() }
func (e *ruleError) Unwrap() []error { return []error{e.rule, ErrInvalidInput} }
func (e *ruleError) Fields() []FieldError {
	return []FieldError{{Field: e.field, Message: e.rule.Error()}}
}

func newRuleError(rule error, field string) error { return &ruleError{rule: rule, field: field} }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// SnapshotCache is the read-through cache for live match snapshots.
// Implemented by internal/live; a nil cache is always legal.
type SnapshotCache interface {
	Get(ctx context.Context, matchID int64) (model.MatchSnapshot, bool, error)
	Set(ctx context.Context, snap model.MatchSnapshot) error
}

// SnapshotPublisher pushes a fresh snapshot to display clients after an
// admitted event or state change. Failures here never fail the admission.
type SnapshotPublisher interface {
	Publish(snap model.MatchSnapshot)
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, name, shortCode, country string) (model.Team, error)
	GetTeam(ctx context.Context, id int64) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
}

// PlayerService defines player-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, teamID int64, firstName, lastName string, position model.Position, jerseyNumber int) (model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error)
}

// MatchService defines match lifecycle use cases.
type MatchService interface {
	CreateMatch(ctx context.Context, homeID, awayID int64, startTime time.Time, durationSeconds int) (model.Match, error)
	GetMatch(ctx context.Context, id int64) (model.Match, error)
	ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error)
	// AdvanceStatus moves the match one step along its lifecycle:
	// not_started -> first_half -> half_time -> second_half -> overtime -> full_time.
	AdvanceStatus(ctx context.Context, id int64) (model.Match, error)
	// SetClock updates elapsed seconds, bounded by the configured duration.
	SetClock(ctx context.Context, id int64, seconds int) (model.Match, error)
	// Snapshot returns the current score/clock/status read model for display.
	Snapshot(ctx context.Context, id int64) (model.MatchSnapshot, error)
}

// SubmitEventInput is the candidate fact handed to event ingestion.
// GoalDifference is not accepted from the caller: it is derived from the match
// score at admission time so the stored value can never contradict the log.
type SubmitEventInput struct {
	MatchID         int64
	TeamID          int64
	PlayerID        *int64
	RelatedPlayerID *int64
	Kind            model.EventKind
	Period          model.Period
	TimeSeconds     int
	Notes           string
}

// EventService defines event ingestion and correction use cases.
type EventService interface {
	// Submit validates the candidate event against the admission rules, then
	// persists the event, the score bump (for goal-scoring kinds) and the
	// player aggregate update as one atomic unit.
	Submit(ctx context.Context, in SubmitEventInput) (model.MatchEvent, error)
	ListByMatch(ctx context.Context, matchID int64) ([]model.MatchEvent, error)
	// Delete removes an event as an explicit correction: the match score is
	// corrected and the affected player aggregate is fully recomputed from the
	// remaining log, never reverse-incremented.
	Delete(ctx context.Context, eventID int64) error
}

// StatsService defines aggregate and score read use cases.
type StatsService interface {
	ListByMatch(ctx context.Context, matchID int64) ([]model.PlayerStat, error)
	// PlayerScore computes the player's performance score for a match under
	// the chosen strategy.
	PlayerScore(ctx context.Context, matchID, playerID int64, strategy scoring.Strategy) (model.PlayerMatchScore, error)
	// Recompute rebuilds the (player, match) aggregate from the event log.
	Recompute(ctx context.Context, matchID, playerID int64) (model.PlayerStat, error)
}
