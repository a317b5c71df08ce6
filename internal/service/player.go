package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
)

type playerService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, teams repository.TeamRepository, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, teams: teams, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, teamID int64, firstName, lastName string, position model.Position, jerseyNumber int) (model.Player, error) {
	start := time.Now()

	// Normalize early so validation and persistence see canonical values.
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	position = normalizePosition(string(position))

	var ferrs []FieldError
	if teamID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team_id", Message: "must be > 0"})
	}
	if firstName == "" {
		ferrs = append(ferrs, FieldError{Field: "first_name", Message: "must not be empty"})
	} else if ln := len([]rune(firstName)); ln > 50 {
		ferrs = append(ferrs, FieldError{Field: "first_name", Message: "length must be <= 50"})
	}
	if lastName == "" {
		ferrs = append(ferrs, FieldError{Field: "last_name", Message: "must not be empty"})
	} else if ln := len([]rune(lastName)); ln > 50 {
		ferrs = append(ferrs, FieldError{Field: "last_name", Message: "length must be <= 50"})
	}
	if !position.Valid() {
		ferrs = append(ferrs, FieldError{Field: "position", Message: "must be one of goalkeeper, wing, back, pivot, center"})
	}
	if jerseyNumber < 1 || jerseyNumber > maxJerseyNumber {
		ferrs = append(ferrs, FieldError{Field: "jersey_number", Message: "must be between 1 and 99"})
	}

	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("player validation failed")
		return model.Player{}, err
	}

	// Existence check improves client UX vs deferring to FK violation.
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Player{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "team does not exist"}})
		}
		return model.Player{}, err
	}

	// Jersey numbers are unique per roster. The DB constraint is the last
	// line of defense; checking here attributes the failure to the field.
	taken, err := s.players.NumberTaken(ctx, teamID, jerseyNumber)
	if err != nil {
		return model.Player{}, err
	}
	if taken {
		return model.Player{}, newRuleError(ErrDuplicatePlayerNumber, "jersey_number")
	}

	out, err := s.players.Create(ctx, model.Player{
		TeamID:       teamID,
		FirstName:    firstName,
		LastName:     lastName,
		Position:     position,
		JerseyNumber: jerseyNumber,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// Raced another insert for the same number.
			return model.Player{}, newRuleError(ErrDuplicatePlayerNumber, "jersey_number")
		}
		s.log.Error().Err(err).Int64("team_id", teamID).Str("ln", lastName).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if id <= 0 {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.players.GetByID(ctx, id)
}

func (s *playerService) ListPlayersByTeam(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error) {
	if teamID <= 0 {
		return repository.PageResult[model.Player]{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "must be > 0"}})
	}
	p := normalizePage(page)
	res, err := s.players.ListByTeam(ctx, teamID, p)
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", teamID).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}
