package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/scoring"
)

type eventService struct {
	events  repository.EventRepository
	stats   repository.StatRepository
	matches repository.MatchRepository
	players repository.PlayerRepository
	tx      repository.TxManager
	cache   SnapshotCache
	pub     SnapshotPublisher
	log     zerolog.Logger
}

// NewEventService wires event ingestion, the aggregator and the correction
// path. cache and pub may be nil.
func NewEventService(events repository.EventRepository, stats repository.StatRepository, matches repository.MatchRepository, players repository.PlayerRepository, tx repository.TxManager, cache SnapshotCache, pub SnapshotPublisher, logger zerolog.Logger) EventService {
	l := logger.With().Str("module", "service").Str("component", "event").Logger()
	return &eventService{events: events, stats: stats, matches: matches, players: players, tx: tx, cache: cache, pub: pub, log: l}
}

// Submit runs the admission rules in a fixed order, each producing its own
// error, all before any mutation. An admitted event, its score effect and the
// player aggregate update commit together or not at all.
func (s *eventService) Submit(ctx context.Context, in SubmitEventInput) (model.MatchEvent, error) {
	var ferrs []FieldError
	if in.MatchID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "match_id", Message: "must be > 0"})
	}
	if in.TeamID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team_id", Message: "must be > 0"})
	}
	if !in.Kind.Valid() {
		ferrs = append(ferrs, FieldError{Field: "kind", Message: "unknown event kind"})
	}
	if !in.Period.Valid() {
		ferrs = append(ferrs, FieldError{Field: "period", Message: "must be 1 (first half), 2 (second half) or 3 (overtime)"})
	}
	if in.TimeSeconds < 0 {
		ferrs = append(ferrs, FieldError{Field: "time_seconds", Message: "must be >= 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("event validation failed (structure)")
		return model.MatchEvent{}, err
	}

	match, err := s.matches.GetByID(ctx, in.MatchID)
	if err != nil {
		return model.MatchEvent{}, err
	}

	// Rule 1: the acting team must be one of the match's two teams.
	if in.TeamID != match.HomeTeamID && in.TeamID != match.AwayTeamID {
		return model.MatchEvent{}, newRuleError(ErrTeamNotInMatch, "team_id")
	}

	// Rule 2: the acting player, when named, must play for the acting team.
	var player model.Player
	if in.PlayerID != nil {
		player, err = s.players.GetByID(ctx, *in.PlayerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.MatchEvent{}, NewInvalidInputError([]FieldError{{Field: "player_id", Message: "player does not exist"}})
			}
			return model.MatchEvent{}, err
		}
		if player.TeamID != in.TeamID {
			return model.MatchEvent{}, newRuleError(ErrPlayerTeamMismatch, "player_id")
		}
	}

	// Rule 3: the related player, when named, must be on either roster.
	if in.RelatedPlayerID != nil {
		related, err := s.players.GetByID(ctx, *in.RelatedPlayerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.MatchEvent{}, NewInvalidInputError([]FieldError{{Field: "related_player_id", Message: "player does not exist"}})
			}
			return model.MatchEvent{}, err
		}
		if related.TeamID != match.HomeTeamID && related.TeamID != match.AwayTeamID {
			return model.MatchEvent{}, newRuleError(ErrRelatedPlayerNotInMatch, "related_player_id")
		}
	}

	// Rule 4: events are only admissible while the match is live.
	if !match.Status.IsLive() {
		return model.MatchEvent{}, newRuleError(ErrMatchNotLive, "match_id")
	}

	// Rule 5: the event time must fit inside the match.
	if in.TimeSeconds > match.DurationSeconds {
		return model.MatchEvent{}, newRuleError(ErrEventTimeOutOfBounds, "time_seconds")
	}

	var out model.MatchEvent
	var updated model.Match
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Re-read inside the transaction: the score snapshot the goal
		// differential is derived from must be the one we bump.
		m, err := s.matches.GetByID(ctx, in.MatchID)
		if err != nil {
			return err
		}

		ev := model.MatchEvent{
			MatchID:         in.MatchID,
			TeamID:          in.TeamID,
			PlayerID:        in.PlayerID,
			RelatedPlayerID: in.RelatedPlayerID,
			Kind:            in.Kind,
			Period:          in.Period,
			TimeSeconds:     in.TimeSeconds,
			GoalDifference:  goalDifferenceFor(m, in.TeamID),
			Notes:           in.Notes,
		}
		out, err = s.events.Create(ctx, ev)
		if err != nil {
			return err
		}

		if in.Kind.IsGoalScoring() {
			if in.TeamID == m.HomeTeamID {
				m.HomeScore++
			} else {
				m.AwayScore++
			}
			if m, err = s.matches.UpdateState(ctx, m); err != nil {
				return err
			}
		}
		updated = m

		if in.PlayerID != nil {
			stat, err := s.stats.GetOrCreate(ctx, *in.PlayerID, in.MatchID)
			if err != nil {
				return err
			}
			if scoring.ApplyKind(&stat, in.Kind) {
				scoring.RecomputeDerived(&stat, player.Position)
				if _, err := s.stats.Update(ctx, stat); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Int64("match_id", in.MatchID).Str("kind", string(in.Kind)).Msg("event admission failed")
		return model.MatchEvent{}, err
	}

	s.log.Info().
		Int64("match_id", in.MatchID).
		Int64("event_id", out.ID).
		Str("kind", string(in.Kind)).
		Int("home_score", updated.HomeScore).
		Int("away_score", updated.AwayScore).
		Msg("event admitted")
	s.refreshSnapshot(ctx, updated)
	return out, nil
}

func (s *eventService) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchEvent, error) {
	if matchID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "match_id", Message: "must be > 0"}})
	}
	return s.events.ListByMatch(ctx, matchID)
}

// Delete is the explicit correction path. The score decrement and the full
// recount of the affected aggregate happen in the same transaction as the
// event removal; reverse-incrementing counters is how drift starts.
func (s *eventService) Delete(ctx context.Context, eventID int64) error {
	if eventID <= 0 {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}

	var updated model.Match
	var touched bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ev, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		m, err := s.matches.GetByID(ctx, ev.MatchID)
		if err != nil {
			return err
		}
		if err := s.events.Delete(ctx, eventID); err != nil {
			return err
		}

		if ev.Kind.IsGoalScoring() {
			if ev.TeamID == m.HomeTeamID && m.HomeScore > 0 {
				m.HomeScore--
			} else if ev.TeamID == m.AwayTeamID && m.AwayScore > 0 {
				m.AwayScore--
			}
			if m, err = s.matches.UpdateState(ctx, m); err != nil {
				return err
			}
			touched = true
		}
		updated = m

		if ev.PlayerID != nil {
			player, err := s.players.GetByID(ctx, *ev.PlayerID)
			if err != nil {
				return err
			}
			stat, err := s.stats.Get(ctx, *ev.PlayerID, ev.MatchID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil // no aggregate was ever created for this pair
				}
				return err
			}
			remaining, err := s.events.ListByPlayerMatch(ctx, *ev.PlayerID, ev.MatchID)
			if err != nil {
				return err
			}
			scoring.RecountFromEvents(&stat, remaining, player.Position)
			if _, err := s.stats.Update(ctx, stat); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("event_id", eventID).Msg("event deleted, aggregates recomputed")
	if touched {
		s.refreshSnapshot(ctx, updated)
	}
	return nil
}

func (s *eventService) refreshSnapshot(ctx context.Context, m model.Match) {
	snap := snapshotOf(m)
	if s.cache != nil {
		if err := s.cache.Set(ctx, snap); err != nil {
			s.log.Warn().Err(err).Int64("match_id", m.ID).Msg("snapshot cache write failed")
		}
	}
	if s.pub != nil {
		s.pub.Publish(snap)
	}
}

// goalDifferenceFor computes the signed margin from the acting team's
// perspective at the moment before the event is applied.
func goalDifferenceFor(m model.Match, teamID int64) int {
	if teamID == m.HomeTeamID {
		return m.HomeScore - m.AwayScore
	}
	return m.AwayScore - m.HomeScore
}
