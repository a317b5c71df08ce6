package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/scoring"
)

type statsService struct {
	stats   repository.StatRepository
	events  repository.EventRepository
	matches repository.MatchRepository
	players repository.PlayerRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func NewStatsService(stats repository.StatRepository, events repository.EventRepository, matches repository.MatchRepository, players repository.PlayerRepository, tx repository.TxManager, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{stats: stats, events: events, matches: matches, players: players, tx: tx, log: l}
}

func (s *statsService) ListByMatch(ctx context.Context, matchID int64) ([]model.PlayerStat, error) {
	if matchID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "match_id", Message: "must be > 0"}})
	}
	return s.stats.ListByMatch(ctx, matchID)
}

// PlayerScore serves both score models. The counter-weighted strategy reads
// the maintained aggregate; the replay strategy recomputes from the event log
// on every call, which makes it immune to stale state after corrections.
func (s *statsService) PlayerScore(ctx context.Context, matchID, playerID int64, strategy scoring.Strategy) (model.PlayerMatchScore, error) {
	var ferrs []FieldError
	if matchID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "match_id", Message: "must be > 0"})
	}
	if playerID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "player_id", Message: "must be > 0"})
	}
	if !strategy.Valid() {
		ferrs = append(ferrs, FieldError{Field: "strategy", Message: "must be counter_weighted or event_replay"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.PlayerMatchScore{}, err
	}

	out := model.PlayerMatchScore{PlayerID: playerID, MatchID: matchID, Strategy: string(strategy)}

	switch strategy {
	case scoring.StrategyCounterWeighted:
		stat, err := s.stats.Get(ctx, playerID, matchID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Lazy stat rows: no events yet means a zero score, not a 404.
				return out, nil
			}
			return model.PlayerMatchScore{}, err
		}
		out.Score = float64(stat.TotalPoints)
	case scoring.StrategyEventReplay:
		match, err := s.matches.GetByID(ctx, matchID)
		if err != nil {
			return model.PlayerMatchScore{}, err
		}
		events, err := s.events.ListByPlayerMatch(ctx, playerID, matchID)
		if err != nil {
			return model.PlayerMatchScore{}, err
		}
		out.Score = scoring.ReplayScore(events, match.DurationSeconds)
	}
	return out, nil
}

// Recompute rebuilds one (player, match) aggregate from its event log inside a
// transaction. Used after out-of-band corrections and by operators who want to
// verify the incremental path.
func (s *statsService) Recompute(ctx context.Context, matchID, playerID int64) (model.PlayerStat, error) {
	var ferrs []FieldError
	if matchID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "match_id", Message: "must be > 0"})
	}
	if playerID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "player_id", Message: "must be > 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.PlayerStat{}, err
	}

	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return model.PlayerStat{}, err
	}

	var out model.PlayerStat
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stat, err := s.stats.GetOrCreate(ctx, playerID, matchID)
		if err != nil {
			return err
		}
		events, err := s.events.ListByPlayerMatch(ctx, playerID, matchID)
		if err != nil {
			return err
		}
		scoring.RecountFromEvents(&stat, events, player.Position)
		out, err = s.stats.Update(ctx, stat)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Int64("match_id", matchID).Int64("player_id", playerID).Msg("stat recompute failed")
		return model.PlayerStat{}, err
	}
	s.log.Info().Int64("match_id", matchID).Int64("player_id", playerID).Msg("stat recomputed from event log")
	return out, nil
}
