package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
)

type matchService struct {
	matches         repository.MatchRepository
	teams           repository.TeamRepository
	tx              repository.TxManager
	cache           SnapshotCache
	pub             SnapshotPublisher
	defaultDuration int
	log             zerolog.Logger
}

// NewMatchService wires match lifecycle use cases. cache and pub may be nil;
// the service degrades to direct repository reads. defaultDuration applies to
// matches created without an explicit duration; pass 0 for the regulation
// 60 minutes.
func NewMatchService(matches repository.MatchRepository, teams repository.TeamRepository, tx repository.TxManager, cache SnapshotCache, pub SnapshotPublisher, defaultDuration int, logger zerolog.Logger) MatchService {
	if defaultDuration <= 0 {
		defaultDuration = defaultMatchDurationSeconds
	}
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{matches: matches, teams: teams, tx: tx, cache: cache, pub: pub, defaultDuration: defaultDuration, log: l}
}

func (s *matchService) CreateMatch(ctx context.Context, homeID, awayID int64, startTime time.Time, durationSeconds int) (model.Match, error) {
	if durationSeconds == 0 {
		durationSeconds = s.defaultDuration
	}

	var ferrs []FieldError
	if homeID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "home_team_id", Message: "must be > 0"})
	}
	if awayID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "away_team_id", Message: "must be > 0"})
	}
	if startTime.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "start_time", Message: "must be set"})
	}
	if durationSeconds < 0 {
		ferrs = append(ferrs, FieldError{Field: "duration_seconds", Message: "must be > 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed (structure)")
		return model.Match{}, err
	}
	if homeID == awayID {
		return model.Match{}, newRuleError(ErrSameTeamMatch, "away_team_id")
	}

	// Existence checks before attempting persistence.
	var existenceErrs []FieldError
	if _, err := s.teams.GetByID(ctx, homeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			existenceErrs = append(existenceErrs, FieldError{Field: "home_team_id", Message: "team does not exist"})
		} else {
			return model.Match{}, err
		}
	}
	if _, err := s.teams.GetByID(ctx, awayID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			existenceErrs = append(existenceErrs, FieldError{Field: "away_team_id", Message: "team does not exist"})
		} else {
			return model.Match{}, err
		}
	}
	if err := NewInvalidInputError(existenceErrs); err != nil {
		s.log.Debug().Interface("field_errors", existenceErrs).Msg("match validation failed (existence)")
		return model.Match{}, err
	}

	out, err := s.matches.Create(ctx, model.Match{
		HomeTeamID:      homeID,
		AwayTeamID:      awayID,
		StartTime:       startTime,
		DurationSeconds: durationSeconds,
		Status:          model.StatusNotStarted,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("home_id", homeID).Int64("away_id", awayID).Msg("create match failed")
		return model.Match{}, err
	}
	return out, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.matches.GetByID(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error) {
	p := normalizePage(page)
	res, err := s.matches.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	return res, nil
}

func (s *matchService) AdvanceStatus(ctx context.Context, id int64) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	var out model.Match
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.matches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, ok := m.Status.Next()
		if !ok {
			return NewInvalidInputError([]FieldError{{Field: "status", Message: "match already at full time"}})
		}
		m.Status = next
		out, err = s.matches.UpdateState(ctx, m)
		return err
	})
	if err != nil {
		return model.Match{}, err
	}
	s.log.Info().Int64("match_id", id).Str("status", string(out.Status)).Msg("match status advanced")
	s.refreshSnapshot(ctx, out)
	return out, nil
}

func (s *matchService) SetClock(ctx context.Context, id int64, seconds int) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	var out model.Match
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.matches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if seconds < 0 || seconds > m.DurationSeconds {
			return NewInvalidInputError([]FieldError{{Field: "clock_seconds", Message: "must be within 0 and match duration"}})
		}
		m.ClockSeconds = seconds
		out, err = s.matches.UpdateState(ctx, m)
		return err
	})
	if err != nil {
		return model.Match{}, err
	}
	s.refreshSnapshot(ctx, out)
	return out, nil
}

func (s *matchService) Snapshot(ctx context.Context, id int64) (model.MatchSnapshot, error) {
	if id <= 0 {
		return model.MatchSnapshot{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	if s.cache != nil {
		if snap, ok, err := s.cache.Get(ctx, id); err == nil && ok {
			return snap, nil
		} else if err != nil {
			// Cache trouble must never break reads; fall back to the database.
			s.log.Warn().Err(err).Int64("match_id", id).Msg("snapshot cache read failed")
		}
	}
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return model.MatchSnapshot{}, err
	}
	snap := snapshotOf(m)
	if s.cache != nil {
		if err := s.cache.Set(ctx, snap); err != nil {
			s.log.Warn().Err(err).Int64("match_id", id).Msg("snapshot cache write failed")
		}
	}
	return snap, nil
}

// refreshSnapshot updates the cache and notifies subscribers after a state
// change. Best effort only.
func (s *matchService) refreshSnapshot(ctx context.Context, m model.Match) {
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

func snapshotOf(m model.Match) model.MatchSnapshot {
	return model.MatchSnapshot{
		MatchID:      m.ID,
		Status:       m.Status,
		ClockSeconds: m.ClockSeconds,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		UpdatedAt:    m.UpdatedAt,
	}
}
