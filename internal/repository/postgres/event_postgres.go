package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
)

type eventRepository struct{ pool *pgxpool.Pool }

func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, match_id, team_id, player_id, related_player_id, kind, period, time_seconds, goal_difference, notes, created_at`

func scanEvent(row pgx.Row) (model.MatchEvent, error) {
	var ev model.MatchEvent
	err := row.Scan(&ev.ID, &ev.MatchID, &ev.TeamID, &ev.PlayerID, &ev.RelatedPlayerID, &ev.Kind, &ev.Period, &ev.TimeSeconds, &ev.GoalDifference, &ev.Notes, &ev.CreatedAt)
	return ev, err
}

// Create appends to the immutable event log. There is deliberately no Update.
func (r *eventRepository) Create(ctx context.Context, ev model.MatchEvent) (model.MatchEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchEvent{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO match_events (match_id, team_id, player_id, related_player_id, kind, period, time_seconds, goal_difference, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+eventColumns,
		ev.MatchID, ev.TeamID, ev.PlayerID, ev.RelatedPlayerID, ev.Kind, ev.Period, ev.TimeSeconds, ev.GoalDifference, ev.Notes,
	)
	out, err := scanEvent(row)
	if err != nil {
		return model.MatchEvent{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (model.MatchEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchEvent{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+eventColumns+` FROM match_events WHERE id = $1`, id)
	out, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MatchEvent{}, repository.ErrNotFound
		}
		return model.MatchEvent{}, repository.MapPgError(err)
	}
	return out, nil
}

// ListByMatch returns the full log in (period, time_seconds) order, the
// canonical event ordering.
func (r *eventRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchEvent, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM match_events WHERE match_id = $1 ORDER BY period, time_seconds, id`,
		matchID)
}

func (r *eventRepository) ListByPlayerMatch(ctx context.Context, playerID, matchID int64) ([]model.MatchEvent, error) {
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM match_events WHERE player_id = $1 AND match_id = $2 ORDER BY period, time_seconds, id`,
		playerID, matchID)
}

func (r *eventRepository) list(ctx context.Context, sql string, args ...any) ([]model.MatchEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.MatchEvent, 0, 16)
	for rows.Next() {
		var ev model.MatchEvent
		if err := rows.Scan(&ev.ID, &ev.MatchID, &ev.TeamID, &ev.PlayerID, &ev.RelatedPlayerID, &ev.Kind, &ev.Period, &ev.TimeSeconds, &ev.GoalDifference, &ev.Notes, &ev.CreatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, ev)
	}
	return res, nil
}

// Delete removes a single event. Only reachable through the correction path,
// which recomputes the affected player's aggregate afterwards.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM match_events WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.EventRepository = (*eventRepository)(nil)
