package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
)

type statRepository struct{ pool *pgxpool.Pool }

func NewStatRepository(pool *pgxpool.Pool) repository.StatRepository {
	return &statRepository{pool: pool}
}

const statColumns = `id, player_id, match_id, goals, seven_m_goals, assists, steals, blocks, turnovers, two_min_suspensions, yellow_cards, red_cards, saves, conceded_goals, total_points, efficiency, created_at, updated_at`

func scanStat(row pgx.Row) (model.PlayerStat, error) {
	var s model.PlayerStat
	err := row.Scan(&s.ID, &s.PlayerID, &s.MatchID, &s.Goals, &s.SevenMGoals, &s.Assists, &s.Steals, &s.Blocks, &s.Turnovers, &s.TwoMinSuspensions, &s.YellowCards, &s.RedCards, &s.Saves, &s.ConcededGoals, &s.TotalPoints, &s.Efficiency, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetOrCreate returns the aggregate row for the pair, lazily inserting a
// zeroed row on first touch. ON CONFLICT DO NOTHING plus a re-read keeps the
// unique (player_id, match_id) invariant under concurrent first events.
func (r *statRepository) GetOrCreate(ctx context.Context, playerID, matchID int64) (model.PlayerStat, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PlayerStat{}, err
	}
	exec := getQ(ctx, r.pool)
	if _, err := exec.Exec(ctx,
		`INSERT INTO player_stats (player_id, match_id)
		 VALUES ($1, $2)
		 ON CONFLICT (player_id, match_id) DO NOTHING`,
		playerID, matchID,
	); err != nil {
		return model.PlayerStat{}, repository.MapPgError(err)
	}
	return r.Get(ctx, playerID, matchID)
}

func (r *statRepository) Get(ctx context.Context, playerID, matchID int64) (model.PlayerStat, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PlayerStat{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT `+statColumns+` FROM player_stats WHERE player_id = $1 AND match_id = $2`,
		playerID, matchID,
	)
	out, err := scanStat(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PlayerStat{}, repository.ErrNotFound
		}
		return model.PlayerStat{}, repository.MapPgError(err)
	}
	return out, nil
}

// Update persists all counters and derived fields in one statement so the
// derived state can never be observed stale relative to the counters.
func (r *statRepository) Update(ctx context.Context, s model.PlayerStat) (model.PlayerStat, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PlayerStat{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE player_stats SET
			goals = $3, seven_m_goals = $4, assists = $5, steals = $6, blocks = $7,
			turnovers = $8, two_min_suspensions = $9, yellow_cards = $10, red_cards = $11,
			saves = $12, conceded_goals = $13, total_points = $14, efficiency = $15,
			updated_at = NOW()
		 WHERE player_id = $1 AND match_id = $2
		 RETURNING `+statColumns,
		s.PlayerID, s.MatchID, s.Goals, s.SevenMGoals, s.Assists, s.Steals, s.Blocks,
		s.Turnovers, s.TwoMinSuspensions, s.YellowCards, s.RedCards,
		s.Saves, s.ConcededGoals, s.TotalPoints, s.Efficiency,
	)
	out, err := scanStat(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PlayerStat{}, repository.ErrNotFound
		}
		return model.PlayerStat{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *statRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.PlayerStat, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+statColumns+` FROM player_stats WHERE match_id = $1 ORDER BY player_id`, matchID,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.PlayerStat, 0, 14)
	for rows.Next() {
		var s model.PlayerStat
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.MatchID, &s.Goals, &s.SevenMGoals, &s.Assists, &s.Steals, &s.Blocks, &s.Turnovers, &s.TwoMinSuspensions, &s.YellowCards, &s.RedCards, &s.Saves, &s.ConcededGoals, &s.TotalPoints, &s.Efficiency, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, s)
	}
	return res, nil
}

var _ repository.StatRepository = (*statRepository)(nil)
