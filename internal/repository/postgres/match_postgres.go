package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
)

type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

const matchColumns = `id, home_team_id, away_team_id, start_time, duration_seconds, status, clock_seconds, home_score, away_score, created_at, updated_at`

func scanMatch(row pgx.Row) (model.Match, error) {
	var m model.Match
	err := row.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.StartTime, &m.DurationSeconds, &m.Status, &m.ClockSeconds, &m.HomeScore, &m.AwayScore, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO matches (home_team_id, away_team_id, start_time, duration_seconds, status, clock_seconds, home_score, away_score)
		 VALUES ($1, $2, $3, $4, $5, 0, 0, 0)
		 RETURNING `+matchColumns,
		m.HomeTeamID, m.AwayTeamID, m.StartTime, m.DurationSeconds, m.Status,
	)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	out, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+matchColumns+`, COUNT(*) OVER() AS total
		 FROM matches
		 ORDER BY start_time DESC, id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Match]{Items: make([]model.Match, 0, limit)}
	for rows.Next() {
		var m model.Match
		var total int
		if err := rows.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.StartTime, &m.DurationSeconds, &m.Status, &m.ClockSeconds, &m.HomeScore, &m.AwayScore, &m.CreatedAt, &m.UpdatedAt, &total); err != nil {
			return repository.PageResult[model.Match]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, m)
		res.Total = total
	}
	return res, nil
}

// UpdateState writes status, clock and score in a single statement so readers
// never observe a half-applied transition.
func (r *matchRepository) UpdateState(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE matches
		 SET status = $2, clock_seconds = $3, home_score = $4, away_score = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+matchColumns,
		m.ID, m.Status, m.ClockSeconds, m.HomeScore, m.AwayScore,
	)
	out, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
