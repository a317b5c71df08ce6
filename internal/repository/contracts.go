package repository

import (
	"context"

	"github.com/vportnov/handball-stats-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// Event admission relies on it: event insert, score bump and stat update must
// land as one atomic unit or not at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TeamRepository declares persistence operations for teams.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type TeamRepository interface {
	Create(ctx context.Context, t model.Team) (model.Team, error)
	GetByID(ctx context.Context, id int64) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PlayerRepository declares persistence operations for players.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	ListByTeam(ctx context.Context, teamID int64, p Page) (PageResult[model.Player], error)
	// NumberTaken checks jersey number uniqueness inside one roster before insert,
	// so the caller can attribute the failure to a field instead of a PG code.
	NumberTaken(ctx context.Context, teamID int64, jerseyNumber int) (bool, error)
}

// MatchRepository declares persistence operations for matches.
type MatchRepository interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	GetByID(ctx context.Context, id int64) (model.Match, error)
	List(ctx context.Context, p Page) (PageResult[model.Match], error)
	// UpdateState persists status, clock and score together; partial state
	// writes are how score/event drift sneaks in.
	UpdateState(ctx context.Context, m model.Match) (model.Match, error)
}

// EventRepository declares operations for the immutable match event log.
// Events are created once and never updated; Delete exists only for explicit
// corrections and cascades a stat recompute at the service layer.
type EventRepository interface {
	Create(ctx context.Context, ev model.MatchEvent) (model.MatchEvent, error)
	GetByID(ctx context.Context, id int64) (model.MatchEvent, error)
	ListByMatch(ctx context.Context, matchID int64) ([]model.MatchEvent, error)
	ListByPlayerMatch(ctx context.Context, playerID, matchID int64) ([]model.MatchEvent, error)
	Delete(ctx context.Context, id int64) error
}

// StatRepository declares operations for per-(player, match) aggregates.
type StatRepository interface {
	// GetOrCreate returns the stat row for the pair, inserting a zeroed row on
	// first touch. Stat rows are created lazily on the first relevant event.
	GetOrCreate(ctx context.Context, playerID, matchID int64) (model.PlayerStat, error)
	Get(ctx context.Context, playerID, matchID int64) (model.PlayerStat, error)
	Update(ctx context.Context, s model.PlayerStat) (model.PlayerStat, error)
	ListByMatch(ctx context.Context, matchID int64) ([]model.PlayerStat, error)
}
