// Package contract holds reusable repository contract suites. Any storage
// implementation of the repository interfaces must pass them; the postgres
// tests under test/repository wire them against a real database.
package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/repository"
)

type TeamFactory func(t *testing.T) (repository.TeamRepository, func())

type PlayerFactory func(t *testing.T) (repo repository.PlayerRepository, createTeam func(ctx context.Context, name, code string) (int64, error), cleanup func())

type MatchFactory func(t *testing.T) (repo repository.MatchRepository, createTeam func(ctx context.Context, name, code string) (int64, error), cleanup func())

type EventFactory func(t *testing.T) (repo repository.EventRepository, seed func(ctx context.Context) (matchID, teamID, playerID int64, err error), cleanup func())

type StatFactory func(t *testing.T) (repo repository.StatRepository, seed func(ctx context.Context) (playerID, matchID int64, err error), cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, teams repository.TeamRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunTeamRepositoryContract(t *testing.T, makeRepo TeamFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Team{Name: "THW Kiel", ShortCode: "KIE", Country: "Germany"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != created.Name || got.ShortCode != "KIE" {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("exists", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Team{Name: "SG Flensburg", ShortCode: "FLE"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		ok, err := repo.Exists(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("exists = %v, %v; want true", ok, err)
		}
		ok, err = repo.Exists(ctx, 999999)
		if err != nil || ok {
			t.Fatalf("exists = %v, %v; want false", ok, err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			name := "Team " + string(rune('A'+i))
			code := "T" + string(rune('A'+i))
			if _, err := repo.Create(ctx, model.Team{Name: name, ShortCode: code}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		res2, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 1 || res2.Total != 7 {
			t.Fatalf("unexpected last page: len=%d total=%d", len(res2.Items), res2.Total)
		}
	})

	t.Run("create_duplicate_short_code", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Team{Name: "First", ShortCode: "DUP"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, model.Team{Name: "Second", ShortCode: "DUP"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "THW Kiel", "KIE")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		created, err := repo.Create(ctx, model.Player{TeamID: teamID, FirstName: "Mikkel", LastName: "Hansen", Position: model.PositionBack, JerseyNumber: 24})
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID || got.TeamID != teamID || got.Position != model.PositionBack {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 42424242)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("number_taken_per_roster", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamA, err := mkTeam(ctx, "Team A", "TA")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		teamB, err := mkTeam(ctx, "Team B", "TB")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		if _, err := repo.Create(ctx, model.Player{TeamID: teamA, FirstName: "N", LastName: "Landin", Position: model.PositionGoalkeeper, JerseyNumber: 1}); err != nil {
			t.Fatalf("seed player: %v", err)
		}
		taken, err := repo.NumberTaken(ctx, teamA, 1)
		if err != nil || !taken {
			t.Fatalf("NumberTaken same roster = %v, %v; want true", taken, err)
		}
		taken, err = repo.NumberTaken(ctx, teamB, 1)
		if err != nil || taken {
			t.Fatalf("NumberTaken other roster = %v, %v; want false", taken, err)
		}
		// The DB constraint backs the check.
		_, err = repo.Create(ctx, model.Player{TeamID: teamA, FirstName: "X", LastName: "Y", Position: model.PositionWing, JerseyNumber: 1})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_by_team_pagination", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "THW Kiel", "KIE")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		for i := 0; i < 5; i++ {
			p := model.Player{TeamID: teamID, FirstName: "P", LastName: string(rune('A' + i)), Position: model.PositionWing, JerseyNumber: 10 + i}
			if _, err := repo.Create(ctx, p); err != nil {
				t.Fatalf("seed player %d: %v", i, err)
			}
		}
		res, err := repo.ListByTeam(ctx, teamID, repository.Page{Limit: 2, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
	})
}

func RunMatchRepositoryContract(t *testing.T, makeRepo MatchFactory) {
	t.Helper()

	seedMatch := func(ctx context.Context, repo repository.MatchRepository, mkTeam func(context.Context, string, string) (int64, error)) (model.Match, error) {
		home, err := mkTeam(ctx, "Home", "HOM")
		if err != nil {
			return model.Match{}, err
		}
		away, err := mkTeam(ctx, "Away", "AWY")
		if err != nil {
			return model.Match{}, err
		}
		return repo.Create(ctx, model.Match{
			HomeTeamID:      home,
			AwayTeamID:      away,
			StartTime:       time.Now().UTC(),
			DurationSeconds: 3600,
			Status:          model.StatusNotStarted,
		})
	}

	t.Run("create_and_get", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := seedMatch(ctx, repo, mkTeam)
		if err != nil {
			t.Fatalf("create match: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != model.StatusNotStarted || got.HomeScore != 0 || got.AwayScore != 0 {
			t.Fatalf("new match not zeroed: %+v", got)
		}
	})

	t.Run("update_state_roundtrip", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m, err := seedMatch(ctx, repo, mkTeam)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		m.Status = model.StatusFirstHalf
		m.ClockSeconds = 900
		m.HomeScore = 5
		m.AwayScore = 3
		updated, err := repo.UpdateState(ctx, m)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := repo.GetByID(ctx, updated.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != model.StatusFirstHalf || got.ClockSeconds != 900 || got.HomeScore != 5 || got.AwayScore != 3 {
			t.Fatalf("state not persisted together: %+v", got)
		}
	})

	t.Run("same_team_check_rejected", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		id, err := mkTeam(ctx, "Solo", "SOL")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		_, err = repo.Create(ctx, model.Match{HomeTeamID: id, AwayTeamID: id, StartTime: time.Now().UTC(), DurationSeconds: 3600, Status: model.StatusNotStarted})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict from check constraint, got %v", err)
		}
	})
}

func RunEventRepositoryContract(t *testing.T, makeRepo EventFactory) {
	t.Helper()

	t.Run("create_list_ordering", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		matchID, teamID, playerID, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		// Inserted out of order on purpose.
		specs := []struct {
			period model.Period
			at     int
		}{
			{model.PeriodSecondHalf, 2000},
			{model.PeriodFirstHalf, 900},
			{model.PeriodFirstHalf, 100},
		}
		for _, sp := range specs {
			_, err := repo.Create(ctx, model.MatchEvent{
				MatchID: matchID, TeamID: teamID, PlayerID: &playerID,
				Kind: model.EventGoal, Period: sp.period, TimeSeconds: sp.at,
			})
			if err != nil {
				t.Fatalf("create event: %v", err)
			}
		}
		events, err := repo.ListByMatch(ctx, matchID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("len = %d; want 3", len(events))
		}
		for i := 1; i < len(events); i++ {
			prev, cur := events[i-1], events[i]
			if prev.Period > cur.Period || (prev.Period == cur.Period && prev.TimeSeconds > cur.TimeSeconds) {
				t.Fatalf("events out of chronological order: %+v before %+v", prev, cur)
			}
		}
	})

	t.Run("list_by_player_match", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		matchID, teamID, playerID, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := repo.Create(ctx, model.MatchEvent{MatchID: matchID, TeamID: teamID, PlayerID: &playerID, Kind: model.EventSteal, Period: model.PeriodFirstHalf, TimeSeconds: 50}); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := repo.Create(ctx, model.MatchEvent{MatchID: matchID, TeamID: teamID, Kind: model.EventTimeout, Period: model.PeriodFirstHalf, TimeSeconds: 60}); err != nil {
			t.Fatalf("create team event: %v", err)
		}
		events, err := repo.ListByPlayerMatch(ctx, playerID, matchID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(events) != 1 || events[0].Kind != model.EventSteal {
			t.Fatalf("unexpected events: %+v", events)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		matchID, teamID, playerID, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		ev, err := repo.Create(ctx, model.MatchEvent{MatchID: matchID, TeamID: teamID, PlayerID: &playerID, Kind: model.EventGoal, Period: model.PeriodFirstHalf, TimeSeconds: 10})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Delete(ctx, ev.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, ev.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, ev.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("double delete: expected ErrNotFound, got %v", err)
		}
	})
}

func RunStatRepositoryContract(t *testing.T, makeRepo StatFactory) {
	t.Helper()

	t.Run("get_or_create_idempotent", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		playerID, matchID, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		first, err := repo.GetOrCreate(ctx, playerID, matchID)
		if err != nil {
			t.Fatalf("first: %v", err)
		}
		second, err := repo.GetOrCreate(ctx, playerID, matchID)
		if err != nil {
			t.Fatalf("second: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("second call created a new row: %d vs %d", first.ID, second.ID)
		}
		if first.Goals != 0 || first.TotalPoints != 0 {
			t.Fatalf("fresh row not zeroed: %+v", first)
		}
	})

	t.Run("update_roundtrip", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		playerID, matchID, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		stat, err := repo.GetOrCreate(ctx, playerID, matchID)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		stat.Goals = 4
		stat.Assists = 2
		stat.TotalPoints = 6
		stat.Efficiency = 85.5
		if _, err := repo.Update(ctx, stat); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := repo.Get(ctx, playerID, matchID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Goals != 4 || got.Assists != 2 || got.TotalPoints != 6 || got.Efficiency != 85.5 {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Get(context.Background(), 999999, 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		boom := errors.New("boom")
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			tm, err := teams.Create(ctx, model.Team{Name: "Ghost", ShortCode: "GHO"})
			if err != nil {
				return err
			}
			createdID = tm.ID
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("rollback leaked a row: %v", err)
		}
	})

	t.Run("commit_on_success", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			tm, err := teams.Create(ctx, model.Team{Name: "Kept", ShortCode: "KEP"})
			if err != nil {
				return err
			}
			createdID = tm.ID
			return nil
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); err != nil {
			t.Fatalf("committed row not readable: %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	p, cleanup := makePinger(t)
	t.Cleanup(cleanup)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
