package service_test

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/scoring"
	"github.com/vportnov/handball-stats-service/internal/service"
)

type statsWorld struct {
	svc     service.StatsService
	events  *fakeEventRepo
	stats   *fakeStatRepo
	matches *fakeMatchRepo
	players *fakePlayerRepo

	match  model.Match
	player model.Player
}

func newStatsWorld(t *testing.T) *statsWorld {
	t.Helper()
	w := &statsWorld{
		events:  newFakeEventRepo(),
		stats:   newFakeStatRepo(),
		matches: newFakeMatchRepo(),
		players: newFakePlayerRepo(),
	}
	w.player = w.players.add(model.Player{TeamID: 1, FirstName: "Sander", LastName: "Sagosen", Position: model.PositionCenter, JerseyNumber: 11})
	w.match = w.matches.add(model.Match{
		HomeTeamID:      1,
		AwayTeamID:      2,
		StartTime:       time.Now(),
		DurationSeconds: 3600,
		Status:          model.StatusSecondHalf,
	})
	w.svc = service.NewStatsService(w.stats, w.events, w.matches, w.players, &fakeTx{}, zerolog.New(io.Discard))
	return w
}

func (w *statsWorld) seedEvent(kind model.EventKind, timeSeconds, goalDiff int) {
	w.events.Create(context.Background(), model.MatchEvent{
		MatchID:        w.match.ID,
		TeamID:         1,
		PlayerID:       &w.player.ID,
		Kind:           kind,
		Period:         model.PeriodFirstHalf,
		TimeSeconds:    timeSeconds,
		GoalDifference: goalDiff,
	})
}

func TestStatsService_PlayerScore_CounterWeighted(t *testing.T) {
	w := newStatsWorld(t)
	stat, _ := w.stats.GetOrCreate(context.Background(), w.player.ID, w.match.ID)
	stat.Goals, stat.Assists, stat.TotalPoints = 3, 2, 5
	w.stats.Update(context.Background(), stat)

	score, err := w.svc.PlayerScore(context.Background(), w.match.ID, w.player.ID, scoring.StrategyCounterWeighted)
	if err != nil {
		t.Fatalf("player score failed: %v", err)
	}
	if score.Score != 5 {
		t.Fatalf("score = %v; want 5", score.Score)
	}
	if score.Strategy != string(scoring.StrategyCounterWeighted) {
		t.Fatalf("strategy = %q", score.Strategy)
	}
}

func TestStatsService_PlayerScore_NoStatRowMeansZero(t *testing.T) {
	w := newStatsWorld(t)
	score, err := w.svc.PlayerScore(context.Background(), w.match.ID, w.player.ID, scoring.StrategyCounterWeighted)
	if err != nil {
		t.Fatalf("missing stat row must not error: %v", err)
	}
	if score.Score != 0 {
		t.Fatalf("score = %v; want 0 before any events", score.Score)
	}
}

func TestStatsService_PlayerScore_EventReplay(t *testing.T) {
	w := newStatsWorld(t)
	w.seedEvent(model.EventGoal, 1800, 0)    // 1.0 * 1.0 * 2.0 = 2.0
	w.seedEvent(model.EventTurnover, 0, 1)   // -0.6 * 0.5 * 1.0 = -0.3
	w.seedEvent(model.EventSteal, 3600, -1)  // 0.8 * 1.5 * 1.0 = 1.2
	w.seedEvent(model.EventTimeout, 2000, 0) // neutral kind, no contribution

	score, err := w.svc.PlayerScore(context.Background(), w.match.ID, w.player.ID, scoring.StrategyEventReplay)
	if err != nil {
		t.Fatalf("player score failed: %v", err)
	}
	if math.Abs(score.Score-2.9) > 1e-9 {
		t.Fatalf("replay score = %v; want 2.9", score.Score)
	}
}

func TestStatsService_PlayerScore_InvalidStrategy(t *testing.T) {
	w := newStatsWorld(t)
	_, err := w.svc.PlayerScore(context.Background(), w.match.ID, w.player.ID, scoring.Strategy("hybrid"))
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("error = %v; want ErrInvalidInput", err)
	}
	found := false
	for _, fe := range service.FieldErrors(err) {
		if fe.Field == "strategy" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no field error for strategy: %v", service.FieldErrors(err))
	}
}

func TestStatsService_Recompute_RebuildsFromLog(t *testing.T) {
	w := newStatsWorld(t)
	w.seedEvent(model.EventGoal, 100, 0)
	w.seedEvent(model.EventGoal, 200, 1)
	w.seedEvent(model.EventAssistGoal, 300, 2)
	w.seedEvent(model.EventTurnover, 400, 2)

	// Poison the aggregate to prove the recompute ignores it.
	stat, _ := w.stats.GetOrCreate(context.Background(), w.player.ID, w.match.ID)
	stat.Goals, stat.TotalPoints = 42, 99
	w.stats.Update(context.Background(), stat)

	out, err := w.svc.Recompute(context.Background(), w.match.ID, w.player.ID)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if out.Goals != 2 || out.Assists != 1 || out.Turnovers != 1 {
		t.Fatalf("recount = %+v; want 2 goals, 1 assist, 1 turnover", out)
	}
	if out.TotalPoints != 3 {
		t.Fatalf("total points = %d; want 3", out.TotalPoints)
	}
	// 3 productive of 4 total actions.
	if math.Abs(out.Efficiency-75.0) > 1e-9 {
		t.Fatalf("efficiency = %v; want 75", out.Efficiency)
	}

	persisted, _ := w.stats.Get(context.Background(), w.player.ID, w.match.ID)
	if persisted.Goals != 2 {
		t.Fatalf("recompute result not persisted: %+v", persisted)
	}
}

func TestStatsService_Recompute_UnknownPlayer(t *testing.T) {
	w := newStatsWorld(t)
	_, err := w.svc.Recompute(context.Background(), w.match.ID, 999)
	if err == nil {
		t.Fatalf("expected error for unknown player")
	}
}

func TestStatsService_ListByMatch(t *testing.T) {
	w := newStatsWorld(t)
	w.stats.GetOrCreate(context.Background(), w.player.ID, w.match.ID)

	stats, err := w.svc.ListByMatch(context.Background(), w.match.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stats) != 1 || stats[0].PlayerID != w.player.ID {
		t.Fatalf("stats = %+v", stats)
	}

	if _, err := w.svc.ListByMatch(context.Background(), 0); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("error = %v; want ErrInvalidInput for id 0", err)
	}
}
