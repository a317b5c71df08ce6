package scoring_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vportnov/handball-stats-service/internal/model"
	"github.com/vportnov/handball-stats-service/internal/scoring"
)

func TestTimeFactor_Anchors(t *testing.T) {
	assert.InDelta(t, 0.5, scoring.TimeFactor(0, 3600), 1e-9, "match start")
	assert.InDelta(t, 1.5, scoring.TimeFactor(3600, 3600), 1e-9, "match end")
	assert.InDelta(t, 1.0, scoring.TimeFactor(1800, 3600), 1e-9, "halfway")
	// Degenerate duration must not divide by zero.
	assert.InDelta(t, 0.5, scoring.TimeFactor(100, 0), 1e-9)
}

func TestScoreFactor_BellCurve(t *testing.T) {
	assert.InDelta(t, 2.0, scoring.ScoreFactor(0), 1e-9, "level score peaks")
	assert.InDelta(t, 1.0, scoring.ScoreFactor(1), 1e-9)
	for d := -10; d <= 10; d++ {
		assert.InDelta(t, scoring.ScoreFactor(d), scoring.ScoreFactor(-d), 1e-9, "symmetric in margin sign")
	}
	assert.Less(t, scoring.ScoreFactor(5), scoring.ScoreFactor(1), "decays as margin widens")
}

func TestEventContribution_GoalAtHalfwayLevelScore(t *testing.T) {
	ev := model.MatchEvent{Kind: model.EventGoal, TimeSeconds: 1800, GoalDifference: 0}
	got := scoring.EventContribution(ev, 3600)
	// weight 1.0 * time factor 1.0 * score factor 2.0
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestWeight_Table(t *testing.T) {
	cases := []struct {
		kind model.EventKind
		want float64
	}{
		{model.EventGoal, 1.0},
		{model.EventAssistGoal, 0.6},
		{model.EventAssistNoGoal, 0.4},
		{model.EventSteal, 0.8},
		{model.EventBlock, 0.25},
		{model.EventPenaltyDrawn, 0.75},
		{model.EventSuspensionDrawn, 0.8},
		{model.EventMissedShot6M, -0.7},
		{model.EventMissedShot9M, -0.45},
		{model.EventTurnover, -0.6},
		{model.EventSuspensionConceded, -0.8},
		{model.EventPenaltyConceded, -0.75},
		{model.EventTimeout, 0},
		{model.EventPenalty, 0},
		{model.EventKind("nonsense"), 0},
	}
	for _, tc := range cases {
		if got := scoring.Weight(tc.kind); got != tc.want {
			t.Errorf("Weight(%s) = %v; want %v", tc.kind, got, tc.want)
		}
	}
}

func TestReplayScore_Idempotent(t *testing.T) {
	events := []model.MatchEvent{
		{Kind: model.EventGoal, TimeSeconds: 120, GoalDifference: 0},
		{Kind: model.EventTurnover, TimeSeconds: 900, GoalDifference: 2},
		{Kind: model.EventSteal, TimeSeconds: 3500, GoalDifference: -1},
		{Kind: model.EventAssistGoal, TimeSeconds: 1800, GoalDifference: 1},
	}
	first := scoring.ReplayScore(events, 3600)
	second := scoring.ReplayScore(events, 3600)
	if first != second {
		t.Fatalf("replay not idempotent: %v vs %v", first, second)
	}
	if math.IsNaN(first) {
		t.Fatalf("replay produced NaN")
	}
}

func TestReplayScore_EmptyLog(t *testing.T) {
	if got := scoring.ReplayScore(nil, 3600); got != 0 {
		t.Fatalf("empty log must score 0, got %v", got)
	}
}

func TestTotalPoints_Identity(t *testing.T) {
	s := model.PlayerStat{Goals: 3, SevenMGoals: 2, Assists: 4, Steals: 7, Turnovers: 1}
	if got := scoring.TotalPoints(s); got != 9 {
		t.Fatalf("total points = %d; want 9", got)
	}
}

func TestEfficiency_FieldPlayer(t *testing.T) {
	// 5 productive, 2 costly -> 5/7 * 100
	s := model.PlayerStat{Goals: 2, Assists: 2, Steals: 1, Turnovers: 1, TwoMinSuspensions: 1}
	got := scoring.Efficiency(s, model.PositionBack)
	assert.InDelta(t, 5.0/7.0*100, got, 1e-9)
}

func TestEfficiency_Goalkeeper(t *testing.T) {
	s := model.PlayerStat{Saves: 12, ConcededGoals: 8}
	got := scoring.Efficiency(s, model.PositionGoalkeeper)
	assert.InDelta(t, 60.0, got, 1e-9)
}

func TestEfficiency_ZeroDenominator(t *testing.T) {
	if got := scoring.Efficiency(model.PlayerStat{}, model.PositionWing); got != 0 {
		t.Fatalf("field player with no actions: efficiency = %v; want 0", got)
	}
	if got := scoring.Efficiency(model.PlayerStat{}, model.PositionGoalkeeper); got != 0 {
		t.Fatalf("keeper with no shots faced: efficiency = %v; want 0", got)
	}
}

func TestEfficiency_Bounds(t *testing.T) {
	cases := []model.PlayerStat{
		{Goals: 10},
		{Turnovers: 10},
		{Goals: 1, Turnovers: 100},
		{Saves: 30},
		{ConcededGoals: 30},
	}
	positions := []model.Position{model.PositionBack, model.PositionGoalkeeper}
	for _, s := range cases {
		for _, pos := range positions {
			got := scoring.Efficiency(s, pos)
			if got < 0 || got > 100 {
				t.Fatalf("efficiency %v out of [0,100] for %+v as %s", got, s, pos)
			}
		}
	}
}

func TestApplyKind_CounterMapping(t *testing.T) {
	cases := []struct {
		kind    model.EventKind
		changed bool
		count   func(model.PlayerStat) int
	}{
		{model.EventGoal, true, func(s model.PlayerStat) int { return s.Goals }},
		{model.EventSevenMGoal, true, func(s model.PlayerStat) int { return s.SevenMGoals }},
		{model.EventAssistGoal, true, func(s model.PlayerStat) int { return s.Assists }},
		{model.EventAssistNoGoal, true, func(s model.PlayerStat) int { return s.Assists }},
		{model.EventSteal, true, func(s model.PlayerStat) int { return s.Steals }},
		{model.EventBlock, true, func(s model.PlayerStat) int { return s.Blocks }},
		{model.EventTurnover, true, func(s model.PlayerStat) int { return s.Turnovers }},
		{model.EventTwoMinSuspension, true, func(s model.PlayerStat) int { return s.TwoMinSuspensions }},
		{model.EventYellowCard, true, func(s model.PlayerStat) int { return s.YellowCards }},
		{model.EventRedCard, true, func(s model.PlayerStat) int { return s.RedCards }},
		{model.EventSave, true, func(s model.PlayerStat) int { return s.Saves }},
		{model.EventGoalConceded, true, func(s model.PlayerStat) int { return s.ConcededGoals }},
		{model.EventTimeout, false, nil},
		{model.EventPenalty, false, nil},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			var s model.PlayerStat
			changed := scoring.ApplyKind(&s, tc.kind)
			if changed != tc.changed {
				t.Fatalf("changed = %v; want %v", changed, tc.changed)
			}
			if tc.count != nil && tc.count(s) != 1 {
				t.Fatalf("counter not incremented for %s: %+v", tc.kind, s)
			}
		})
	}
}

func TestRecomputeDerived_NeverStale(t *testing.T) {
	var s model.PlayerStat
	scoring.ApplyKind(&s, model.EventGoal)
	scoring.RecomputeDerived(&s, model.PositionPivot)
	if s.TotalPoints != 1 {
		t.Fatalf("total points = %d; want 1", s.TotalPoints)
	}
	scoring.ApplyKind(&s, model.EventAssistGoal)
	scoring.RecomputeDerived(&s, model.PositionPivot)
	if s.TotalPoints != 2 {
		t.Fatalf("total points = %d; want 2 after second event", s.TotalPoints)
	}
}

func TestRecountFromEvents_AfterDeletion(t *testing.T) {
	var s model.PlayerStat
	// Two goals applied incrementally.
	scoring.ApplyKind(&s, model.EventGoal)
	scoring.ApplyKind(&s, model.EventGoal)
	scoring.RecomputeDerived(&s, model.PositionWing)
	if s.TotalPoints != 2 {
		t.Fatalf("precondition failed: total points = %d", s.TotalPoints)
	}

	// One goal event deleted: replay the surviving log.
	remaining := []model.MatchEvent{{Kind: model.EventGoal}}
	scoring.RecountFromEvents(&s, remaining, model.PositionWing)
	if s.Goals != 1 || s.TotalPoints != 1 {
		t.Fatalf("recount left stale counters: %+v", s)
	}
}

func TestStrategy_Valid(t *testing.T) {
	if !scoring.StrategyCounterWeighted.Valid() || !scoring.StrategyEventReplay.Valid() {
		t.Fatalf("known strategies must validate")
	}
	if scoring.Strategy("hybrid").Valid() {
		t.Fatalf("unknown strategy must not validate")
	}
}
