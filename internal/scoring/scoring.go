// Package scoring holds the performance score computations as pure functions.
// No I/O here: everything is arithmetic over models, so the two strategies stay
// trivially testable and the service layer owns all persistence concerns.
package scoring

import (
	"math"

	"github.com/vportnov/handball-stats-service/internal/model"
)

// Strategy names a score model. Both are exposed; the caller chooses.
// The revision history behind the formulas never settled on a canonical one,
// so the API refuses to pick silently.
type Strategy string

const (
	// StrategyCounterWeighted reads the incrementally maintained PlayerStat
	// counters. Fast and stateful; requires explicit recompute after deletions.
	StrategyCounterWeighted Strategy = "counter_weighted"
	// StrategyEventReplay replays the player's event log. O(events) per read,
	// but always consistent and naturally idempotent.
	StrategyEventReplay Strategy = "event_replay"
)

// Valid reports whether the strategy is one of the two supported models.
func (s Strategy) Valid() bool {
	return s == StrategyCounterWeighted || s == StrategyEventReplay
}

// eventWeights maps each event kind to its per-event contribution weight.
// Positive for productive actions, negative for costly ones. Kinds absent from
// the table contribute zero.
var eventWeights = map[model.EventKind]float64{
	model.EventGoal:               1.0,
	model.EventAssistGoal:         0.6,
	model.EventAssistNoGoal:       0.4,
	model.EventSteal:              0.8,
	model.EventBlock:              0.25,
	model.EventPenaltyDrawn:       0.75,
	model.EventSuspensionDrawn:    0.8,
	model.EventMissedShot6M:       -0.7,
	model.EventMissedShot9M:       -0.45,
	model.EventTurnover:           -0.6,
	model.EventSuspensionConceded: -0.8,
	model.EventPenaltyConceded:    -0.75,
}

// Weight returns the base weight for an event kind; 0 for unknown or neutral kinds.
func Weight(kind model.EventKind) float64 {
	return eventWeights[kind]
}

// TimeFactor maps match progress linearly onto [0.5, 1.5]: contributions at
// the start of the match count half, contributions at the buzzer count 1.5x.
func TimeFactor(elapsedSeconds, durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return 0.5
	}
	return 0.5 + float64(elapsedSeconds)/float64(durationSeconds)
}

// ScoreFactor rewards high-leverage actions: it peaks at 2.0 when the score is
// level and decays as the margin widens. Symmetric in the sign of the margin.
func ScoreFactor(goalDifference int) float64 {
	return 2.0 / (1.0 + math.Abs(float64(goalDifference)))
}

// EventContribution computes one event's share of the replay score.
func EventContribution(ev model.MatchEvent, durationSeconds int) float64 {
	return Weight(ev.Kind) * TimeFactor(ev.TimeSeconds, durationSeconds) * ScoreFactor(ev.GoalDifference)
}

// ReplayScore sums the weighted contributions of a player's events for a match.
// Pure function of the event log: rerunning it after corrections or deletions
// always yields the current truth.
func ReplayScore(events []model.MatchEvent, durationSeconds int) float64 {
	total := 0.0
	for _, ev := range events {
		total += EventContribution(ev, durationSeconds)
	}
	return total
}

// TotalPoints is the counter-weighted scoring output: all goals plus assists.
func TotalPoints(s model.PlayerStat) int {
	return s.Goals + s.SevenMGoals + s.Assists
}

// Efficiency derives the [0, 100] productive-action ratio. Goalkeepers are
// rated on save percentage; field players on productive vs. total actions.
// Returns 0 when the denominator is 0.
func Efficiency(s model.PlayerStat, pos model.Position) float64 {
	if pos.IsGoalkeeper() {
		denom := s.Saves + s.ConcededGoals
		if denom == 0 {
			return 0
		}
		return float64(s.Saves) / float64(denom) * 100
	}
	productive := s.Goals + s.SevenMGoals + s.Assists + s.Steals + s.Blocks
	denom := productive + s.Turnovers + s.TwoMinSuspensions
	if denom == 0 {
		return 0
	}
	return float64(productive) / float64(denom) * 100
}

// RecomputeDerived refreshes TotalPoints and Efficiency in place. Call after
// every counter mutation so derived state is never observably stale.
func RecomputeDerived(s *model.PlayerStat, pos model.Position) {
	s.TotalPoints = TotalPoints(*s)
	s.Efficiency = Efficiency(*s, pos)
}
