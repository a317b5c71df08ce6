package scoring

import "github.com/vportnov/handball-stats-service/internal/model"

// ApplyKind maps an admitted event kind onto its stat counter and increments it.
// Neutral kinds (timeout, generic penalty, the drawn/missed variants tracked
// only by the replay model) touch no counters; the return value reports
// whether anything changed so callers can skip a redundant persist.
func ApplyKind(s *model.PlayerStat, kind model.EventKind) bool {
	switch kind {
	case model.EventGoal:
		s.Goals++
	case model.EventSevenMGoal:
		s.SevenMGoals++
	case model.EventAssistGoal, model.EventAssistNoGoal:
		s.Assists++
	case model.EventSteal:
		s.Steals++
	case model.EventBlock:
		s.Blocks++
	case model.EventTurnover:
		s.Turnovers++
	case model.EventTwoMinSuspension:
		s.TwoMinSuspensions++
	case model.EventYellowCard:
		s.YellowCards++
	case model.EventRedCard:
		s.RedCards++
	case model.EventSave:
		s.Saves++
	case model.EventGoalConceded:
		s.ConcededGoals++
	default:
		return false
	}
	return true
}

// RecountFromEvents rebuilds all counters of a stat record from an event log.
// Deletion handling: reverse-increments drift, so corrections always go through
// a full replay of the remaining events.
func RecountFromEvents(s *model.PlayerStat, events []model.MatchEvent, pos model.Position) {
	s.Goals = 0
	s.SevenMGoals = 0
	s.Assists = 0
	s.Steals = 0
	s.Blocks = 0
	s.Turnovers = 0
	s.TwoMinSuspensions = 0
	s.YellowCards = 0
	s.RedCards = 0
	s.Saves = 0
	s.ConcededGoals = 0
	for _, ev := range events {
		ApplyKind(s, ev.Kind)
	}
	RecomputeDerived(s, pos)
}
