package model

// Position is a player's role on court.
type Position string

const (
	PositionGoalkeeper Position = "goalkeeper"
	PositionWing       Position = "wing"
	PositionBack       Position = "back"
	PositionPivot      Position = "pivot"
	PositionCenter     Position = "center"
)

// Valid reports whether the position is one of the known roles.
func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionWing, PositionBack, PositionPivot, PositionCenter:
		return true
	}
	return false
}

// IsGoalkeeper picks the efficiency formula branch for derived stats.
func (p Position) IsGoalkeeper() bool { return p == PositionGoalkeeper }

// MatchStatus is the match lifecycle state.
type MatchStatus string

const (
	StatusNotStarted MatchStatus = "not_started"
	StatusFirstHalf  MatchStatus = "first_half"
	StatusHalfTime   MatchStatus = "half_time"
	StatusSecondHalf MatchStatus = "second_half"
	StatusOvertime   MatchStatus = "overtime"
	StatusFullTime   MatchStatus = "full_time"
)

// statusOrder fixes the only legal forward progression of a match.
var statusOrder = []MatchStatus{
	StatusNotStarted,
	StatusFirstHalf,
	StatusHalfTime,
	StatusSecondHalf,
	StatusOvertime,
	StatusFullTime,
}

// Valid reports whether the status is a known lifecycle state.
func (s MatchStatus) Valid() bool {
	for _, st := range statusOrder {
		if s == st {
			return true
		}
	}
	return false
}

// IsLive reports whether events are admissible for a match in this state.
// Half-time counts as a stoppage: the clock is not running and no play events
// can legally occur.
func (s MatchStatus) IsLive() bool {
	switch s {
	case StatusFirstHalf, StatusSecondHalf, StatusOvertime:
		return true
	}
	return false
}

// Next returns the following lifecycle state and whether a transition exists.
// Full-time is terminal.
func (s MatchStatus) Next() (MatchStatus, bool) {
	for i, st := range statusOrder {
		if s == st && i+1 < len(statusOrder) {
			return statusOrder[i+1], true
		}
	}
	return s, false
}

// Period is the match phase an event belongs to.
type Period int

const (
	PeriodFirstHalf  Period = 1
	PeriodSecondHalf Period = 2
	PeriodOvertime   Period = 3
)

// Valid reports whether the period is a known phase.
func (p Period) Valid() bool {
	return p == PeriodFirstHalf || p == PeriodSecondHalf || p == PeriodOvertime
}

// EventKind is the type tag of a MatchEvent.
type EventKind string

const (
	EventGoal               EventKind = "goal"
	EventSevenMGoal         EventKind = "seven_m_goal"
	EventAssistGoal         EventKind = "assist_goal"
	EventAssistNoGoal       EventKind = "assist_no_goal"
	EventSteal              EventKind = "steal"
	EventBlock              EventKind = "block"
	EventTurnover           EventKind = "turnover"
	EventTwoMinSuspension   EventKind = "two_min_suspension"
	EventYellowCard         EventKind = "yellow_card"
	EventRedCard            EventKind = "red_card"
	EventPenaltyDrawn       EventKind = "penalty_drawn"
	EventSuspensionDrawn    EventKind = "suspension_drawn"
	EventMissedShot6M       EventKind = "missed_shot_6m"
	EventMissedShot9M       EventKind = "missed_shot_9m"
	EventSuspensionConceded EventKind = "suspension_conceded"
	EventPenaltyConceded    EventKind = "penalty_conceded"
	EventSave               EventKind = "save"
	EventGoalConceded       EventKind = "goal_conceded"
	EventTimeout            EventKind = "timeout"
	EventPenalty            EventKind = "penalty"
)

var knownKinds = map[EventKind]struct{}{
	EventGoal: {}, EventSevenMGoal: {}, EventAssistGoal: {}, EventAssistNoGoal: {},
	EventSteal: {}, EventBlock: {}, EventTurnover: {}, EventTwoMinSuspension: {},
	EventYellowCard: {}, EventRedCard: {}, EventPenaltyDrawn: {}, EventSuspensionDrawn: {},
	EventMissedShot6M: {}, EventMissedShot9M: {}, EventSuspensionConceded: {},
	EventPenaltyConceded: {}, EventSave: {}, EventGoalConceded: {}, EventTimeout: {},
	EventPenalty: {},
}

// Valid reports whether the kind is a known event type.
func (k EventKind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// IsGoalScoring reports whether the event bumps the acting team's match score.
func (k EventKind) IsGoalScoring() bool {
	return k == EventGoal || k == EventSevenMGoal
}
