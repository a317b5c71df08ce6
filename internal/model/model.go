// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Team represents a handball club.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ShortCode string    `json:"short_code"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player represents an athlete belonging to exactly one team.
// JerseyNumber is unique within the team roster.
type Player struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Position     Position  `json:"position"`
	JerseyNumber int       `json:"jersey_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Match represents a fixture between two teams with a running clock and score.
// Invariants enforced at the service layer: HomeTeamID != AwayTeamID and
// ClockSeconds <= DurationSeconds.
type Match struct {
	ID              int64       `json:"id"`
	HomeTeamID      int64       `json:"home_team_id"`
	AwayTeamID      int64       `json:"away_team_id"`
	StartTime       time.Time   `json:"start_time"`
	DurationSeconds int         `json:"duration_seconds"`
	Status          MatchStatus `json:"status"`
	ClockSeconds    int         `json:"clock_seconds"`
	HomeScore       int         `json:"home_score"`
	AwayScore       int         `json:"away_score"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// MatchEvent is an immutable fact recorded once per real-world occurrence.
// GoalDifference captures the signed score margin from the acting team's
// perspective at the moment the event happened.
type MatchEvent struct {
	ID              int64     `json:"id"`
	MatchID         int64     `json:"match_id"`
	TeamID          int64     `json:"team_id"`
	PlayerID        *int64    `json:"player_id,omitempty"`
	RelatedPlayerID *int64    `json:"related_player_id,omitempty"`
	Kind            EventKind `json:"kind"`
	Period          Period    `json:"period"`
	TimeSeconds     int       `json:"time_seconds"`
	GoalDifference  int       `json:"goal_difference"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// PlayerStat is the single mutable aggregate per (player, match) pair.
// Counters are bumped incrementally by the aggregator; TotalPoints and
// Efficiency are derived and recomputed after every counter change.
type PlayerStat struct {
	ID                int64 `json:"id"`
	PlayerID          int64 `json:"player_id"`
	MatchID           int64 `json:"match_id"`
	Goals             int   `json:"goals"`
	SevenMGoals       int   `json:"seven_m_goals"`
	Assists           int   `json:"assists"`
	Steals            int   `json:"steals"`
	Blocks            int   `json:"blocks"`
	Turnovers         int   `json:"turnovers"`
	TwoMinSuspensions int   `json:"two_min_suspensions"`
	YellowCards       int   `json:"yellow_cards"`
	RedCards          int   `json:"red_cards"`
	Saves             int   `json:"saves"`
	ConcededGoals     int   `json:"conceded_goals"`

	TotalPoints int     `json:"total_points"`
	Efficiency  float64 `json:"efficiency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchSnapshot is the read model handed to display clients.
// It is cached and broadcast on every admitted event; never persisted directly.
type MatchSnapshot struct {
	MatchID      int64       `json:"match_id"`
	Status       MatchStatus `json:"status"`
	ClockSeconds int         `json:"clock_seconds"`
	HomeScore    int         `json:"home_score"`
	AwayScore    int         `json:"away_score"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// PlayerMatchScore carries a computed performance score for one player in one
// match under a named strategy. Read-only query result, not persisted.
type PlayerMatchScore struct {
	PlayerID int64   `json:"player_id"`
	MatchID  int64   `json:"match_id"`
	Strategy string  `json:"strategy"`
	Score    float64 `json:"score"`
}
