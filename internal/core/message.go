package core

import (
	"strings"
	"time"
)

// Team identifies which side a team-chat line was sent to.
type Team string

const (
	TeamNone     Team = ""
	TeamSurvivor Team = "Survivor"
	TeamInfected Team = "Infected"
)

// ParseTeam maps a captured team label to a Team. Unknown labels yield TeamNone.
func ParseTeam(label string) Team {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "survivor":
		return TeamSurvivor
	case "infected":
		return TeamInfected
	default:
		return TeamNone
	}
}

// Message is a chat line extracted from the game log.
type Message struct {
	RawLine   string
	Team      Team
	Player    string
	Content   string
	Timestamp time.Time
}

// IsTeamChat reports whether the line was sent to a team channel.
func (m Message) IsTeamChat() bool {
	return m.Team != TeamNone
}
