package model

import "github.com/google/uuid"

// Participant is a contest entry. The ID is assigned when the participant
// is created, not by the store.
type Participant struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Team           string    `json:"team"`
	EngineCapacity int       `json:"engine_capacity"`
}

// SameIdentity reports whether two participants denote the same entry.
// The ID is excluded: two records with equal name, team and engine
// capacity are duplicates of each other.
func (p Participant) SameIdentity(other Participant) bool {
	return p.FirstName == other.FirstName &&
		p.LastName == other.LastName &&
		p.Team == other.Team &&
		p.EngineCapacity == other.EngineCapacity
}
