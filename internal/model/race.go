package model

// Race is a contest class keyed by engine capacity. NoParticipants is
// derived on read from the participants whose engine capacity matches;
// it is never stored authoritatively.
type Race struct {
	ID             int `json:"id"`
	EngineCapacity int `json:"engine_capacity"`
	NoParticipants int `json:"no_participants"`
}
