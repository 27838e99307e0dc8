package models

// Settings are the operator-tunable runtime knobs, persisted in the store.
// Snapshots are passed by value so workers never observe a half-applied
// change.
type Settings struct {
	Workers           int  `json:"workers"`
	SaveNotifications bool `json:"saveNotifications"`
}

const (
	MinWorkers     = 1
	MaxWorkers     = 32
	DefaultWorkers = 8
)

// Clamp bounds the worker count to the supported range.
func (s Settings) Clamp() Settings {
	if s.Workers < MinWorkers {
		s.Workers = MinWorkers
	}
	if s.Workers > MaxWorkers {
		s.Workers = MaxWorkers
	}
	return s
}

// DefaultSettings returns the initial configuration for a fresh install.
func DefaultSettings() Settings {
	return Settings{Workers: DefaultWorkers, SaveNotifications: true}
}
