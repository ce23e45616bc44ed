package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is the serialized form of a scene
type Snapshot struct {
	Grid   Grid     `json:"grid"`
	Tokens []*Token `json:"tokens"`
	Walls  []Wall   `json:"walls"`
}

// LoadSnapshot reads a snapshot from a JSON file
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}

	return &snap, nil
}

// FromSnapshot builds a scene from a snapshot. cfg.Grid is ignored in favour
// of the snapshot grid when the snapshot defines one.
func FromSnapshot(snap *Snapshot, cfg *Config) (*Scene, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is required")
	}

	sceneCfg := Config{}
	if cfg != nil {
		sceneCfg = *cfg
	}
	if snap.Grid.Size > 0 && snap.Grid.Distance > 0 {
		sceneCfg.Grid = snap.Grid
	}

	s := New(&sceneCfg)
	for _, t := range snap.Tokens {
		if err := s.AddToken(t); err != nil {
			return nil, fmt.Errorf("failed to add token: %w", err)
		}
	}
	for _, w := range snap.Walls {
		s.AddWall(w)
	}

	return s, nil
}
