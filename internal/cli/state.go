package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// State is the small piece of CLI state that survives between runs.
type State struct {
	ActiveProfile string `json:"active_profile,omitempty"`
}

func statePath(configDir string) string {
	return filepath.Join(configDir, "state.json")
}

// LoadState reads the persisted state. A missing, unreadable, or
// corrupt file is treated as empty state rather than an error.
func LoadState(configDir string) (State, error) {
	var state State
	data, err := os.ReadFile(statePath(configDir))
	if err != nil {
		return state, nil
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, nil
	}
	return state, nil
}

// SaveState writes the persisted state, creating the config dir if
// needed.
func SaveState(configDir string, state State) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(statePath(configDir), data, 0600)
}
