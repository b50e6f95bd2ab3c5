package voices

import (
	"encoding/json"
	"fmt"
	"os"
)

// PresetVoice is a voice reference pre-registered by the operator,
// addressable by a stable key.
type PresetVoice struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Registry resolves preset voice keys to provider voice references.
// Lookup strategy is swappable; the file-backed implementation below
// re-reads storage on every call, trading throughput for simplicity.
type Registry interface {
	// Lookup returns the preset for key and whether it exists.
	Lookup(key string) (PresetVoice, bool, error)
	// All returns every registered preset keyed by its stable key.
	All() (map[string]PresetVoice, error)
}

// FileRegistry reads presets from a JSON file of the shape
// {"preset_voices": {"key": {"id": "...", ...}}} on each lookup.
type FileRegistry struct {
	path string
}

// Ensure FileRegistry implements the Registry interface
var _ Registry = (*FileRegistry)(nil)

// NewFileRegistry creates a registry backed by the JSON file at path.
func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{path: path}
}

// Lookup implements Registry
func (r *FileRegistry) Lookup(key string) (PresetVoice, bool, error) {
	presets, err := r.All()
	if err != nil {
		return PresetVoice{}, false, err
	}
	voice, ok := presets[key]
	return voice, ok, nil
}

// All implements Registry. A missing file yields an empty registry
// rather than an error, so a deployment without presets still serves
// cloned voices.
func (r *FileRegistry) All() (map[string]PresetVoice, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]PresetVoice{}, nil
		}
		return nil, fmt.Errorf("failed to read preset voices: %w", err)
	}

	var parsed struct {
		PresetVoices map[string]PresetVoice `json:"preset_voices"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse preset voices: %w", err)
	}
	if parsed.PresetVoices == nil {
		return map[string]PresetVoice{}, nil
	}

	return parsed.PresetVoices, nil
}
