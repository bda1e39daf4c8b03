// internal/models/types.go
package models

import (
	"fmt"
	"strings"
)

// ModelID identifies which backend service a prompt is routed to.
// The set is closed: values outside All() are programming errors.
type ModelID int

const (
	Gemini ModelID = iota
	Mistral
	Llama
)

// All returns every known model in selector order.
func All() []ModelID {
	return []ModelID{Gemini, Mistral, Llama}
}

// Valid reports whether id belongs to the closed set.
func (id ModelID) Valid() bool {
	return id >= Gemini && id <= Llama
}

func (id ModelID) String() string {
	switch id {
	case Gemini:
		return "gemini"
	case Mistral:
		return "mistral"
	case Llama:
		return "llama"
	default:
		return fmt.Sprintf("model(%d)", int(id))
	}
}

// ParseModelID maps a config or flag value onto the closed set.
func ParseModelID(s string) (ModelID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini":
		return Gemini, nil
	case "mistral":
		return Mistral, nil
	case "llama":
		return Llama, nil
	default:
		return 0, fmt.Errorf("unknown model %q", s)
	}
}

// MarshalText lets ModelID appear as a plain string in YAML and JSON.
func (id ModelID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, &ConfigurationError{ID: id}
	}
	return []byte(id.String()), nil
}

func (id *ModelID) UnmarshalText(text []byte) error {
	parsed, err := ParseModelID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ModelInfo contains display information for a model
type ModelInfo struct {
	ID    ModelID
	Name  string // Display name
	Color string // Hex color for UI
}

// Info returns display information for id.
func Info(id ModelID) ModelInfo {
	switch id {
	case Gemini:
		return ModelInfo{ID: id, Name: "Gemini", Color: "#9B5DE5"}
	case Mistral:
		return ModelInfo{ID: id, Name: "Mistral", Color: "#F15BB5"}
	case Llama:
		return ModelInfo{ID: id, Name: "LLaMA", Color: "#00BBF9"}
	default:
		return ModelInfo{ID: id, Name: id.String(), Color: "#FFFFFF"}
	}
}
