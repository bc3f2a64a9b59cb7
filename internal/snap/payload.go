package snap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Meta carries payload-level annotations.
type Meta struct {
	Name string `json:"name"`
}

// Payload is the decoded form of one snapshot blob: everything captured at
// backup time, in the shape it is persisted.
type Payload struct {
	Timestamp time.Time      `json:"timestamp"`
	Workspace Tree           `json:"workspace"`
	Memory    []NamedContent `json:"memory"`
	Config    map[string]any `json:"config"`
	Meta      Meta           `json:"meta"`
}

// ReadAssistantConfig loads the assistant's config file as an opaque JSON
// object. The contents are captured and restored without interpretation.
// A missing file yields an empty map, not an error.
func ReadAssistantConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := map[string]any{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteAssistantConfig overwrites the config file with the pretty-printed
// form of cfg.
func WriteAssistantConfig(path string, cfg map[string]any) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
