package snap

import (
	"fmt"
	"os"
	"path/filepath"
)

// NamedContent is one memory file held in full: its name and verbatim text.
// Memory files carry the assistant's long-lived notes, so unlike workspace
// files they are stored completely, with no size cap.
type NamedContent struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// CollectMemory reads every regular file directly under dir, in name order.
// Subdirectories and non-regular entries are ignored. The directory itself
// must exist; callers that tolerate an absent memory directory guard before
// calling.
func CollectMemory(dir string) ([]NamedContent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading memory directory: %w", err)
	}
	files := []NamedContent{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading memory file %s: %w", path, err)
		}
		files = append(files, NamedContent{Name: entry.Name(), Content: string(content)})
	}
	return files, nil
}

// WriteMemory writes each entry into dir, creating the directory if absent.
// Existing files with the same names are overwritten; anything else already
// in dir stays.
func WriteMemory(dir string, files []NamedContent) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating memory directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("writing memory file %s: %w", path, err)
		}
	}
	return nil
}
