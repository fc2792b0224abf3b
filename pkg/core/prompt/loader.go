package prompt

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	hjson "github.com/hjson/hjson-go/v4"
)

// LoadFromDirectory loads prompt templates from baseDir/prompts. Files may
// be plain JSON or Hjson (.json or .hjson); the prompt files get hand-edited
// often enough that comments and trailing commas should not break startup.
func LoadFromDirectory(baseDir string) error {
	dir := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}

	registry := Get()
	loaded := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		ext := filepath.Ext(path)
		if info.IsDir() || (ext != ".json" && ext != ".hjson") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			// Retry as Hjson: normalize to JSON first.
			var v interface{}
			if herr := hjson.Unmarshal(data, &v); herr != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			normalized, _ := json.Marshal(v)
			if err := json.Unmarshal(normalized, &t); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}

		if t.ID == "" {
			rel, _ := filepath.Rel(dir, path)
			t.ID = filepath.ToSlash(rel[:len(rel)-len(ext)])
		}
		if err := registry.Register(&t); err != nil {
			return err
		}
		loaded++
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[Prompt] Loaded %d prompt files from %s", loaded, dir)
	return nil
}
