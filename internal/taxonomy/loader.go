package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadDir reads YAML category files from dir and merges them into the
// taxonomy, overriding built-in categories with the same ID. A missing
// directory is not an error: the built-in lexicon stays in effect.
// Malformed files are skipped with a log line.
func (t *Taxonomy) LoadDir(dir string, logger *logrus.Logger) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if logger != nil {
			logger.WithField("dir", dir).Debug("no taxonomy directory, using built-in lexicon")
		}
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to list taxonomy files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to list taxonomy files: %w", err)
	}
	files = append(files, ymlFiles...)

	loaded := 0
	for _, file := range files {
		c, err := loadFile(file)
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithField("file", file).Warn("skipping taxonomy file")
			}
			continue
		}
		t.upsert(c)
		loaded++
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{"dir": dir, "loaded": loaded}).Info("taxonomy files loaded")
	}
	return nil
}

func loadFile(path string) (*Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var c Category
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if c.ID == "" {
		return nil, fmt.Errorf("category id is required")
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	if c.Weight <= 0 {
		c.Weight = 10
	}
	if len(c.Phrases) == 0 {
		return nil, fmt.Errorf("category %s has no phrases", c.ID)
	}
	return &c, nil
}

// Save writes a category to dir as <id>.yaml so custom phrase additions
// survive restarts.
func (t *Taxonomy) Save(dir, categoryID string) error {
	c := t.Category(categoryID)
	if c == nil {
		return fmt.Errorf("unknown category: %s", categoryID)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create taxonomy directory: %w", err)
	}

	t.mu.RLock()
	data, err := yaml.Marshal(c)
	t.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}

	filename := filepath.Join(dir, c.ID+".yaml")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write category file: %w", err)
	}
	return nil
}
