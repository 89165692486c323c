// Package export serializes articles to and from JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuchialin/goldpen/internal/models"
)

// WriteFile writes one article to path as indented JSON, creating parent
// directories as needed.
func WriteFile(path string, article *models.Article) error {
	return write(path, article)
}

// WriteList writes a list of articles to path.
func WriteList(path string, articles []models.Article) error {
	return write(path, articles)
}

func write(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads one exported article back from path.
func ReadFile(path string) (*models.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var article models.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &article, nil
}

// ReadList reads an exported article list back from path.
func ReadList(path string) ([]models.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var articles []models.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return articles, nil
}
