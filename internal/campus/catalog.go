// Package campus holds the built-in campus catalog.
package campus

import (
	_ "embed"
	"errors"
	"fmt"

	"hotgist/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed campuses.yml
var defaultCatalog []byte

type catalogFile struct {
	Campuses []models.Campus `yaml:"campuses"`
}

// Default returns the built-in campus list in catalog order.
func Default() []models.Campus {
	campuses, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded campus catalog is invalid: %v", err))
	}
	return campuses
}

// Parse decodes a YAML campus catalog. IDs must be unique and may not
// shadow the General campus.
func Parse(data []byte) ([]models.Campus, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse campus catalog: %w", err)
	}
	if len(file.Campuses) == 0 {
		return nil, errors.New("campus catalog is empty")
	}

	seen := make(map[string]struct{}, len(file.Campuses))
	for _, c := range file.Campuses {
		if c.ID == "" {
			return nil, errors.New("campus without id")
		}
		if c.ID == models.GeneralCampus {
			return nil, fmt.Errorf("campus id %q is reserved", c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("duplicate campus id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return file.Campuses, nil
}
