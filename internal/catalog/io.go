package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog document.
type File struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads and validates a YAML item catalog.
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Items))
	for i := range f.Items {
		item := &f.Items[i]
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %d has no id", i)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("duplicate catalog item id %q", item.ID)
		}
		seen[item.ID] = true

		if item.Placement == "" {
			item.Placement = PlacementFloor
		}
		switch item.Placement {
		case PlacementFloor, PlacementWall, PlacementCeiling:
		default:
			return nil, fmt.Errorf("item %q: unknown placement %q", item.ID, item.Placement)
		}

		d := item.Dimensions
		if d.Width <= 0 || d.Height <= 0 || d.Depth <= 0 {
			return nil, fmt.Errorf("item %q: dimensions must be positive, got %+v", item.ID, d)
		}
		if item.ModelRef == "" && item.Parametric == nil {
			return nil, fmt.Errorf("item %q: needs a model or a parametric shape", item.ID)
		}
	}

	return f.Items, nil
}
