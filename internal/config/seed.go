package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedCategory is one entry of the category seed file.
type SeedCategory struct {
	NameEn      string   `yaml:"name_en"`
	NameVi      string   `yaml:"name_vi"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

type seedFile struct {
	Categories []SeedCategory `yaml:"categories"`
}

// LoadCategorySeed parses the YAML category seed file.
func LoadCategorySeed(path string) ([]SeedCategory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading category seed: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing category seed: %w", err)
	}

	for i, c := range f.Categories {
		if c.NameEn == "" {
			return nil, fmt.Errorf("category seed entry %d: name_en is required", i)
		}
	}
	return f.Categories, nil
}
