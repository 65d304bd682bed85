package domain

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed/clipgenius.yaml
var defaultSeed []byte

// DemoProjectID is the id of the built-in seed project in local mode.
const DemoProjectID = "demo-project"

// LoadSeed returns the project used to populate an empty dashboard. With an
// empty path the embedded ClipGenius project is used.
func LoadSeed(path string) (Project, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Project{}, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("parse seed: %w", err)
	}
	if p.ID == "" {
		p.ID = DemoProjectID
	}
	return p, nil
}

// MarshalSeed renders p in the seed file format.
func MarshalSeed(p Project) ([]byte, error) {
	return yaml.Marshal(p)
}
