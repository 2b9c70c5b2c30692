package cityconf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roadquiz/internal/textnorm"
)

// City is one registry entry: where a city's built catalog and tuning
// config live.
type City struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Catalog string `yaml:"catalog"`
	Config  string `yaml:"config"`
}

// Registry is the list of cities the application knows about.
type Registry struct {
	Cities []City `yaml:"cities"`
}

// LoadRegistry reads and validates the YAML city registry.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading city registry: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing city registry: %w", err)
	}
	if len(reg.Cities) == 0 {
		return nil, fmt.Errorf("city registry %s lists no cities", path)
	}

	seen := map[string]bool{}
	for i, city := range reg.Cities {
		id := textnorm.Normalize(city.ID)
		if id == "" {
			return nil, fmt.Errorf("city %d: empty id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate city id %q", id)
		}
		seen[id] = true
	}
	return &reg, nil
}

// Find looks up a city by identifier, case-insensitively.
func (r *Registry) Find(id string) (City, bool) {
	want := textnorm.Normalize(id)
	for _, city := range r.Cities {
		if textnorm.Normalize(city.ID) == want {
			return city, true
		}
	}
	return City{}, false
}
