package cityconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/roadquiz/internal/match"
	"github.com/roach88/roadquiz/internal/paint"
	"github.com/roach88/roadquiz/internal/textnorm"
)

// Config is one city's tuning data as declared in its CUE package.
// Every field is empirically tuned; none of it is algorithm behavior.
type Config struct {
	// City is the city identifier the config belongs to.
	City string `json:"city"`

	// Popular holds the curated popular-name sets.
	Popular PopularSets `json:"popular"`

	// ArterialClasses overrides the default highway classes that
	// major-popular names are restricted to.
	ArterialClasses []string `json:"arterialClasses"`

	// DefaultColor is the color for unmatched features.
	DefaultColor string `json:"defaultColor"`

	// Labels maps tokens to display-label overrides.
	Labels map[string]string `json:"labels"`

	// Colors maps tokens to manual color overrides.
	Colors map[string]string `json:"colors"`

	// Exemptions are regional refs excluded from broad matches unless
	// explicitly requested.
	Exemptions []Exemption `json:"exemptions"`
}

// PopularSets splits popular names by the road class that carries
// them.
type PopularSets struct {
	Major       []string `json:"major"`
	Residential []string `json:"residential"`
}

// Exemption excludes a ref unless one of the listed tokens is active.
type Exemption struct {
	Ref    string   `json:"ref"`
	Unless []string `json:"unless"`
}

// Load reads and validates a city config from a directory of CUE
// files. The files must declare a CUE package; package-less files are
// excluded by the loader and make the load fail.
func Load(dir string) (*Config, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing config directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning config directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding city config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.City == "" {
		return fmt.Errorf("city config missing city identifier")
	}
	for i, ex := range c.Exemptions {
		if strings.TrimSpace(ex.Ref) == "" {
			return fmt.Errorf("exemption %d: empty ref", i)
		}
	}
	for token, color := range c.Colors {
		if !strings.HasPrefix(color, "#") {
			return fmt.Errorf("color override for %q is not a hex color: %q", token, color)
		}
	}
	if c.DefaultColor != "" && !strings.HasPrefix(c.DefaultColor, "#") {
		return fmt.Errorf("defaultColor is not a hex color: %q", c.DefaultColor)
	}
	return nil
}

// Popularity builds the matcher's popularity table from the curated
// sets.
func (c *Config) Popularity() match.Popularity {
	return match.NewPopularity(c.Popular.Major, c.Popular.Residential)
}

// LabelOverrides returns the label override map keyed by normalized
// token, as the aggregator expects.
func (c *Config) LabelOverrides() map[string]string {
	if len(c.Labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Labels))
	for token, label := range c.Labels {
		if key := textnorm.Normalize(token); key != "" && label != "" {
			out[key] = label
		}
	}
	return out
}

// PaintOptions converts the config into the predicate compiler's
// option set. Color override keys are normalized so the compiler can
// look them up by matched token.
func (c *Config) PaintOptions() paint.Options {
	opts := paint.Options{
		ArterialClasses: c.ArterialClasses,
		DefaultColor:    c.DefaultColor,
	}
	if len(c.Colors) > 0 {
		opts.Colors = make(map[string]string, len(c.Colors))
		for token, color := range c.Colors {
			if key := textnorm.Normalize(token); key != "" {
				opts.Colors[key] = color
			}
		}
	}
	for _, ex := range c.Exemptions {
		opts.Exemptions = append(opts.Exemptions, paint.ExemptRule{
			Ref:    ex.Ref,
			Unless: ex.Unless,
		})
	}
	return opts
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
