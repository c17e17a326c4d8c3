package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"anthill.ai/internal/sim/model"
	"anthill.ai/internal/sim/placement"
	"anthill.ai/internal/sim/world"
)

type Tuning struct {
	Seed uint64 `yaml:"seed"`

	Arena     Arena      `yaml:"arena"`
	Placement Placement  `yaml:"placement"`
	Radii     Radii      `yaml:"radii"`
	Populate  Population `yaml:"populate"`

	SugarVolume float64 `yaml:"sugar_volume"`
}

type Arena struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Placement struct {
	// SampleScale maps the arena size to the sampling extent: 1 samples
	// [-width, width], 0.5 samples [-width/2, width/2].
	SampleScale  float64 `yaml:"sample_scale"`
	MaxTries     int     `yaml:"max_tries"`
	BudgetFactor int     `yaml:"budget_factor"`
}

type Radii struct {
	Ant       float64 `yaml:"ant"`
	AntHill   float64 `yaml:"ant_hill"`
	SugarHill float64 `yaml:"sugar_hill"`
	Raspberry float64 `yaml:"raspberry"`
}

type Population struct {
	SugarHillPairs int `yaml:"sugar_hill_pairs"`
	RaspberryPairs int `yaml:"raspberry_pairs"`
	AntPairs       int `yaml:"ant_pairs"`
}

func Defaults() Tuning {
	r := placement.DefaultRadii()
	return Tuning{
		Seed:  1337,
		Arena: Arena{Width: 64, Height: 64},
		Placement: Placement{
			SampleScale:  0.5,
			MaxTries:     placement.DefaultMaxTries,
			BudgetFactor: placement.DefaultBudgetFactor,
		},
		Radii: Radii{
			Ant:       r[placement.KindAnt],
			AntHill:   r[placement.KindAntHill],
			SugarHill: r[placement.KindSugarHill],
			Raspberry: r[placement.KindRaspberry],
		},
		Populate: Population{
			SugarHillPairs: 8,
			RaspberryPairs: 20,
		},
		SugarVolume: 1,
	}
}

// Load reads a tuning file on top of Defaults. An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Normalize fills zero values with defaults.
func (t *Tuning) Normalize() {
	d := Defaults()
	if t.Arena.Width <= 0 {
		t.Arena.Width = d.Arena.Width
	}
	if t.Arena.Height <= 0 {
		t.Arena.Height = d.Arena.Height
	}
	if t.Placement.SampleScale <= 0 {
		t.Placement.SampleScale = d.Placement.SampleScale
	}
	if t.Placement.MaxTries <= 0 {
		t.Placement.MaxTries = d.Placement.MaxTries
	}
	if t.Placement.BudgetFactor <= 0 {
		t.Placement.BudgetFactor = d.Placement.BudgetFactor
	}
	if t.SugarVolume <= 0 {
		t.SugarVolume = d.SugarVolume
	}
}

func (t Tuning) Validate() error {
	radii := map[string]float64{
		"ant":        t.Radii.Ant,
		"ant_hill":   t.Radii.AntHill,
		"sugar_hill": t.Radii.SugarHill,
		"raspberry":  t.Radii.Raspberry,
	}
	for name, r := range radii {
		if r < 0 {
			return fmt.Errorf("radii.%s must be >= 0, got %v", name, r)
		}
	}
	if t.Populate.SugarHillPairs < 0 || t.Populate.RaspberryPairs < 0 || t.Populate.AntPairs < 0 {
		return fmt.Errorf("populate counts must be >= 0")
	}
	return nil
}

func (t Tuning) Map() model.Map {
	return model.Map{Width: t.Arena.Width, Height: t.Arena.Height}
}

// WorldConfig converts the tuning into the world's construction config.
func (t Tuning) WorldConfig() world.Config {
	m := t.Map()
	return world.Config{
		Map: m,
		Placement: placement.Config{
			Bounds:   placement.BoundsFor(m, t.Placement.SampleScale),
			MaxTries: t.Placement.MaxTries,
			Radii: placement.Radii{
				placement.KindAnt:       t.Radii.Ant,
				placement.KindAntHill:   t.Radii.AntHill,
				placement.KindSugarHill: t.Radii.SugarHill,
				placement.KindRaspberry: t.Radii.Raspberry,
			},
		},
		SugarVolume: t.SugarVolume,
	}
}

func (t Tuning) Population() world.Population {
	return world.Population{
		SugarHillPairs: t.Populate.SugarHillPairs,
		RaspberryPairs: t.Populate.RaspberryPairs,
		AntPairs:       t.Populate.AntPairs,
		BudgetFactor:   t.Placement.BudgetFactor,
	}
}
