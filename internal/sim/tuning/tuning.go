package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the gameplay balance knobs. Defaults() matches tuning.yaml;
// loading the file exists so balance changes stay a data edit.
type Tuning struct {
	MaxSteps      int  `yaml:"max_steps"`
	DayNightCycle bool `yaml:"day_night_cycle"`
	DayTicks      int  `yaml:"day_ticks"`
	ViewRadius    int  `yaml:"view_radius"`

	HungerEnabled  bool `yaml:"hunger_enabled"`
	HungerRate     int  `yaml:"hunger_rate"`
	ThirstEnabled  bool `yaml:"thirst_enabled"`
	ThirstRate     int  `yaml:"thirst_rate"`
	FatigueEnabled bool `yaml:"fatigue_enabled"`

	TreeDensity     float64 `yaml:"tree_density"`
	CoalDensity     float64 `yaml:"coal_density"`
	IronDensity     float64 `yaml:"iron_density"`
	DiamondDensity  float64 `yaml:"diamond_density"`
	CowDensity      float64 `yaml:"cow_density"`
	ZombieDensity   float64 `yaml:"zombie_density"`
	SkeletonDensity float64 `yaml:"skeleton_density"`

	ZombieSpawnRate   float64 `yaml:"zombie_spawn_rate"`
	ZombieDespawnRate float64 `yaml:"zombie_despawn_rate"`
	CowSpawnRate      float64 `yaml:"cow_spawn_rate"`
	CowDespawnRate    float64 `yaml:"cow_despawn_rate"`

	ZombieDamageMult float64 `yaml:"zombie_damage_mult"`
	ArrowDamageMult  float64 `yaml:"arrow_damage_mult"`
	PlayerDamageMult float64 `yaml:"player_damage_mult"`

	CowHealth      int `yaml:"cow_health"`
	ZombieHealth   int `yaml:"zombie_health"`
	SkeletonHealth int `yaml:"skeleton_health"`

	StarterItems map[string]int `yaml:"starter_items"`

	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile is a named partial override set (easy, hard, fast_training).
// Only present fields override the base tuning.
type Profile struct {
	MaxSteps      *int  `yaml:"max_steps"`
	DayNightCycle *bool `yaml:"day_night_cycle"`

	HungerEnabled  *bool `yaml:"hunger_enabled"`
	HungerRate     *int  `yaml:"hunger_rate"`
	ThirstEnabled  *bool `yaml:"thirst_enabled"`
	ThirstRate     *int  `yaml:"thirst_rate"`
	FatigueEnabled *bool `yaml:"fatigue_enabled"`

	DiamondDensity  *float64 `yaml:"diamond_density"`
	ZombieDensity   *float64 `yaml:"zombie_density"`
	SkeletonDensity *float64 `yaml:"skeleton_density"`

	ZombieDamageMult *float64 `yaml:"zombie_damage_mult"`
	ArrowDamageMult  *float64 `yaml:"arrow_damage_mult"`
}

// Defaults returns the built-in balance sheet, identical to tuning.yaml.
func Defaults() Tuning {
	return Tuning{
		MaxSteps:      10000,
		DayNightCycle: true,
		DayTicks:      300,
		ViewRadius:    4,

		HungerEnabled:  true,
		HungerRate:     25,
		ThirstEnabled:  true,
		ThirstRate:     20,
		FatigueEnabled: true,

		TreeDensity:     1.0,
		CoalDensity:     1.0,
		IronDensity:     1.0,
		DiamondDensity:  1.0,
		CowDensity:      1.0,
		ZombieDensity:   1.0,
		SkeletonDensity: 1.0,

		ZombieSpawnRate:   0.3,
		ZombieDespawnRate: 0.4,
		CowSpawnRate:      0.01,
		CowDespawnRate:    0.01,

		ZombieDamageMult: 1.0,
		ArrowDamageMult:  1.0,
		PlayerDamageMult: 1.0,

		CowHealth:      3,
		ZombieHealth:   5,
		SkeletonHealth: 3,
	}
}

// Load reads a tuning file and applies it over Defaults, so a partial file
// is valid.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// WithProfile returns a copy with the named profile's overrides applied.
// An empty name returns the tuning unchanged.
func (t Tuning) WithProfile(name string) (Tuning, error) {
	if name == "" || name == "default" {
		return t, nil
	}
	p, ok := t.Profiles[name]
	if !ok {
		return t, fmt.Errorf("unknown profile %q", name)
	}
	if p.MaxSteps != nil {
		t.MaxSteps = *p.MaxSteps
	}
	if p.DayNightCycle != nil {
		t.DayNightCycle = *p.DayNightCycle
	}
	if p.HungerEnabled != nil {
		t.HungerEnabled = *p.HungerEnabled
	}
	if p.HungerRate != nil {
		t.HungerRate = *p.HungerRate
	}
	if p.ThirstEnabled != nil {
		t.ThirstEnabled = *p.ThirstEnabled
	}
	if p.ThirstRate != nil {
		t.ThirstRate = *p.ThirstRate
	}
	if p.FatigueEnabled != nil {
		t.FatigueEnabled = *p.FatigueEnabled
	}
	if p.DiamondDensity != nil {
		t.DiamondDensity = *p.DiamondDensity
	}
	if p.ZombieDensity != nil {
		t.ZombieDensity = *p.ZombieDensity
	}
	if p.SkeletonDensity != nil {
		t.SkeletonDensity = *p.SkeletonDensity
	}
	if p.ZombieDamageMult != nil {
		t.ZombieDamageMult = *p.ZombieDamageMult
	}
	if p.ArrowDamageMult != nil {
		t.ArrowDamageMult = *p.ArrowDamageMult
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.DayTicks <= 0 {
		return fmt.Errorf("day_ticks must be positive, got %d", t.DayTicks)
	}
	if t.ViewRadius <= 0 {
		return fmt.Errorf("view_radius must be positive, got %d", t.ViewRadius)
	}
	if t.HungerRate <= 0 || t.ThirstRate <= 0 {
		return fmt.Errorf("hunger_rate/thirst_rate must be positive")
	}
	for _, d := range []float64{
		t.TreeDensity, t.CoalDensity, t.IronDensity, t.DiamondDensity,
		t.CowDensity, t.ZombieDensity, t.SkeletonDensity,
	} {
		if d < 0 {
			return fmt.Errorf("densities must be non-negative")
		}
	}
	return nil
}
