// Package catalogs loads the static game-rule data: the material/tile
// catalog, the crafting recipes, and the achievement roster. The resolver
// and the world generator query these and never mutate them; balance
// changes are a data edit under configs/, not a code edit.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Materials    MaterialCatalog
	Recipes      RecipeCatalog
	Achievements AchievementCatalog
}

type MaterialCatalog struct {
	// Palette order fixes the numeric material ids used by the grid and
	// by snapshots; it must stay stable across releases.
	Palette []string
	Index   map[string]uint8
	Defs    map[string]MaterialDef
	Digest  string
}

type MaterialDef struct {
	ID       string      `json:"id"`
	Walkable bool        `json:"walkable"`
	Deadly   bool        `json:"deadly,omitempty"`
	Harvest  *HarvestDef `json:"harvest,omitempty"`
}

// HarvestDef describes what collecting the material yields. ToolTier is the
// minimum pickaxe tier (0 = bare hands). Chance below 1 makes the yield
// probabilistic; the tile is only replaced when Leaves differs from the
// material itself.
type HarvestDef struct {
	Item     string  `json:"item"`
	Count    int     `json:"count"`
	ToolTier int     `json:"tool_tier,omitempty"`
	Chance   float64 `json:"chance,omitempty"`
	Leaves   string  `json:"leaves"`
}

type RecipeCatalog struct {
	ByID       map[string]RecipeDef
	Order      []string
	Placements map[string]PlacementDef
	Digest     string
}

type RecipeDef struct {
	RecipeID string      `json:"recipe_id"`
	Output   string      `json:"output"`
	Inputs   []ItemCount `json:"inputs"`
	Stations []string    `json:"stations"`
}

// PlacementDef is the cost side of a place action. Material is the tile the
// placement produces; the plant placement leaves it empty because planting
// spawns an entity, not a tile.
type PlacementDef struct {
	Action   string      `json:"action"`
	Material string      `json:"material"`
	Inputs   []ItemCount `json:"inputs"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type AchievementCatalog struct {
	Names  []string
	Digest string
}

// Items the inventory can hold, fixed by the kernel. Catalog references are
// validated against this set at load time.
var KnownItems = []string{
	"health", "food", "drink", "energy",
	"sapling", "wood", "stone", "coal", "iron", "diamond",
	"wood_pickaxe", "stone_pickaxe", "iron_pickaxe",
	"wood_sword", "stone_sword", "iron_sword",
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadMaterials(filepath.Join(configDir, "materials.json"), &c.Materials); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadAchievements(filepath.Join(configDir, "achievements.json"), &c.Achievements); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadMaterials(path string, out *MaterialCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("materials: %w", err)
	}
	var file struct {
		Materials []MaterialDef `json:"materials"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("materials: %w", err)
	}
	if len(file.Materials) == 0 {
		return fmt.Errorf("materials: empty catalog")
	}
	if len(file.Materials) > 256 {
		return fmt.Errorf("materials: catalog exceeds uint8 palette (%d)", len(file.Materials))
	}

	out.Index = make(map[string]uint8, len(file.Materials))
	out.Defs = make(map[string]MaterialDef, len(file.Materials))
	for i, def := range file.Materials {
		if def.ID == "" {
			return fmt.Errorf("materials[%d]: missing id", i)
		}
		if _, dup := out.Index[def.ID]; dup {
			return fmt.Errorf("materials: duplicate id %q", def.ID)
		}
		out.Palette = append(out.Palette, def.ID)
		out.Index[def.ID] = uint8(i)
		out.Defs[def.ID] = def
	}
	out.Digest = digestJSON(file.Materials)
	return nil
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("recipes: %w", err)
	}
	var file struct {
		Recipes    []RecipeDef    `json:"recipes"`
		Placements []PlacementDef `json:"placements"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("recipes: %w", err)
	}

	out.ByID = make(map[string]RecipeDef, len(file.Recipes))
	for i, r := range file.Recipes {
		if r.RecipeID == "" {
			return fmt.Errorf("recipes[%d]: missing recipe_id", i)
		}
		if _, dup := out.ByID[r.RecipeID]; dup {
			return fmt.Errorf("recipes: duplicate recipe_id %q", r.RecipeID)
		}
		if len(r.Inputs) == 0 {
			return fmt.Errorf("recipe %q: no inputs", r.RecipeID)
		}
		out.ByID[r.RecipeID] = r
		out.Order = append(out.Order, r.RecipeID)
	}

	out.Placements = make(map[string]PlacementDef, len(file.Placements))
	for i, p := range file.Placements {
		if p.Action == "" {
			return fmt.Errorf("placements[%d]: missing action", i)
		}
		if _, dup := out.Placements[p.Action]; dup {
			return fmt.Errorf("placements: duplicate action %q", p.Action)
		}
		out.Placements[p.Action] = p
	}

	out.Digest = digestJSON(file)
	return nil
}

func loadAchievements(path string, out *AchievementCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("achievements: %w", err)
	}
	var file struct {
		Achievements []string `json:"achievements"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("achievements: %w", err)
	}
	if len(file.Achievements) == 0 {
		return fmt.Errorf("achievements: empty catalog")
	}
	seen := make(map[string]bool, len(file.Achievements))
	for _, name := range file.Achievements {
		if seen[name] {
			return fmt.Errorf("achievements: duplicate %q", name)
		}
		seen[name] = true
	}
	names := append([]string(nil), file.Achievements...)
	sort.Strings(names)
	out.Names = names
	out.Digest = digestJSON(names)
	return nil
}

// validate cross-checks references so a bad data edit fails at startup, not
// mid-episode.
func (c *Catalogs) validate() error {
	items := make(map[string]bool, len(KnownItems))
	for _, it := range KnownItems {
		items[it] = true
	}

	for id, def := range c.Materials.Defs {
		h := def.Harvest
		if h == nil {
			continue
		}
		if !items[h.Item] {
			return fmt.Errorf("material %q: unknown harvest item %q", id, h.Item)
		}
		if h.Count <= 0 {
			return fmt.Errorf("material %q: harvest count must be positive", id)
		}
		if _, ok := c.Materials.Index[h.Leaves]; !ok {
			return fmt.Errorf("material %q: unknown replacement %q", id, h.Leaves)
		}
		if h.Chance < 0 || h.Chance > 1 {
			return fmt.Errorf("material %q: harvest chance out of range", id)
		}
	}

	for id, r := range c.Recipes.ByID {
		if !items[r.Output] {
			return fmt.Errorf("recipe %q: unknown output %q", id, r.Output)
		}
		for _, in := range r.Inputs {
			if !items[in.Item] {
				return fmt.Errorf("recipe %q: unknown input %q", id, in.Item)
			}
			if in.Count <= 0 {
				return fmt.Errorf("recipe %q: input count must be positive", id)
			}
		}
		for _, st := range r.Stations {
			if _, ok := c.Materials.Index[st]; !ok {
				return fmt.Errorf("recipe %q: unknown station %q", id, st)
			}
		}
	}

	for action, p := range c.Recipes.Placements {
		if p.Material != "" {
			if _, ok := c.Materials.Index[p.Material]; !ok {
				return fmt.Errorf("placement %q: unknown material %q", action, p.Material)
			}
		}
		for _, in := range p.Inputs {
			if !items[in.Item] {
				return fmt.Errorf("placement %q: unknown input %q", action, in.Item)
			}
			if in.Count <= 0 {
				return fmt.Errorf("placement %q: input count must be positive", action)
			}
		}
	}
	return nil
}

func digestJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("catalogs: marshal digest: %v", err))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
