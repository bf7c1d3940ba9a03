package world

import (
	"fmt"

	"craftgrid.ai/internal/sim/catalogs"
)

// Material is an index into the material palette. The constants pin the
// palette order of configs/materials.json; CompileRules fails if the data
// file disagrees, so the two cannot drift apart silently.
type Material uint8

const (
	Water Material = iota
	Grass
	Stone
	Path
	Sand
	Tree
	Lava
	Coal
	Iron
	Diamond
	Table
	Furnace

	materialCount
)

var materialNames = [materialCount]string{
	"water", "grass", "stone", "path", "sand", "tree",
	"lava", "coal", "iron", "diamond", "table", "furnace",
}

func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return fmt.Sprintf("material(%d)", uint8(m))
}

// HarvestRule is the compiled interaction rule for a collectable material.
type HarvestRule struct {
	Item     string
	Count    int
	ToolTier int
	Chance   float64 // 0 means certain
	Leaves   Material
}

// MaterialRule is the static behavior of one material, indexed by Material.
type MaterialRule struct {
	Walkable bool
	Deadly   bool
	Harvest  *HarvestRule
}

// Rules is the compiled, read-only material catalog.
type Rules struct {
	Materials [materialCount]MaterialRule
	Digest    string
}

// CompileRules turns the loaded material catalog into indexed rules,
// verifying the palette matches the kernel's material constants.
func CompileRules(cats *catalogs.Catalogs) (*Rules, error) {
	mc := cats.Materials
	if len(mc.Palette) != int(materialCount) {
		return nil, fmt.Errorf("material palette has %d entries, kernel expects %d", len(mc.Palette), materialCount)
	}
	var r Rules
	for i, id := range mc.Palette {
		if materialNames[i] != id {
			return nil, fmt.Errorf("material palette[%d] is %q, kernel expects %q", i, id, materialNames[i])
		}
		def := mc.Defs[id]
		rule := MaterialRule{Walkable: def.Walkable, Deadly: def.Deadly}
		if def.Harvest != nil {
			leaves, ok := mc.Index[def.Harvest.Leaves]
			if !ok {
				return nil, fmt.Errorf("material %q: unknown replacement %q", id, def.Harvest.Leaves)
			}
			rule.Harvest = &HarvestRule{
				Item:     def.Harvest.Item,
				Count:    def.Harvest.Count,
				ToolTier: def.Harvest.ToolTier,
				Chance:   def.Harvest.Chance,
				Leaves:   Material(leaves),
			}
		}
		r.Materials[i] = rule
	}
	r.Digest = mc.Digest
	return &r, nil
}

func (r *Rules) Walkable(m Material) bool {
	return r.Materials[m].Walkable
}

func (r *Rules) Deadly(m Material) bool {
	return r.Materials[m].Deadly
}

func (r *Rules) Harvest(m Material) *HarvestRule {
	return r.Materials[m].Harvest
}
