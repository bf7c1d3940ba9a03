package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Configs(t *testing.T) {
	c, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(c.Materials.Palette) != 12 {
		t.Fatalf("palette has %d materials, want 12", len(c.Materials.Palette))
	}
	if c.Materials.Palette[0] != "water" {
		t.Fatalf("palette[0] = %q, want water", c.Materials.Palette[0])
	}
	if c.Materials.Digest == "" || c.Recipes.Digest == "" || c.Achievements.Digest == "" {
		t.Fatal("empty catalog digest")
	}

	if len(c.Recipes.ByID) != 6 {
		t.Fatalf("%d recipes, want 6", len(c.Recipes.ByID))
	}
	if len(c.Recipes.Placements) != 4 {
		t.Fatalf("%d placements, want 4", len(c.Recipes.Placements))
	}
	if len(c.Achievements.Names) != 22 {
		t.Fatalf("%d achievements, want 22", len(c.Achievements.Names))
	}

	iron, ok := c.Recipes.ByID["make_iron_pickaxe"]
	if !ok {
		t.Fatal("make_iron_pickaxe missing")
	}
	if len(iron.Stations) != 2 {
		t.Fatalf("iron pickaxe needs %d stations, want 2", len(iron.Stations))
	}
}

func TestLoad_DigestStable(t *testing.T) {
	a, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Materials.Digest != b.Materials.Digest {
		t.Fatal("material digest unstable across loads")
	}
}

func TestLoad_RejectsBadReferences(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("materials.json", `{"materials":[
		{"id":"grass","walkable":true,"harvest":{"item":"gold","count":1,"leaves":"grass"}}
	]}`)
	write("recipes.json", `{"recipes":[],"placements":[]}`)
	write("achievements.json", `{"achievements":["collect_wood"]}`)

	if _, err := Load(dir); err == nil {
		t.Fatal("unknown harvest item accepted")
	}
}

func TestLoad_RejectsDuplicateMaterial(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("materials.json", `{"materials":[
		{"id":"grass","walkable":true},
		{"id":"grass","walkable":false}
	]}`)
	write("recipes.json", `{"recipes":[],"placements":[]}`)
	write("achievements.json", `{"achievements":["collect_wood"]}`)

	if _, err := Load(dir); err == nil {
		t.Fatal("duplicate material id accepted")
	}
}
