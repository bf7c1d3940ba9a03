package world

import "sort"

// Achievements counts how many times each unlock condition has fired this
// episode. An achievement is unlocked once its counter is positive; counters
// only ever grow, so unlocks are monotonic by construction.
type Achievements map[string]int

func (a Achievements) Inc(name string) {
	a[name]++
}

func (a Achievements) Unlocked(name string) bool {
	return a[name] > 0
}

// UnlockedNames returns the unlocked achievement names, sorted.
func (a Achievements) UnlockedNames() []string {
	names := make([]string, 0, len(a))
	for name, n := range a {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (a Achievements) Clone() Achievements {
	c := make(Achievements, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}
