package geneset

import (
	"sort"

	"generank/domain/core"
)

// GeneSet is a named collection of gene identifiers.
type GeneSet struct {
	Name    core.SetName  `json:"name"`
	Members []core.GeneID `json:"members"`
}

// Size returns the member count.
func (s GeneSet) Size() int {
	return len(s.Members)
}

// MemberSet returns the members as a lookup set.
func (s GeneSet) MemberSet() map[core.GeneID]struct{} {
	set := make(map[core.GeneID]struct{}, len(s.Members))
	for _, g := range s.Members {
		set[g] = struct{}{}
	}
	return set
}

// FilterConfig bounds the size window for retained gene sets. Sets are
// kept only when their filtered member count is strictly between
// MinSize and MaxSize.
type FilterConfig struct {
	MinSize int `json:"min_size"`
	MaxSize int `json:"max_size"`
}

// DefaultFilterConfig returns the standard 10..200 size window.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MinSize: 10, MaxSize: 200}
}

// retains reports whether a filtered member count passes the size
// window. Non-empty sets must fall strictly between MinSize and
// MaxSize; empty sets survive only when MinSize is 0.
func (cfg FilterConfig) retains(size int) bool {
	if size == 0 {
		return cfg.MinSize == 0 && cfg.MaxSize > 0
	}
	return size > cfg.MinSize && size < cfg.MaxSize
}

// Filter restricts each named gene set to members present in the
// universe, then drops sets whose filtered size falls outside the
// configured window. An empty universe yields zero retained sets;
// there is no error path. Output order is deterministic by set name.
func Filter(sets map[core.SetName][]core.GeneID, universe map[core.GeneID]struct{}, cfg FilterConfig) []GeneSet {
	names := make([]core.SetName, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	retained := make([]GeneSet, 0, len(names))
	for _, name := range names {
		members := make([]core.GeneID, 0, len(sets[name]))
		seen := make(map[core.GeneID]struct{}, len(sets[name]))
		for _, g := range sets[name] {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			if _, ok := universe[g]; ok {
				members = append(members, g)
			}
		}

		if !cfg.retains(len(members)) {
			continue
		}

		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		retained = append(retained, GeneSet{Name: name, Members: members})
	}

	return retained
}

// UniverseOf builds a lookup set from an ordered gene universe.
func UniverseOf(genes []core.GeneID) map[core.GeneID]struct{} {
	set := make(map[core.GeneID]struct{}, len(genes))
	for _, g := range genes {
		set[g] = struct{}{}
	}
	return set
}
