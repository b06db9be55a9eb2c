package teams

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Resolver answers whether two team names refer to the same team.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	classOf map[string]int
	classes [][]string
}

// NewResolver builds a Resolver from alias groups. Every member is normalized,
// and groups that share a member are merged into one equivalence class.
func NewResolver(groups ...[]string) *Resolver {
	parent := make(map[string]string)

	var find func(string) string
	find = func(k string) string {
		p, ok := parent[k]
		if !ok {
			parent[k] = k
			return k
		}
		if p == k {
			return k
		}
		root := find(p)
		parent[k] = root
		return root
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for _, group := range groups {
		var first string
		for _, name := range group {
			key := Normalize(name)
			if key == "" {
				continue
			}
			if first == "" {
				first = key
				find(key)
				continue
			}
			union(first, key)
		}
	}

	members := make(map[string][]string)
	for key := range parent {
		root := find(key)
		members[root] = append(members[root], key)
	}

	roots := make([]string, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	r := &Resolver{
		classOf: make(map[string]int, len(parent)),
		classes: make([][]string, 0, len(roots)),
	}
	for i, root := range roots {
		class := members[root]
		sort.Strings(class)
		r.classes = append(r.classes, class)
		for _, key := range class {
			r.classOf[key] = i
		}
	}
	return r
}

// NewDefaultResolver builds a Resolver from the compiled-in alias table plus extra groups
func NewDefaultResolver(extra ...[]string) *Resolver {
	groups := make([][]string, 0, len(DefaultAliasGroups)+len(extra))
	groups = append(groups, DefaultAliasGroups...)
	groups = append(groups, extra...)
	return NewResolver(groups...)
}

// EquivalentKeys returns every normalized key equivalent to name, including its own key
func (r *Resolver) EquivalentKeys(name string) []string {
	key := Normalize(name)
	if key == "" {
		return nil
	}
	if i, ok := r.classOf[key]; ok {
		out := make([]string, len(r.classes[i]))
		copy(out, r.classes[i])
		return out
	}
	return []string{key}
}

// NamesMatch reports whether a and b have intersecting equivalence classes.
// Empty names never match.
func (r *Resolver) NamesMatch(a, b string) bool {
	ka, kb := Normalize(a), Normalize(b)
	if ka == "" || kb == "" {
		return false
	}
	if ka == kb {
		return true
	}
	ca, okA := r.classOf[ka]
	cb, okB := r.classOf[kb]
	return okA && okB && ca == cb
}

// Size returns the number of alias classes
func (r *Resolver) Size() int {
	return len(r.classes)
}

// aliasFile is the on-disk format for additional alias groups
type aliasFile struct {
	Groups [][]string `yaml:"groups"`
}

// LoadAliasFile reads alias groups from a YAML file:
//
//	groups:
//	  - [Saint Peter's, St. Peter's, Saint Peter's Peacocks]
func LoadAliasFile(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	return f.Groups, nil
}
