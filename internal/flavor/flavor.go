// Package flavor names neutrino flavor/interaction combinations and the
// groups of them that share a PID parameterization.
package flavor

import (
	"fmt"
	"strings"

	"github.com/qft-labs/nupid/internal/core"
)

// antiMarker is the conventional antiflavor marker embedded in identifiers,
// as in "numubar_cc".
const antiMarker = "bar"

// Flavor identifies one flavor/interaction combination, e.g. "numu_cc",
// "nuebar_cc" or the grouped NC identifiers "nuall_nc" and "nuallbar_nc".
type Flavor string

// IsAnti reports whether the identifier carries the antiflavor marker.
func (f Flavor) IsAnti() bool { return strings.Contains(string(f), antiMarker) }

// Bare strips the first antiflavor marker from the identifier, turning
// "numubar_cc" into "numu_cc". Identifiers without the marker are returned
// unchanged.
func (f Flavor) Bare() Flavor { return Flavor(strings.Replace(string(f), antiMarker, "", 1)) }

// Pair is a flavor together with its antiflavor, sharing one parameterization.
type Pair struct {
	Flavor Flavor
	Anti   Flavor
}

// GroupKey names a flavor group. It is either a single flavor or a
// flavor/antiflavor pair, decided once when the configuration is parsed.
// The raw spelling is retained for exact parameterization lookup.
type GroupKey struct {
	raw  string
	pair *Pair
}

// ParseGroupKey parses a group name such as "numu_cc" or
// "numu_cc+numubar_cc". A combined form whose second half does not reduce
// to the first after stripping the antiflavor marker is not a valid
// flavor/antiflavor pair and fails the lookup contract.
func ParseGroupKey(s string) (GroupKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return GroupKey{}, fmt.Errorf("flavor: %w: empty group name", core.ErrConfiguration)
	}
	if !strings.Contains(s, "+") {
		return GroupKey{raw: s}, nil
	}
	parts := strings.Split(s, "+")
	if len(parts) != 2 {
		return GroupKey{}, fmt.Errorf("flavor: %w: expected a joined flavor of the form nu+nubar, got %q",
			core.ErrLookup, s)
	}
	nu, anti := Flavor(parts[0]), Flavor(parts[1])
	if anti.Bare() != nu {
		return GroupKey{}, fmt.Errorf("flavor: %w: expected a joined flavor of the form nu+nubar, got %q",
			core.ErrLookup, s)
	}
	return GroupKey{raw: s, pair: &Pair{Flavor: nu, Anti: anti}}, nil
}

// String returns the key's raw spelling.
func (k GroupKey) String() string { return k.raw }

// Pair returns the flavor/antiflavor pair, if the key is a combined form.
func (k GroupKey) Pair() (Pair, bool) {
	if k.pair == nil {
		return Pair{}, false
	}
	return *k.pair, true
}

// Flavors returns the flavors the key denotes.
func (k GroupKey) Flavors() []Flavor {
	if k.pair != nil {
		return []Flavor{k.pair.Flavor, k.pair.Anti}
	}
	return []Flavor{Flavor(k.raw)}
}

// Contains reports whether f is one of the key's flavors.
func (k GroupKey) Contains(f Flavor) bool {
	for _, g := range k.Flavors() {
		if g == f {
			return true
		}
	}
	return false
}

// Group is a flavor group together with the configured input names that
// belong to it. Transforms are computed once per group and emitted once
// per member.
type Group struct {
	Key     GroupKey
	Members []Flavor
}

// ParseGroups resolves group name strings against the configured input
// names. Input names must partition exactly: every input belongs to one and
// only one group.
func ParseGroups(specs []string, inputs []Flavor) ([]Group, error) {
	groups := make([]Group, 0, len(specs))
	owner := make(map[Flavor]string, len(inputs))
	for _, spec := range specs {
		key, err := ParseGroupKey(spec)
		if err != nil {
			return nil, err
		}
		g := Group{Key: key}
		for _, in := range inputs {
			if !key.Contains(in) {
				continue
			}
			if prev, ok := owner[in]; ok {
				return nil, fmt.Errorf("flavor: %w: input %q belongs to both group %q and group %q",
					core.ErrConfiguration, in, prev, key)
			}
			owner[in] = key.String()
			g.Members = append(g.Members, in)
		}
		groups = append(groups, g)
	}
	for _, in := range inputs {
		if _, ok := owner[in]; !ok {
			return nil, fmt.Errorf("flavor: %w: input %q belongs to no configured transform group",
				core.ErrConfiguration, in)
		}
	}
	return groups, nil
}

// SplitList splits a comma-separated identifier list, dropping whitespace,
// e.g. "numu_cc, numubar_cc" -> ["numu_cc", "numubar_cc"].
func SplitList(s string) []string {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Flavors converts a list of identifier strings.
func Flavors(names []string) []Flavor {
	out := make([]Flavor, len(names))
	for i, n := range names {
		out[i] = Flavor(n)
	}
	return out
}
