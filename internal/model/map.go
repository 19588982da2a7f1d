package model

import (
	"fmt"

	"github.com/qft-labs/nupid/internal/binning"
)

// Map is a named histogram over a binning. Bin contents are stored flat in
// row-major order with respect to the binning's declared axis order.
type Map struct {
	Name    string
	Binning binning.Binning
	Hist    []float64
}

// NewMap allocates a zeroed histogram named name over b.
func NewMap(name string, b binning.Binning) Map {
	return Map{Name: name, Binning: b, Hist: make([]float64, b.Size())}
}

// Validate checks that the stored contents match the binning's size.
func (m Map) Validate() error {
	if got, want := len(m.Hist), m.Binning.Size(); got != want {
		return fmt.Errorf("model: map %q has %d bins, binning wants %d", m.Name, got, want)
	}
	return nil
}

// Clone returns a deep copy of the map.
func (m Map) Clone() Map {
	hist := make([]float64, len(m.Hist))
	copy(hist, m.Hist)
	return Map{Name: m.Name, Binning: m.Binning, Hist: hist}
}

// MapSet is an ordered, name-addressable collection of maps.
type MapSet struct {
	Name string
	Maps []Map
}

// Get returns the map with the given name.
func (s MapSet) Get(name string) (Map, bool) {
	for _, m := range s.Maps {
		if m.Name == name {
			return m, true
		}
	}
	return Map{}, false
}

// Names returns the map names in declaration order.
func (s MapSet) Names() []string {
	names := make([]string, len(s.Maps))
	for i, m := range s.Maps {
		names[i] = m.Name
	}
	return names
}
