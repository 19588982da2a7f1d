// Package transform builds and applies the per-bin linear weightings that
// split flavor histograms into track-like and cascade-like contributions.
package transform

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/flavor"
	"github.com/qft-labs/nupid/internal/model"
)

// Output channels, in the order entries declare them.
const (
	ChannelTrack   = "trck"
	ChannelCascade = "cscd"
)

// Channels lists the recognized output channels.
var Channels = []string{ChannelTrack, ChannelCascade}

// OutputName derives a channel histogram name, e.g. ("numu_cc", "trck") ->
// "numu_cc_trck".
func OutputName(f flavor.Flavor, channel string) string {
	return string(f) + "_" + channel
}

// Transform is an immutable per-bin multiplicative weighting from one named
// input histogram to one named output histogram. The weight array is shaped
// like the binning and shared read-only between transforms of one group.
type Transform struct {
	Input   string
	Output  string
	Binning binning.Binning
	Weights []float64
}

// Apply weights a copy of m's contents, producing the named output map over
// the same binning. Shape-preserving: no rebinning happens here.
func (t Transform) Apply(m model.Map) (model.Map, error) {
	if m.Name != t.Input {
		return model.Map{}, fmt.Errorf("transform: map %q does not feed transform input %q", m.Name, t.Input)
	}
	if len(m.Hist) != len(t.Weights) {
		return model.Map{}, fmt.Errorf("transform: map %q has %d bins, transform %q wants %d",
			m.Name, len(m.Hist), t.Output, len(t.Weights))
	}
	hist := make([]float64, len(m.Hist))
	copy(hist, m.Hist)
	floats.Mul(hist, t.Weights)
	return model.Map{Name: t.Output, Binning: t.Binning, Hist: hist}, nil
}

// Set is the ordered collection of transforms for one stage evaluation.
// Constructed by Assemble, consumed by the apply step, then discarded.
type Set struct {
	Transforms []Transform
}

// ForInput returns the transforms fed by the named input histogram.
func (s Set) ForInput(name string) []Transform {
	var out []Transform
	for _, t := range s.Transforms {
		if t.Input == name {
			out = append(out, t)
		}
	}
	return out
}
