package transform

import (
	"fmt"
	"log/slog"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/core"
	"github.com/qft-labs/nupid/internal/curve"
	"github.com/qft-labs/nupid/internal/flavor"
	"github.com/qft-labs/nupid/internal/param"
)

// Assemble builds the transform set for the configured flavor groups over b.
// Each group's curve is evaluated once per channel and the resulting weight
// array is shared by every member flavor; only the input and output names
// differ within a group.
func Assemble(entries map[string]param.Entry, groups []flavor.Group, b binning.Binning) (Set, error) {
	eAxis, ok := b.Axis(binning.AxisEnergy)
	if !ok {
		return Set{}, fmt.Errorf("transform: %w: binning %v has no %q axis",
			core.ErrConfiguration, b.Names(), binning.AxisEnergy)
	}
	centers := eAxis.WeightedCenters()

	var set Set
	for _, g := range groups {
		slog.Debug("assembling PID transforms", "group", g.Key.String())

		entry, err := param.Find(entries, g.Key)
		if err != nil {
			return Set{}, err
		}
		if err := validateChannels(g.Key, entry); err != nil {
			return Set{}, err
		}

		for _, channel := range Channels {
			c, err := curve.Parse(entry[channel])
			if err != nil {
				return Set{}, fmt.Errorf("group %q channel %q: %w", g.Key, channel, err)
			}
			weights, err := curve.Broadcast(curve.EvalAt(c, centers), b)
			if err != nil {
				return Set{}, err
			}
			for _, member := range g.Members {
				set.Transforms = append(set.Transforms, Transform{
					Input:   string(member),
					Output:  OutputName(member, channel),
					Binning: b,
					Weights: weights,
				})
			}
		}
	}
	return set, nil
}

// validateChannels requires the entry's key set to equal the recognized
// output channels exactly.
func validateChannels(key flavor.GroupKey, entry param.Entry) error {
	ok := len(entry) == len(Channels)
	if ok {
		for _, channel := range Channels {
			if _, present := entry[channel]; !present {
				ok = false
				break
			}
		}
	}
	if !ok {
		return fmt.Errorf("transform: %w: group %q parameterization has channels %v, expected exactly %v",
			core.ErrConfiguration, key, entry.Channels(), Channels)
	}
	return nil
}
