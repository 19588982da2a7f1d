// Package stage wires the parameterized PID service: it validates the
// analysis binning, derives track/cascade transforms from the configured
// parameterization, applies them to per-flavor input histograms, and
// recombines the results under a trailing classification axis.
package stage

import (
	"fmt"
	"log/slog"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/core"
	"github.com/qft-labs/nupid/internal/flavor"
	"github.com/qft-labs/nupid/internal/model"
	"github.com/qft-labs/nupid/internal/param"
	"github.com/qft-labs/nupid/internal/transform"
)

// Particle kinds the stage can be instantiated for.
const (
	ParticlesNeutrinos = "neutrinos"
	ParticlesMuons     = "muons"
)

// Params collects everything a Stage needs besides the input histograms.
type Params struct {
	// Particles is "neutrinos" or "muons".
	Particles string
	// InputNames are the flavor/interaction histograms the stage consumes.
	InputNames []flavor.Flavor
	// Groups are the transform groups, typically from flavor.ParseGroups.
	Groups []flavor.Group
	// InputBinning bins the input histograms; must contain the energy axis.
	InputBinning binning.Binning
	// OutputBinning is the caller's requested output binning. When it lacks
	// the classification axis a synthetic one is appended at output time.
	OutputBinning binning.Binning
	// Source locates the PID parameterization.
	Source param.Source
	// Reader resolves file sources; nil reads the local filesystem.
	Reader param.Reader
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Stage is one parameterized-PID pipeline stage instance. Not safe for
// concurrent use; the owning pipeline serializes stage evaluation.
type Stage struct {
	particles     string
	inputNames    []flavor.Flavor
	groups        []flavor.Group
	inputBinning  binning.Binning
	outputBinning binning.Binning
	source        param.Source
	loader        *param.Loader
	log           *slog.Logger
}

// New validates p and builds the stage.
func New(p Params) (*Stage, error) {
	if p.Particles != ParticlesNeutrinos && p.Particles != ParticlesMuons {
		return nil, fmt.Errorf("stage: %w: particles must be %q or %q, got %q",
			core.ErrConfiguration, ParticlesNeutrinos, ParticlesMuons, p.Particles)
	}
	if len(p.InputNames) == 0 {
		return nil, fmt.Errorf("stage: %w: no input names configured", core.ErrConfiguration)
	}
	if err := validateBinning(p.InputBinning); err != nil {
		return nil, err
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Stage{
		particles:     p.Particles,
		inputNames:    p.InputNames,
		groups:        p.Groups,
		inputBinning:  p.InputBinning,
		outputBinning: p.OutputBinning,
		source:        p.Source,
		loader:        param.NewLoader(p.Reader),
		log:           log,
	}, nil
}

// validateBinning enforces the supported binning shapes: the energy axis
// must be present, azimuth is unsupported, and the leading axis must be
// energy or zenith.
func validateBinning(b binning.Binning) error {
	if !b.Has(binning.AxisEnergy) {
		return fmt.Errorf("stage: %w: input binning must contain %q",
			core.ErrConfiguration, binning.AxisEnergy)
	}
	if b.Has(binning.AxisAzimuth) {
		return fmt.Errorf("stage: %w: input binning cannot contain %q",
			core.ErrConfiguration, binning.AxisAzimuth)
	}
	if first := b.Names()[0]; first != binning.AxisEnergy && first != binning.AxisCosZen {
		return fmt.Errorf("stage: %w: unexpected first binning dimension %q",
			core.ErrConfiguration, first)
	}
	return nil
}

// ComputeTransforms loads the parameterization (a cached no-op when the
// source is unchanged) and assembles the transform set over the input
// binning. Transforms keep input and output binning identical: the stage
// weights bins, it does not rebin.
func (s *Stage) ComputeTransforms() (transform.Set, error) {
	s.log.Debug("updating parameterized PID transforms", "source", s.source.String())
	entries, err := s.loader.Load(s.source)
	if err != nil {
		return transform.Set{}, err
	}
	return transform.Assemble(entries, s.groups, s.inputBinning)
}

// Apply runs every transform against its input map, producing one
// "<flavor>_trck" and one "<flavor>_cscd" map per input flavor.
func (s *Stage) Apply(inputs model.MapSet) (model.MapSet, error) {
	set, err := s.ComputeTransforms()
	if err != nil {
		return model.MapSet{}, err
	}
	out := model.MapSet{Name: inputs.Name}
	for _, t := range set.Transforms {
		in, ok := inputs.Get(t.Input)
		if !ok {
			return model.MapSet{}, fmt.Errorf("stage: %w: inputs are missing map %q",
				core.ErrConfiguration, t.Input)
		}
		m, err := t.Apply(in)
		if err != nil {
			return model.MapSet{}, err
		}
		out.Maps = append(out.Maps, m)
	}
	return out, nil
}

// Outputs applies the transforms and recombines each flavor's channel pair
// into a single histogram with a classification axis of size two, ordered
// (cascade, track) and placed last. When the configured output binning has
// no classification axis, a synthetic two-bin one is appended; when it
// declares the axis, that binning is used verbatim.
func (s *Stage) Outputs(inputs model.MapSet) (model.MapSet, error) {
	applied, err := s.Apply(inputs)
	if err != nil {
		return model.MapSet{}, err
	}

	outBinning := s.outputBinning
	if !outBinning.Has(binning.AxisPID) {
		pidAxis, err := binning.NewAxis(binning.AxisPID, []float64{0, 1, 2}, binning.ScaleLinear)
		if err != nil {
			return model.MapSet{}, err
		}
		outBinning, err = outBinning.Append(pidAxis)
		if err != nil {
			return model.MapSet{}, err
		}
	}

	out := model.MapSet{Name: inputs.Name}
	for _, name := range s.inputNames {
		cscd, ok := applied.Get(transform.OutputName(name, transform.ChannelCascade))
		if !ok {
			return model.MapSet{}, fmt.Errorf("stage: %w: no cascade map for %q",
				core.ErrConfiguration, name)
		}
		trck, ok := applied.Get(transform.OutputName(name, transform.ChannelTrack))
		if !ok {
			return model.MapSet{}, fmt.Errorf("stage: %w: no track map for %q",
				core.ErrConfiguration, name)
		}
		hist := make([]float64, 2*len(cscd.Hist))
		for i := range cscd.Hist {
			hist[2*i] = cscd.Hist[i]
			hist[2*i+1] = trck.Hist[i]
		}
		out.Maps = append(out.Maps, model.Map{Name: string(name), Binning: outBinning, Hist: hist})
	}
	return out, nil
}

// CheckTransforms performs no post-hoc validation: transforms are fully
// checked during construction.
func (s *Stage) CheckTransforms(transform.Set) error { return nil }

// CheckOutputs performs no post-hoc validation.
func (s *Stage) CheckOutputs(model.MapSet) error { return nil }

// InputBinning returns the stage's input binning.
func (s *Stage) InputBinning() binning.Binning { return s.inputBinning }

// InputNames returns the configured input histogram names.
func (s *Stage) InputNames() []flavor.Flavor { return s.inputNames }

// Groups returns the configured transform groups.
func (s *Stage) Groups() []flavor.Group { return s.groups }
