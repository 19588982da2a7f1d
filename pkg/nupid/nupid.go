package nupid

import (
	"log/slog"

	"github.com/qft-labs/nupid/internal/config"
	"github.com/qft-labs/nupid/internal/model"
	"github.com/qft-labs/nupid/internal/param"
	"github.com/qft-labs/nupid/internal/stage"
)

// Axis declares one binning dimension.
type Axis struct {
	Name  string
	Edges []float64
	Scale string // "linear" (default) or "log"
}

// Config describes one PID stage. Exactly one of ParamFile and Params must
// be set.
type Config struct {
	// Particles is "neutrinos" or "muons".
	Particles string
	// InputNames are the per-flavor histograms the stage consumes.
	InputNames []string
	// TransformGroups are the flavor groups sharing a parameterization,
	// e.g. "numu_cc+numubar_cc".
	TransformGroups []string
	// InputBinning must contain the "reco_energy" axis; "reco_coszen" as a
	// second axis is the only supported multi-dimensional case.
	InputBinning []Axis
	// OutputBinning is optional; when empty the input binning is requested.
	// A "pid" classification axis is appended at output time unless the
	// declaration already carries one.
	OutputBinning []Axis
	// ParamFile is the path of a JSON parameterization resource.
	ParamFile string
	// Params is an inline parameterization mapping group names to
	// {"trck": expr, "cscd": expr}.
	Params map[string]map[string]string
}

// Map is a named histogram. Bin contents are flat in row-major order with
// respect to the declared axis order.
type Map struct {
	Name string
	Hist []float64
}

// MapSet is an ordered collection of maps.
type MapSet struct {
	Name string
	Maps []Map
}

// Transform summarizes one assembled per-bin weighting.
type Transform struct {
	Input   string
	Output  string
	Shape   []int
	Weights []float64
}

// PID is one parameterized-PID stage instance. Not safe for concurrent use.
type PID struct {
	stage *stage.Stage
}

// New validates cfg and builds the stage.
func New(cfg Config, opts ...Option) (*PID, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	icfg := config.Config{
		Particles:       cfg.Particles,
		InputNames:      config.StringList(cfg.InputNames),
		TransformGroups: config.StringList(cfg.TransformGroups),
		Binning: config.BinningConfig{
			Input:  axisConfigs(cfg.InputBinning),
			Output: axisConfigs(cfg.OutputBinning),
		},
		PID: config.PIDConfig{ParamFile: cfg.ParamFile, Params: cfg.Params},
	}
	if err := icfg.Validate(); err != nil {
		return nil, err
	}

	var reader param.Reader
	if o.readFile != nil {
		reader = readerFunc(o.readFile)
	}
	st, err := stage.FromConfig(icfg, reader, o.logger)
	if err != nil {
		return nil, err
	}
	return &PID{stage: st}, nil
}

func axisConfigs(axes []Axis) []config.AxisConfig {
	if len(axes) == 0 {
		return nil
	}
	out := make([]config.AxisConfig, len(axes))
	for i, ax := range axes {
		out[i] = config.AxisConfig{Name: ax.Name, Edges: ax.Edges, Scale: ax.Scale}
	}
	return out
}

type readerFunc func(path string) ([]byte, error)

func (f readerFunc) ReadFile(path string) ([]byte, error) { return f(path) }

// Transforms assembles and returns the current transform set.
func (p *PID) Transforms() ([]Transform, error) {
	set, err := p.stage.ComputeTransforms()
	if err != nil {
		return nil, err
	}
	out := make([]Transform, len(set.Transforms))
	for i, t := range set.Transforms {
		out[i] = Transform{
			Input:   t.Input,
			Output:  t.Output,
			Shape:   t.Binning.Shape(),
			Weights: t.Weights,
		}
	}
	return out, nil
}

// Apply weights the input histograms into per-flavor "_trck" and "_cscd"
// maps, without recombination.
func (p *PID) Apply(inputs MapSet) (MapSet, error) {
	out, err := p.stage.Apply(p.toInternal(inputs))
	if err != nil {
		return MapSet{}, err
	}
	return fromInternal(out), nil
}

// Outputs weights the input histograms and recombines each flavor's channel
// pair under a trailing classification axis of size two, ordered
// (cascade, track).
func (p *PID) Outputs(inputs MapSet) (MapSet, error) {
	out, err := p.stage.Outputs(p.toInternal(inputs))
	if err != nil {
		return MapSet{}, err
	}
	return fromInternal(out), nil
}

func (p *PID) toInternal(in MapSet) model.MapSet {
	out := model.MapSet{Name: in.Name, Maps: make([]model.Map, len(in.Maps))}
	for i, m := range in.Maps {
		out.Maps[i] = model.Map{Name: m.Name, Binning: p.stage.InputBinning(), Hist: m.Hist}
	}
	return out
}

func fromInternal(in model.MapSet) MapSet {
	out := MapSet{Name: in.Name, Maps: make([]Map, len(in.Maps))}
	for i, m := range in.Maps {
		out.Maps[i] = Map{Name: m.Name, Hist: m.Hist}
	}
	return out
}
