// Package binning describes the discretization of reconstructed event
// variables into named, ordered histogram axes.
package binning

import (
	"fmt"
	"math"

	"github.com/qft-labs/nupid/internal/core"
)

// Axis names recognized by the PID stage.
const (
	AxisEnergy  = "reco_energy"
	AxisCosZen  = "reco_coszen"
	AxisAzimuth = "reco_azimuth"
	AxisPID     = "pid"
)

// Scale selects how weighted bin centers are derived from bin edges.
type Scale string

const (
	// ScaleLinear places the weighted center at the arithmetic midpoint.
	ScaleLinear Scale = "linear"
	// ScaleLog places the weighted center at the geometric mean, the
	// weighted centroid of a bin under a log-uniform event density.
	ScaleLog Scale = "log"
)

// Axis is one binning dimension: a name plus strictly increasing bin edges.
type Axis struct {
	Name  string
	Edges []float64
	Scale Scale
}

// NewAxis builds an axis, checking that edges form at least one bin and
// increase strictly. Log-scaled axes additionally require positive edges.
func NewAxis(name string, edges []float64, scale Scale) (Axis, error) {
	if name == "" {
		return Axis{}, fmt.Errorf("binning: %w: axis needs a name", core.ErrConfiguration)
	}
	if len(edges) < 2 {
		return Axis{}, fmt.Errorf("binning: %w: axis %q needs at least 2 edges, got %d",
			core.ErrConfiguration, name, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return Axis{}, fmt.Errorf("binning: %w: axis %q edges must increase strictly at index %d",
				core.ErrConfiguration, name, i)
		}
	}
	switch scale {
	case ScaleLinear, ScaleLog:
	case "":
		scale = ScaleLinear
	default:
		return Axis{}, fmt.Errorf("binning: %w: axis %q has unknown scale %q",
			core.ErrConfiguration, name, scale)
	}
	if scale == ScaleLog && edges[0] <= 0 {
		return Axis{}, fmt.Errorf("binning: %w: axis %q is log-scaled but has non-positive edges",
			core.ErrConfiguration, name)
	}
	return Axis{Name: name, Edges: edges, Scale: scale}, nil
}

// NBins returns the number of bins on the axis.
func (a Axis) NBins() int { return len(a.Edges) - 1 }

// WeightedCenters returns the weighted centroid of each bin: the arithmetic
// midpoint for linear axes, the geometric mean for log axes.
func (a Axis) WeightedCenters() []float64 {
	centers := make([]float64, a.NBins())
	for i := range centers {
		lo, hi := a.Edges[i], a.Edges[i+1]
		if a.Scale == ScaleLog {
			centers[i] = math.Sqrt(lo * hi)
		} else {
			centers[i] = 0.5 * (lo + hi)
		}
	}
	return centers
}

// Binning is an ordered set of uniquely named axes. Flat histogram storage
// over a binning is row-major in the declared axis order.
type Binning struct {
	axes []Axis
}

// New builds a binning from axes, rejecting duplicate axis names.
func New(axes ...Axis) (Binning, error) {
	seen := make(map[string]bool, len(axes))
	for _, ax := range axes {
		if seen[ax.Name] {
			return Binning{}, fmt.Errorf("binning: %w: duplicate axis %q", core.ErrConfiguration, ax.Name)
		}
		seen[ax.Name] = true
	}
	b := Binning{axes: make([]Axis, len(axes))}
	copy(b.axes, axes)
	return b, nil
}

// Axes returns the axes in declaration order.
func (b Binning) Axes() []Axis { return b.axes }

// NDim returns the number of axes.
func (b Binning) NDim() int { return len(b.axes) }

// Names returns the axis names in declaration order.
func (b Binning) Names() []string {
	names := make([]string, len(b.axes))
	for i, ax := range b.axes {
		names[i] = ax.Name
	}
	return names
}

// Axis returns the named axis.
func (b Binning) Axis(name string) (Axis, bool) {
	for _, ax := range b.axes {
		if ax.Name == name {
			return ax, true
		}
	}
	return Axis{}, false
}

// Has reports whether the binning contains the named axis.
func (b Binning) Has(name string) bool {
	_, ok := b.Axis(name)
	return ok
}

// Shape returns the bin count per axis in declaration order.
func (b Binning) Shape() []int {
	shape := make([]int, len(b.axes))
	for i, ax := range b.axes {
		shape[i] = ax.NBins()
	}
	return shape
}

// Size returns the total number of bins across all axes.
func (b Binning) Size() int {
	size := 1
	for _, ax := range b.axes {
		size *= ax.NBins()
	}
	return size
}

// Append returns a new binning with ax added as the last axis.
func (b Binning) Append(ax Axis) (Binning, error) {
	return New(append(append([]Axis{}, b.axes...), ax)...)
}
