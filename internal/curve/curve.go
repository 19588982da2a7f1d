// Package curve evaluates energy-dependent PID probability functions.
//
// Expressions form a small closed language: a curve is either a numeric
// literal (a constant) or a named form with arguments, e.g.
//
//	0.9
//	linear(0.002, 0.5)
//	offset(0.05, scale(0.85, norm(10, 3)))
//
// Arguments are numbers or nested curves. New forms attach through
// Register. Evaluated values are used as-is downstream: nothing clips or
// renormalizes them to [0, 1], and the track and cascade channels of a
// group need not sum to one.
package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/core"
)

// Curve is a scalar function of reconstructed energy.
type Curve interface {
	Eval(e float64) float64
}

// Arg is one parsed argument of a curve form: a numeric literal or a
// nested curve.
type Arg struct {
	Curve Curve
	Num   float64
	IsNum bool
}

// Number returns the argument as a numeric literal.
func (a Arg) Number(form string, i int) (float64, error) {
	if !a.IsNum {
		return 0, fmt.Errorf("curve: %w: %s wants a number for argument %d, got a curve",
			core.ErrParamFormat, form, i+1)
	}
	return a.Num, nil
}

// Inner returns the argument as a curve. Numeric literals degrade to
// constant curves.
func (a Arg) Inner() Curve {
	if a.IsNum {
		return constant(a.Num)
	}
	return a.Curve
}

func arity(form string, args []Arg, want int) error {
	if len(args) != want {
		return fmt.Errorf("curve: %w: %s wants %d arguments, got %d",
			core.ErrParamFormat, form, want, len(args))
	}
	return nil
}

type constant float64

func (c constant) Eval(float64) float64 { return float64(c) }

type linear struct{ slope, intercept float64 }

func (l linear) Eval(e float64) float64 { return l.slope*e + l.intercept }

type logistic struct{ mid, steepness float64 }

func (l logistic) Eval(e float64) float64 {
	return 1 / (1 + math.Exp(-l.steepness*(e-l.mid)))
}

type normCDF struct{ dist distuv.Normal }

func (n normCDF) Eval(e float64) float64 { return n.dist.CDF(e) }

type complement struct{ inner Curve }

func (c complement) Eval(e float64) float64 { return 1 - c.inner.Eval(e) }

type scaled struct {
	k     float64
	inner Curve
}

func (s scaled) Eval(e float64) float64 { return s.k * s.inner.Eval(e) }

type shifted struct {
	b     float64
	inner Curve
}

func (s shifted) Eval(e float64) float64 { return s.b + s.inner.Eval(e) }

func init() {
	Register("const", func(args []Arg) (Curve, error) {
		if err := arity("const", args, 1); err != nil {
			return nil, err
		}
		p, err := args[0].Number("const", 0)
		if err != nil {
			return nil, err
		}
		return constant(p), nil
	})
	Register("linear", func(args []Arg) (Curve, error) {
		if err := arity("linear", args, 2); err != nil {
			return nil, err
		}
		slope, err := args[0].Number("linear", 0)
		if err != nil {
			return nil, err
		}
		intercept, err := args[1].Number("linear", 1)
		if err != nil {
			return nil, err
		}
		return linear{slope: slope, intercept: intercept}, nil
	})
	Register("logistic", func(args []Arg) (Curve, error) {
		if err := arity("logistic", args, 2); err != nil {
			return nil, err
		}
		mid, err := args[0].Number("logistic", 0)
		if err != nil {
			return nil, err
		}
		steep, err := args[1].Number("logistic", 1)
		if err != nil {
			return nil, err
		}
		return logistic{mid: mid, steepness: steep}, nil
	})
	Register("norm", func(args []Arg) (Curve, error) {
		if err := arity("norm", args, 2); err != nil {
			return nil, err
		}
		loc, err := args[0].Number("norm", 0)
		if err != nil {
			return nil, err
		}
		scale, err := args[1].Number("norm", 1)
		if err != nil {
			return nil, err
		}
		if scale <= 0 {
			return nil, fmt.Errorf("curve: %w: norm wants scale > 0, got %v",
				core.ErrParamFormat, scale)
		}
		return normCDF{dist: distuv.Normal{Mu: loc, Sigma: scale}}, nil
	})
	Register("complement", func(args []Arg) (Curve, error) {
		if err := arity("complement", args, 1); err != nil {
			return nil, err
		}
		return complement{inner: args[0].Inner()}, nil
	})
	Register("scale", func(args []Arg) (Curve, error) {
		if err := arity("scale", args, 2); err != nil {
			return nil, err
		}
		k, err := args[0].Number("scale", 0)
		if err != nil {
			return nil, err
		}
		return scaled{k: k, inner: args[1].Inner()}, nil
	})
	Register("offset", func(args []Arg) (Curve, error) {
		if err := arity("offset", args, 2); err != nil {
			return nil, err
		}
		b, err := args[0].Number("offset", 0)
		if err != nil {
			return nil, err
		}
		return shifted{b: b, inner: args[1].Inner()}, nil
	})
}

// EvalAt evaluates c at every energy in centers, yielding the 1-D
// probability curve.
func EvalAt(c Curve, centers []float64) []float64 {
	vals := make([]float64, len(centers))
	for i, e := range centers {
		vals[i] = c.Eval(e)
	}
	return vals
}

// Broadcast expands a 1-D energy curve to a flat array matching b's shape
// and declared axis order. An energy-only binning copies the curve; a
// two-axis binning repeats it across the second axis, transposed when the
// zenith axis is declared first.
func Broadcast(vals []float64, b binning.Binning) ([]float64, error) {
	eAxis, ok := b.Axis(binning.AxisEnergy)
	if !ok {
		return nil, fmt.Errorf("curve: %w: binning %v has no %q axis",
			core.ErrConfiguration, b.Names(), binning.AxisEnergy)
	}
	if len(vals) != eAxis.NBins() {
		return nil, fmt.Errorf("curve: %w: curve has %d values, energy axis has %d bins",
			core.ErrConfiguration, len(vals), eAxis.NBins())
	}

	switch b.NDim() {
	case 1:
		out := make([]float64, len(vals))
		copy(out, vals)
		return out, nil
	case 2:
		axes := b.Axes()
		other := axes[1]
		if other.Name == binning.AxisEnergy {
			other = axes[0]
		}
		nE, nO := eAxis.NBins(), other.NBins()
		out := make([]float64, nE*nO)
		if axes[0].Name == binning.AxisEnergy {
			for iE := 0; iE < nE; iE++ {
				for iO := 0; iO < nO; iO++ {
					out[iE*nO+iO] = vals[iE]
				}
			}
		} else {
			for iO := 0; iO < nO; iO++ {
				for iE := 0; iE < nE; iE++ {
					out[iO*nE+iE] = vals[iE]
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("curve: %w: cannot broadcast over %d binning dimensions %v",
			core.ErrConfiguration, b.NDim(), b.Names())
	}
}
