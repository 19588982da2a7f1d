package curve

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/core"
)

func mustParse(t *testing.T, expr string) Curve {
	t.Helper()
	c, err := Parse(expr)
	require.NoError(t, err, "Parse(%q)", expr)
	return c
}

func TestParseBareNumberIsConstant(t *testing.T) {
	c := mustParse(t, "0.9")
	assert.Equal(t, 0.9, c.Eval(1))
	assert.Equal(t, 0.9, c.Eval(1e6))

	c = mustParse(t, "-1.5e-2")
	assert.InDelta(t, -0.015, c.Eval(3), 1e-15)
}

func TestParseConstForm(t *testing.T) {
	c := mustParse(t, "const(0.25)")
	assert.Equal(t, 0.25, c.Eval(42))
}

func TestLinear(t *testing.T) {
	c := mustParse(t, "linear(0.002, 0.5)")
	assert.InDelta(t, 0.5, c.Eval(0), 1e-15)
	assert.InDelta(t, 0.7, c.Eval(100), 1e-15)
}

func TestLogistic(t *testing.T) {
	c := mustParse(t, "logistic(10, 0.5)")
	assert.InDelta(t, 0.5, c.Eval(10), 1e-15)
	assert.Less(t, c.Eval(0), 0.5)
	assert.Greater(t, c.Eval(20), 0.5)
}

func TestNormCDF(t *testing.T) {
	c := mustParse(t, "norm(10, 3)")
	assert.InDelta(t, 0.5, c.Eval(10), 1e-12)
	// One sigma above the mean.
	assert.InDelta(t, 0.8413, c.Eval(13), 1e-3)
	assert.Less(t, c.Eval(1), 0.01)
}

func TestNormRejectsNonPositiveScale(t *testing.T) {
	_, err := Parse("norm(10, 0)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrParamFormat))
}

func TestComplementScaleOffsetNesting(t *testing.T) {
	trck := mustParse(t, "offset(0.05, scale(0.85, norm(10, 3)))")
	cscd := mustParse(t, "complement(offset(0.05, scale(0.85, norm(10, 3))))")
	for _, e := range []float64{1, 5, 10, 50} {
		assert.InDelta(t, 1-trck.Eval(e), cscd.Eval(e), 1e-12)
	}
	assert.InDelta(t, 0.05+0.85*0.5, trck.Eval(10), 1e-9)
}

func TestCurveValuesAreNotClipped(t *testing.T) {
	c := mustParse(t, "linear(1, 0)")
	assert.Equal(t, 100.0, c.Eval(100), "values outside [0,1] pass through")
	c = mustParse(t, "const(-0.5)")
	assert.Equal(t, -0.5, c.Eval(1))
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"frobnicate(1)",
		"const()",
		"const(1, 2)",
		"linear(1)",
		"norm(10 3)",
		"const(0.9) trailing",
		"const(0.9",
		"scale(const(1), 2)",
		"0.9.9.9",
		"(1)",
	} {
		_, err := Parse(expr)
		require.Error(t, err, "Parse(%q) should fail", expr)
		assert.True(t, errors.Is(err, core.ErrParamFormat), "Parse(%q) should wrap ErrParamFormat, got %v", expr, err)
	}
}

func TestRegistryExtension(t *testing.T) {
	Register("halfenergy", func(args []Arg) (Curve, error) {
		if err := arity("halfenergy", args, 0); err != nil {
			return nil, err
		}
		return curveFunc(func(e float64) float64 { return e / 2 }), nil
	})

	c := mustParse(t, "halfenergy()")
	assert.Equal(t, 5.0, c.Eval(10))
	assert.Contains(t, Names(), "halfenergy")
}

type curveFunc func(e float64) float64

func (f curveFunc) Eval(e float64) float64 { return f(e) }

func TestEvalAt(t *testing.T) {
	vals := EvalAt(mustParse(t, "linear(1, 0)"), []float64{1, 10, 100})
	assert.Equal(t, []float64{1, 10, 100}, vals)
}

func energyAxis(t *testing.T, edges ...float64) binning.Axis {
	t.Helper()
	ax, err := binning.NewAxis(binning.AxisEnergy, edges, binning.ScaleLinear)
	require.NoError(t, err)
	return ax
}

func coszenAxis(t *testing.T, edges ...float64) binning.Axis {
	t.Helper()
	ax, err := binning.NewAxis(binning.AxisCosZen, edges, binning.ScaleLinear)
	require.NoError(t, err)
	return ax
}

func TestBroadcastEnergyOnly(t *testing.T) {
	b, err := binning.New(energyAxis(t, 0, 1, 2, 3))
	require.NoError(t, err)

	vals := []float64{0.1, 0.2, 0.3}
	out, err := Broadcast(vals, b)
	require.NoError(t, err)
	assert.Equal(t, vals, out)

	// The output is a copy, never the caller's slice.
	out[0] = 99
	assert.Equal(t, 0.1, vals[0])
}

func TestBroadcastEnergyFirst(t *testing.T) {
	b, err := binning.New(energyAxis(t, 0, 1, 2, 3), coszenAxis(t, -1, 0))
	require.NoError(t, err)

	out, err := Broadcast([]float64{0.1, 0.2, 0.3}, b)
	require.NoError(t, err)
	// Shape (3, 1), row-major: energy varies along the first axis.
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, out)
	assert.Equal(t, b.Size(), len(out))
}

func TestBroadcastZenithFirst(t *testing.T) {
	b, err := binning.New(coszenAxis(t, -1, 0, 1), energyAxis(t, 0, 1, 2, 3))
	require.NoError(t, err)

	out, err := Broadcast([]float64{0.1, 0.2, 0.3}, b)
	require.NoError(t, err)
	// Shape (2, 3), row-major: each zenith row repeats the energy curve.
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.1, 0.2, 0.3}, out)
}

func TestBroadcastIdenticalAcrossZenith(t *testing.T) {
	b, err := binning.New(energyAxis(t, 0, 1, 2), coszenAxis(t, -1, -0.5, 0, 0.5, 1))
	require.NoError(t, err)

	out, err := Broadcast([]float64{0.4, 0.6}, b)
	require.NoError(t, err)
	require.Len(t, out, 8)
	for iz := 0; iz < 4; iz++ {
		assert.Equal(t, 0.4, out[0*4+iz])
		assert.Equal(t, 0.6, out[1*4+iz])
	}
}

func TestBroadcastErrors(t *testing.T) {
	noEnergy, err := binning.New(coszenAxis(t, -1, 0, 1))
	require.NoError(t, err)
	_, err = Broadcast([]float64{0.5, 0.5}, noEnergy)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))

	b, err := binning.New(energyAxis(t, 0, 1, 2, 3))
	require.NoError(t, err)
	_, err = Broadcast([]float64{0.5}, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestBroadcastRejectsThreeDims(t *testing.T) {
	az, err := binning.NewAxis(binning.AxisAzimuth, []float64{0, math.Pi, 2 * math.Pi}, binning.ScaleLinear)
	require.NoError(t, err)
	b, err := binning.New(energyAxis(t, 0, 1, 2), coszenAxis(t, -1, 0, 1), az)
	require.NoError(t, err)

	_, err = Broadcast([]float64{0.5, 0.5}, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}
