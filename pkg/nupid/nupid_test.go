package nupid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qft-labs/nupid/internal/core"
)

// testConfig is a one-group stage over energy bins with weighted centers
// 1, 10, 100.
func testConfig() Config {
	return Config{
		Particles:       "neutrinos",
		InputNames:      []string{"numu_cc"},
		TransformGroups: []string{"numu_cc"},
		InputBinning: []Axis{
			{Name: "reco_energy", Edges: []float64{0, 2, 18, 182}},
		},
		Params: map[string]map[string]string{
			"numu_cc": {"trck": "0.9", "cscd": "0.1"},
		},
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Params = nil
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestTransforms(t *testing.T) {
	p, err := New(testConfig())
	require.NoError(t, err)

	ts, err := p.Transforms()
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "numu_cc_trck", ts[0].Output)
	assert.Equal(t, []float64{0.9, 0.9, 0.9}, ts[0].Weights)
	assert.Equal(t, []int{3}, ts[0].Shape)
}

func TestOutputsRoundTrip(t *testing.T) {
	p, err := New(testConfig())
	require.NoError(t, err)

	out, err := p.Outputs(MapSet{Name: "reco", Maps: []Map{
		{Name: "numu_cc", Hist: []float64{10, 20, 30}},
	}})
	require.NoError(t, err)
	require.Len(t, out.Maps, 1)
	assert.Equal(t, "numu_cc", out.Maps[0].Name)
	assert.Equal(t, []float64{1, 9, 2, 18, 3, 27}, out.Maps[0].Hist)
}

func TestWithResourceReader(t *testing.T) {
	cfg := testConfig()
	cfg.Params = nil
	cfg.ParamFile = "pid_params.json"

	calls := 0
	p, err := New(cfg, WithResourceReader(func(path string) ([]byte, error) {
		calls++
		assert.Equal(t, "pid_params.json", path)
		return []byte(`{"numu_cc": {"trck": "0.9", "cscd": "0.1"}}`), nil
	}))
	require.NoError(t, err)

	_, err = p.Transforms()
	require.NoError(t, err)
	_, err = p.Transforms()
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "unchanged parameterization must not be re-read")
}
