package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/config"
)

func TestFromConfigWithParamFile(t *testing.T) {
	dir := t.TempDir()
	paramPath := filepath.Join(dir, "pid_params.json")
	require.NoError(t, os.WriteFile(paramPath, []byte(`{
		"numu_cc": {"trck": "offset(0.05, scale(0.85, norm(10, 3)))",
		            "cscd": "complement(offset(0.05, scale(0.85, norm(10, 3))))"}
	}`), 0o644))

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(`
particles: neutrinos
input_names: "numu_cc"
transform_groups: "numu_cc"
binning:
  input:
    - {name: reco_energy, edges: [1, 10, 100], scale: log}
pid:
  paramfile: `+paramPath+`
`), &cfg))
	require.NoError(t, cfg.Validate())

	st, err := FromConfig(cfg, nil, nil)
	require.NoError(t, err)

	set, err := st.ComputeTransforms()
	require.NoError(t, err)
	require.Len(t, set.Transforms, 2)

	trck, cscd := set.Transforms[0], set.Transforms[1]
	require.Len(t, trck.Weights, 2)
	for i := range trck.Weights {
		assert.InDelta(t, 1.0, trck.Weights[i]+cscd.Weights[i], 1e-12,
			"complement channels sum to one per bin")
	}
}

func TestFromConfigDefaultsOutputBinningToInput(t *testing.T) {
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(`
particles: neutrinos
input_names: "numu_cc"
transform_groups: "numu_cc"
binning:
  input:
    - {name: reco_energy, edges: [1, 10, 100]}
pid:
  params:
    numu_cc: {trck: "0.9", cscd: "0.1"}
`), &cfg))
	require.NoError(t, cfg.Validate())

	st, err := FromConfig(cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{binning.AxisEnergy}, st.InputBinning().Names())
}

func TestFromConfigRejectsBadGroups(t *testing.T) {
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(`
particles: neutrinos
input_names: "numu_cc, nutau_cc"
transform_groups: "numu_cc"
binning:
  input:
    - {name: reco_energy, edges: [1, 10, 100]}
pid:
  params:
    numu_cc: {trck: "0.9", cscd: "0.1"}
`), &cfg))
	require.NoError(t, cfg.Validate())

	_, err := FromConfig(cfg, nil, nil)
	require.Error(t, err)
}
