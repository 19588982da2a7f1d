package flavor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qft-labs/nupid/internal/core"
)

func TestBareStripsAntiMarker(t *testing.T) {
	assert.Equal(t, Flavor("numu_cc"), Flavor("numubar_cc").Bare())
	assert.Equal(t, Flavor("numu_cc"), Flavor("numu_cc").Bare())
	assert.True(t, Flavor("nuebar_cc").IsAnti())
	assert.False(t, Flavor("nue_cc").IsAnti())
}

func TestParseGroupKeySingle(t *testing.T) {
	key, err := ParseGroupKey("numu_cc")
	require.NoError(t, err)
	_, isPair := key.Pair()
	assert.False(t, isPair)
	assert.Equal(t, "numu_cc", key.String())
	assert.Equal(t, []Flavor{"numu_cc"}, key.Flavors())
}

func TestParseGroupKeyPair(t *testing.T) {
	key, err := ParseGroupKey("numu_cc+numubar_cc")
	require.NoError(t, err)
	pair, isPair := key.Pair()
	require.True(t, isPair)
	assert.Equal(t, Flavor("numu_cc"), pair.Flavor)
	assert.Equal(t, Flavor("numubar_cc"), pair.Anti)
	assert.True(t, key.Contains("numubar_cc"))
	assert.False(t, key.Contains("nue_cc"))
}

func TestParseGroupKeyRejectsMismatchedPair(t *testing.T) {
	_, err := ParseGroupKey("nu+notnubar")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrLookup))

	_, err = ParseGroupKey("a+b+c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrLookup))
}

func TestParseGroupsPartition(t *testing.T) {
	inputs := Flavors([]string{"numu_cc", "numubar_cc", "nue_cc", "nuebar_cc"})
	groups, err := ParseGroups([]string{"numu_cc+numubar_cc", "nue_cc+nuebar_cc"}, inputs)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []Flavor{"numu_cc", "numubar_cc"}, groups[0].Members)
	assert.Equal(t, []Flavor{"nue_cc", "nuebar_cc"}, groups[1].Members)
}

func TestParseGroupsRejectsOrphanInput(t *testing.T) {
	inputs := Flavors([]string{"numu_cc", "nutau_cc"})
	_, err := ParseGroups([]string{"numu_cc"}, inputs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
	assert.Contains(t, err.Error(), "nutau_cc")
}

func TestParseGroupsRejectsDoubleOwnership(t *testing.T) {
	inputs := Flavors([]string{"numu_cc"})
	_, err := ParseGroups([]string{"numu_cc", "numu_cc+numubar_cc"}, inputs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"numu_cc", "numubar_cc"}, SplitList("numu_cc, numubar_cc"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("  "))
}
