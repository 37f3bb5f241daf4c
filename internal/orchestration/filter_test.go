package orchestration

import (
	"testing"

	"github.com/petprogress/perfbench/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProbes() []catalog.Probe {
	return []catalog.Probe{
		{Name: "SharedStore_Initialization", Category: catalog.CategoryCore},
		{Name: "SharedStore_TaskAddition", Category: catalog.CategoryCore},
		{Name: "UI_ViewCreation", Category: catalog.CategoryUI},
		{Name: "Network_CDNResponse", Category: catalog.CategoryNetwork},
	}
}

func TestFilterProbes_NoPatterns(t *testing.T) {
	result, err := FilterProbes(sampleProbes(), nil)
	require.NoError(t, err)
	assert.Len(t, result, 4, "empty patterns should return all probes")
}

func TestFilterProbes_ExactName(t *testing.T) {
	result, err := FilterProbes(sampleProbes(), []string{"UI_ViewCreation"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, catalog.CategoryUI, result[0].Category)
}

func TestFilterProbes_Category(t *testing.T) {
	result, err := FilterProbes(sampleProbes(), []string{"network"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Network_CDNResponse", result[0].Name)
}

func TestFilterProbes_GlobPattern(t *testing.T) {
	result, err := FilterProbes(sampleProbes(), []string{"SharedStore_*"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "SharedStore_Initialization", result[0].Name)
	assert.Equal(t, "SharedStore_TaskAddition", result[1].Name)
}

func TestFilterProbes_MultiplePatterns(t *testing.T) {
	result, err := FilterProbes(sampleProbes(), []string{"ui", "Network_*"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "UI_ViewCreation", result[0].Name)
	assert.Equal(t, "Network_CDNResponse", result[1].Name)
}

func TestFilterProbes_NoMatch(t *testing.T) {
	result, err := FilterProbes(sampleProbes(), []string{"nonexistent"})
	require.NoError(t, err)
	assert.Len(t, result, 0)
}

func TestFilterProbes_InvalidPattern(t *testing.T) {
	_, err := FilterProbes(sampleProbes(), []string{"["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid probe filter pattern")
}
