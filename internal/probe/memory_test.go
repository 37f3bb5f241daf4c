package probe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStatm(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statm")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestProcessSampler(t *testing.T) {
	p := &ProcessSampler{Path: writeStatm(t, "5000 2560 300 10 0 900 0\n"), pageSize: 4096}

	mb, source, err := p.Sample()
	require.NoError(t, err)
	assert.Equal(t, models.MemorySourceRSS, source)
	assert.InDelta(t, 10.0, mb, 1e-9)
}

func TestProcessSampler_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope")},
		{"too few fields", writeStatm(t, "5000")},
		{"not a number", writeStatm(t, "5000 lots 1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := (&ProcessSampler{Path: tt.path, pageSize: 4096}).Sample()
			require.Error(t, err)
		})
	}
}

func TestRuntimeSampler(t *testing.T) {
	mb, source, err := RuntimeSampler{}.Sample()
	require.NoError(t, err)
	assert.Equal(t, models.MemorySourceRuntime, source)
	assert.Greater(t, mb, 0.0)
}

func TestSyntheticSampler(t *testing.T) {
	s := SyntheticSampler{Now: func() time.Time { return time.Unix(1_700_000_007, 500_000_000) }}

	mb, source, err := s.Sample()
	require.NoError(t, err)
	assert.Equal(t, models.MemorySourceSynthetic, source)
	assert.InDelta(t, 32.5, mb, 1e-9)
}

func TestSyntheticSampler_Range(t *testing.T) {
	mb, _, err := SyntheticSampler{}.Sample()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, mb, 25.0)
	assert.Less(t, mb, 35.0)
}

func TestWithFallback(t *testing.T) {
	broken := &ProcessSampler{Path: filepath.Join(t.TempDir(), "missing"), pageSize: 4096}

	mb, source, err := WithFallback(broken).Sample()
	require.NoError(t, err)
	assert.Equal(t, models.MemorySourceSynthetic, source)
	assert.GreaterOrEqual(t, mb, 25.0)

	healthy := &ProcessSampler{Path: writeStatm(t, "1 256 0 0 0 0 0"), pageSize: 4096}
	mb, source, err = WithFallback(healthy).Sample()
	require.NoError(t, err)
	assert.Equal(t, models.MemorySourceRSS, source)
	assert.InDelta(t, 1.0, mb, 1e-9)
}

func TestNewSampler(t *testing.T) {
	for _, source := range []string{"", models.MemorySourceRSS, models.MemorySourceRuntime, models.MemorySourceSynthetic} {
		s, err := NewSampler(source)
		require.NoError(t, err, source)
		require.NotNil(t, s)
	}

	_, err := NewSampler("psutil")
	require.ErrorContains(t, err, `unknown memory source "psutil"`)
}
