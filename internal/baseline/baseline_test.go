package baseline

import (
	"testing"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(name string, durations ...float64) models.Sample {
	sum := 0.0
	for _, d := range durations {
		sum += d
	}
	return models.Sample{
		Name:       name,
		Category:   "core",
		DurationMs: sum / float64(len(durations)),
		Durations:  durations,
		MemoryMB:   1,
		CPUPercent: 1,
		Success:    true,
	}
}

func suite(id string, results ...models.Sample) *models.Suite {
	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	return &models.Suite{
		RunID:   id,
		Results: results,
		Summary: models.Summary{
			TotalTests:  len(results),
			Successful:  successful,
			SuccessRate: float64(successful) / float64(len(results)) * 100,
		},
	}
}

func seeded() Options {
	opts := DefaultOptions()
	opts.Seed = 42
	return opts
}

func findDelta(t *testing.T, c *Comparison, name string) ProbeDelta {
	t.Helper()
	for _, d := range c.Deltas {
		if d.Name == name {
			return d
		}
	}
	require.Failf(t, "delta not found", "no delta for %q", name)
	return ProbeDelta{}
}

func TestCompare_SignificantSlowdown(t *testing.T) {
	base := suite("base", ok("Task", 10, 10.2, 9.8, 10.1, 9.9))
	cur := suite("cur", ok("Task", 30, 30.2, 29.8, 30.1, 29.9))

	c := Compare(base, cur, nil, seeded())
	d := findDelta(t, c, "Task")

	assert.Equal(t, StatusRegressed, d.Status)
	assert.InDelta(t, 20.0, d.DeltaMs, 1e-9)
	assert.InDelta(t, 200.0, d.DeltaPercent, 1e-9)
	require.NotNil(t, d.CI)
	assert.True(t, d.Significant)
	assert.Equal(t, 1, c.Regressions)
	assert.True(t, c.HasRegressions())
	assert.Equal(t, "base", c.BaselineRunID)
	assert.Equal(t, "cur", c.CurrentRunID)
}

func TestCompare_NoiseWithinToleranceIsUnchanged(t *testing.T) {
	base := suite("base", ok("Task", 10, 11, 9, 10, 10))
	cur := suite("cur", ok("Task", 10.5, 10, 10.5, 10, 10.5))

	c := Compare(base, cur, nil, seeded())
	assert.Equal(t, StatusUnchanged, findDelta(t, c, "Task").Status)
	assert.False(t, c.HasRegressions())
}

func TestCompare_OverToleranceButNotSignificant(t *testing.T) {
	base := suite("base", ok("Task", 2, 18, 5, 15, 10))
	cur := suite("cur", ok("Task", 3, 20, 6, 17, 10))

	c := Compare(base, cur, nil, seeded())
	d := findDelta(t, c, "Task")
	assert.Greater(t, d.DeltaPercent, DefaultTolerancePercent)
	assert.False(t, d.Significant)
	assert.Equal(t, StatusUnchanged, d.Status)
}

func TestCompare_WithoutIterationsUsesTolerance(t *testing.T) {
	slower := models.Sample{Name: "Task", DurationMs: 50, Success: true}
	faster := models.Sample{Name: "Task", DurationMs: 40, Success: true}

	c := Compare(suite("b", faster), suite("c", slower), nil, seeded())
	d := findDelta(t, c, "Task")
	assert.Nil(t, d.CI)
	assert.True(t, d.Significant)
	assert.Equal(t, StatusRegressed, d.Status)

	opts := seeded()
	opts.TolerancePercent = 30
	c = Compare(suite("b", faster), suite("c", slower), nil, opts)
	assert.Equal(t, StatusUnchanged, findDelta(t, c, "Task").Status)
}

func TestCompare_TierChangeWins(t *testing.T) {
	// 98ms -> 105ms is within tolerance but crosses the excellent/good cutoff
	base := suite("b", models.Sample{Name: "Task", DurationMs: 98, Success: true})
	cur := suite("c", models.Sample{Name: "Task", DurationMs: 105, Success: true})

	d := findDelta(t, Compare(base, cur, nil, seeded()), "Task")
	assert.Equal(t, "excellent", d.BaselineLabel)
	assert.Equal(t, "good", d.CurrentLabel)
	assert.Equal(t, StatusRegressed, d.Status)

	d = findDelta(t, Compare(cur, base, nil, seeded()), "Task")
	assert.Equal(t, StatusImproved, d.Status)
}

func TestCompare_FailureTransitions(t *testing.T) {
	base := suite("b",
		ok("BreaksNow", 10, 10),
		models.NewFailedSample("FixedNow", "boom"),
		models.NewFailedSample("StillBroken", "boom"),
	)
	cur := suite("c",
		models.NewFailedSample("BreaksNow", "timeout"),
		ok("FixedNow", 10, 10),
		models.NewFailedSample("StillBroken", "boom"),
	)

	c := Compare(base, cur, nil, seeded())
	assert.Equal(t, StatusRegressed, findDelta(t, c, "BreaksNow").Status)
	assert.Equal(t, "failed", findDelta(t, c, "BreaksNow").CurrentLabel)
	assert.Equal(t, StatusImproved, findDelta(t, c, "FixedNow").Status)
	assert.Equal(t, StatusUnchanged, findDelta(t, c, "StillBroken").Status)
	assert.Equal(t, 1, c.Regressions)
	assert.Equal(t, 1, c.Improvements)
	assert.InDelta(t, 0.0, c.SuccessRateDelta, 1e-9)
}

func TestCompare_NewAndMissing(t *testing.T) {
	base := suite("b", ok("Old", 5, 5), ok("Shared", 5, 5))
	cur := suite("c", ok("Shared", 5, 5), ok("Added", 7, 7))

	c := Compare(base, cur, nil, seeded())
	require.Len(t, c.Deltas, 3)
	assert.Equal(t, []string{"Shared", "Added", "Old"}, []string{c.Deltas[0].Name, c.Deltas[1].Name, c.Deltas[2].Name})
	assert.Equal(t, StatusNew, c.Deltas[1].Status)
	assert.Equal(t, StatusMissing, c.Deltas[2].Status)
	assert.Equal(t, 0, c.Regressions)
}

func TestCompare_NegativeToleranceClamped(t *testing.T) {
	opts := seeded()
	opts.TolerancePercent = -5
	c := Compare(suite("b", ok("T", 1, 1)), suite("c", ok("T", 1, 1)), nil, opts)
	assert.Zero(t, c.TolerancePercent)
}
