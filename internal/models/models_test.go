package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTier_Ordering(t *testing.T) {
	assert.Equal(t, TierPoor, TierGood.Worse(TierPoor))
	assert.Equal(t, TierAcceptable, TierAcceptable.Worse(TierExcellent))
	assert.Equal(t, TierGood, TierGood.Worse(TierGood))
}

func TestTier_Names(t *testing.T) {
	names := make([]string, 0, len(Tiers))
	for _, tier := range Tiers {
		names = append(names, tier.String())
	}
	assert.Equal(t, []string{"excellent", "good", "acceptable", "poor"}, names)
	assert.Equal(t, "tier(9)", Tier(9).String())
}

func TestTier_TextRoundTrip(t *testing.T) {
	data, err := json.Marshal(map[string]Tier{"t": TierAcceptable})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"acceptable"}`, string(data))

	var got map[string]Tier
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TierAcceptable, got["t"])

	_, err = ParseTier("failed")
	assert.Error(t, err)
}

func TestNewFailedSample(t *testing.T) {
	s := NewFailedSample("Network_CDNResponse", "")
	assert.False(t, s.Success)
	assert.Equal(t, "probe failed", s.Error)
	assert.Zero(t, s.DurationMs)
	assert.Zero(t, s.MemoryMB)
	assert.Zero(t, s.CPUPercent)
	assert.Nil(t, s.Metadata)
	assert.Nil(t, s.Durations)
}

func TestFailedSample_JSONOmitsMetadata(t *testing.T) {
	data, err := json.Marshal(NewFailedSample("x", "boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","duration_ms":0,"memory_mb":0,"cpu_percent":0,"success":false,"error":"boom"}`, string(data))
}

func TestTierCounts(t *testing.T) {
	var c TierCounts
	c.Add(TierGood)
	c.Add(TierGood)
	c.Add(TierPoor)
	assert.Equal(t, 2, c.Count(TierGood))
	assert.Equal(t, 1, c.Count(TierPoor))
	assert.Equal(t, 3, c.Total())

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"excellent":0,"good":2,"acceptable":0,"poor":1}`, string(data))
}

func TestSuccessfulSamples_PreservesOrder(t *testing.T) {
	in := []Sample{
		{Name: "a", Success: true},
		NewFailedSample("b", "x"),
		{Name: "c", Success: true},
	}
	got := SuccessfulSamples(in)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "c", got[1].Name)
}
