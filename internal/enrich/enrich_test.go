package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmallory42/super-fpl/internal/providers"
)

func testRawPlayer() providers.RawPlayer {
	return providers.RawPlayer{
		ID:                42,
		FirstName:         "Mohamed",
		SecondName:        "Salah",
		WebName:           "Salah",
		Team:              11,
		TeamCode:          14,
		ElementType:       3,
		NowCost:           130,
		Minutes:           900,
		GoalsScored:       9,
		Assists:           5,
		CleanSheets:       4,
		GoalsConceded:     8,
		Saves:             0,
		Bps:               300,
		TotalPoints:       80,
		Creativity:        "450.5",
		Threat:            "620.0",
		Influence:         "510.2",
		SelectedByPercent: "45.3",
	}
}

func TestPlayerDerivedFields(t *testing.T) {
	p, err := Player(testRawPlayer())
	require.NoError(t, err)

	assert.Equal(t, "Mohamed Salah", p.Name)
	assert.Equal(t, "MID", p.Position)
	assert.Equal(t, 13.0, p.NowCost)
	assert.Equal(t, 14, p.GoalInvolvements)

	assert.InDelta(t, 0.9, p.GoalsScoredPer90, 1e-9)
	assert.InDelta(t, 0.5, p.AssistsPer90, 1e-9)
	assert.InDelta(t, 0.4, p.CleanSheetsPer90, 1e-9)
	assert.InDelta(t, 0.8, p.GoalsConcPer90, 1e-9)
	assert.InDelta(t, 8.0, p.PointsPer90, 1e-9)
	assert.InDelta(t, 0.0, p.SavesPer90, 1e-9)

	assert.InDelta(t, 0.33, p.BpsPerMin, 1e-9)
	assert.InDelta(t, 0.5, p.CreativityPerMin, 1e-9)
	assert.InDelta(t, 0.69, p.ThreatPerMin, 1e-9)
	assert.InDelta(t, 0.57, p.InfluencePerMin, 1e-9)
	assert.InDelta(t, 0.09, p.PointsPerMin, 1e-9)

	assert.InDelta(t, 6.15, p.PointsPerMil, 1e-9)
	assert.InDelta(t, 45.3, p.SelectedByPercent, 1e-9)
}

func TestPlayerZeroMinutes(t *testing.T) {
	raw := testRawPlayer()
	raw.Minutes = 0

	p, err := Player(raw)
	require.NoError(t, err)

	for name, value := range map[string]float64{
		"bps_per_min":         p.BpsPerMin,
		"clean_sheets_per_90": p.CleanSheetsPer90,
		"goals_conc_per_90":   p.GoalsConcPer90,
		"goals_scored_per_90": p.GoalsScoredPer90,
		"assists_per_90":      p.AssistsPer90,
		"creativity_per_min":  p.CreativityPerMin,
		"threat_per_min":      p.ThreatPerMin,
		"influence_per_min":   p.InfluencePerMin,
		"points_per_min":      p.PointsPerMin,
		"points_per_90":       p.PointsPer90,
		"saves_per_90":        p.SavesPer90,
	} {
		assert.Zerof(t, value, "%s should be zero for an unused player", name)
	}

	// Per-million has no minutes guard; it still divides by cost.
	assert.InDelta(t, 6.15, p.PointsPerMil, 1e-9)
}

func TestPlayerCostConversion(t *testing.T) {
	for rawCost, want := range map[int]float64{
		39:  3.9,
		45:  4.5,
		100: 10.0,
		131: 13.1,
	} {
		raw := testRawPlayer()
		raw.NowCost = rawCost

		p, err := Player(raw)
		require.NoError(t, err)
		assert.Equal(t, want, p.NowCost)
	}
}

func TestPlayerUnknownPositionCode(t *testing.T) {
	raw := testRawPlayer()
	raw.ElementType = 5

	_, err := Player(raw)
	assert.ErrorIs(t, err, ErrUnknownPositionCode)
}

func TestPlayerZeroCost(t *testing.T) {
	raw := testRawPlayer()
	raw.NowCost = 0

	_, err := Player(raw)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestPlayerReproducible(t *testing.T) {
	raw := testRawPlayer()

	first, err := Player(raw)
	require.NoError(t, err)
	second, err := Player(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
