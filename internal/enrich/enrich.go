// Package enrich derives analysis-ready rate metrics from the raw counting
// stats the upstream API serves. Enrichment is a pure function: the same raw
// record always produces the same enriched record.
package enrich

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/dmallory42/super-fpl/internal/models"
	"github.com/dmallory42/super-fpl/internal/providers"
)

var (
	// ErrUnknownPositionCode means element_type was outside the four
	// positions the game defines.
	ErrUnknownPositionCode = errors.New("unknown position code")

	// ErrDivisionByZero means a per-million metric was requested for a
	// player with zero cost.
	ErrDivisionByZero = errors.New("division by zero")
)

var positionLookup = map[int]string{
	1: "GKP",
	2: "DEF",
	3: "MID",
	4: "FWD",
}

// Player converts a raw bootstrap element into an enriched record.
// now_cost arrives in tenths of a million and is converted here; every rate
// metric is rounded to two decimal places. Per-minute and per-90 rates are
// zero for players who have not played.
func Player(raw providers.RawPlayer) (models.Player, error) {
	position, ok := positionLookup[raw.ElementType]
	if !ok {
		return models.Player{}, fmt.Errorf("%w: element_type %d for player %d", ErrUnknownPositionCode, raw.ElementType, raw.ID)
	}

	creativity, err := parseStat(raw.Creativity, "creativity", raw.ID)
	if err != nil {
		return models.Player{}, err
	}
	threat, err := parseStat(raw.Threat, "threat", raw.ID)
	if err != nil {
		return models.Player{}, err
	}
	influence, err := parseStat(raw.Influence, "influence", raw.ID)
	if err != nil {
		return models.Player{}, err
	}
	ownership, err := parseStat(raw.SelectedByPercent, "selected_by_percent", raw.ID)
	if err != nil {
		return models.Player{}, err
	}

	nowCost := float64(raw.NowCost) / 10
	if nowCost == 0 {
		return models.Player{}, fmt.Errorf("%w: now_cost is zero for player %d", ErrDivisionByZero, raw.ID)
	}

	p := models.Player{
		ID:                raw.ID,
		FirstName:         raw.FirstName,
		SecondName:        raw.SecondName,
		WebName:           raw.WebName,
		TeamID:            raw.Team,
		TeamCode:          raw.TeamCode,
		ElementType:       raw.ElementType,
		NowCost:           nowCost,
		Minutes:           raw.Minutes,
		GoalsScored:       raw.GoalsScored,
		Assists:           raw.Assists,
		CleanSheets:       raw.CleanSheets,
		GoalsConceded:     raw.GoalsConceded,
		Saves:             raw.Saves,
		Bps:               raw.Bps,
		TotalPoints:       raw.TotalPoints,
		Creativity:        creativity,
		Threat:            threat,
		Influence:         influence,
		SelectedByPercent: ownership,

		Name:             raw.FirstName + " " + raw.SecondName,
		Position:         position,
		GoalInvolvements: raw.GoalsScored + raw.Assists,
	}

	p.BpsPerMin = perMin(float64(raw.Bps), raw.Minutes)
	p.CleanSheetsPer90 = per90(float64(raw.CleanSheets), raw.Minutes)
	p.GoalsConcPer90 = per90(float64(raw.GoalsConceded), raw.Minutes)
	p.GoalsScoredPer90 = per90(float64(raw.GoalsScored), raw.Minutes)
	p.AssistsPer90 = per90(float64(raw.Assists), raw.Minutes)
	p.CreativityPerMin = perMin(creativity, raw.Minutes)
	p.ThreatPerMin = perMin(threat, raw.Minutes)
	p.InfluencePerMin = perMin(influence, raw.Minutes)
	p.PointsPerMin = perMin(float64(raw.TotalPoints), raw.Minutes)
	p.PointsPer90 = per90(float64(raw.TotalPoints), raw.Minutes)
	p.PointsPerMil = round2(float64(raw.TotalPoints) / nowCost)
	p.SavesPer90 = per90(float64(raw.Saves), raw.Minutes)

	return p, nil
}

func perMin(metric float64, minutes int) float64 {
	if minutes == 0 {
		return 0
	}
	return round2(metric / float64(minutes))
}

func per90(metric float64, minutes int) float64 {
	if minutes == 0 {
		return 0
	}
	return round2(metric / float64(minutes) * 90)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func parseStat(value, field string, playerID int) (float64, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q for player %d: %w", field, value, playerID, err)
	}
	return parsed, nil
}
