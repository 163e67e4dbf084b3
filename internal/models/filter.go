package models

import "strings"

// FilterSpec narrows a player query. Nil pointer fields impose no
// constraint; all present constraints are ANDed, positions OR together.
type FilterSpec struct {
	MinPrice         *float64
	MaxPrice         *float64
	MinMinutesPlayed *int
	Positions        []string
	MaxOwnership     *float64
}

// Matches reports whether p satisfies every constraint in the filter. Price
// bounds are inclusive. Used by the store backends that filter in-process;
// the mongo backend expresses the same constraints as a server-side query.
func (f *FilterSpec) Matches(p Player) bool {
	if f == nil {
		return true
	}
	if f.MinPrice != nil && p.NowCost < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.NowCost > *f.MaxPrice {
		return false
	}
	if f.MinMinutesPlayed != nil && p.Minutes < *f.MinMinutesPlayed {
		return false
	}
	if f.MaxOwnership != nil && p.SelectedByPercent > *f.MaxOwnership {
		return false
	}
	if len(f.Positions) > 0 {
		matched := false
		for _, pos := range f.Positions {
			if p.Position == strings.ToUpper(pos) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
