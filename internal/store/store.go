// Package store provides day-partitioned persistence for the players, teams
// and fixtures collections. Records are addressed by "{id}_{DDMMYYYY}"; a
// lookup only ever matches today's partition, so yesterday's records go
// stale without being purged.
package store

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/dmallory42/super-fpl/internal/models"
)

// ErrNoData signals an empty today-partition. Callers use it to tell a
// cache miss apart from a hit: it is the trigger for a remote refresh.
var ErrNoData = errors.New("no data available")

// Store is the cache contract the fetch pipeline runs against. Backends
// vary (document database, key-value, file, in-memory) without the
// pipeline noticing. Writes are upserts keyed by (id, day): re-fetching the
// same day overwrites, concurrent writers converge last-writer-wins.
type Store interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error

	PutPlayers(ctx context.Context, players []models.Player) error
	PutTeams(ctx context.Context, teams []models.Team) error
	PutFixtures(ctx context.Context, fixtures []models.Fixture) error

	// GetPlayers returns today's players matching the filter, ErrNoData
	// when nothing matches. A nil filter returns the whole partition.
	GetPlayers(ctx context.Context, filter *models.FilterSpec) ([]models.Player, error)
	GetTeams(ctx context.Context) ([]models.Team, error)
	GetFixtures(ctx context.Context) ([]models.Fixture, error)

	// ValueRange returns every price point between today's cheapest and
	// most expensive player in 0.1 steps, inclusive at both ends.
	ValueRange(ctx context.Context) ([]float64, error)
}

const dayFormat = "02012006"

// Day renders t as the partition key format DDMMYYYY.
func Day(t time.Time) string {
	return t.Format(dayFormat)
}

// cacheKey builds the composite record key for an entity id on a given day.
func cacheKey(id int, day string) string {
	return strconv.Itoa(id) + "_" + day
}

// priceRange expands [min, max] into 0.1 steps. Stepping in integer tenths
// keeps the output exact to one decimal.
func priceRange(min, max float64) []float64 {
	lo := int(math.Round(min * 10))
	hi := int(math.Round(max * 10))
	if hi < lo {
		return nil
	}
	out := make([]float64, 0, hi-lo+1)
	for t := lo; t <= hi; t++ {
		out = append(out, float64(t)/10)
	}
	return out
}

// playerValueRange computes the price points for an already-loaded player
// partition. Backends without server-side aggregation share this.
func playerValueRange(players []models.Player) ([]float64, error) {
	if len(players) == 0 {
		return nil, ErrNoData
	}
	min, max := players[0].NowCost, players[0].NowCost
	for _, p := range players[1:] {
		if p.NowCost < min {
			min = p.NowCost
		}
		if p.NowCost > max {
			max = p.NowCost
		}
	}
	return priceRange(min, max), nil
}

// filterPlayers applies the filter in-process and keeps miss semantics:
// zero survivors is a miss, not an empty hit.
func filterPlayers(players []models.Player, filter *models.FilterSpec) ([]models.Player, error) {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
