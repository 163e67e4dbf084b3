package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/dmallory42/super-fpl/internal/enrich"
	"github.com/dmallory42/super-fpl/internal/models"
	"github.com/dmallory42/super-fpl/internal/providers"
	"github.com/dmallory42/super-fpl/internal/store"
)

// Orchestrator decides cache-hit versus remote-fetch for each collection.
// On a miss it fetches upstream, enriches, persists and re-reads from the
// store so the hit and refresh paths share the same filtered read. Upstream
// failures come back as store.ErrNoData: nothing about the failure is
// cached, so the next request retries the fetch.
type Orchestrator struct {
	store   store.Store
	fpl     *providers.FPLClient
	breaker *gobreaker.CircuitBreaker
	logger  logrus.FieldLogger
}

// NewOrchestrator wires the fetch pipeline together.
func NewOrchestrator(s store.Store, fpl *providers.FPLClient, breaker *gobreaker.CircuitBreaker, logger logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{
		store:   s,
		fpl:     fpl,
		breaker: breaker,
		logger:  logger,
	}
}

// GetPlayers returns today's enriched players matching the filter. A miss
// triggers one bootstrap-static fetch which populates both the players and
// teams collections.
func (o *Orchestrator) GetPlayers(ctx context.Context, filter *models.FilterSpec) ([]models.Player, error) {
	players, err := o.store.GetPlayers(ctx, filter)
	if err == nil {
		return players, nil
	}
	if !errors.Is(err, store.ErrNoData) {
		return nil, err
	}

	if err := o.refreshBootstrap(ctx); err != nil {
		return nil, err
	}
	return o.store.GetPlayers(ctx, filter)
}

// GetTeams returns today's teams, refreshing from bootstrap-static on a
// miss. The same fetch also populates the players collection.
func (o *Orchestrator) GetTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := o.store.GetTeams(ctx)
	if err == nil {
		return teams, nil
	}
	if !errors.Is(err, store.ErrNoData) {
		return nil, err
	}

	if err := o.refreshBootstrap(ctx); err != nil {
		return nil, err
	}
	return o.store.GetTeams(ctx)
}

// GetFixtures returns today's fixtures, refreshing from the fixtures
// endpoint on a miss.
func (o *Orchestrator) GetFixtures(ctx context.Context) ([]models.Fixture, error) {
	fixtures, err := o.store.GetFixtures(ctx)
	if err == nil {
		return fixtures, nil
	}
	if !errors.Is(err, store.ErrNoData) {
		return nil, err
	}

	raw, err := o.fetchFixtures(ctx)
	if err != nil {
		o.logger.WithError(err).Warn("Fixture refresh failed")
		return nil, fmt.Errorf("refreshing fixtures: %w", store.ErrNoData)
	}

	fixtures = make([]models.Fixture, 0, len(raw))
	for _, f := range raw {
		fixtures = append(fixtures, models.Fixture{
			ID:          f.ID,
			Event:       f.Event,
			TeamH:       f.TeamH,
			TeamA:       f.TeamA,
			TeamHScore:  f.TeamHScore,
			TeamAScore:  f.TeamAScore,
			KickoffTime: f.KickoffTime,
			Finished:    f.Finished,
		})
	}
	if err := o.store.PutFixtures(ctx, fixtures); err != nil {
		return nil, err
	}
	return o.store.GetFixtures(ctx)
}

// GetValueRange delegates to the store; it never hits the upstream API.
func (o *Orchestrator) GetValueRange(ctx context.Context) ([]float64, error) {
	return o.store.ValueRange(ctx)
}

// GetPlayerSummary always fetches fresh per-gameweek history upstream.
func (o *Orchestrator) GetPlayerSummary(ctx context.Context, playerID int) (*providers.PlayerSummary, error) {
	result, err := o.breaker.Execute(func() (interface{}, error) {
		return o.fpl.PlayerSummary(ctx, playerID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*providers.PlayerSummary), nil
}

// GetPlayerForm projects the total_points series out of the player's
// history, ordered by ascending round.
func (o *Orchestrator) GetPlayerForm(ctx context.Context, playerID int) ([]int, error) {
	summary, err := o.GetPlayerSummary(ctx, playerID)
	if err != nil {
		return nil, err
	}

	history := make([]providers.GameweekStat, len(summary.History))
	copy(history, summary.History)
	sort.Slice(history, func(i, j int) bool { return history[i].Round < history[j].Round })

	form := make([]int, 0, len(history))
	for _, gw := range history {
		form = append(form, gw.TotalPoints)
	}
	return form, nil
}

// refreshBootstrap pulls one bootstrap-static snapshot and fills both the
// players and teams partitions for today. Enrichment errors surface
// unchanged; transport errors collapse into the no-data outcome after
// being logged with full detail.
func (o *Orchestrator) refreshBootstrap(ctx context.Context) error {
	boot, err := o.fetchBootstrap(ctx)
	if err != nil {
		o.logger.WithError(err).Warn("Bootstrap refresh failed")
		return fmt.Errorf("refreshing bootstrap data: %w", store.ErrNoData)
	}

	players := make([]models.Player, 0, len(boot.Elements))
	for _, raw := range boot.Elements {
		player, err := enrich.Player(raw)
		if err != nil {
			return err
		}
		players = append(players, player)
	}

	teams := make([]models.Team, 0, len(boot.Teams))
	for _, t := range boot.Teams {
		teams = append(teams, models.Team{
			ID:        t.ID,
			Code:      t.Code,
			Name:      t.Name,
			ShortName: t.ShortName,
		})
	}

	if err := o.store.PutPlayers(ctx, players); err != nil {
		return err
	}
	if err := o.store.PutTeams(ctx, teams); err != nil {
		return err
	}

	o.logger.WithFields(logrus.Fields{
		"players": len(players),
		"teams":   len(teams),
	}).Info("Refreshed bootstrap data")
	return nil
}

func (o *Orchestrator) fetchBootstrap(ctx context.Context) (*providers.Bootstrap, error) {
	result, err := o.breaker.Execute(func() (interface{}, error) {
		return o.fpl.Bootstrap(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*providers.Bootstrap), nil
}

func (o *Orchestrator) fetchFixtures(ctx context.Context) ([]providers.RawFixture, error) {
	result, err := o.breaker.Execute(func() (interface{}, error) {
		return o.fpl.Fixtures(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]providers.RawFixture), nil
}
