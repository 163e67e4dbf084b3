package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmallory42/super-fpl/internal/models"
	"github.com/dmallory42/super-fpl/internal/providers"
	"github.com/dmallory42/super-fpl/internal/store"
)

const bootstrapBody = `{
	"elements": [
		{"id": 1, "first_name": "Aaron", "second_name": "Ramsdale", "web_name": "Ramsdale",
		 "team": 1, "team_code": 3, "element_type": 1, "now_cost": 45, "minutes": 0,
		 "goals_scored": 0, "assists": 0, "clean_sheets": 0, "goals_conceded": 0, "saves": 0,
		 "bps": 0, "total_points": 0, "creativity": "0.0", "threat": "0.0", "influence": "0.0",
		 "selected_by_percent": "1.5"},
		{"id": 2, "first_name": "Bukayo", "second_name": "Saka", "web_name": "Saka",
		 "team": 1, "team_code": 3, "element_type": 3, "now_cost": 90, "minutes": 900,
		 "goals_scored": 6, "assists": 8, "clean_sheets": 5, "goals_conceded": 7, "saves": 0,
		 "bps": 250, "total_points": 75, "creativity": "380.2", "threat": "410.5",
		 "influence": "350.0", "selected_by_percent": "38.4"}
	],
	"teams": [
		{"id": 1, "code": 3, "name": "Arsenal", "short_name": "ARS"},
		{"id": 2, "code": 8, "name": "Chelsea", "short_name": "CHE"}
	]
}`

const fixturesBody = `[
	{"id": 10, "event": 5, "team_h": 1, "team_a": 2, "team_h_score": null, "team_a_score": null,
	 "kickoff_time": "2026-09-05T14:00:00Z", "finished": false}
]`

type upstreamFake struct {
	server     *httptest.Server
	bootstraps int64
	fixtures   int64
	summaries  int64
}

func newUpstreamFake(t *testing.T) *upstreamFake {
	t.Helper()
	f := &upstreamFake{}
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.bootstraps, 1)
		w.Write([]byte(bootstrapBody))
	})
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.fixtures, 1)
		w.Write([]byte(fixturesBody))
	})
	mux.HandleFunc("/element-summary/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.summaries, 1)
		w.Write([]byte(`{"history": [
			{"round": 3, "total_points": 12},
			{"round": 1, "total_points": 2},
			{"round": 2, "total_points": 9}
		]}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestOrchestrator(t *testing.T, baseURL string, timeout time.Duration) *Orchestrator {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	client := providers.NewFPLClient(baseURL, timeout, log)
	breaker := NewUpstreamBreaker(time.Second, log)
	return NewOrchestrator(store.NewMemoryStore(), client, breaker, log)
}

func TestGetPlayersMissFetchesOnceAndPopulatesTeams(t *testing.T) {
	fake := newUpstreamFake(t)
	o := newTestOrchestrator(t, fake.server.URL, 5*time.Second)
	ctx := context.Background()

	players, err := o.GetPlayers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Aaron Ramsdale", players[0].Name)
	assert.Equal(t, "GKP", players[0].Position)
	assert.Equal(t, 4.5, players[0].NowCost)
	assert.Equal(t, "Bukayo Saka", players[1].Name)
	assert.Equal(t, 14, players[1].GoalInvolvements)

	// The same bootstrap fetch fills the teams partition.
	teams, err := o.GetTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.bootstraps))
}

func TestGetPlayersIdempotentSameDay(t *testing.T) {
	fake := newUpstreamFake(t)
	o := newTestOrchestrator(t, fake.server.URL, 5*time.Second)
	ctx := context.Background()

	first, err := o.GetPlayers(ctx, nil)
	require.NoError(t, err)
	second, err := o.GetPlayers(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.bootstraps), "second call must be served from cache")
}

func TestGetPlayersAppliesFilterOnRefreshPath(t *testing.T) {
	fake := newUpstreamFake(t)
	o := newTestOrchestrator(t, fake.server.URL, 5*time.Second)

	minutes := 1
	players, err := o.GetPlayers(context.Background(), &models.FilterSpec{MinMinutesPlayed: &minutes})
	require.NoError(t, err)

	require.Len(t, players, 1)
	assert.Equal(t, "Bukayo Saka", players[0].Name)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.bootstraps))
}

func TestGetPlayersUpstreamFailureIsNoDataAndNotCached(t *testing.T) {
	var failing int64 = 1
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt64(&failing) == 1 {
			// Stall past the client timeout.
			time.Sleep(300 * time.Millisecond)
			return
		}
		w.Write([]byte(bootstrapBody))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	o := newTestOrchestrator(t, server.URL, 50*time.Millisecond)
	ctx := context.Background()

	_, err := o.GetPlayers(ctx, nil)
	assert.ErrorIs(t, err, store.ErrNoData)

	// The failure is not cached: once the upstream recovers, the same-day
	// retry fetches successfully.
	atomic.StoreInt64(&failing, 0)
	players, err := o.GetPlayers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestGetTeamsMissRefreshesFromBootstrap(t *testing.T) {
	fake := newUpstreamFake(t)
	o := newTestOrchestrator(t, fake.server.URL, 5*time.Second)
	ctx := context.Background()

	teams, err := o.GetTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Arsenal", teams[0].Name)

	// Players landed in the same refresh.
	players, err := o.GetPlayers(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, players, 2)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.bootstraps))
}

func TestGetFixturesMissAndCache(t *testing.T) {
	fake := newUpstreamFake(t)
	o := newTestOrchestrator(t, fake.server.URL, 5*time.Second)
	ctx := context.Background()

	fixtures, err := o.GetFixtures(ctx)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	assert.Equal(t, 1, fixtures[0].TeamH)
	assert.Equal(t, 2, fixtures[0].TeamA)
	assert.Nil(t, fixtures[0].TeamHScore)

	_, err = o.GetFixtures(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.fixtures))
}

func TestGetValueRangeNeverFetches(t *testing.T) {
	fake := newUpstreamFake(t)
	o := newTestOrchestrator(t, fake.server.URL, 5*time.Second)

	_, err := o.GetValueRange(context.Background())
	assert.ErrorIs(t, err, store.ErrNoData)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fake.bootstraps))
}

func TestGetPlayerFormSortsByRound(t *testing.T) {
	fake := newUpstreamFake(t)
	o := newTestOrchestrator(t, fake.server.URL, 5*time.Second)
	ctx := context.Background()

	form, err := o.GetPlayerForm(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 9, 12}, form)

	// Summary endpoints bypass the cache: every call fetches.
	_, err = o.GetPlayerForm(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&fake.summaries))
}
