package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *FPLClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return NewFPLClient(server.URL, 5*time.Second, log)
}

func TestBootstrapParsesElementsAndTeams(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bootstrap-static/", r.URL.Path)
		w.Write([]byte(`{
			"elements": [{"id": 7, "first_name": "Son", "second_name": "Heung-min",
				"now_cost": 95, "element_type": 3, "creativity": "101.5",
				"threat": "88.0", "influence": "72.3", "selected_by_percent": "22.1"}],
			"teams": [{"id": 6, "code": 6, "name": "Spurs", "short_name": "TOT"}]
		}`))
	}))

	boot, err := client.Bootstrap(context.Background())
	require.NoError(t, err)

	require.Len(t, boot.Elements, 1)
	assert.Equal(t, 7, boot.Elements[0].ID)
	assert.Equal(t, 95, boot.Elements[0].NowCost)
	assert.Equal(t, "101.5", boot.Elements[0].Creativity)

	require.Len(t, boot.Teams, 1)
	assert.Equal(t, "TOT", boot.Teams[0].ShortName)
}

func TestBootstrapMissingKeysIsUpstreamError(t *testing.T) {
	for name, body := range map[string]string{
		"missing elements": `{"teams": []}`,
		"missing teams":    `{"elements": []}`,
		"not json":         `<html>offline</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))

			_, err := client.Bootstrap(context.Background())
			assert.ErrorIs(t, err, ErrUpstreamUnavailable)
		})
	}
}

func TestBootstrapNonOKStatusIsUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFixturesParsesArray(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures/", r.URL.Path)
		w.Write([]byte(`[{"id": 1, "event": 2, "team_h": 3, "team_a": 4,
			"team_h_score": 1, "team_a_score": 0, "finished": true}]`))
	}))

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)

	require.Len(t, fixtures, 1)
	assert.Equal(t, 3, fixtures[0].TeamH)
	require.NotNil(t, fixtures[0].TeamHScore)
	assert.Equal(t, 1, *fixtures[0].TeamHScore)
	assert.True(t, fixtures[0].Finished)
}

func TestPlayerSummaryRequiresHistory(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/element-summary/7/", r.URL.Path)
		w.Write([]byte(`{"fixtures": []}`))
	}))

	_, err := client.PlayerSummary(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestClientTimeoutIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	client := NewFPLClient(server.URL, 20*time.Millisecond, log)

	_, err := client.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}
