package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUpstreamUnavailable covers network failures, non-2xx responses and
// responses missing the keys we depend on. The upstream is trusted, so a
// malformed body is an integration problem rather than user input.
var ErrUpstreamUnavailable = errors.New("upstream fantasy API unavailable")

const (
	DefaultBaseURL = "https://fantasy.premierleague.com/api"

	bootstrapPath     = "/bootstrap-static/"
	fixturesPath      = "/fixtures/"
	playerSummaryPath = "/element-summary/%d/"
)

// RawPlayer mirrors a bootstrap-static element. The upstream serves several
// numeric stats as strings; they stay strings here and are parsed during
// enrichment.
type RawPlayer struct {
	ID                int    `json:"id"`
	FirstName         string `json:"first_name"`
	SecondName        string `json:"second_name"`
	WebName           string `json:"web_name"`
	Team              int    `json:"team"`
	TeamCode          int    `json:"team_code"`
	ElementType       int    `json:"element_type"`
	NowCost           int    `json:"now_cost"`
	Minutes           int    `json:"minutes"`
	GoalsScored       int    `json:"goals_scored"`
	Assists           int    `json:"assists"`
	CleanSheets       int    `json:"clean_sheets"`
	GoalsConceded     int    `json:"goals_conceded"`
	Saves             int    `json:"saves"`
	Bps               int    `json:"bps"`
	TotalPoints       int    `json:"total_points"`
	Creativity        string `json:"creativity"`
	Threat            string `json:"threat"`
	Influence         string `json:"influence"`
	SelectedByPercent string `json:"selected_by_percent"`
}

// RawTeam mirrors a bootstrap-static team entry.
type RawTeam struct {
	ID        int    `json:"id"`
	Code      int    `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// RawFixture mirrors an entry from the fixtures endpoint.
type RawFixture struct {
	ID          int    `json:"id"`
	Event       int    `json:"event"`
	TeamH       int    `json:"team_h"`
	TeamA       int    `json:"team_a"`
	TeamHScore  *int   `json:"team_h_score"`
	TeamAScore  *int   `json:"team_a_score"`
	KickoffTime string `json:"kickoff_time"`
	Finished    bool   `json:"finished"`
}

// Bootstrap is the full current snapshot of players and teams.
type Bootstrap struct {
	Elements []RawPlayer
	Teams    []RawTeam
}

// GameweekStat is one row of a player's per-gameweek history.
type GameweekStat struct {
	Round       int `json:"round"`
	TotalPoints int `json:"total_points"`
	Minutes     int `json:"minutes"`
	GoalsScored int `json:"goals_scored"`
	Assists     int `json:"assists"`
	Bps         int `json:"bps"`
}

// PlayerSummary is the element-summary payload for a single player.
type PlayerSummary struct {
	History []GameweekStat `json:"history"`
}

// FPLClient fetches data from the public fantasy football API.
type FPLClient struct {
	httpClient *http.Client
	baseURL    string
	logger     logrus.FieldLogger
}

// NewFPLClient creates a client against the given base URL. The timeout
// bounds the whole request; a timeout surfaces as ErrUpstreamUnavailable.
func NewFPLClient(baseURL string, timeout time.Duration, logger logrus.FieldLogger) *FPLClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FPLClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Bootstrap fetches the bootstrap-static snapshot. Both the elements and
// teams keys must be present.
func (c *FPLClient) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	body, err := c.get(ctx, bootstrapPath)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Elements *[]RawPlayer `json:"elements"`
		Teams    *[]RawTeam   `json:"teams"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding bootstrap-static: %v", ErrUpstreamUnavailable, err)
	}
	if payload.Elements == nil || payload.Teams == nil {
		return nil, fmt.Errorf("%w: bootstrap-static missing elements or teams", ErrUpstreamUnavailable)
	}

	return &Bootstrap{Elements: *payload.Elements, Teams: *payload.Teams}, nil
}

// Fixtures fetches the full fixture list.
func (c *FPLClient) Fixtures(ctx context.Context) ([]RawFixture, error) {
	body, err := c.get(ctx, fixturesPath)
	if err != nil {
		return nil, err
	}

	var fixtures []RawFixture
	if err := json.Unmarshal(body, &fixtures); err != nil {
		return nil, fmt.Errorf("%w: decoding fixtures: %v", ErrUpstreamUnavailable, err)
	}
	return fixtures, nil
}

// PlayerSummary fetches the per-gameweek history for one player.
func (c *FPLClient) PlayerSummary(ctx context.Context, playerID int) (*PlayerSummary, error) {
	body, err := c.get(ctx, fmt.Sprintf(playerSummaryPath, playerID))
	if err != nil {
		return nil, err
	}

	var payload struct {
		History *[]GameweekStat `json:"history"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding element-summary: %v", ErrUpstreamUnavailable, err)
	}
	if payload.History == nil {
		return nil, fmt.Errorf("%w: element-summary missing history", ErrUpstreamUnavailable)
	}

	return &PlayerSummary{History: *payload.History}, nil
}

func (c *FPLClient) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithField("url", url).WithError(err).Warn("Upstream request failed")
		return nil, fmt.Errorf("%w: GET %s: %v", ErrUpstreamUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"url":    url,
			"status": resp.StatusCode,
		}).Warn("Upstream returned non-OK status")
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrUpstreamUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %s: %v", ErrUpstreamUnavailable, url, err)
	}
	return body, nil
}
