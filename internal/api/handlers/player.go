package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dmallory42/super-fpl/internal/models"
	"github.com/dmallory42/super-fpl/internal/providers"
	"github.com/dmallory42/super-fpl/internal/services"
	"github.com/dmallory42/super-fpl/internal/store"
	"github.com/dmallory42/super-fpl/pkg/utils"
)

var positionCodes = []string{"gkp", "def", "mid", "fwd"}

type PlayerHandler struct {
	orchestrator *services.Orchestrator
	logger       *logrus.Logger
}

func NewPlayerHandler(orchestrator *services.Orchestrator, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// GetPlayers returns today's enriched players, filtered by the query
// parameters and annotated with each player's club and fixture list.
// An empty partition renders as an empty data array, not an error.
func (h *PlayerHandler) GetPlayers(c *gin.Context) {
	filter, err := parseFilterSpec(c)
	if err != nil {
		utils.SendValidationError(c, "Invalid filter parameters", err.Error())
		return
	}

	players, err := h.orchestrator.GetPlayers(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			utils.SendSuccess(c, []models.PlayerRow{})
			return
		}
		h.logger.WithError(err).Error("Failed to load players")
		utils.SendInternalError(c, "Failed to load players")
		return
	}

	utils.SendSuccess(c, h.annotate(c.Request.Context(), players))
}

// GetValueRange returns every price point across today's player partition.
func (h *PlayerHandler) GetValueRange(c *gin.Context) {
	values, err := h.orchestrator.GetValueRange(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			utils.SendSuccess(c, []float64{})
			return
		}
		h.logger.WithError(err).Error("Failed to compute value range")
		utils.SendInternalError(c, "Failed to compute value range")
		return
	}
	utils.SendSuccess(c, values)
}

// GetPlayerSummary proxies the per-gameweek history for one player. This
// always hits the upstream API.
func (h *PlayerHandler) GetPlayerSummary(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}

	summary, err := h.orchestrator.GetPlayerSummary(c.Request.Context(), playerID)
	if err != nil {
		if errors.Is(err, providers.ErrUpstreamUnavailable) {
			utils.SendUpstreamUnavailable(c, "Fantasy API unavailable")
			return
		}
		h.logger.WithError(err).Error("Failed to load player summary")
		utils.SendInternalError(c, "Failed to load player summary")
		return
	}
	utils.SendSuccess(c, summary)
}

// GetPlayerForm returns the player's total_points series in gameweek order.
func (h *PlayerHandler) GetPlayerForm(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}

	form, err := h.orchestrator.GetPlayerForm(c.Request.Context(), playerID)
	if err != nil {
		if errors.Is(err, providers.ErrUpstreamUnavailable) {
			utils.SendUpstreamUnavailable(c, "Fantasy API unavailable")
			return
		}
		h.logger.WithError(err).Error("Failed to load player form")
		utils.SendInternalError(c, "Failed to load player form")
		return
	}
	utils.SendSuccess(c, form)
}

// annotate joins each player with its club (team_code against team code)
// and the club's fixtures (club id appearing home or away). Missing teams
// or fixtures degrade to an unannotated row rather than failing the
// response.
func (h *PlayerHandler) annotate(ctx context.Context, players []models.Player) []models.PlayerRow {
	teamsByCode := map[int]models.Team{}
	if teams, err := h.orchestrator.GetTeams(ctx); err == nil {
		for _, t := range teams {
			teamsByCode[t.Code] = t
		}
	} else {
		h.logger.WithError(err).Warn("Teams unavailable for player annotation")
	}

	fixturesByTeam := map[int][]models.Fixture{}
	if fixtures, err := h.orchestrator.GetFixtures(ctx); err == nil {
		for _, f := range fixtures {
			fixturesByTeam[f.TeamH] = append(fixturesByTeam[f.TeamH], f)
			fixturesByTeam[f.TeamA] = append(fixturesByTeam[f.TeamA], f)
		}
	} else {
		h.logger.WithError(err).Warn("Fixtures unavailable for player annotation")
	}

	rows := make([]models.PlayerRow, 0, len(players))
	for _, p := range players {
		row := models.PlayerRow{Player: p}
		if team, ok := teamsByCode[p.TeamCode]; ok {
			row.Team = &team
			row.Fixtures = fixturesByTeam[team.ID]
		}
		rows = append(rows, row)
	}
	return rows
}

// parseFilterSpec translates the query parameters of the filtered player
// view into a FilterSpec. Position flags arrive as presence parameters,
// e.g. positions[gkp]&positions[fwd].
func parseFilterSpec(c *gin.Context) (*models.FilterSpec, error) {
	minPrice, err := strconv.ParseFloat(c.DefaultQuery("minPrice", "0"), 64)
	if err != nil {
		return nil, err
	}
	maxPrice, err := strconv.ParseFloat(c.DefaultQuery("maxPrice", "15"), 64)
	if err != nil {
		return nil, err
	}
	minsPlayed, err := strconv.Atoi(c.DefaultQuery("minsPlayed", "0"))
	if err != nil {
		return nil, err
	}
	maxOwnership, err := strconv.ParseFloat(c.DefaultQuery("maxOwnership", "100"), 64)
	if err != nil {
		return nil, err
	}

	var positions []string
	for _, code := range positionCodes {
		if _, ok := c.GetQuery("positions[" + code + "]"); ok {
			positions = append(positions, code)
		}
	}

	return &models.FilterSpec{
		MinPrice:         &minPrice,
		MaxPrice:         &maxPrice,
		MinMinutesPlayed: &minsPlayed,
		Positions:        positions,
		MaxOwnership:     &maxOwnership,
	}, nil
}
