package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dmallory42/super-fpl/internal/models"
	"github.com/dmallory42/super-fpl/internal/services"
	"github.com/dmallory42/super-fpl/internal/store"
	"github.com/dmallory42/super-fpl/pkg/utils"
)

type TeamHandler struct {
	orchestrator *services.Orchestrator
	logger       *logrus.Logger
}

func NewTeamHandler(orchestrator *services.Orchestrator, logger *logrus.Logger) *TeamHandler {
	return &TeamHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// GetTeams returns today's clubs.
func (h *TeamHandler) GetTeams(c *gin.Context) {
	teams, err := h.orchestrator.GetTeams(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			utils.SendSuccess(c, []models.Team{})
			return
		}
		h.logger.WithError(err).Error("Failed to load teams")
		utils.SendInternalError(c, "Failed to load teams")
		return
	}
	utils.SendSuccess(c, teams)
}
