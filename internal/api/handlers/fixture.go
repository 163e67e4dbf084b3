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

type FixtureHandler struct {
	orchestrator *services.Orchestrator
	logger       *logrus.Logger
}

func NewFixtureHandler(orchestrator *services.Orchestrator, logger *logrus.Logger) *FixtureHandler {
	return &FixtureHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// GetFixtures returns today's fixture list.
func (h *FixtureHandler) GetFixtures(c *gin.Context) {
	fixtures, err := h.orchestrator.GetFixtures(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			utils.SendSuccess(c, []models.Fixture{})
			return
		}
		h.logger.WithError(err).Error("Failed to load fixtures")
		utils.SendInternalError(c, "Failed to load fixtures")
		return
	}
	utils.SendSuccess(c, fixtures)
}
