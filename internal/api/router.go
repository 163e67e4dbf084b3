package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dmallory42/super-fpl/internal/api/handlers"
	"github.com/dmallory42/super-fpl/internal/api/middleware"
	"github.com/dmallory42/super-fpl/internal/services"
)

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(orchestrator *services.Orchestrator, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())
	router.LoadHTMLGlob("web/templates/*")

	homeHandler := handlers.NewHomeHandler(orchestrator, logger)
	playerHandler := handlers.NewPlayerHandler(orchestrator, logger)
	teamHandler := handlers.NewTeamHandler(orchestrator, logger)
	fixtureHandler := handlers.NewFixtureHandler(orchestrator, logger)
	healthHandler := handlers.NewHealthHandler()

	router.GET("/", homeHandler.Home)
	router.GET("/health", healthHandler.GetHealth)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/players", playerHandler.GetPlayers)
		apiV1.GET("/value-range", playerHandler.GetValueRange)
		apiV1.GET("/players/:id/summary", playerHandler.GetPlayerSummary)
		apiV1.GET("/players/:id/form", playerHandler.GetPlayerForm)
		apiV1.GET("/teams", teamHandler.GetTeams)
		apiV1.GET("/fixtures", fixtureHandler.GetFixtures)
	}

	return router
}
