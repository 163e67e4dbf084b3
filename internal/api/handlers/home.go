package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dmallory42/super-fpl/internal/models"
	"github.com/dmallory42/super-fpl/internal/services"
	"github.com/dmallory42/super-fpl/internal/store"
)

type HomeHandler struct {
	orchestrator *services.Orchestrator
	logger       *logrus.Logger
}

func NewHomeHandler(orchestrator *services.Orchestrator, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Home renders the player comparison page: everyone with minutes on the
// pitch, sorted by accent-insensitive name.
func (h *HomeHandler) Home(c *gin.Context) {
	players, err := h.orchestrator.GetPlayers(c.Request.Context(), nil)
	if err != nil && !errors.Is(err, store.ErrNoData) {
		h.logger.WithError(err).Error("Failed to load players for home page")
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	valid := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.Minutes > 0 {
			valid = append(valid, p)
		}
	}
	sort.Slice(valid, func(i, j int) bool {
		return foldName(valid[i].Name) < foldName(valid[j].Name)
	})

	c.HTML(http.StatusOK, "home.html", gin.H{
		"title":   "Super FPL - Player Comparison Tool",
		"players": valid,
	})
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldName strips diacritics so "Özil" sorts beside "Ozil".
func foldName(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		return strings.ToLower(name)
	}
	return strings.ToLower(folded)
}
