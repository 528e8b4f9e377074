package handlers

import (
	"net/http"
	"strconv"

	"github.com/dyplomin-hash/Couture/internal/services"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	archive *services.ArchiveService
}

func NewHistoryHandler(archive *services.ArchiveService) *HistoryHandler {
	return &HistoryHandler{archive: archive}
}

// ListGames returns the most recently finished games, newest first.
func (h *HistoryHandler) ListGames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.archive.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load games"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetGame returns one archived game with its full standings.
func (h *HistoryHandler) GetGame(c *gin.Context) {
	record, err := h.archive.GetByPublicID(c.Param("public_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}
