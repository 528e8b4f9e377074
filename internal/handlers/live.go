package handlers

import (
	"net/http"

	"github.com/dyplomin-hash/Couture/internal/game"

	"github.com/gin-gonic/gin"
)

type LiveHandler struct {
	engine *game.Engine
}

func NewLiveHandler(engine *game.Engine) *LiveHandler {
	return &LiveHandler{engine: engine}
}

// GetLive returns a read-only snapshot of the running game, if any.
func (h *LiveHandler) GetLive(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.LiveSnapshot())
}

func (h *LiveHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}
