package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faiz-1107/AMK-Project-Management/internal/session"
)

type healthResponse struct {
	Status        string `json:"status"`
	Storage       string `json:"storage"`
	Driver        string `json:"driver"`
	Authenticated bool   `json:"authenticated"`
	Environment   string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storageStatus := "ok"
	if _, _, err := h.store.Get(ctx, session.TokenKey); err != nil {
		storageStatus = "error"
		h.log.Error().Err(err).Msg("session storage check failed")
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Storage:       storageStatus,
		Driver:        h.cfg.Storage.Driver,
		Authenticated: h.sessions.IsAuthenticated(),
		Environment:   h.cfg.Environment,
	})
}
