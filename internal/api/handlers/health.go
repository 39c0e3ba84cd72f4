package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/allinsys/contactforms/internal/api/dto/common"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/version"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(c *gin.Context) {
	info := version.GetBuildInfo()
	resp := common.HealthResponse{
		Status:    "ok",
		Store:     "ok",
		Version:   info.Version,
		GitCommit: info.GitCommit,
		BuildTime: info.BuildTime,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.GetGlobalLogger().Error("Health check failed: %v", err)
		resp.Status = "degraded"
		resp.Store = "unreachable"
		c.JSON(http.StatusServiceUnavailable, common.APIResponse{
			Success: false,
			Data:    resp,
			Error: &common.ErrorResponse{
				Code:    string(common.ErrCodeUnavailable),
				Message: "Store connection error",
			},
		})
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(resp))
}
