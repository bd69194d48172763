package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shipdesk/backend/internal/interfaces/http/dto"
)

// Pinger is satisfied by *persistence.Database
type Pinger interface {
	Ping() error
}

// HealthHandler reports process and database liveness
type HealthHandler struct {
	BaseHandler
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Health godoc
//
//	@Summary	Health check
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Failure	503	{object}	dto.Response
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.db.Ping() }()

	select {
	case err := <-done:
		if err != nil {
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "database unreachable")
			return
		}
	case <-ctx.Done():
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "database ping timed out")
		return
	}
	h.Success(c, gin.H{"status": "healthy", "database": "connected"})
}
