// Package router assembles the gin engine and mounts the API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shipdesk/backend/internal/infrastructure/logger"
	"github.com/shipdesk/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// APIPrefix is the path prefix of every versioned endpoint
const APIPrefix = "/api/v1"

// RouteRegistrar mounts a group of routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options configures the engine
type Options struct {
	ServiceName    string
	MaxBodySize    int64
	TrustedProxies []string
	Logger         *zap.Logger
}

// NewEngine builds a gin engine with the standard middleware chain.
// Order matters: request ID before tracing so the span can carry it,
// tracing before the logger so log lines carry the trace ID.
func NewEngine(opts Options) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	if opts.ServiceName != "" {
		engine.Use(middleware.Tracing(opts.ServiceName))
		engine.Use(middleware.SpanEnricher())
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Actor())
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}

	return engine, nil
}

// Register mounts the health check at the root and every registrar under APIPrefix
func Register(engine *gin.Engine, health gin.HandlerFunc, registrars ...RouteRegistrar) {
	engine.GET("/health", health)

	api := engine.Group(APIPrefix)
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
}
