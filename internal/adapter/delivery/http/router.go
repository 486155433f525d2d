package http

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RegisterRoutes sets up the routes for the lookup handler and common health checks.
func RegisterRoutes(r *router.Router, h *LookupHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.POST("/lookups", h.CreateLookup)
	r.GET("/lookups/{id}", h.GetLookup)
	r.PUT("/lookups/{id}", h.RestartLookup)
	r.DELETE("/lookups/{id}", h.DeleteLookup)
	r.GET("/lookups/{id}/stream", h.StreamLookup)
	r.GET("/networks", h.ListNetworks)

	logger.Info("Setting up health check route...")
	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
}

// LoggingMiddleware logs every request before passing it on.
func LoggingMiddleware(logger *zap.Logger) func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			logger.Info("Request received",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("uri", ctx.RequestURI()))
			next(ctx)
		}
	}
}
