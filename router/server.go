package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/opencluster/framework-job-scheduler/api/controllers"
)

const (
	apiVersionRoute = "/api/v1"
)

// NewServer creates a new framework job scheduler REST service
func NewServer(apiControllers ...controllers.Controller) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.RemoveExtraSlash = true
	engine.Use(zerologRequestLogger(), gin.Recovery())

	v1Router := engine.Group(apiVersionRoute)
	{
		initializeAPIServer(v1Router, apiControllers)
	}

	return engine
}

func initializeAPIServer(router gin.IRoutes, apiControllers []controllers.Controller) {
	for _, controller := range apiControllers {
		for _, route := range controller.GetRoutes() {
			addHandlerRoute(router, route)
		}
	}
}

func addHandlerRoute(router gin.IRoutes, route controllers.Route) {
	router.Handle(route.Method, route.Path, route.Handler)
}

// zerologRequestLogger attaches the global logger to the request context
// and logs each request after it completes.
func zerologRequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger := log.Logger
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		ev := logger.Info()
		if len(c.Errors) > 0 {
			ev = logger.Warn().Str("error", c.Errors.String())
		}
		ev.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("")
	}
}
