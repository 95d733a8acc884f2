package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/scenepulse/scenepulse-backend/internal/api/handler"
	"github.com/scenepulse/scenepulse-backend/internal/api/middleware"
	"github.com/scenepulse/scenepulse-backend/internal/config"
	"github.com/scenepulse/scenepulse-backend/internal/logger"
	"github.com/scenepulse/scenepulse-backend/internal/service"
)

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - runService: run service instance.
//   - cfg: application configuration.
//   - log: logger instance.
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(
	runService *service.RunService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	auth := middleware.APIKeyAuth(cfg.Auth.APIKey)

	healthHandler := handler.NewHealthHandler(cfg.Storage.GCS.Project, cfg.Storage.Bucket, runService)
	runHandler := handler.NewRunHandler(runService, log)

	// Liveness check, the only unauthenticated route
	r.GET("/", healthHandler.Root)

	r.GET("/secure/ping", auth, healthHandler.SecurePing)
	r.GET("/routes", auth, listRoutes(r))

	v1 := r.Group("/v1", auth)
	{
		v1.POST("/runs", runHandler.CreateRun)
		v1.GET("/runs", runHandler.ListRuns)
		v1.GET("/runs/:run_id", runHandler.GetRun)
	}

	return r
}

// listRoutes returns a debug handler reporting the registered routes,
// sorted by path
func listRoutes(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		methodsByPath := make(map[string][]string)
		for _, route := range r.Routes() {
			methodsByPath[route.Path] = append(methodsByPath[route.Path], route.Method)
		}

		type routeInfo struct {
			Path    string   `json:"path"`
			Methods []string `json:"methods"`
		}

		out := make([]routeInfo, 0, len(methodsByPath))
		for path, methods := range methodsByPath {
			sort.Strings(methods)
			out = append(out, routeInfo{Path: path, Methods: methods})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

		c.JSON(http.StatusOK, gin.H{"routes": out})
	}
}
