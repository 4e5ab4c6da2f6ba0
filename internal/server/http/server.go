package http

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/configs"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/middleware"
)

var (
	router *gin.Engine
	once   sync.Once
)

// Init builds the process-wide engine around predictor.
func Init(predictor Predictor, appConfigs *configs.AppConfigs) {
	once.Do(func() {
		env := appConfigs.Configs.ApplicationEnv
		if env == "prod" || env == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		router = NewRouter(predictor, Options{
			AllowedOrigins:      appConfigs.Configs.CorsAllowedOrigins,
			ErrorLoggingPercent: appConfigs.Configs.ErrorLoggingPercent,
		})
	})
}

func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("Router not initialized")
	}
	return router
}

type Options struct {
	// AllowedOrigins is a comma separated origin list, or "*" for any origin.
	AllowedOrigins      string
	ErrorLoggingPercent int
}

func NewRouter(predictor Predictor, opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(
		cors.New(corsConfig(opts.AllowedOrigins)),
		middleware.RequestID(),
		middleware.HTTPLogger(),
		middleware.HTTPRecovery(),
	)

	engine.GET("/health/self", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "true"})
	})
	RegisterRoutes(engine, NewHandler(predictor, opts.ErrorLoggingPercent))
	return engine
}

func corsConfig(allowedOrigins string) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return corsConfig
}
