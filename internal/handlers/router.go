package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the gin engine with CORS, the research routes, and
// the Prometheus scrape endpoint.
func NewRouter(h *ResearchHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-API-KEY")
	r.Use(cors.New(corsConfig))

	r.POST("/api/research", h.HandleResearch)
	r.GET("/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
