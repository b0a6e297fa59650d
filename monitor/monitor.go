package monitor

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var startedAt = time.Now()

// RegisterMonitorRoutes exposes the status endpoint and the Prometheus
// metrics scrape target.
func RegisterMonitorRoutes(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"started": startedAt.Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
