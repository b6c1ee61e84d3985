package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// Health reports liveness of the API and its two backing stores. Returns 503
// as soon as either Postgres or Redis stops answering so the load balancer
// can pull the instance.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{"postgres": "up", "redis": "up"}
		healthy := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["postgres"] = "down"
			healthy = false
		}
		if rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "down"
			healthy = false
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":         healthy,
			"service":    "gymzone-api",
			"uptime_sec": int64(time.Since(startedAt).Seconds()),
			"checks":     checks,
		})
	}
}
