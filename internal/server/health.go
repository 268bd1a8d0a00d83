package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/abduss/uploader/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

func registerHealthRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if deps.Metadata != nil {
			if err := deps.Metadata.Ping(ctx); err != nil {
				degraded(c, deps.Config.Metadata.Driver, err)
				return
			}
		}

		if deps.ObjectStore != nil {
			if err := checkBucket(ctx, deps.ObjectStore, deps.Config.MinIO.Bucket); err != nil {
				degraded(c, "minio", err)
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func checkBucket(ctx context.Context, store BucketChecker, bucket string) error {
	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q missing", bucket)
	}
	return nil
}

// degraded reports the failing component without leaking the cause.
func degraded(c *gin.Context, component string, err error) {
	logger.FromContext(c).Warn("readiness check failed", zap.String("component", component), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":    "degraded",
		"component": component,
	})
}
