package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"go-dashboard-verification/internal/app"
	"go-dashboard-verification/internal/config"
	"go-dashboard-verification/internal/models"
	"go-dashboard-verification/internal/verify"

	"github.com/gin-gonic/gin"
)

type verifier interface {
	Execute(ctx context.Context) (*models.Run, error)
}

type runLister interface {
	RecentRuns(ctx context.Context, limit int) ([]models.Run, error)
}

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init verification service: %v", err)
	}
	defer a.Close()

	r := newRouter(a.Service, a, cfg.OutputDir)

	log.Printf("Server listening on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newRouter(v verifier, runs runLister, outputDir string) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Dashboard verification API is running!",
			"status":  "healthy",
		})
	})

	// runs synchronously; a full verification takes a few seconds
	r.POST("/runs", func(c *gin.Context) {
		run, err := v.Execute(c.Request.Context())
		switch {
		case errors.Is(err, verify.ErrRunInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "run": run})
		default:
			c.JSON(http.StatusOK, gin.H{"run": run})
		}
	})

	r.GET("/runs", func(c *gin.Context) {
		limit := 20
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		list, err := runs.RecentRuns(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if list == nil {
			list = []models.Run{}
		}
		c.JSON(http.StatusOK, gin.H{"runs": list})
	})

	r.Static("/screenshots", outputDir)

	return r
}
