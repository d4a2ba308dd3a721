package main

import (
	"log"
	"net/http"
	"os"

	"github.com/ffaiyaz23/image-processor/internal/artifact"
	"github.com/ffaiyaz23/image-processor/internal/config"
	"github.com/ffaiyaz23/image-processor/internal/database"
	"github.com/ffaiyaz23/image-processor/internal/handlers"
	"github.com/ffaiyaz23/image-processor/internal/imagefetch"
	"github.com/ffaiyaz23/image-processor/internal/notify"
	"github.com/ffaiyaz23/image-processor/internal/queue"
	"github.com/ffaiyaz23/image-processor/internal/services"
	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/gin-gonic/gin"
)

const processedImagesPrefix = "/processed_images"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Ensure storage directories exist before anything can write to them
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := os.MkdirAll(cfg.ProcessedDir, 0o755); err != nil {
		log.Fatalf("Failed to create processed images directory: %v", err)
	}

	// Open the job/product store
	var st store.Store
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set. Falling back to in-memory storage; jobs will not survive restarts.")
		st = store.NewMemoryStore()
	} else {
		sqlStore, err := store.OpenSQL(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer sqlStore.Close()

		// Run migrations
		migrator := database.NewMigrator(sqlStore.DB(), cfg.DatabaseDriver)
		if err := migrator.Run(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")

		st = sqlStore
	}

	// Initialize the processing pipeline
	fetcher := imagefetch.NewFetcher(cfg.ProcessedDir, processedImagesPrefix)
	notifier := notify.NewNotifier()
	artifacts := artifact.NewGenerator(st, cfg.OutputDir)
	processor := services.NewProcessor(st, fetcher, notifier)

	// Single background worker: job runs are strictly sequential
	jobQueue := queue.New(cfg.QueueSize, processor.Run)
	jobQueue.Start()
	defer jobQueue.Stop()

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(st, jobQueue)
	statusHandler := handlers.NewStatusHandler(st, artifacts)
	downloadHandler := handlers.NewDownloadHandler(st, artifacts)

	// Setup router
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Image Processor API"})
	})
	router.GET("/health", handlers.HealthHandler)

	router.POST("/upload", uploadHandler.Upload)
	router.GET("/status/:job_id", statusHandler.GetStatus)
	router.GET("/download/:job_id", downloadHandler.Download)

	// Serve previously processed images
	router.Static(processedImagesPrefix, cfg.ProcessedDir)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
