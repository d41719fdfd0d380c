package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"social-template-platform/internal/ai"
	"social-template-platform/internal/config"
	"social-template-platform/internal/instagram"
	"social-template-platform/internal/logger"
	"social-template-platform/internal/repository"
	"social-template-platform/routes"
	"social-template-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	db := mongoClient.Database(cfg.DBName)
	accounts := repository.NewAccountRepository(db)
	posts := repository.NewPostRepository(db)
	templates := repository.NewTemplateRepository(db)

	// External adapters are constructed once here and injected into each
	// pipeline, never reached through globals.
	source := instagram.NewClient(cfg.InstagramAccessToken, cfg.InstagramAPIURL)
	llm := ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	crawlService := services.NewCrawlService(source, accounts, posts, cfg.CrawlPageSize)
	analyzeService := services.NewAnalyzeService(llm, accounts, posts, cfg.AnalyzeBatchLimit, cfg.AnalyzePacing)
	templateService := services.NewTemplateService(llm, accounts, posts, templates, cfg.TemplateSampleLimit, cfg.TemplateExampleLimit)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	api := router.Group("/api")
	routes.SetupCrawlRoutes(api, crawlService)
	routes.SetupAnalyzeRoutes(api, analyzeService)
	routes.SetupTemplateRoutes(api, templateService)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
