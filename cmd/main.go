package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/events"
	"github.com/instock-app/instock-server/internal/handler"
	"github.com/instock-app/instock-server/internal/repository"
	"github.com/instock-app/instock-server/internal/service"
	"github.com/instock-app/instock-server/internal/stats"
	"github.com/instock-app/instock-server/internal/storage"
	"github.com/instock-app/instock-server/pkg/config"
	"github.com/instock-app/instock-server/pkg/middleware"
	tlspkg "github.com/instock-app/instock-server/pkg/tls"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	dynamoClient, err := repository.NewDynamoDBClient(cfg)
	if err != nil {
		log.Fatal("Failed to create DynamoDB client:", err)
	}
	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		log.Fatal("Failed to create S3 client:", err)
	}

	itemRepo := repository.NewItemRepository(dynamoClient, cfg.ItemTableName)
	milestoneRepo := repository.NewMilestoneRepository(dynamoClient, cfg.MilestoneTableName)
	imageStorage := storage.NewService(s3Client, cfg.ImageBucketName, logger)

	var milestonePublisher service.MilestonePublisher
	if cfg.KafkaBrokers != "" {
		producer, err := events.NewKafkaProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			log.Fatal("Failed to create Kafka producer:", err)
		}
		defer producer.Close()
		milestonePublisher = producer
	}

	checker := auth.NewChecker()
	engine := stats.NewEngine()
	builder := stats.NewBuilder(checker, engine, logger)

	statsService := service.NewStatsService(itemRepo, builder, checker, logger)
	milestoneService := service.NewMilestoneService(milestoneRepo, milestonePublisher, checker, logger)
	itemService := service.NewItemService(itemRepo, checker, milestoneService, imageStorage, logger)

	statsHandler := handler.NewStatsHandler(statsService, logger)
	itemHandler := handler.NewItemHandler(itemService, logger)
	milestoneHandler := handler.NewMilestoneHandler(milestoneService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/businesses/:businessId/stats", statsHandler.GetStats)
		v1.GET("/businesses/:businessId/items", itemHandler.GetItems)
		v1.POST("/businesses/:businessId/items", itemHandler.CreateItem)
		v1.POST("/businesses/:businessId/items/:sku/stock", itemHandler.AddStockUpdate)
		v1.POST("/businesses/:businessId/items/:sku/image", itemHandler.UploadItemImage)
		v1.GET("/businesses/:businessId/milestones", milestoneHandler.GetMilestones)
		v1.PATCH("/businesses/:businessId/milestones/hide", milestoneHandler.HideMilestone)
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "healthy"})
		})
	}

	tlsConfig, err := tlspkg.LoadTLSConfig(&cfg.TLS, logger)
	if err != nil {
		log.Fatal("Failed to load TLS config:", err)
	}
	defer tlspkg.Cleanup()

	srv := &http.Server{
		Addr:      ":" + cfg.Port,
		Handler:   router,
		TLSConfig: tlsConfig,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port), zap.Bool("tls", tlsConfig != nil))
		var err error
		if tlsConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
