package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/em591991/gse-inventory/internal/config"
	"github.com/em591991/gse-inventory/internal/middleware"
	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/procure/handler"
	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/em591991/gse-inventory/internal/procure/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env first, environment wins
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting gse-inventory service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Vendor{},
		&entity.VendorContact{},
		&entity.Item{},
		&entity.RFQ{},
		&entity.RFQLine{},
		&entity.RFQVendor{},
		&entity.VendorQuote{},
		&entity.Replenishment{},
		&entity.ReplenishmentLine{},
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderLine{},
		&entity.ActivityLog{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)

	aggregatorSvc := service.NewAggregatorService(repos.RFQ, repos.Quote)
	vendorSvc := service.NewVendorService(repos.Vendor, repos.ActivityLog)
	itemSvc := service.NewItemService(repos.Item)
	rfqSvc := service.NewRFQService(repos.RFQ, repos.Quote, repos.Vendor, repos.Item, repos.ActivityLog, zapLogger)
	exportSvc := service.NewExportService(repos.RFQ, aggregatorSvc)
	resolverSvc := service.NewResolverService(repos.Replenishment, repos.RFQ, repos.PO, repos.ActivityLog, aggregatorSvc, db, zapLogger)
	orderSvc := service.NewOrderService(repos.PO)
	dashboardSvc := service.NewDashboardService(db, rdb, zapLogger)

	handlers := handler.NewHandlers(vendorSvc, itemSvc, rfqSvc, aggregatorSvc, exportSvc, resolverSvc, orderSvc, dashboardSvc, repos.ActivityLog)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// Health checks
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Version info
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// Vendor master data
			vendors := authorized.Group("/vendors")
			{
				vendors.GET("", h.Vendor.List)
				vendors.POST("", h.Vendor.Create)
				vendors.GET("/:id", h.Vendor.Get)
				vendors.PUT("/:id", h.Vendor.Update)
				vendors.GET("/:id/contacts", h.Vendor.ListContacts)
				vendors.POST("/:id/contacts", h.Vendor.AddContact)
				vendors.DELETE("/:id/contacts/:contactId", h.Vendor.RemoveContact)
			}

			// Catalog items
			items := authorized.Group("/items")
			{
				items.GET("", h.Item.List)
				items.POST("", h.Item.Create)
				items.GET("/:id", h.Item.Get)
				items.PUT("/:id", h.Item.Update)
			}

			// RFQ lifecycle and quotes
			rfqs := authorized.Group("/rfqs")
			{
				rfqs.GET("", h.RFQ.List)
				rfqs.POST("", h.RFQ.Create)
				rfqs.GET("/:id", h.RFQ.Get)
				rfqs.PUT("/:id", h.RFQ.Update)
				rfqs.DELETE("/:id", h.RFQ.Delete)
				rfqs.POST("/:id/send", h.RFQ.Send)
				rfqs.POST("/:id/cancel", h.RFQ.Cancel)
				rfqs.POST("/:id/close-quoting", h.RFQ.CloseQuoting)
				rfqs.GET("/:id/quotes", h.RFQ.ListQuotes)
				rfqs.POST("/:id/quotes", h.RFQ.SubmitQuotes)
				rfqs.POST("/:id/quotes/import", h.RFQ.ImportQuotes)
				rfqs.GET("/:id/quotes/template", h.RFQ.QuoteTemplate)
				rfqs.GET("/:id/replenishment-view", h.RFQ.ReplenishmentView)
				rfqs.GET("/:id/comparison/export", h.RFQ.ExportComparison)
				rfqs.POST("/:id/vendors/:vendorId/decline", h.RFQ.DeclineVendor)
			}

			// Replenishment drafts and finalize. Finalize commits money
			// against vendors, so it takes the purchasing role on top of
			// the write permission.
			repls := authorized.Group("/replenishments")
			repls.Use(middleware.RequirePermission("procurement:write"))
			{
				repls.GET("", h.Replenishment.List)
				repls.POST("", h.Replenishment.Create)
				repls.GET("/:id", h.Replenishment.Get)
				repls.POST("/:id/finalize", middleware.RequireRole("purchasing"), h.Replenishment.Finalize)
			}

			// Purchase orders (read side)
			orders := authorized.Group("/purchase-orders")
			{
				orders.GET("", h.Order.List)
				orders.GET("/:id", h.Order.Get)
			}

			// Dashboard
			authorized.GET("/dashboard/procurement", h.Dashboard.Stats)

			// Activity trail
			authorized.GET("/activities/:entityType/:entityId", h.Activity.ListByEntity)
		}
	}
}
