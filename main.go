package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/client"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/handler"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/inference"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/middleware"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/morph"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/repository"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/segment"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/service"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// 加载配置
	cfg := config.New()

	// 初始化日志
	var logFile *utils.LogFile
	if cfg.Log.File != "" {
		logFile = &utils.LogFile{
			Path:       cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}
	}
	if err := utils.InitLogger(cfg.Server.Mode, logFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting roof estimator server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	ctx := context.Background()

	// 初始化Redis
	redisService := service.NewRedisService(&cfg.Redis)
	var cache service.Cache = redisService
	if err := redisService.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
		cache = service.NopCache{}
	} else {
		utils.Logger.Info("redis connected successfully")
	}
	defer redisService.Close()

	// 屋顶分割模型（可选）
	var roofModel inference.Model
	if cfg.Inference.ModelPath != "" {
		m, err := inference.NewONNXModel(&cfg.Inference)
		if err != nil {
			utils.Logger.Warn("failed to load roof model, image segmentation disabled", zap.Error(err))
		} else {
			utils.Logger.Info("roof model loaded", zap.String("path", cfg.Inference.ModelPath))
			roofModel = m
			defer m.Close()
		}
	}

	// 外部服务客户端
	tileClient := client.NewTileClient(&cfg.Tiles)
	solarClient := client.NewSolarClient(&cfg.Solar)
	overpassClient := client.NewOverpassClient(&cfg.Overpass)
	if cfg.Solar.APIKey == "" {
		utils.Logger.Warn("solar api key not configured, solar endpoints will return 503")
	}

	// 初始化服务
	segmenter := segment.New(segment.Config{
		Kernel:       cfg.Flood.Kernel,
		Tolerance:    cfg.Flood.Tolerance,
		EpsilonRatio: cfg.Flood.EpsilonRatio,
		Connectivity: cfg.Flood.Connectivity,
	})
	segmentationService := service.NewSegmentationService(cfg, roofModel, morph.NewMaskProcessor(cfg.Inference.MorphKernel), cache)
	traceService := service.NewTraceService(&cfg.Vectorize)
	interactiveService := service.NewInteractiveService(tileClient, segmenter, cache)
	solarService := service.NewSolarService(solarClient, cache, cfg.Solar.LayerRadius)
	footprintService := service.NewFootprintService(overpassClient)

	// 价格库（可选）
	var pricingHandler *handler.PricingHandler
	if cfg.Database.DSN != "" {
		db, err := repository.Open(&cfg.Database)
		if err != nil {
			utils.Logger.Fatal("failed to connect database", zap.Error(err))
		}
		defer db.Close()

		repo := repository.NewPricingRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			utils.Logger.Fatal("failed to migrate database", zap.Error(err))
		}
		if cfg.Database.Seed {
			if err := repo.Seed(ctx); err != nil {
				utils.Logger.Fatal("failed to seed database", zap.Error(err))
			}
		}
		pricingHandler = handler.NewPricingHandler(service.NewPricingService(repo))
		utils.Logger.Info("database connected successfully")
	} else {
		utils.Logger.Warn("database dsn not configured, pricing endpoints disabled")
	}

	// 初始化Handler
	uploadHandler := handler.NewUploadHandler(cfg, segmentationService)
	segmentHandler := handler.NewSegmentHandler(traceService, interactiveService)
	estimateHandler := handler.NewEstimateHandler(solarService, footprintService)

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 创建路由
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// 健康检查和版本信息
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":          "ok",
			"version":         Version,
			"model_loaded":    segmentationService.Available(),
			"pricing_enabled": pricingHandler != nil,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"build_id":   BuildID,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	// API路由
	api := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	{
		api.POST("/segment/mask", segmentHandler.Mask)
		api.POST("/segment/image", uploadHandler.Upload)
		api.GET("/segment/image/:md5", uploadHandler.GetByMD5)
		api.GET("/segment", segmentHandler.Interactive)

		api.GET("/solar/insights", estimateHandler.Insights)
		api.GET("/solar/layers", estimateHandler.Layers)
		api.POST("/estimate", estimateHandler.Estimate)
		api.GET("/footprint", estimateHandler.Footprint)
	}

	if pricingHandler != nil {
		api.GET("/pricing", pricingHandler.Bundle)
		api.POST("/quote", pricingHandler.Quote)

		admin := api.Group("/admin", middleware.AdminAuth(&cfg.Auth))
		{
			admin.GET("/products", pricingHandler.ListProducts)
			admin.POST("/products", pricingHandler.CreateProduct)
			admin.GET("/products/:id", pricingHandler.GetProduct)
			admin.PUT("/products/:id", pricingHandler.UpdateProduct)
			admin.DELETE("/products/:id", pricingHandler.DeleteProduct)
			admin.GET("/settings", pricingHandler.ListSettings)
			admin.PUT("/settings/:key", pricingHandler.UpdateSetting)
		}
	}

	// 启动服务器
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
}
