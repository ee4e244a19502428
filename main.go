package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"drug-graph/config"
	"drug-graph/graph"
	"drug-graph/models"
	"drug-graph/providers"
	"drug-graph/providers/drugcsv"
	"drug-graph/providers/pubmedfile"
	"drug-graph/providers/trialcsv"
	"drug-graph/services"
	"drug-graph/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	graphBuildsCounter  prometheus.Counter
	mentionEdgesCounter prometheus.Counter
)

func init() {
	graphBuildsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graph_builds_total",
			Help: "Total number of completed graph pipeline runs.",
		},
	)
	mentionEdgesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mention_edges_total",
			Help: "Total number of mention edges produced across all pipeline runs.",
		},
	)
	prometheus.MustRegister(graphBuildsCounter, mentionEdgesCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	// Auto-Migration
	if gin.Mode() == gin.DebugMode {
		logging.Info("Debug mode detected. Dropping tables for fresh start.")
		db.Migrator().DropTable(&models.Drug{}, &models.Publication{}, &models.Journal{}, &models.GraphSnapshot{})
	}
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Drug{}, &models.Publication{}, &models.Journal{}, &models.GraphSnapshot{})

	// Setup S3 (optional, nur für Dokument-Backups)
	var s3Client *s3.Client
	if cfg.BackupEnabled {
		s3Client, err = storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
	}

	// Setup Pipeline
	pipelineService := services.NewPipelineService(
		cfg,
		db,
		s3Client,
		logging,
		drugcsv.NewExtractor(cfg.DrugsCSVPath, logging),
		[]providers.PublicationSource{
			pubmedfile.NewExtractor(cfg.PubMedCSVPath, logging),
			pubmedfile.NewExtractor(cfg.PubMedJSONPath, logging),
		},
		trialcsv.NewExtractor(cfg.TrialsCSVPath, logging),
	)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupDrugRoutes(router, db, logging)
	setupPublicationRoutes(router, db, logging)
	setupPipelineRoutes(router, pipelineService)
	setupGraphRoutes(router, cfg, logging)
	setupAnalyticsRoutes(router, cfg, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled graph rebuild...")
		g, err := pipelineService.Run(context.Background())
		if err != nil {
			logging.Error("Cron job failed", zap.Error(err))
		} else {
			logging.Info("Cron job completed", zap.Int("edges", g.EdgeCount()))
			graphBuildsCounter.Inc()
			mentionEdgesCounter.Add(float64(g.EdgeCount()))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupDrugRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/drugs")
	rg.POST("/", func(c *gin.Context) {
		var payload struct {
			ATCCode string `json:"atccode" binding:"required"`
			Name    string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		drug, err := models.NewDrug(payload.ATCCode, payload.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "atccode and name must not be empty"})
			return
		}
		if err := db.Create(&drug).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create drug"})
			return
		}
		c.JSON(http.StatusCreated, drug)
	})
	rg.GET("/", func(c *gin.Context) {
		var drugs []models.Drug
		if err := db.Find(&drugs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, drugs)
	})
}

func setupPublicationRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/publications")

	rg.GET("/", func(c *gin.Context) {
		var publications []models.Publication
		if err := db.Find(&publications).Error; err != nil {
			log.Error("Database query for all publications failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, publications)
	})

	// Body-gesteuerter Endpunkt für komplexe Abfragen
	rg.POST("/query", func(c *gin.Context) {
		type PublicationQuery struct {
			Source        string `json:"source"` // "pubmed" | "clinical_trial"
			JournalName   string `json:"journal_name"`
			TitleContains string `json:"title_contains"`
			Limit         int    `json:"limit"`
		}

		var req PublicationQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		query := db.Model(&models.Publication{})

		if req.Source != "" {
			query = query.Where("source = ?", req.Source)
		}
		if req.JournalName != "" {
			query = query.Where("journal_name = ?", req.JournalName)
		}
		if req.TitleContains != "" {
			query = query.Where("title ILIKE ?", "%"+req.TitleContains+"%")
		}
		if req.Limit > 0 {
			query = query.Limit(req.Limit)
		}

		var publications []models.Publication
		if err := query.Order("date desc").Find(&publications).Error; err != nil {
			log.Error("Database query for publications failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, publications)
	})
}

func setupPipelineRoutes(router *gin.Engine, pipelineService *services.PipelineService) {
	rg := router.Group("/pipeline")
	rg.POST("/run", func(c *gin.Context) {
		go func() {
			g, err := pipelineService.Run(context.Background())
			if err != nil {
				pipelineService.Logger.Error("Async pipeline run failed", zap.Error(err))
			} else {
				graphBuildsCounter.Inc()
				mentionEdgesCounter.Add(float64(g.EdgeCount()))
				pipelineService.Logger.Info("Async pipeline run completed", zap.Int("edges", g.EdgeCount()))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Graph rebuild triggered."})
	})
}

// setupGraphRoutes konfiguriert die Endpunkte für das exportierte Dokument.
func setupGraphRoutes(router *gin.Engine, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/graph")

	rg.GET("/document", func(c *gin.Context) {
		data, err := os.ReadFile(cfg.GraphOutputPath)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no graph document found, run the pipeline first"})
			return
		}
		c.Data(http.StatusOK, "application/json", data)
	})

	rg.GET("/stats", func(c *gin.Context) {
		g, err := loadGraph(cfg, log)
		if err != nil {
			respondGraphLoadError(c, err)
			return
		}
		stats := map[string]int{}
		for _, n := range g.Nodes() {
			stats[string(n.Type)]++
		}
		c.JSON(http.StatusOK, gin.H{
			"nodes":   g.NodeCount(),
			"edges":   g.EdgeCount(),
			"by_type": stats,
		})
	})
}

// setupAnalyticsRoutes konfiguriert die Analyse-Abfragen über dem
// persistierten Dokument.
func setupAnalyticsRoutes(router *gin.Engine, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/analytics")

	// Journal(s) mit den meisten verschiedenen Drugs
	rg.GET("/top-journals", func(c *gin.Context) {
		g, err := loadGraph(cfg, log)
		if err != nil {
			respondGraphLoadError(c, err)
			return
		}
		c.JSON(http.StatusOK, graph.JournalsWithMostDrugMentions(g))
	})

	// Journals mit den meisten Erwähnungen eines bestimmten Drugs
	rg.GET("/drugs/:name/journals", func(c *gin.Context) {
		name := strings.TrimSpace(c.Param("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "drug name required"})
			return
		}
		g, err := loadGraph(cfg, log)
		if err != nil {
			respondGraphLoadError(c, err)
			return
		}
		c.JSON(http.StatusOK, graph.JournalsWithMostMentionsOfDrug(g, name))
	})
}

// loadGraph lädt das persistierte Dokument und rekonstruiert den Graphen.
func loadGraph(cfg *config.Config, log *zap.Logger) (*graph.Graph, error) {
	data, err := os.ReadFile(cfg.GraphOutputPath)
	if err != nil {
		return nil, err
	}
	return graph.NewCodec(log).ImportJSON(data)
}

func respondGraphLoadError(c *gin.Context, err error) {
	if errors.Is(err, graph.ErrParse) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "graph document is malformed"})
		return
	}
	if os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no graph document found, run the pipeline first"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load graph document"})
}
