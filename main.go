package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photolabel/auth"
	"photolabel/config"
	"photolabel/db"
	"photolabel/handlers"
	"photolabel/models"
	"photolabel/processing"
	"photolabel/storage"
	"photolabel/utils"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.DebugMode {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

func main() {
	cfg, err := config.Read()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.Open(cfg.Database, logger.Named("db"))
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	store := models.NewStore(conn)
	if err = store.Migrate(); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}
	storer, err := storage.Init(cfg.Storage, logger.Named("storage"))
	if err != nil {
		logger.Fatal("storage init", zap.Error(err))
	}
	credentials := auth.NewCredentials(store, auth.NewTokens(cfg.Auth), logger)
	h := &handlers.Handlers{
		Store:       store,
		Credentials: credentials,
		Guard:       auth.NewGuard(store),
		Classifier:  processing.New(cfg.Classifier, logger),
		Storage:     storer,
		MaxUpload:   cfg.MaxUploadBytes(),
		Log:         logger.Named("handlers"),
	}

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(utils.RequestID())
	if cfg.DebugMode {
		router.Use(utils.ErrorLogMiddleware(logger))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", utils.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	if !cfg.DebugMode {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler())
	h.Register(router)

	if len(cfg.TLSDomains) > 0 {
		logger.Info("serving with autotls", zap.Strings("domains", cfg.TLSDomains))
		err = autotls.Run(router, cfg.TLSDomains...)
	} else {
		logger.Info("listening", zap.String("address", cfg.BindAddress))
		err = router.Run(cfg.BindAddress)
	}
	logger.Fatal("server stopped", zap.Error(err))
}
