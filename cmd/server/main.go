package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"formforge/internal/cache"
	"formforge/internal/config"
	"formforge/internal/repository"
	"formforge/internal/service"
	"formforge/internal/transport/rest"
	"formforge/internal/transport/ws"
	"formforge/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.New()
	if err != nil {
		stdlog.Fatalf("failed to load config: %s", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %s", err)
	}
	defer log.Sync()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("failed to ping mongodb", zap.Error(err))
	}
	log.Info("connected to mongodb")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisURI, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to ping redis", zap.Error(err))
	}
	log.Info("connected to redis")

	// Repositories and caches
	surveyRepo := repository.NewSurveyRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	surveyCache := cache.NewSurveyCache(rdb)
	stateCache := cache.NewStateCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg)
	surveySvc := service.NewSurveyService(surveyRepo, surveyCache)
	generatorSvc := service.NewGeneratorService(log)
	googleOAuth := service.NewGoogleOAuth(cfg.Google, log)
	formsClient := service.NewFormsClient(log)
	exportSvc := service.NewExportService(surveySvc, tokenRepo, formsClient, googleOAuth, log)

	wsHub := ws.NewHub(log)

	router := rest.NewRouter(&rest.Container{
		Config:           cfg,
		AuthService:      authSvc,
		SurveyService:    surveySvc,
		GeneratorService: generatorSvc,
		ExportService:    exportSvc,
		GoogleOAuth:      googleOAuth,
		TokenRepo:        tokenRepo,
		StateCache:       stateCache,
		WSHub:            wsHub,
		Logger:           log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen and serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
