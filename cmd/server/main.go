package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stress-tracker/internal/config"
	apphttp "stress-tracker/internal/http"
	"stress-tracker/internal/ml"
	"stress-tracker/internal/repository/sqlite"
	"stress-tracker/internal/service"
	"stress-tracker/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fetchMissingArtifacts(ctx, cfg, logger); err != nil {
		logger.Fatalf("fetch artifacts: %v", err)
	}

	// the service must never run with a partially loaded model
	bundle, err := ml.LoadBundle(cfg.Model.Path, cfg.Model.EncoderPath)
	if err != nil {
		logger.Fatalf("load model artifacts (run the trainer first): %v", err)
	}
	logger.Infof("loaded model run %s (classes: %s)", bundle.RunID, strings.Join(bundle.Classes(), ", "))

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	recordRepo := sqlite.NewStressRecordRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := recordRepo.Init(ctx); err != nil {
		logger.Fatalf("init stress record repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	assessmentService := service.NewAssessmentService(userRepo, recordRepo, bundle)

	sessions := apphttp.NewSessionManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, assessmentService, sessions, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// fetchMissingArtifacts pulls artifacts from the configured bucket when the
// local files are absent. Without a bucket the local files are the only source
// and load failures surface at LoadBundle.
func fetchMissingArtifacts(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	if cfg.Storage.Bucket == "" {
		return nil
	}

	var missing []string
	for _, p := range []string{cfg.Model.Path, cfg.Model.EncoderPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	store, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	for _, p := range missing {
		key := path.Join(cfg.Storage.KeyPrefix, filepath.Base(p))
		logger.Infof("fetching s3://%s/%s", cfg.Storage.Bucket, key)
		if err := store.DownloadFile(ctx, cfg.Storage.Bucket, key, p); err != nil {
			return err
		}
	}
	return nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
