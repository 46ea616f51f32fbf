package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"stress-tracker/internal/config"
	"stress-tracker/internal/ml"
	"stress-tracker/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := ml.Train(ml.TrainOptions{
		DatasetPath: cfg.Model.DatasetPath,
		ModelPath:   cfg.Model.Path,
		EncoderPath: cfg.Model.EncoderPath,
	}, logger)
	if err != nil {
		logger.Fatalf("train: %v", err)
	}

	logger.Infof("training run %s: %d train rows, %d test rows, held-out accuracy %.2f, classes: %s",
		result.RunID, result.TrainRows, result.TestRows, result.Accuracy, strings.Join(result.Classes, ", "))
	if result.ModelSaved && result.EncoderSaved {
		logger.Infof("model and encoder saved successfully")
	} else {
		logger.Warnf("artifact writes incomplete (model=%t encoder=%t)", result.ModelSaved, result.EncoderSaved)
	}

	if cfg.Storage.Bucket == "" {
		return
	}
	if !result.ModelSaved || !result.EncoderSaved {
		logger.Warnf("skipping upload: artifacts incomplete")
		return
	}

	if err := publishArtifacts(ctx, cfg, logger); err != nil {
		logger.Errorf("publish artifacts: %v", err)
	}
}

// publishArtifacts uploads the artifact pair and the dataset under the
// configured key prefix, then logs what the bucket now holds there.
func publishArtifacts(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	store, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	for _, p := range []string{cfg.Model.Path, cfg.Model.EncoderPath, cfg.Model.DatasetPath} {
		key := path.Join(cfg.Storage.KeyPrefix, filepath.Base(p))
		if err := store.UploadFile(ctx, p, cfg.Storage.Bucket, key); err != nil {
			return err
		}
		logger.Infof("uploaded s3://%s/%s", cfg.Storage.Bucket, key)
	}

	objects, err := store.ListObjects(ctx, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
	if err != nil {
		return err
	}
	logger.Infof("bucket holds %d object(s) under %s/", len(objects), cfg.Storage.KeyPrefix)
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
