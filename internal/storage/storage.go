package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service moves trained artifacts between local disk and remote object storage:
// the trainer publishes after a run, the web service fetches missing files at
// startup.
type Service interface {
	UploadFile(ctx context.Context, localPath, bucket, key string) error
	DownloadFile(ctx context.Context, bucket, key, localPath string) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
