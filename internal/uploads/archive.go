// Package uploads archives the raw spreadsheet files received by the import
// endpoint. Archiving is best effort: a failure is logged and never blocks
// the import itself.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver stores uploaded files somewhere durable.
type Archiver interface {
	Archive(ctx context.Context, filename string, data []byte) error
}

// MinioArchiver stores uploads in an S3-compatible bucket.
type MinioArchiver struct {
	client *minio.Client
	bucket string
}

func NewMinioArchiver(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioArchiver, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	a := &MinioArchiver{client: client, bucket: bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return a, nil
}

func (a *MinioArchiver) Archive(ctx context.Context, filename string, data []byte) error {
	key := archiveKey(filename)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypeFor(filename),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// LocalArchiver stores uploads under a directory on disk. Used when no
// object store is configured.
type LocalArchiver struct {
	dir string
}

func NewLocalArchiver(dir string) *LocalArchiver {
	return &LocalArchiver{dir: dir}
}

func (a *LocalArchiver) Archive(_ context.Context, filename string, data []byte) error {
	path := filepath.Join(a.dir, archiveKey(filename))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive %s: %w", path, err)
	}
	return nil
}

// Service wraps an Archiver with the fire-and-forget logging behavior the
// import flow wants.
type Service struct {
	archiver Archiver
}

func NewService(archiver Archiver) *Service {
	return &Service{archiver: archiver}
}

func (s *Service) Archive(ctx context.Context, filename string, data []byte) {
	if s == nil || s.archiver == nil {
		return
	}
	if err := s.archiver.Archive(ctx, filename, data); err != nil {
		log.Printf("uploads: archive %s: %v", filename, err)
	}
}

func archiveKey(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return time.Now().UTC().Format("2006/01/02") + "/" + time.Now().UTC().Format("150405") + "-" + base
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
