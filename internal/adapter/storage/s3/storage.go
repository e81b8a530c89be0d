package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/media"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type objectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Storage is a media.ObjectStore backed by an S3 compatible bucket.
type Storage struct {
	client  objectClient
	bucket  string
	baseURL string
	logger  *logger.Logger
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewStorage(ctx context.Context, cfg Config, log *logger.Logger) (*Storage, error) {
	log.Info("Initializing S3 MinIO Storage", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket), zap.Bool("use_ssl", cfg.UseSSL))

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	if err := ensureBucket(ctx, client, cfg.Bucket); err != nil {
		log.Error("S3Storage: failed to make or verify bucket", zap.String("bucket", cfg.Bucket), zap.Error(err))
		return nil, err
	}

	return newStorage(client, cfg.Bucket, client.EndpointURL().String(), log), nil
}

func newStorage(client objectClient, bucket, baseURL string, log *logger.Logger) *Storage {
	return &Storage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  log.Named("S3Storage"),
	}
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload reads the staged file, applies the width/crop transform and stores
// the re-encoded image under opts.Folder. Files that cannot be decoded as a
// raster image are rejected and nothing is stored.
func (s *Storage) Upload(ctx context.Context, f media.StagedFile, opts media.UploadOptions) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read staged file: %w", err)
	}

	img, err := transform(data, opts.Width, opts.Crop)
	if err != nil {
		s.logger.Warn("Rejecting upload", zap.String("file", f.OriginalName), zap.String("content_type", f.ContentType), zap.Error(err))
		return "", fmt.Errorf("transform %s: %w", f.OriginalName, err)
	}

	key := path.Join(opts.Folder, uuid.NewString()+img.ext)
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(img.data), int64(len(img.data)), minio.PutObjectOptions{
		ContentType:  img.contentType,
		UserMetadata: map[string]string{"original-filename": f.OriginalName},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Debug("Object uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return s.objectURL(key), nil
}

// Delete removes the object a URL returned by Upload points at.
func (s *Storage) Delete(ctx context.Context, url string) error {
	key, err := s.objectKey(url)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func (s *Storage) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
}

func (s *Storage) objectKey(url string) (string, error) {
	key, ok := strings.CutPrefix(url, s.baseURL+"/"+s.bucket+"/")
	if !ok || key == "" {
		return "", fmt.Errorf("url %q is not in bucket %s", url, s.bucket)
	}
	return key, nil
}
