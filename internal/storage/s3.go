// Package storage writes address snapshots to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"addressbook-api/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ObjectClient is the subset of *minio.Client used for snapshots.
type ObjectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Snapshot is the document written for every export.
type Snapshot struct {
	TakenAt   time.Time        `json:"taken_at"`
	Count     int              `json:"count"`
	Addresses []models.Address `json:"addresses"`
}

// SnapshotStore uploads address snapshots to a bucket.
type SnapshotStore struct {
	client ObjectClient
	bucket string
}

// NewMinioClient connects to an S3-compatible endpoint.
func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("storage: endpoint, access key and secret key are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to create MinIO client: %w", err)
	}
	return client, nil
}

// NewSnapshotStore creates a snapshot store writing to bucket.
func NewSnapshotStore(client ObjectClient, bucket string) *SnapshotStore {
	return &SnapshotStore{client: client, bucket: bucket}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *SnapshotStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put uploads addresses as a JSON snapshot and returns the object key.
func (s *SnapshotStore) Put(ctx context.Context, takenAt time.Time, addresses []models.Address) (string, error) {
	takenAt = takenAt.UTC()
	key := SnapshotKey(takenAt)

	data, err := json.Marshal(Snapshot{TakenAt: takenAt, Count: len(addresses), Addresses: addresses})
	if err != nil {
		return "", fmt.Errorf("storage: failed to encode snapshot: %w", err)
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("storage: failed to store snapshot: %w", err)
	}

	log.Info().Str("bucket", s.bucket).Str("key", key).Int("count", len(addresses)).Msg("snapshot stored")
	return key, nil
}

// SnapshotKey is the object key of a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	return fmt.Sprintf("snapshots/addresses-%s.json", t.UTC().Format("20060102T150405Z"))
}
