package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements ObjectStore using a MinIO (or any S3-compatible) backend.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStore creates a MinIO client, ensures the bucket exists with a
// public-read policy, and returns a ready-to-use MinioStore. An unreachable
// store is a startup error: the service must not serve traffic without it.
func NewMinioStore(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Put streams reader to MinIO under key. size must be the exact byte count;
// the declared length is what the store bills and verifies against.
func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return s.publicBase + "/" + key, nil
}

// Remove deletes the object behind fileURL. Failures are logged with the URL
// so an out-of-band sweep can find the orphaned object later.
func (s *MinioStore) Remove(ctx context.Context, fileURL string) {
	key := s.objectKey(fileURL)
	if key == "" {
		log.Printf("storage: cannot derive object key from %q, skipping removal", fileURL)
		return
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("storage: failed to remove orphaned object %q: %v", fileURL, err)
	}
}

// objectKey extracts the object key from a public URL produced by Put.
func (s *MinioStore) objectKey(fileURL string) string {
	if key, ok := strings.CutPrefix(fileURL, s.publicBase+"/"); ok {
		return key
	}
	// URL from an older public base: fall back to splitting on the bucket segment.
	if _, key, ok := strings.Cut(fileURL, "/"+s.bucket+"/"); ok {
		return key
	}
	return ""
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
