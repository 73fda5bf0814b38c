package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/civicgrid/backend/internal/config"
)

type MinIOStorage struct {
	client         *minio.Client
	bucketName     string
	publicEndpoint string
}

func NewMinIOStorage(cfg *config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("Bucket '%s' created successfully\n", cfg.BucketName)

		policy := fmt.Sprintf(`{
			"Version": "2012-10-17",
			"Statement": [
				{
					"Effect": "Allow",
					"Principal": {"AWS": ["*"]},
					"Action": ["s3:GetObject"],
					"Resource": ["arn:aws:s3:::%s/complaints/*"]
				}
			]
		}`, cfg.BucketName)
		err = client.SetBucketPolicy(ctx, cfg.BucketName, policy)
		if err != nil {
			log.Printf("Warning: failed to set bucket policy: %v\n", err)
		}
	}

	log.Println("MinIO storage connected successfully")
	return &MinIOStorage{
		client:         client,
		bucketName:     cfg.BucketName,
		publicEndpoint: cfg.PublicEndpoint,
	}, nil
}

// UploadComplaintPhoto accepts either a data URL
// ("data:image/png;base64,...") or a bare base64 payload, stores it
// under complaints/, and returns the public URL.
func (s *MinIOStorage) UploadComplaintPhoto(ctx context.Context, payload string) (string, error) {
	contentType := "image/jpeg"
	data := payload

	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("malformed data URL")
		}
		header := strings.TrimPrefix(parts[0], "data:")
		header = strings.TrimSuffix(header, ";base64")
		if header != "" {
			contentType = header
		}
		data = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo payload: %w", err)
	}

	ext := extensionFor(contentType)
	objectName := fmt.Sprintf("complaints/%s%s", uuid.New().String(), ext)

	_, err = s.client.PutObject(ctx, s.bucketName, objectName,
		bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
			ContentType: contentType,
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s.PublicURL(objectName), nil
}

func (s *MinIOStorage) PublicURL(objectName string) string {
	return fmt.Sprintf("http://%s/%s/%s", s.publicEndpoint, s.bucketName, objectName)
}

func (s *MinIOStorage) DeleteObject(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
