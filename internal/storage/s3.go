// Package storage holds service photos in an S3-compatible bucket.
// Objects live under users/{userID}/customers/{customerID}/ so a photo's
// key is always reverse-derivable from its public URL.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pocketsalon/salon-manager/internal/config"
	"github.com/pocketsalon/salon-manager/internal/httperr"
)

type PhotoStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewPhotoStore(cfg *config.Config) *PhotoStore {
	opts := s3.Options{
		Region:      cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	baseURL := cfg.S3PublicURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &PhotoStore{
		client:  s3.New(opts),
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores an already-encoded webp photo and returns its public URL.
func (p *PhotoStore) Upload(ctx context.Context, userID, customerID uint, data []byte) (string, error) {
	key := fmt.Sprintf(
		"users/%d/customers/%d/%d_%s.webp",
		userID, customerID, time.Now().UnixMilli(), uuid.NewString(),
	)

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", err
	}

	return p.baseURL + "/" + key, nil
}

// DeleteByURL removes the object behind a URL previously returned by
// Upload. URLs from another bucket are rejected.
func (p *PhotoStore) DeleteByURL(ctx context.Context, url string) error {
	key, err := p.keyFromURL(url)
	if err != nil {
		return err
	}

	_, err = p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (p *PhotoStore) keyFromURL(url string) (string, error) {
	prefix := p.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", httperr.ErrBusiness("unknown_photo_url")
	}
	return strings.TrimPrefix(url, prefix), nil
}
