package rasterstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/group2dev/landmark-api/internal/pkg/metrics"
)

var ErrInvalidPath = errors.New("invalid raster object path")

// Client hands out time-limited download links for raster objects.
// The raster pipeline writes the objects; this service never uploads.
type Client struct {
	s3Client  *s3.Client
	presigner *s3.PresignClient
	config    *Config
}

// NewClient creates the S3 client and checks the bucket is reachable
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 raster storage is disabled")
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := client.testConnection(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[RasterStore] Successfully initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

func newClient(ctx context.Context, cfg *Config) (*Client, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// MinIO and other S3-compatible stores need path-style URLs
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3Client:  s3Client,
		presigner: s3.NewPresignClient(s3Client),
		config:    cfg,
	}, nil
}

func (c *Client) testConnection(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.BucketName),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.config.BucketName, err)
	}
	return nil
}

// PresignGet returns a GET URL for the raster stored at s3Path.
func (c *Client) PresignGet(ctx context.Context, s3Path string) (string, error) {
	bucket, key, err := ParseS3Path(s3Path, c.config.BucketName)
	if err != nil {
		return "", err
	}

	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(c.config.PresignTTL))
	metrics.ObserveUpstream("s3", err)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", s3Path, err)
	}
	return req.URL, nil
}

// ParseS3Path splits "s3://bucket/key" into bucket and key. A bare key is
// resolved against defaultBucket.
func ParseS3Path(s3Path, defaultBucket string) (bucket, key string, err error) {
	path := strings.TrimSpace(s3Path)
	if rest, ok := strings.CutPrefix(path, "s3://"); ok {
		bucket, key, _ = strings.Cut(rest, "/")
	} else {
		bucket, key = defaultBucket, strings.TrimLeft(path, "/")
	}
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, s3Path)
	}
	return bucket, key, nil
}
