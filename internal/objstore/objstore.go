// Package objstore uploads files to an S3-compatible object store
// (Backblaze B2 in production) and returns their download URLs.
package objstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/socialapi-dev/socialapi/internal/config"
	"github.com/socialapi-dev/socialapi/internal/logger"
)

type Client struct {
	s3c      *s3.Client
	bucket   string
	endpoint string
}

func New(ctx context.Context, cfg *config.ObjectStorage, keyID, appKey string) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(keyID, appKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	s3c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	})

	return &Client{s3c: s3c, bucket: cfg.Bucket, endpoint: cfg.Endpoint}, nil
}

// Upload stores the object under key and returns its download URL.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	logger.Log.Debug("uploading file to object storage", "key", key, "bucket", c.bucket)

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3c.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	url := c.FileURL(key)
	logger.Log.Debug("uploaded file to object storage", "key", key, "url", url)
	return url, nil
}

// FileURL builds the public download URL for a stored object.
func (c *Client) FileURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, key)
}
