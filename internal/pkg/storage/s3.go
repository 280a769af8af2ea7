package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/env"
)

// S3Config holds the S3 backend configuration
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Browser-facing base URL for stored objects
}

// LoadS3Config loads the S3 backend configuration from environment variables
func LoadS3Config() *S3Config {
	return &S3Config{
		AccessKeyID:     env.GetEnv("EDITORFOX_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("EDITORFOX_S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("EDITORFOX_S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("EDITORFOX_S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("EDITORFOX_S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("EDITORFOX_S3_PUBLIC_BASE_URL", ""),
	}
}

// S3Backend stores files in an S3 (or S3-compatible) bucket.
type S3Backend struct {
	client *s3.Client
	config *S3Config
}

// NewS3Backend creates an S3 storage backend and verifies bucket access.
func NewS3Backend(cfg *S3Config) (*S3Backend, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("EDITORFOX_S3_BUCKET_NAME is required for the s3 backend")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("EDITORFOX_S3_ACCESS_KEY_ID and EDITORFOX_S3_SECRET_ACCESS_KEY are required for the s3 backend")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services (MinIO, B2) need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	b := &S3Backend{client: client, config: cfg}

	if _, err := client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(cfg.BucketName),
	}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.BucketName, err)
	}

	log.Infof("[Storage] Successfully initialized S3 client for bucket: %s", cfg.BucketName)
	return b, nil
}

func (b *S3Backend) Save(p string, content io.Reader) (string, error) {
	ctx := context.Background()

	// PutObject needs a seekable body for retries; buffer the content.
	buf, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read content for %s: %w", p, err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(path.Ext(p)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.config.BucketName),
		Key:           aws.String(p),
		Body:          bytes.NewReader(buf),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(buf))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", p, err)
	}

	log.Infof("[Storage] Successfully uploaded: s3://%s/%s", b.config.BucketName, p)
	return p, nil
}

func (b *S3Backend) Open(p string) (io.ReadCloser, error) {
	result, err := b.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(b.config.BucketName),
		Key:    aws.String(p),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from S3: %w", p, err)
	}
	return result.Body, nil
}

func (b *S3Backend) Delete(p string) error {
	_, err := b.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(b.config.BucketName),
		Key:    aws.String(p),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from S3: %w", p, err)
	}
	return nil
}

func (b *S3Backend) ListDir(p string) ([]string, []string, error) {
	prefix := strings.TrimLeft(p, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var dirs, files []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.config.BucketName),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list objects under %s: %w", p, err)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if name != "" {
				dirs = append(dirs, name)
			}
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" {
				files = append(files, name)
			}
		}
	}
	return dirs, files, nil
}

func (b *S3Backend) URL(p string) string {
	key := strings.TrimLeft(p, "/")
	if base := strings.TrimRight(b.config.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	if b.config.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(b.config.EndpointURL, "/"), b.config.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.config.BucketName, b.config.Region, key)
}

func (b *S3Backend) GetAvailableName(p string) string {
	for {
		exists, err := b.objectExists(p)
		if err != nil || !exists {
			return p
		}
		ext := path.Ext(p)
		stem := strings.TrimSuffix(p, ext)
		p = fmt.Sprintf("%s_%s%s", stem, randomSuffix(), ext)
	}
}

func (b *S3Backend) objectExists(key string) (bool, error) {
	_, err := b.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(b.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}
