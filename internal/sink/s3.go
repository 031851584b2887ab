package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/grailbio/base/log"
)

// S3Config holds construction parameters for an S3 sink.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // optional; set for MinIO and other S3-compatible stores
	AccessKeyID     string // optional; falls back to the default credential chain
	SecretAccessKey string
	PathStyle       bool

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Environment variables read by S3ConfigFromEnv:
//
//	DISCOMAP_S3_REGION      region (default us-east-1)
//	DISCOMAP_S3_ENDPOINT    custom endpoint URL
//	DISCOMAP_S3_PATH_STYLE  "true" for path-style addressing
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY via the default chain
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:    os.Getenv("DISCOMAP_S3_REGION"),
		Endpoint:  os.Getenv("DISCOMAP_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("DISCOMAP_S3_PATH_STYLE"), "true"),
	}
}

// S3 stores objects in a single bucket.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 sink.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("sink: s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("sink: aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads r as key. The body is buffered so the request can be signed
// and retried; plots are small.
func (s *S3) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if key == "" {
		return fmt.Errorf("sink: empty key")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("sink: put s3://%s/%s: %w", s.bucket, key, err)
	}
	log.Debug.Printf("sink: wrote s3://%s/%s (%d bytes)", s.bucket, key, len(body))
	return nil
}
