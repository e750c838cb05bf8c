package storage

import (
	"alcyxob/gym-tracker/internal/config"
	"alcyxob/gym-tracker/internal/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3CatalogSource reads (and publishes) the catalog object in an S3-compatible bucket.
type S3CatalogSource struct {
	client     *s3.Client
	bucketName string
	objectKey  string
}

// NewS3CatalogSource creates the S3 catalog source.
func NewS3CatalogSource(cfg config.S3Config) (*S3CatalogSource, error) {
	if cfg.BucketName == "" || cfg.CatalogKey == "" {
		return nil, errors.New("s3 catalog source requires bucket_name and catalog_key")
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.Contains(endpoint, "://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}

	// Force path-style addressing required by most S3-compatible services (like MinIO)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	log.Printf("INFO: S3 catalog source initialized for endpoint: %s, bucket: %s, key: %s", cfg.Endpoint, cfg.BucketName, cfg.CatalogKey)

	return &S3CatalogSource{
		client:     s3Client,
		bucketName: cfg.BucketName,
		objectKey:  cfg.CatalogKey,
	}, nil
}

// Load downloads and decodes the catalog object.
func (s *S3CatalogSource) Load(ctx context.Context) (*domain.RoutineDB, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrCatalogNotFound, s.bucketName, s.objectKey)
		}
		log.Printf("ERROR: Failed to get object '%s' from bucket '%s': %v", s.objectKey, s.bucketName, err)
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog object: %w", err)
	}
	return DecodeCatalog(data, FormatFromName(s.objectKey))
}

// Publish uploads catalog bytes as the catalog object. The bytes are decoded
// first so a broken catalog is never published. YAML input is stored as JSON
// when the object key names a JSON file.
func (s *S3CatalogSource) Publish(ctx context.Context, data []byte, format string) error {
	db, err := DecodeCatalog(data, format)
	if err != nil {
		return err
	}
	contentType := "application/json"
	switch {
	case FormatFromName(s.objectKey) == FormatYAML:
		contentType = "application/yaml"
	case format == FormatYAML:
		if data, err = json.Marshal(db); err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("ERROR: Failed to put object '%s' to bucket '%s': %v", s.objectKey, s.bucketName, err)
		return err
	}

	log.Printf("INFO: Published catalog to '%s' in bucket '%s'", s.objectKey, s.bucketName)
	return nil
}

func (s *S3CatalogSource) Describe() string {
	return "s3://" + s.bucketName + "/" + s.objectKey
}
