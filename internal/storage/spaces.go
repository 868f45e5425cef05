package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"swcommons/internal/config"
	"swcommons/internal/logging"
	"swcommons/internal/logging/types"
	"swcommons/pkg/models"
)

// SpacesStorage stores objects in a DigitalOcean Spaces (S3-compatible) bucket.
// Uploads use presigned PUT URLs; the object key is the storage id.
type SpacesStorage struct {
	client     *s3.S3
	bucketName string
	prefix     string
	cdnURL     string
	uploadTTL  time.Duration
	urlTTL     time.Duration
	logger     types.Logger
}

// NewSpacesStorage creates a Spaces client from configuration
func NewSpacesStorage(cfg *config.Config) (*SpacesStorage, error) {
	logger := logging.GetGlobalLogger()
	spaces := cfg.Storage.Spaces

	if spaces.AccessKeyID == "" || spaces.AccessKeySecret == "" {
		return nil, fmt.Errorf("spaces credentials are required")
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(spaces.AccessKeyID, spaces.AccessKeySecret, ""),
		Endpoint:         aws.String(spaces.Endpoint),
		Region:           aws.String(spaces.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spaces session: %w", err)
	}

	logger.Info("Spaces storage initialized", map[string]interface{}{
		"bucket_name": spaces.BucketName,
		"region":      spaces.Region,
		"endpoint":    spaces.Endpoint,
	})

	return &SpacesStorage{
		client:     s3.New(sess),
		bucketName: spaces.BucketName,
		prefix:     strings.Trim(spaces.Prefix, "/"),
		cdnURL:     strings.TrimRight(spaces.CDNEndpoint, "/"),
		uploadTTL:  cfg.Storage.UploadTTL,
		urlTTL:     cfg.Storage.URLTTL,
		logger:     logger,
	}, nil
}

func (s *SpacesStorage) key(parts ...string) string {
	return path.Join(append([]string{s.prefix}, parts...)...)
}

func (s *SpacesStorage) GenerateUploadURL(ctx context.Context) (models.UploadDestination, error) {
	key := s.key("uploads", uuid.NewString())
	req, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(s.uploadTTL)
	if err != nil {
		return models.UploadDestination{}, fmt.Errorf("presign upload: %w", err)
	}
	return models.UploadDestination{
		UploadURL: url,
		StorageID: key,
		Method:    "PUT",
		ExpiresAt: time.Now().Add(s.uploadTTL),
	}, nil
}

func (s *SpacesStorage) ResolveURL(ctx context.Context, storageID string) (string, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storageID),
	})
	if err != nil {
		if aerr, ok := err.(awserr.RequestFailure); ok && aerr.StatusCode() == 404 {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("head object: %w", err)
	}

	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, storageID), nil
	}
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storageID),
	})
	req.SetContext(ctx)
	return req.Presign(s.urlTTL)
}

func (s *SpacesStorage) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.key("exports", uuid.NewString(), name)
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("Failed to upload object to Spaces", map[string]interface{}{
			"object_key": key,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

func (s *SpacesStorage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucketName)})
	return err
}
