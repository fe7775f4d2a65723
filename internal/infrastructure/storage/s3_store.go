// Package storage hosts uploaded media on S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/config"
)

// Folders on the media host
const (
	FolderBooks  = "books"
	FolderCovers = "book_covers"
	FolderPhotos = "batch_photos"
)

// ObjectAPI is the slice of the S3 client the store needs
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements domain.BlobStore
type S3Store struct {
	api     ObjectAPI
	bucket  string
	urlBase string
}

// NewS3Store builds a client with static credentials against cfg.Endpoint
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3StoreWithAPI(client, cfg.Bucket, urlBase(cfg)), nil
}

// NewS3StoreWithAPI wires an existing client. urlBase is host plus optional
// path, without scheme.
func NewS3StoreWithAPI(api ObjectAPI, bucket, urlBase string) *S3Store {
	return &S3Store{api: api, bucket: bucket, urlBase: strings.TrimRight(urlBase, "/")}
}

func urlBase(cfg config.S3Config) string {
	if cfg.PublicBaseURL != "" {
		return stripScheme(cfg.PublicBaseURL)
	}
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func stripScheme(u string) string {
	for _, p := range []string{"https://", "http://"} {
		u = strings.TrimPrefix(u, p)
	}
	return u
}

// Put implements domain.BlobStore
func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (*domain.StoredObject, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: put %s: %v", domain.ErrUpstream, key, err)
	}
	return ObjectFor(s.urlBase, key), nil
}

// Delete implements domain.BlobStore
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrUpstream, key, err)
	}
	return nil
}

// ObjectFor derives the two locators of a stored key
func ObjectFor(base, key string) *domain.StoredObject {
	return &domain.StoredObject{
		Key:       key,
		SecureURL: "https://" + base + "/" + key,
		PublicURL: "http://" + base + "/" + key,
	}
}

// NewKey returns a unique key under folder, e.g. books/2026/10/14/<uuid>.pdf
func NewKey(folder, ext string) string {
	d := time.Now()
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%d/%d/%d/%v%s", folder, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
