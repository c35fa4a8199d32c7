package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/netx"
)

const (
	presignExpiry   = 15 * time.Minute
	jpegContentType = "image/jpeg"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
	downloadFromURL      = netx.DownloadFromURL
)

// S3Options select an S3-compatible backend (AWS or MinIO).
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store moves bytes through presigned URLs and deletes through the API.
// Locators have the form {BaseEndpoint}/{Bucket}/{key}.
type S3Store struct {
	opts     S3Options
	deleter  objectDeleter
	presign  presigner
	locatorP string
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newS3Store(opts, client, s3.NewPresignClient(client)), nil
}

func newS3Store(opts S3Options, d objectDeleter, p presigner) *S3Store {
	return &S3Store{
		opts:     opts,
		deleter:  d,
		presign:  p,
		locatorP: strings.TrimRight(opts.BaseEndpoint, "/") + "/" + opts.Bucket + "/",
	}
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, progress ProgressFunc) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(jpegContentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := uploadToPresignedURL(ctx, req.URL, withProgress(r, size, progress), size, jpegContentType); err != nil {
		return "", err
	}
	return s.locatorP + key, nil
}

func (s *S3Store) KeyFromLocator(locator string) (string, error) {
	if !strings.HasPrefix(locator, s.locatorP) {
		return "", common.ErrInvalidLocator
	}
	key := strings.TrimPrefix(locator, s.locatorP)
	if key == "" {
		return "", common.ErrInvalidLocator
	}
	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// SignedURL presigns a GET for key; the bucket itself stays private.
func (s *S3Store) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

func (s *S3Store) Fetch(ctx context.Context, key string, w io.Writer) error {
	url, err := s.SignedURL(ctx, key)
	if err != nil {
		return err
	}
	_, err = downloadFromURL(ctx, url, w)
	return err
}
