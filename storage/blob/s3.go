// Package blobstore stores institution images in S3 (or any S3-compatible store).
package blobstore

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
)

// Store keeps objects in a single bucket. Keys map to object keys directly.
type Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

var _ institution.ImageStore = (*Store)(nil) // interface compliance check

// New creates an S3 Store from conf.Blob. optFns customize the S3 client (tests swap its HTTP client).
func New(ctx context.Context, conf *core.Config, optFns ...func(*s3.Options)) (*Store, error) {
	bc := conf.Blob
	if bc.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := bc.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if bc.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(bc.AccessKeyID, bc.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}

	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = bc.PathStyle
		if bc.Endpoint != "" {
			o.BaseEndpoint = aws.String(bc.Endpoint)
		}
	}}, optFns...)...)

	return &Store{client: client, bucket: bc.Bucket, publicBase: publicBase(bc, region)}, nil
}

// publicBase is the URL objects are served from, without a trailing slash.
func publicBase(bc core.BlobConfig, region string) string {
	switch {
	case bc.PublicBaseURL != "":
		return strings.TrimRight(bc.PublicBaseURL, "/")
	case bc.Endpoint != "":
		return strings.TrimRight(bc.Endpoint, "/") + "/" + bc.Bucket
	default:
		return "https://" + bc.Bucket + ".s3." + region + ".amazonaws.com"
	}
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.publicBase + "/" + strings.Join(parts, "/")
}

// Upload writes r under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", errors.Wrapf(err, "putting object %s", key)
	}
	return s.URL(key), nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	return errors.Wrapf(err, "deleting object %s", key)
}
