package uploads

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 stores files in a bucket under an optional key prefix.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	region string
}

// NewS3 loads the default AWS credential chain for region.
func NewS3(ctx context.Context, region, bucket, prefix string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 upload storage requires a bucket")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		region: region,
	}, nil
}

func (s *S3) key(p string) string {
	return s.prefix + strings.TrimPrefix(p, "/")
}

// Put uploads r as an object.
func (s *S3) Put(ctx context.Context, p string, r io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put s3 object: %w", err)
	}
	return nil
}

// Delete removes the object. S3 reports success for missing keys.
func (s *S3) Delete(ctx context.Context, p string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		return fmt.Errorf("delete s3 object: %w", err)
	}
	return nil
}

// URL returns the virtual-hosted-style object URL.
func (s *S3) URL(p string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, s.key(p))
}
