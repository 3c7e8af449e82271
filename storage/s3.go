package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"photolabel/config"
)

type S3Storage struct {
	bucket   string
	s3Client *s3.S3
	uploader *s3manager.Uploader
}

func NewS3Storage(cfg config.Storage) (*S3Storage, error) {
	awsConfig := aws.NewConfig().WithRegion(cfg.S3Region)
	if cfg.S3Key != "" {
		awsConfig = awsConfig.WithCredentials(credentials.NewStaticCredentials(cfg.S3Key, cfg.S3Secret, ""))
	}
	if cfg.S3Endpoint != "" {
		// S3 compatible services (MinIO, etc) usually need path style addressing
		awsConfig = awsConfig.WithEndpoint(cfg.S3Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("create S3 session: %w", err)
	}
	client := s3.New(sess)
	return &S3Storage{
		bucket:   cfg.S3Bucket,
		s3Client: client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, path string, reader io.Reader, mimeType string) (int64, error) {
	counter := &countingReader{r: reader}
	input := s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
		Body:   counter,
	}
	if mimeType != "" {
		input.ContentType = aws.String(mimeType)
	}
	if _, err := s.uploader.UploadWithContext(ctx, &input); err != nil {
		return 0, err
	}
	return counter.n, nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	return err
}

func (s *S3Storage) Describe() string {
	return "s3:" + s.bucket
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
