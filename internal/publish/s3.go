// Package publish copies a downloaded archive to S3.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Publisher struct {
	uploader uploader
}

// Target is a parsed s3://bucket/key location. A key ending in "/" or left
// empty is treated as a prefix the archive file name is appended to.
type Target struct {
	Bucket string
	Key    string
}

func ParseS3URI(uri string) (Target, error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if parts[0] == "" {
		return Target{}, fmt.Errorf("invalid S3 location %q: bucket is required", uri)
	}
	target := Target{Bucket: parts[0]}
	if len(parts) > 1 {
		target.Key = parts[1]
	}
	return target, nil
}

// ObjectKey resolves the key the file at localPath is stored under.
func (t Target) ObjectKey(localPath string) string {
	if t.Key == "" || strings.HasSuffix(t.Key, "/") {
		return path.Join(t.Key, filepath.Base(localPath))
	}
	return t.Key
}

func (t Target) String() string {
	return "s3://" + t.Bucket + "/" + t.Key
}

// NewS3Publisher builds a publisher from the shared AWS configuration of
// profile, or the default credential chain when profile is empty.
func NewS3Publisher(ctx context.Context, profile string) (*S3Publisher, error) {
	opts := []func(*config.LoadOptions) error{config.WithRetryMode(aws.RetryModeAdaptive)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return &S3Publisher{uploader: manager.NewUploader(s3.NewFromConfig(cfg))}, nil
}

// Publish streams the file at localPath to target and returns its location.
func (p *S3Publisher) Publish(ctx context.Context, localPath string, target Target) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer file.Close()

	key := target.ObjectKey(localPath)
	log.Info().Str("op", "publish/s3").Msgf("uploading %s to s3://%s/%s", localPath, target.Bucket, key)
	out, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(target.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to s3://%s/%s: %w", target.Bucket, key, err)
	}
	log.Debug().Str("op", "publish/s3").Msgf("upload finished at %s", out.Location)
	return fmt.Sprintf("s3://%s/%s", target.Bucket, key), nil
}
