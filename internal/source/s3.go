package source

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 fetches a source image from an AWS S3 bucket.
type S3 struct {
	bucket string
	key    string
}

// Compile-time check that S3 implements Fetcher.
var _ Fetcher = (*S3)(nil)

// Fetch downloads the object into destDir and returns the local path.
// Credentials and region come from the default AWS config chain.
func (f *S3) Fetch(ctx context.Context, destDir string) (string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		return "", fmt.Errorf("fetching s3://%s/%s: %w", f.bucket, f.key, err)
	}
	defer out.Body.Close()

	return save(out.Body, baseName(f.key), destDir)
}
