package source

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCS fetches a source image from a Google Cloud Storage bucket.
type GCS struct {
	bucket string
	object string
}

// Compile-time check that GCS implements Fetcher.
var _ Fetcher = (*GCS)(nil)

// Fetch downloads the object into destDir and returns the local path.
func (g *GCS) Fetch(ctx context.Context, destDir string) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating GCS client: %w", err)
	}
	defer client.Close()

	reader, err := client.Bucket(g.bucket).Object(g.object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("opening gs://%s/%s: %w", g.bucket, g.object, err)
	}
	defer reader.Close()

	return save(reader, baseName(g.object), destDir)
}
