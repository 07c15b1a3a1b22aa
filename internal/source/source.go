// Package source resolves benchmark source images. A source may be a local
// path or an http(s)://, gs:// or s3:// URL; remote sources are downloaded
// into the scratch directory before the run. A ".zst" suffix on any source is
// decompressed transparently.
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Fetcher makes a source image available on the local filesystem.
type Fetcher interface {
	// Fetch returns a local path to the source image, writing into destDir
	// when a download or decompression is needed.
	Fetch(ctx context.Context, destDir string) (string, error)
}

// Resolve picks a fetcher for raw based on its URL scheme. Anything without
// a recognized scheme is treated as a local path.
func Resolve(raw string) (Fetcher, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return &Local{path: raw}, nil
	}

	switch u.Scheme {
	case "gs":
		if u.Host == "" || u.Path == "" {
			return nil, fmt.Errorf("source: malformed GCS URL %q", raw)
		}
		return &GCS{bucket: u.Host, object: strings.TrimPrefix(u.Path, "/")}, nil
	case "s3":
		if u.Host == "" || u.Path == "" {
			return nil, fmt.Errorf("source: malformed S3 URL %q", raw)
		}
		return &S3{bucket: u.Host, key: strings.TrimPrefix(u.Path, "/")}, nil
	case "http", "https":
		return &HTTP{url: raw}, nil
	default:
		return &Local{path: raw}, nil
	}
}

// IsRemote reports whether raw needs a download before benchmarking.
func IsRemote(raw string) bool {
	switch {
	case strings.HasPrefix(raw, "gs://"),
		strings.HasPrefix(raw, "s3://"),
		strings.HasPrefix(raw, "http://"),
		strings.HasPrefix(raw, "https://"):
		return true
	}
	return false
}

// Local is a fetcher for a file already on disk.
type Local struct {
	path string
}

// Compile-time check that Local implements Fetcher.
var _ Fetcher = (*Local)(nil)

// Fetch validates the file and returns its path. A ".zst" source is
// decompressed into destDir first.
func (l *Local) Fetch(ctx context.Context, destDir string) (string, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return "", fmt.Errorf("source: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("source: %s is a directory", l.path)
	}

	if !strings.HasSuffix(l.path, ".zst") {
		return l.path, nil
	}

	f, err := os.Open(l.path)
	if err != nil {
		return "", fmt.Errorf("source: %w", err)
	}
	defer f.Close()

	return save(f, filepath.Base(l.path), destDir)
}

// save writes r into destDir under name, decompressing a ".zst" stream and
// stripping the suffix.
func save(r io.Reader, name, destDir string) (string, error) {
	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return "", fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
		name = strings.TrimSuffix(name, ".zst")
	}
	if name == "" {
		name = "source.tif"
	}

	dst := filepath.Join(destDir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}
	return dst, nil
}

// baseName extracts a usable filename from an object key or URL path.
func baseName(key string) string {
	name := path.Base(key)
	if name == "." || name == "/" || name == "" {
		return "source.tif"
	}
	return name
}
