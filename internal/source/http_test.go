package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestHTTPFetch(t *testing.T) {
	payload := []byte("raster bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	f := &HTTP{url: srv.URL + "/imagery/ortho.tif"}
	destDir := t.TempDir()

	got, err := f.Fetch(context.Background(), destDir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := filepath.Join(destDir, "ortho.tif"); got != want {
		t.Errorf("Fetch = %q, want %q", got, want)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("downloaded %q, want %q", data, payload)
	}
}

func TestHTTPFetchZstd(t *testing.T) {
	payload := bytes.Repeat([]byte("band "), 200)
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	f := &HTTP{url: srv.URL + "/ortho.tif.zst"}
	destDir := t.TempDir()

	got, err := f.Fetch(context.Background(), destDir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := filepath.Join(destDir, "ortho.tif"); got != want {
		t.Errorf("Fetch = %q, want %q", got, want)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("decompressed %d bytes, want %d matching bytes", len(data), len(payload))
	}
}

func TestHTTPFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := &HTTP{url: srv.URL + "/absent.tif"}
	if _, err := f.Fetch(context.Background(), t.TempDir()); err == nil {
		t.Error("Fetch of 404 succeeded")
	}
}
