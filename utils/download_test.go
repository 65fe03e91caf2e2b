package utils

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	f, err := DownloadImage(context.Background(), srv.Client(), srv.URL+"/sample.png")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	assert.True(t, strings.HasPrefix(f.Name(), os.TempDir()),
		"the downloaded image should have been saved in a temporary folder")

	// The returned file is rewound.
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestUtils_DownloadFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/text":
			w.Write([]byte("plain text"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	_, err := DownloadImage(context.Background(), srv.Client(), srv.URL+"/missing.png")
	assert.Error(t, err)

	_, err = DownloadImage(context.Background(), srv.Client(), srv.URL+"/text")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = DownloadImage(ctx, srv.Client(), srv.URL+"/sample.png")
	assert.Error(t, err)
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsValidUrl("https://github.com/esimov/reveal/"))
	assert.True(IsValidUrl("http://localhost:8080/mask.png"))

	assert.False(IsValidUrl("mask.png"))
	assert.False(IsValidUrl("/tmp/mask.png"))
	assert.False(IsValidUrl("ftp://example.com/mask.png"))
	assert.False(IsValidUrl("https://"))
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	dir := t.TempDir()

	img := filepath.Join(dir, "sample.png")
	require.NoError(t, os.WriteFile(img, pngBytes(t), 0644))
	ftype, err := DetectContentType(img)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ftype)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	ftype, err = DetectContentType(empty)
	require.NoError(t, err)
	assert.False(t, strings.Contains(ftype, "image"))

	_, err = DetectContentType(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
