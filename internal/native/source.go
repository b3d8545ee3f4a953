package native

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	playerrors "github.com/jscyril/golang_sound_manager/pkg/errors"
)

// source is an opened media input ready for decoding
type source struct {
	rc     io.ReadSeekCloser
	format string
	uri    string
}

type nopCloser struct{ io.ReadSeeker }

func (nopCloser) Close() error { return nil }

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// openSource resolves path the way the platform player does: the data
// directory first, then the path as given, then as an http(s) URL.
func openSource(ctx context.Context, client *http.Client, dataDir, path string) (*source, error) {
	if isRemote(path) {
		return fetchSource(ctx, client, path)
	}

	candidates := []string{path}
	if dataDir != "" && !filepath.IsAbs(path) {
		candidates = []string{filepath.Join(dataDir, path), path}
	}

	for _, candidate := range candidates {
		f, err := os.Open(candidate)
		if err != nil {
			continue
		}
		return &source{rc: f, format: formatOf(candidate, ""), uri: candidate}, nil
	}

	return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
}

// fetchSource downloads a remote stream into memory so it can be seeked
func fetchSource(ctx context.Context, client *http.Client, url string) (*source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	return &source{
		rc:     nopCloser{bytes.NewReader(data)},
		format: formatOf(url, resp.Header.Get("Content-Type")),
		uri:    url,
	}, nil
}

// trackTags holds the metadata read from the media container
type trackTags struct {
	Title  string
	Artist string
	Author string
}

// readTags reads container metadata and rewinds the source. Missing tags
// are not an error.
func readTags(rs io.ReadSeeker) (trackTags, error) {
	var t trackTags

	metadata, err := tag.ReadFrom(rs)
	if err == nil {
		t.Title = metadata.Title()
		t.Artist = metadata.Artist()
		t.Author = metadata.Composer()
		if t.Author == "" {
			t.Author = metadata.AlbumArtist()
		}
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return t, playerrors.NewNativeError(playerrors.CodeInvalidPath, err)
	}
	return t, nil
}
