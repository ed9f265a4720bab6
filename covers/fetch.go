// Package covers fetches, decodes and caches album cover images.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/drift"
)

// ErrNotFound is returned by a Fetcher when the cover does not exist.
var ErrNotFound = errors.New("covers: not found")

// Fetcher opens the raw bytes of a cover.
type Fetcher interface {
	Fetch(ctx context.Context, id drift.ImageID) (io.ReadCloser, error)
}

// DirFetcher reads covers from a directory. Cover ids are slash-separated
// paths relative to Root; a leading slash is ignored.
type DirFetcher struct {
	Root string
}

// Fetch opens the file for id.
func (f DirFetcher) Fetch(ctx context.Context, id drift.ImageID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := filepath.FromSlash(strings.TrimPrefix(string(id), "/"))
	if rel == "" || strings.HasPrefix(filepath.Clean(rel), "..") {
		return nil, fmt.Errorf("covers: invalid id %q", id)
	}
	file, err := os.Open(filepath.Join(f.Root, rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("covers: open %s: %w", id, err)
	}
	return file, nil
}

// HTTPFetcher downloads covers relative to BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// Fetch issues a GET for id. Non-2xx responses are errors.
func (f HTTPFetcher) Fetch(ctx context.Context, id drift.ImageID) (io.ReadCloser, error) {
	u, err := f.resolve(id)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("covers: request %s: %w", id, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("covers: get %s: %w", id, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("covers: get %s: status %d", id, resp.StatusCode)
	}
	return resp.Body, nil
}

func (f HTTPFetcher) resolve(id drift.ImageID) (string, error) {
	base, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", fmt.Errorf("covers: base url: %w", err)
	}
	ref, err := url.Parse(strings.TrimPrefix(string(id), "/"))
	if err != nil {
		return "", fmt.Errorf("covers: invalid id %q: %w", id, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String(), nil
}
