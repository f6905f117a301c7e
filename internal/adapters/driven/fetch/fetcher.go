// Package fetch retrieves document bytes for file records. Remote URLs
// go through an HTTP client with a short-lived response cache so that
// re-running a preview does not refetch an unchanged document; local
// paths and file:// URLs are read directly.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driven"
	"github.com/offerta-labs/citemark/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Cache defaults. Fetched documents are immutable for the lifetime of a
// preview session, so a short TTL only has to cover retries and watch
// mode rebuilds.
const (
	DefaultTTL      = 5 * time.Minute
	cleanupInterval = 10 * time.Minute
	defaultTimeout  = 30 * time.Second

	// maxDocumentBytes bounds a single fetched document (64 MiB).
	maxDocumentBytes = 64 << 20
)

// Fetcher resolves file records to raw document bytes.
type Fetcher struct {
	httpClient *http.Client
	cache      *gocache.Cache
}

// New creates a fetcher with the default timeout and cache TTL.
func New() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: defaultTimeout},
		cache:      gocache.New(DefaultTTL, cleanupInterval),
	}
}

// Fetch resolves the record's URL, falling back to BlobURL when the
// primary URL is unset or fails. Responses are cached per URL.
func (f *Fetcher) Fetch(ctx context.Context, rec domain.FileRecord) ([]byte, error) {
	urls := candidateURLs(rec)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: record %s has no url", domain.ErrInvalidInput, rec.ID)
	}

	var lastErr error
	for _, u := range urls {
		content, err := f.fetchOne(ctx, u)
		if err == nil {
			return content, nil
		}
		lastErr = err
		logger.Debug("fetch %s failed: %v", u, err)
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, lastErr)
}

// Invalidate drops a cached document, forcing the next fetch to hit the
// source. Used by watch mode when the underlying file changes.
func (f *Fetcher) Invalidate(rawURL string) {
	f.cache.Delete(rawURL)
}

func candidateURLs(rec domain.FileRecord) []string {
	var urls []string
	if rec.URL != "" {
		urls = append(urls, rec.URL)
	}
	if rec.BlobURL != "" && rec.BlobURL != rec.URL {
		urls = append(urls, rec.BlobURL)
	}
	return urls
}

func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) ([]byte, error) {
	if cached, found := f.cache.Get(rawURL); found {
		logger.Debug("fetch cache hit: %s", rawURL)
		return cached.([]byte), nil
	}

	content, err := f.load(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f.cache.SetDefault(rawURL, content)
	return content, nil
}

// load reads local paths directly and everything else over HTTP.
func (f *Fetcher) load(ctx context.Context, rawURL string) ([]byte, error) {
	if path, ok := localPath(rawURL); ok {
		return os.ReadFile(path)
	}
	return f.loadHTTP(ctx, rawURL)
}

func localPath(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, "file://") {
		if u, err := url.Parse(rawURL); err == nil {
			return u.Path, true
		}
	}
	if !strings.Contains(rawURL, "://") {
		return rawURL, true
	}
	return "", false
}

func (f *Fetcher) loadHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
