// Package graph downloads OneDrive notebook content over the Microsoft
// Graph API. A sharing URL is exchanged for the underlying drive item
// via the shares endpoint, so no folder traversal is needed.
package graph

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/logger"
)

// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// maxDownloadBytes caps in-memory downloads. Notebook files larger than
// this are rejected rather than silently truncated.
const maxDownloadBytes = 256 << 20

// Ensure Fetcher implements the interface.
var _ driven.ContentFetcher = (*Fetcher)(nil)

// Fetcher downloads OneDrive shares via the Graph API.
type Fetcher struct {
	client  *http.Client
	limiter *RateLimiter
	baseURL string
}

// NewFetcher creates a Graph fetcher authenticated by the token source.
// A nil token source produces a fetcher that fails validation, which
// keeps cloud links classified-but-deferred until auth is configured.
func NewFetcher(ctx context.Context, tokens oauth2.TokenSource) *Fetcher {
	f := &Fetcher{
		limiter: NewRateLimiter(),
		baseURL: DefaultBaseURL,
	}
	if tokens != nil {
		f.client = oauth2.NewClient(ctx, tokens)
	}
	return f
}

// Kinds implements driven.ContentFetcher. Protocol links also point at
// OneDrive-hosted sections, so both cloud kinds route here.
func (f *Fetcher) Kinds() []domain.LinkKind {
	return []domain.LinkKind{domain.LinkCloudShare, domain.LinkProtocol}
}

// Validate checks that credentials are configured and accepted.
func (f *Fetcher) Validate(ctx context.Context) error {
	if f.client == nil {
		return domain.ErrAuthRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/me", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetcherValidation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: graph returned %d", domain.ErrAuthRequired, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: graph returned %d", domain.ErrFetcherValidation, resp.StatusCode)
	}
	return nil
}

// Fetch downloads the notebook content behind a cloud link.
func (f *Fetcher) Fetch(ctx context.Context, link domain.ResolvedLink) (*domain.FetchOutcome, error) {
	if f.client == nil {
		return nil, domain.ErrAuthRequired
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	shareURL := link.OriginalRef
	if link.Kind == domain.LinkProtocol && link.SourcePath != "" {
		shareURL = link.SourcePath
	}

	url := fmt.Sprintf("%s/shares/%s/driveItem/content", f.baseURL, encodeShareURL(shareURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	logger.Debug("Downloading share %s", link.DisplayLabel())
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download share: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to read
	case http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		f.limiter.RecordRateLimitError(retryAfter)
		return nil, fmt.Errorf("%w: retry after %ds", domain.ErrRateLimited, retryAfter)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: graph returned %d", domain.ErrAuthRequired, resp.StatusCode)
	case http.StatusNotFound:
		return nil, fmt.Errorf("share not found: %w", domain.ErrNotFound)
	default:
		return nil, fmt.Errorf("graph returned %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if len(content) > maxDownloadBytes {
		return nil, fmt.Errorf("notebook exceeds %d byte download limit", maxDownloadBytes)
	}

	return &domain.FetchOutcome{
		Succeeded:   true,
		DisplayName: link.DisplayLabel(),
		Content:     content,
		Origin:      domain.OriginCloudShare,
	}, nil
}

// encodeShareURL turns a sharing URL into a Graph share token:
// unpadded base64url of the URL, prefixed with "u!".
func encodeShareURL(shareURL string) string {
	return "u!" + base64.RawURLEncoding.EncodeToString([]byte(shareURL))
}
