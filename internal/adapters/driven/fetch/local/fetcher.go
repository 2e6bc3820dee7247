// Package local reads notebook files from the local filesystem.
package local

import (
	"context"
	"fmt"
	"os"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/logger"
)

// DefaultMaxBufferBytes is the largest file read fully into memory.
// Bigger files are returned as a path reference instead.
const DefaultMaxBufferBytes = 32 << 20

// Ensure Fetcher implements the interface.
var _ driven.ContentFetcher = (*Fetcher)(nil)

// Fetcher retrieves notebook content from the local filesystem.
type Fetcher struct {
	maxBufferBytes int64
}

// NewFetcher creates a local fetcher. maxBufferBytes <= 0 falls back to
// DefaultMaxBufferBytes.
func NewFetcher(maxBufferBytes int64) *Fetcher {
	if maxBufferBytes <= 0 {
		maxBufferBytes = DefaultMaxBufferBytes
	}
	return &Fetcher{maxBufferBytes: maxBufferBytes}
}

// Kinds implements driven.ContentFetcher.
func (f *Fetcher) Kinds() []domain.LinkKind {
	return []domain.LinkKind{domain.LinkLocalPath}
}

// Validate implements driven.ContentFetcher. The local fetcher has no
// configuration to validate.
func (f *Fetcher) Validate(_ context.Context) error {
	return nil
}

// Fetch reads the notebook file behind a local link. Small files are
// buffered in memory; large files come back as a path reference so the
// parser can stream them.
func (f *Fetcher) Fetch(_ context.Context, link domain.ResolvedLink) (*domain.FetchOutcome, error) {
	info, err := os.Stat(link.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", link.SourcePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a notebook file", link.SourcePath)
	}

	if info.Size() > f.maxBufferBytes {
		logger.Debug("File %s exceeds buffer limit (%d bytes), returning path reference",
			link.SourcePath, info.Size())
		return &domain.FetchOutcome{
			Succeeded:   true,
			DisplayName: link.DisplayLabel(),
			LocalPath:   link.SourcePath,
			Origin:      domain.OriginLocalPath,
		}, nil
	}

	content, err := os.ReadFile(link.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", link.SourcePath, err)
	}

	return &domain.FetchOutcome{
		Succeeded:   true,
		DisplayName: link.DisplayLabel(),
		Content:     content,
		Origin:      domain.OriginLocalPath,
	}, nil
}
