// Package fallback provides the lowest-priority notebook parser.
// It builds a placeholder tree from notebook metadata alone: one
// notebook node with a single section and page. This keeps the pipeline
// usable before a full binary parser is configured - the placeholder
// body is replaced when content conversion is attached.
package fallback

import (
	"context"
	"fmt"
	"time"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.NotebookParser = (*Parser)(nil)

// Parser is the metadata-only fallback parser.
type Parser struct {
	now func() time.Time
}

// New creates a fallback parser.
func New() *Parser {
	return &Parser{now: time.Now}
}

// SupportedExtensions implements driven.NotebookParser. The fallback
// accepts anything.
func (p *Parser) SupportedExtensions() []string {
	return []string{"*"}
}

// Priority implements driven.NotebookParser. Lowest band so any real
// parser wins.
func (p *Parser) Priority() int {
	return 1
}

// Parse builds a single-notebook forest from the outcome's metadata.
func (p *Parser) Parse(_ context.Context, outcome *domain.FetchOutcome) ([]domain.SourceNode, error) {
	if !outcome.Succeeded {
		return nil, fmt.Errorf("cannot parse failed fetch: %w", domain.ErrInvalidInput)
	}

	title := outcome.DisplayName
	if title == "" {
		title = "Untitled notebook"
	}
	now := p.now()

	notebook := domain.SourceNode{
		ID:         "notebook-" + title,
		Title:      title,
		CreatedAt:  now,
		ModifiedAt: now,
		Children: []domain.SourceNode{
			{
				ID:         "section-" + title,
				Title:      title,
				CreatedAt:  now,
				ModifiedAt: now,
				Children: []domain.SourceNode{
					{
						ID:         "page-" + title,
						Title:      title,
						CreatedAt:  now,
						ModifiedAt: now,
						Attributes: map[string]any{
							"sourceBytes": outcome.ByteLength(),
							"origin":      outcome.Origin.String(),
						},
					},
				},
			},
		},
	}
	return []domain.SourceNode{notebook}, nil
}
