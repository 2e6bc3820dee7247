package driven

import (
	"context"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// NotebookParser turns fetched notebook content into a source tree.
// Full-fidelity parsing of the OneNote binary format lives behind this
// port; the core only consumes its output.
type NotebookParser interface {
	// SupportedExtensions returns the file extensions this parser
	// handles, with leading dot (".one", ".onepkg").
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific parsers should return 50-100, fallback parsers
	// 1-9.
	Priority() int

	// Parse produces the notebook forest for a successful fetch outcome.
	Parse(ctx context.Context, outcome *domain.FetchOutcome) ([]domain.SourceNode, error)
}

// ParserRegistry selects and invokes the appropriate parser for an
// outcome.
type ParserRegistry interface {
	// Register adds a parser to the registry.
	Register(parser NotebookParser)

	// Parse selects the highest-priority parser for the outcome's file
	// extension and invokes it. Returns domain.ErrUnsupportedType when
	// no parser matches.
	Parse(ctx context.Context, outcome *domain.FetchOutcome) ([]domain.SourceNode, error)
}
