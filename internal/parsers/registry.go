package parsers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry selects the highest-priority parser for a fetch outcome's
// file extension.
type Registry struct {
	mu      sync.RWMutex
	parsers []driven.NotebookParser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a parser to the registry.
func (r *Registry) Register(parser driven.NotebookParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, parser)
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Priority() > r.parsers[j].Priority()
	})
}

// Parse selects a parser for the outcome and invokes it.
func (r *Registry) Parse(ctx context.Context, outcome *domain.FetchOutcome) ([]domain.SourceNode, error) {
	ext := extensionOf(outcome)

	r.mu.RLock()
	var selected driven.NotebookParser
	for _, p := range r.parsers {
		if supports(p, ext) {
			selected = p
			break
		}
	}
	r.mu.RUnlock()

	if selected == nil {
		return nil, fmt.Errorf("no parser for %q: %w", ext, domain.ErrUnsupportedType)
	}
	return selected.Parse(ctx, outcome)
}

// extensionOf derives the file extension from the outcome's path or
// display name. In-memory cloud downloads carry no path, so .one is
// assumed for them.
func extensionOf(outcome *domain.FetchOutcome) string {
	if outcome.LocalPath != "" {
		return strings.ToLower(filepath.Ext(outcome.LocalPath))
	}
	if ext := strings.ToLower(filepath.Ext(outcome.DisplayName)); ext != "" {
		return ext
	}
	return ".one"
}

// supports reports whether the parser declares the extension. A parser
// declaring "*" accepts anything.
func supports(p driven.NotebookParser, ext string) bool {
	for _, supported := range p.SupportedExtensions() {
		if supported == "*" || strings.EqualFold(supported, ext) {
			return true
		}
	}
	return false
}
