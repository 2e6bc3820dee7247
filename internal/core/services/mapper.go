package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
	"github.com/notelift/notelift-cli/internal/logger"
)

// Ensure HierarchyMapper implements the interface.
var _ driving.HierarchyMapper = (*HierarchyMapper)(nil)

// HierarchyMapper transforms a source notebook forest into a validated
// destination page forest. Mapping is synchronous, sequential recursion
// bounded by nesting depth. Recursion is pure: every call returns a
// freshly constructed page, never mutating a partially built parent.
type HierarchyMapper struct{}

// NewHierarchyMapper creates a hierarchy mapper.
func NewHierarchyMapper() *HierarchyMapper {
	return &HierarchyMapper{}
}

// MapHierarchy maps the notebook forest into destination pages.
//
// Stats count the untruncated source tree, so they can exceed what was
// materialised when MaxDepth cut levels off. That asymmetry is kept on
// purpose: stats describe the source, pages describe the output.
func (m *HierarchyMapper) MapHierarchy(
	ctx context.Context,
	notebooks []domain.SourceNode,
	opts driving.MapOptions,
) domain.MappingResult {
	start := time.Now()

	progress := opts.Progress
	if progress == nil {
		progress = driving.NopProgress{}
	}
	maxDepth := opts.MaxDepth
	if maxDepth < 1 {
		maxDepth = driving.DefaultMaxDepth
	}

	progress.OnStage("mapping", 10, "Mapping started", 0, 0)

	var databaseIDs []string
	if opts.CreateDatabases {
		for range notebooks {
			databaseIDs = append(databaseIDs, "db-"+uuid.NewString())
		}
		if len(databaseIDs) > 0 {
			progress.OnStage("mapping", 20, fmt.Sprintf("Created %d database ids", len(databaseIDs)), 0, 0)
		}
	}

	pages := make([]domain.DestinationPage, 0, len(notebooks))
	for i := range notebooks {
		if err := ctx.Err(); err != nil {
			return failedMapping(err)
		}

		percent := 30
		if len(notebooks) > 0 {
			percent = 30 + (60*i)/len(notebooks)
		}
		progress.OnStage("mapping", percent,
			fmt.Sprintf("Mapping notebook %q", notebooks[i].Title), i+1, len(notebooks))

		pages = append(pages, mapNode(notebooks[i], nil, 0, maxDepth))
	}

	flat := domain.FlattenPages(pages)
	findings := validatePages(flat)
	if len(findings) > 0 {
		logger.Warn("Mapping produced %d validation findings", len(findings))
	}

	stats := countSource(notebooks)
	stats.ElapsedMs = time.Since(start).Milliseconds()

	progress.OnStage("mapping", 100, "Mapping complete", len(notebooks), len(notebooks))

	return domain.MappingResult{
		Succeeded:   true,
		Pages:       pages,
		DatabaseIDs: databaseIDs,
		Errors:      findings,
		Stats:       stats,
	}
}

// failedMapping builds the result for an aborted run. Partial trees are
// discarded: Pages is nil and stats are zero, so Succeeded=false is the
// single source of truth for callers.
func failedMapping(err error) domain.MappingResult {
	return domain.MappingResult{
		Succeeded: false,
		Errors:    []string{err.Error()},
	}
}

// mapNode builds the destination page for one source node and recurses
// into its children. remaining is the depth budget: at 1 the node itself
// is mapped but its children are silently omitted.
func mapNode(node domain.SourceNode, parentID *string, depth, remaining int) domain.DestinationPage {
	page := domain.DestinationPage{
		ID:         node.ID,
		Title:      node.Title,
		Body:       bodyPlaceholder(node, depth),
		ParentID:   parentID,
		Type:       typeForDepth(depth),
		Properties: propertiesFor(node, depth),
	}

	if remaining <= 1 {
		return page
	}

	pid := page.ID
	for _, child := range node.Children {
		page.Children = append(page.Children, mapNode(child, &pid, depth+1, remaining-1))
	}
	return page
}

// typeForDepth maps nesting depth to a page type: notebooks at the top,
// sections below them, pages (and sub-pages) beneath.
func typeForDepth(depth int) domain.PageType {
	switch depth {
	case 0:
		return domain.PageTypeNotebook
	case 1:
		return domain.PageTypeSection
	default:
		return domain.PageTypePage
	}
}

// bodyPlaceholder produces the summary body used until full content
// conversion is attached.
func bodyPlaceholder(node domain.SourceNode, depth int) string {
	switch typeForDepth(depth) {
	case domain.PageTypeNotebook:
		return fmt.Sprintf("Imported from OneNote notebook %q", node.Title)
	case domain.PageTypeSection:
		return fmt.Sprintf("Imported from OneNote section %q", node.Title)
	default:
		return "Content conversion pending"
	}
}

// propertiesFor builds the property set for a node. Notebooks and
// sections carry a closed key set. Pages start from defaults and then
// apply source attributes as an ordered override pass, so an attribute
// named "Author" in the source wins over the "Unknown" default
// (last-write-wins).
func propertiesFor(node domain.SourceNode, depth int) map[string]any {
	pageType := typeForDepth(depth)

	props := map[string]any{
		"Type":       string(pageType),
		"CreatedAt":  node.CreatedAt,
		"ModifiedAt": node.ModifiedAt,
	}
	if pageType != domain.PageTypePage {
		return props
	}

	author := "Unknown"
	if a, ok := node.Attributes["author"].(string); ok && a != "" {
		author = a
	}
	props["Author"] = author

	// Overrides second: source attributes replace defaults on key
	// collision.
	for k, v := range node.Attributes {
		props[k] = v
	}
	return props
}

// validatePages checks the flattened forest for dangling parents and
// parent-chain cycles. Findings are returned as human-readable strings;
// callers decide whether they block downstream import.
//
// Cycles are structurally impossible from tree-shaped input, but the
// validator still catches them in case parent ids are edited or node
// lists are concatenated out of tree order.
func validatePages(flat []domain.DestinationPage) []string {
	ids := make(map[string]bool, len(flat))
	parents := make(map[string]*string, len(flat))
	for i := range flat {
		ids[flat[i].ID] = true
		parents[flat[i].ID] = flat[i].ParentID
	}

	var findings []string
	for i := range flat {
		if flat[i].ParentID != nil && !ids[*flat[i].ParentID] {
			findings = append(findings, fmt.Sprintf(
				"Page %s references non-existent parent %s", flat[i].ID, *flat[i].ParentID))
		}
	}

	for i := range flat {
		visited := map[string]bool{flat[i].ID: true}
		current := parents[flat[i].ID]
		for current != nil {
			if visited[*current] {
				findings = append(findings, fmt.Sprintf(
					"Circular reference detected involving page %s", flat[i].ID))
				break
			}
			visited[*current] = true
			current = parents[*current]
		}
	}

	return findings
}

// countSource tallies notebooks, sections, and pages in the source
// forest without regard to any depth truncation applied during mapping.
func countSource(notebooks []domain.SourceNode) domain.MappingStats {
	var stats domain.MappingStats
	var walk func(node domain.SourceNode, depth int)
	walk = func(node domain.SourceNode, depth int) {
		switch typeForDepth(depth) {
		case domain.PageTypeNotebook:
			stats.NotebookCount++
		case domain.PageTypeSection:
			stats.SectionCount++
		default:
			stats.PageCount++
		}
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	for _, nb := range notebooks {
		walk(nb, 0)
	}
	return stats
}
