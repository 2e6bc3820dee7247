package domain

// PageType tags a destination page with its source hierarchy level.
type PageType string

const (
	// PageTypeNotebook is a top-level notebook page.
	PageTypeNotebook PageType = "Notebook"

	// PageTypeSection is a section page nested under a notebook.
	PageTypeSection PageType = "Section"

	// PageTypePage is a content page nested under a section, or a
	// sub-page nested under another page.
	PageTypePage PageType = "Page"
)

// DestinationPage is one node of the mapped output tree, ready for
// downstream import into the destination store.
type DestinationPage struct {
	// ID is copied from the source node and stable across a mapping run.
	ID string

	// Title is the page title.
	Title string

	// Body is a placeholder summary used until full content conversion
	// is attached.
	Body string

	// ParentID names the parent page. Nil for roots. Every non-nil
	// ParentID must reference an ID present in the same mapping result.
	ParentID *string

	// Type is the hierarchy level tag.
	Type PageType

	// Properties holds the per-type property set merged with source
	// attributes (defaults first, source attributes override).
	Properties map[string]any

	// Children are the nested pages, in source order.
	Children []DestinationPage
}

// MappingStats summarises a mapping run. Counts reflect the untruncated
// source tree: when MaxDepth cuts levels off, the counts can exceed what
// was actually materialised.
type MappingStats struct {
	// NotebookCount is the number of source notebooks.
	NotebookCount int

	// SectionCount is the number of source sections.
	SectionCount int

	// PageCount is the number of source pages, sub-pages included.
	PageCount int

	// ElapsedMs is the wall-clock duration of the run in milliseconds.
	ElapsedMs int64
}

// MappingResult is the outcome of one hierarchy mapping run.
// Produced once, immutable thereafter.
type MappingResult struct {
	// Succeeded reports whether the run completed. When false, Pages is
	// nil and Stats is zero regardless of how far the run got; callers
	// must treat Succeeded as authoritative.
	Succeeded bool

	// Pages is the mapped forest, in notebook input order.
	Pages []DestinationPage

	// DatabaseIDs holds one synthetic database id per notebook when
	// database-per-notebook mode was requested. Empty otherwise.
	DatabaseIDs []string

	// Errors holds failure and validation messages.
	Errors []string

	// Stats summarises the run.
	Stats MappingStats
}

// FlattenPages returns the forest in pre-order: each page before its
// children, children in source order.
func FlattenPages(pages []DestinationPage) []DestinationPage {
	var flat []DestinationPage
	var walk func(p DestinationPage)
	walk = func(p DestinationPage) {
		flat = append(flat, p)
		for _, c := range p.Children {
			walk(c)
		}
	}
	for _, p := range pages {
		walk(p)
	}
	return flat
}
