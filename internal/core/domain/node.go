package domain

import "time"

// SourceNode is one node of the source hierarchy before mapping.
// Depth determines meaning: top-level nodes are notebooks, their children
// sections, and anything below that pages (pages may nest sub-pages).
// A parent exclusively owns its children; the structure is a tree.
type SourceNode struct {
	// ID is an opaque identifier, stable and unique within the tree.
	ID string

	// Title is the display title.
	Title string

	// CreatedAt is the source creation timestamp.
	CreatedAt time.Time

	// ModifiedAt is the source last-modified timestamp.
	ModifiedAt time.Time

	// Children are the nested nodes, in source order.
	Children []SourceNode

	// Attributes carries open-ended source metadata (author, tags, ...).
	Attributes map[string]any
}
