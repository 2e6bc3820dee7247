package domain

// LinkKind classifies an input reference to OneNote content.
type LinkKind int

const (
	// LinkLocalPath is a filesystem path to a .one or .onepkg file.
	LinkLocalPath LinkKind = iota

	// LinkCloudShare is a OneDrive sharing URL.
	LinkCloudShare

	// LinkProtocol is a onenote: protocol URL.
	LinkProtocol
)

// String returns a human-readable name for the link kind.
func (k LinkKind) String() string {
	switch k {
	case LinkCloudShare:
		return "onedrive"
	case LinkProtocol:
		return "onenote"
	default:
		return "local"
	}
}

// ResolvedLink is the outcome of classifying an input reference.
// It is a value type: once produced by the resolver it is never mutated.
// Exactly one of Valid=true or ValidationError non-empty holds.
type ResolvedLink struct {
	// Kind is the classified reference kind.
	Kind LinkKind

	// DisplayName is the notebook name extracted from the reference.
	// May be empty when the reference does not encode one.
	DisplayName string

	// SourcePath is the filesystem path or URL path to the notebook.
	// Set for local and protocol links.
	SourcePath string

	// SectionID is the target section identifier when the source URL
	// encodes one. Empty otherwise.
	SectionID string

	// OriginalRef is the verbatim input reference.
	OriginalRef string

	// Valid reports whether the reference could be classified.
	Valid bool

	// ValidationError describes why classification failed.
	// Set exactly when Valid is false.
	ValidationError string
}

// DisplayLabel returns the display name, falling back to a kind-specific
// label when the reference did not encode a name.
func (l ResolvedLink) DisplayLabel() string {
	if l.DisplayName != "" {
		return l.DisplayName
	}
	switch l.Kind {
	case LinkCloudShare:
		return "OneDrive notebook"
	case LinkProtocol:
		return "OneNote notebook"
	default:
		return "Local notebook"
	}
}

// CanProcess reports whether the link can be fed to the offline import
// pipeline directly. Cloud and protocol links are classified but deferred:
// they need a download step before the local pipeline can consume them.
func (l ResolvedLink) CanProcess() bool {
	return l.Valid && l.Kind == LinkLocalPath
}
