// Package links classifies OneNote references into typed, validated
// links. A reference can be a local path to a .one/.onepkg file, a
// OneDrive sharing URL, or a onenote: protocol URL.
//
// Resolution is pure string work: no filesystem or network access.
// Whether a local path exists or a share URL is reachable is the content
// fetcher's concern.
package links

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

const (
	// oneDriveHost identifies OneDrive sharing URLs.
	oneDriveHost = "onedrive.live.com"

	// protocolPrefix identifies onenote: protocol URLs.
	protocolPrefix = "onenote:"

	// targetMarker opens the embedded target parameter in OneDrive
	// URLs: target(<filename>|<sectionId>/).
	targetMarker = "target("
)

// notebookExtensions are the recognised OneNote file extensions.
var notebookExtensions = []string{".one", ".onepkg"}

// sectionIDPattern extracts the section id from a onenote: URL fragment.
var sectionIDPattern = regexp.MustCompile(`section-id=\{([^}]+)\}`)

// Resolve classifies a reference into a ResolvedLink. It is total:
// all failure is encoded in the returned value, never raised.
func Resolve(reference string) domain.ResolvedLink {
	ref := strings.TrimSpace(reference)

	switch {
	case isLocalPath(ref):
		return resolveLocalPath(ref)
	case strings.Contains(ref, oneDriveHost):
		return resolveOneDrive(ref)
	case strings.HasPrefix(ref, protocolPrefix):
		return resolveProtocol(ref)
	default:
		return invalid(ref, domain.LinkLocalPath, "Invalid OneNote link format")
	}
}

// isLocalPath reports whether the reference looks like a filesystem
// path: a path-root marker, a path separator, or a notebook extension.
// URL-shaped references are never local paths.
func isLocalPath(ref string) bool {
	if ref == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, protocolPrefix) {
		return false
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		return true
	}
	if hasDriveRoot(ref) {
		return true
	}
	if strings.ContainsAny(ref, `/\`) {
		return true
	}
	return hasNotebookExtension(ref)
}

// hasDriveRoot reports whether the reference starts with a Windows
// drive root like C:\ or C:/.
func hasDriveRoot(ref string) bool {
	if len(ref) < 3 {
		return false
	}
	c := ref[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && ref[1] == ':' && (ref[2] == '\\' || ref[2] == '/')
}

// hasNotebookExtension reports whether the reference ends with a
// recognised OneNote extension.
func hasNotebookExtension(ref string) bool {
	lower := strings.ToLower(ref)
	for _, ext := range notebookExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// stripNotebookExtension removes one trailing notebook extension.
func stripNotebookExtension(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range notebookExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// resolveLocalPath classifies a filesystem path. Existence is not
// checked here; a dangling path surfaces as a fetch failure instead.
func resolveLocalPath(ref string) domain.ResolvedLink {
	segment := lastPathSegment(ref)
	return domain.ResolvedLink{
		Kind:        domain.LinkLocalPath,
		DisplayName: stripNotebookExtension(segment),
		SourcePath:  ref,
		OriginalRef: ref,
		Valid:       true,
	}
}

// lastPathSegment returns the final segment of a path using either
// separator style.
func lastPathSegment(path string) string {
	path = strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// resolveOneDrive classifies a OneDrive sharing URL. The URL must carry
// a resid parameter and a target(<filename>|<sectionId>/) parameter
// naming the notebook file.
func resolveOneDrive(ref string) domain.ResolvedLink {
	u, err := url.Parse(ref)
	if err != nil {
		return invalid(ref, domain.LinkCloudShare, "Invalid OneDrive URL: "+err.Error())
	}

	query := u.Query()
	if query.Get("resid") == "" {
		return invalid(ref, domain.LinkCloudShare, "Missing resid parameter in OneDrive URL")
	}

	// The target parameter usually travels inside wd=, but some share
	// links embed it elsewhere in the query, so fall back to scanning
	// the decoded reference.
	searchIn := query.Get("wd")
	if !strings.Contains(searchIn, targetMarker) {
		if decoded, decErr := url.QueryUnescape(ref); decErr == nil {
			searchIn = decoded
		}
	}

	name, sectionID, ok := parseTarget(searchIn)
	if !ok {
		return invalid(ref, domain.LinkCloudShare, "Could not extract filename from OneDrive URL")
	}

	return domain.ResolvedLink{
		Kind:        domain.LinkCloudShare,
		DisplayName: name,
		SectionID:   sectionID,
		OriginalRef: ref,
		Valid:       true,
	}
}

// parseTarget extracts filename and section id from a decoded
// target(<filename>|<sectionId>/) expression. The inner content runs
// from the marker to the last closing parenthesis, so parentheses
// inside the filename survive.
func parseTarget(s string) (name, sectionID string, ok bool) {
	idx := strings.Index(s, targetMarker)
	if idx < 0 {
		return "", "", false
	}

	inner := s[idx+len(targetMarker):]
	if end := strings.LastIndex(inner, ")"); end >= 0 {
		inner = inner[:end]
	}

	parts := strings.SplitN(inner, "|", 2)
	name = parts[0]
	if decoded, err := url.QueryUnescape(name); err == nil {
		name = decoded
	}
	name = stripNotebookExtension(name)
	name = strings.ReplaceAll(name, `\`, "")
	if name == "" {
		return "", "", false
	}

	if len(parts) == 2 {
		sectionID = strings.TrimSuffix(parts[1], "/")
	}
	return name, sectionID, true
}

// resolveProtocol classifies a onenote: protocol URL. The remainder
// must parse as a URL whose last path segment is a .one file.
func resolveProtocol(ref string) domain.ResolvedLink {
	remainder := strings.TrimPrefix(ref, protocolPrefix)

	u, err := url.Parse(remainder)
	if err != nil {
		return invalid(ref, domain.LinkProtocol, "Invalid OneNote URL: "+err.Error())
	}

	segment := lastPathSegment(u.Path)
	if !strings.HasSuffix(strings.ToLower(segment), ".one") {
		return invalid(ref, domain.LinkProtocol, "Invalid OneNote URL - missing or invalid filename")
	}

	if decoded, decErr := url.PathUnescape(segment); decErr == nil {
		segment = decoded
	}

	var sectionID string
	if m := sectionIDPattern.FindStringSubmatch(u.Fragment); m != nil {
		sectionID = m[1]
	}

	return domain.ResolvedLink{
		Kind:        domain.LinkProtocol,
		DisplayName: stripNotebookExtension(segment),
		SourcePath:  remainder,
		SectionID:   sectionID,
		OriginalRef: ref,
		Valid:       true,
	}
}

// invalid builds a failed classification result.
func invalid(ref string, kind domain.LinkKind, msg string) domain.ResolvedLink {
	return domain.ResolvedLink{
		Kind:            kind,
		OriginalRef:     ref,
		Valid:           false,
		ValidationError: msg,
	}
}
