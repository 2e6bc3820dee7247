package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

func TestResolve_LocalPaths(t *testing.T) {
	tests := []struct {
		name        string
		reference   string
		wantDisplay string
		wantPath    string
	}{
		{
			name:        "absolute path with onepkg extension",
			reference:   "/path/to/notebook.onepkg",
			wantDisplay: "notebook",
			wantPath:    "/path/to/notebook.onepkg",
		},
		{
			name:        "absolute path with one extension",
			reference:   "/home/user/notes/Meeting Notes.one",
			wantDisplay: "Meeting Notes",
			wantPath:    "/home/user/notes/Meeting Notes.one",
		},
		{
			name:        "relative path with dot slash",
			reference:   "./exports/Campaign.one",
			wantDisplay: "Campaign",
			wantPath:    "./exports/Campaign.one",
		},
		{
			name:        "parent-relative path",
			reference:   "../backup/Journal.onepkg",
			wantDisplay: "Journal",
			wantPath:    "../backup/Journal.onepkg",
		},
		{
			name:        "windows drive path",
			reference:   `C:\Users\alice\Documents\Work.one`,
			wantDisplay: "Work",
			wantPath:    `C:\Users\alice\Documents\Work.one`,
		},
		{
			name:        "bare filename with extension",
			reference:   "Recipes.onepkg",
			wantDisplay: "Recipes",
			wantPath:    "Recipes.onepkg",
		},
		{
			name:        "path without notebook extension",
			reference:   "exports/raw/notebook.bak",
			wantDisplay: "notebook.bak",
			wantPath:    "exports/raw/notebook.bak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Resolve(tt.reference)

			require.True(t, link.Valid, "validation error: %s", link.ValidationError)
			assert.Equal(t, domain.LinkLocalPath, link.Kind)
			assert.Equal(t, tt.wantDisplay, link.DisplayName)
			assert.Equal(t, tt.wantPath, link.SourcePath)
			assert.Equal(t, tt.reference, link.OriginalRef)
			assert.Empty(t, link.ValidationError)
		})
	}
}

func TestResolve_OneDriveShare(t *testing.T) {
	// Sharing URL with parentheses and an escaped parenthesis inside
	// the notebook name.
	ref := "https://onedrive.live.com/view.aspx?resid=4E9CB9390373063C%211126&id=documents" +
		"&wd=target%28Zequin%20Isles%20Campaign%20%28Lycanthropes%5C%29.one%7C" +
		"E306FB3E-F4BF-3749-BB49-B1121D326A3A%2F%29"

	link := Resolve(ref)

	require.True(t, link.Valid, "validation error: %s", link.ValidationError)
	assert.Equal(t, domain.LinkCloudShare, link.Kind)
	assert.Equal(t, "Zequin Isles Campaign (Lycanthropes)", link.DisplayName)
	assert.Equal(t, "E306FB3E-F4BF-3749-BB49-B1121D326A3A", link.SectionID)
	assert.Equal(t, ref, link.OriginalRef)
}

func TestResolve_OneDriveShare_Errors(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		wantError string
	}{
		{
			name:      "missing resid",
			reference: "https://onedrive.live.com/view.aspx?id=documents&wd=target%28Notes.one%7Cabc%2F%29",
			wantError: "Missing resid parameter in OneDrive URL",
		},
		{
			name:      "missing target parameter",
			reference: "https://onedrive.live.com/view.aspx?resid=AABB1122%21100&id=documents",
			wantError: "Could not extract filename from OneDrive URL",
		},
		{
			name:      "empty target filename",
			reference: "https://onedrive.live.com/view.aspx?resid=AABB1122%21100&wd=target%28%7Cabc%2F%29",
			wantError: "Could not extract filename from OneDrive URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Resolve(tt.reference)

			require.False(t, link.Valid)
			assert.Equal(t, domain.LinkCloudShare, link.Kind)
			assert.Equal(t, tt.wantError, link.ValidationError)
			assert.Empty(t, link.DisplayName)
		})
	}
}

func TestResolve_OneDriveShare_NoSectionID(t *testing.T) {
	link := Resolve("https://onedrive.live.com/view.aspx?resid=AABB1122%21100&wd=target%28Notes.one%29")

	require.True(t, link.Valid, "validation error: %s", link.ValidationError)
	assert.Equal(t, "Notes", link.DisplayName)
	assert.Empty(t, link.SectionID)
}

func TestResolve_ProtocolLinks(t *testing.T) {
	tests := []struct {
		name        string
		reference   string
		wantDisplay string
		wantSection string
	}{
		{
			name:        "protocol link with section fragment",
			reference:   "onenote:https://d.docs.live.net/abc123/Documents/Work/Projects.one#section-id={A1B2C3D4-E5F6-7788-99AA-BBCCDDEEFF00}&end",
			wantDisplay: "Projects",
			wantSection: "A1B2C3D4-E5F6-7788-99AA-BBCCDDEEFF00",
		},
		{
			name:        "protocol link without fragment",
			reference:   "onenote:https://d.docs.live.net/abc123/Documents/Personal/Travel.one",
			wantDisplay: "Travel",
			wantSection: "",
		},
		{
			name:        "protocol link with encoded filename",
			reference:   "onenote:https://d.docs.live.net/abc123/Documents/Meeting%20Notes.one",
			wantDisplay: "Meeting Notes",
			wantSection: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Resolve(tt.reference)

			require.True(t, link.Valid, "validation error: %s", link.ValidationError)
			assert.Equal(t, domain.LinkProtocol, link.Kind)
			assert.Equal(t, tt.wantDisplay, link.DisplayName)
			assert.Equal(t, tt.wantSection, link.SectionID)
		})
	}
}

func TestResolve_ProtocolLink_InvalidFilename(t *testing.T) {
	link := Resolve("onenote:https://d.docs.live.net/abc123/Documents/Work/")

	require.False(t, link.Valid)
	assert.Equal(t, domain.LinkProtocol, link.Kind)
	assert.Equal(t, "Invalid OneNote URL - missing or invalid filename", link.ValidationError)
}

func TestResolve_InvalidFormat(t *testing.T) {
	tests := []struct {
		name      string
		reference string
	}{
		{name: "plain word", reference: "not-a-valid-url"},
		{name: "empty string", reference: ""},
		{name: "unrelated url", reference: "https://example.com/page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Resolve(tt.reference)

			require.False(t, link.Valid)
			if tt.reference == "not-a-valid-url" || tt.reference == "" {
				assert.Equal(t, "Invalid OneNote link format", link.ValidationError)
			} else {
				assert.NotEmpty(t, link.ValidationError)
			}
		})
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		name string
		link domain.ResolvedLink
		want string
	}{
		{
			name: "display name wins",
			link: domain.ResolvedLink{Kind: domain.LinkCloudShare, DisplayName: "My Notebook"},
			want: "My Notebook",
		},
		{
			name: "cloud fallback",
			link: domain.ResolvedLink{Kind: domain.LinkCloudShare},
			want: "OneDrive notebook",
		},
		{
			name: "protocol fallback",
			link: domain.ResolvedLink{Kind: domain.LinkProtocol},
			want: "OneNote notebook",
		},
		{
			name: "local fallback",
			link: domain.ResolvedLink{Kind: domain.LinkLocalPath},
			want: "Local notebook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.DisplayLabel())
		})
	}
}

func TestCanProcess(t *testing.T) {
	assert.True(t, Resolve("/tmp/notes.one").CanProcess())

	// Cloud and protocol links are classified but deferred: they need a
	// download step before the offline pipeline can consume them.
	cloud := Resolve("https://onedrive.live.com/view.aspx?resid=AA%21100&wd=target%28N.one%7Cs%2F%29")
	require.True(t, cloud.Valid)
	assert.False(t, cloud.CanProcess())

	invalid := Resolve("not-a-valid-url")
	assert.False(t, invalid.CanProcess())
}
