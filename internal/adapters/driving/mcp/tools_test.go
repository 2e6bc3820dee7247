package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelift/notelift-cli/internal/adapters/driven/storage/memory"
	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
)

// mockMigration implements driving.MigrationService for tool tests.
type mockMigration struct {
	preview *driving.PreviewResult
	err     error
}

func (m *mockMigration) Preview(_ context.Context, _ []string, _ driving.ImportOptions) (*driving.PreviewResult, error) {
	return m.preview, m.err
}

func (m *mockMigration) Import(_ context.Context, _ []string, _ driving.ImportOptions) (*domain.ImportJob, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockMigration) Resume(_ context.Context, _ string, _ driving.ImportOptions) (*domain.ImportJob, error) {
	return nil, domain.ErrNotImplemented
}

func (m *mockMigration) Status(_ context.Context, jobID string) (*driving.MigrationStatus, error) {
	return &driving.MigrationStatus{JobID: jobID}, nil
}

func newTestServer(t *testing.T, migration driving.MigrationService, jobs *memory.ImportJobStore) *Server {
	t.Helper()
	ports := &Ports{Migration: migration}
	if jobs != nil {
		ports.Jobs = jobs
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestNewServer_RequiresMigration(t *testing.T) {
	_, err := NewServer(&Ports{})

	assert.ErrorIs(t, err, ErrMissingMigrationService)
}

func TestHandleResolveLink(t *testing.T) {
	s := newTestServer(t, &mockMigration{}, nil)

	_, out, err := s.handleResolveLink(context.Background(), nil, ResolveLinkInput{
		Link: "/path/to/notebook.onepkg",
	})

	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Equal(t, "local", out.Kind)
	assert.Equal(t, "notebook", out.DisplayName)
	assert.Equal(t, "/path/to/notebook.onepkg", out.SourcePath)
}

func TestHandleResolveLink_Invalid(t *testing.T) {
	s := newTestServer(t, &mockMigration{}, nil)

	_, out, err := s.handleResolveLink(context.Background(), nil, ResolveLinkInput{
		Link: "not-a-valid-url",
	})

	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Equal(t, "Invalid OneNote link format", out.ValidationError)
}

func TestHandlePreview(t *testing.T) {
	parent := "nb-1"
	migration := &mockMigration{
		preview: &driving.PreviewResult{
			Batch: domain.BatchResult{TotalCount: 1, SucceededCount: 1},
			Mapping: domain.MappingResult{
				Succeeded: true,
				Pages: []domain.DestinationPage{
					{
						ID: "nb-1", Title: "Travel", Type: domain.PageTypeNotebook,
						Children: []domain.DestinationPage{
							{ID: "sec-1", Title: "Japan", Type: domain.PageTypeSection, ParentID: &parent},
						},
					},
				},
				Stats: domain.MappingStats{NotebookCount: 1, SectionCount: 1},
			},
		},
	}
	s := newTestServer(t, migration, nil)

	_, out, err := s.handlePreview(context.Background(), nil, PreviewInput{
		Links: []string{"/notes/travel.one"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, out.FetchedCount)
	assert.Equal(t, 1, out.NotebookCount)
	require.Len(t, out.Pages, 2)
	assert.Equal(t, "Travel", out.Pages[0].Title)
	assert.Equal(t, "", out.Pages[0].ParentID)
	assert.Equal(t, "nb-1", out.Pages[1].ParentID)
}

func TestHandleJobs(t *testing.T) {
	jobs := memory.NewImportJobStore()
	require.NoError(t, jobs.SaveJob(context.Background(), &domain.ImportJob{
		ID:        "job-1",
		Status:    domain.JobPartial,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Items: []domain.ImportItem{
			{Reference: "/a.one", DisplayName: "a", State: domain.ItemImported, PageCount: 2},
			{Reference: "/b.one", DisplayName: "b", State: domain.ItemFailed, Error: "boom"},
		},
	}))

	s := newTestServer(t, &mockMigration{}, jobs)

	_, out, err := s.handleJobs(context.Background(), nil, JobsInput{})

	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "partial", out.Jobs[0].Status)
	assert.Equal(t, 1, out.Jobs[0].Imported)
	assert.Equal(t, 1, out.Jobs[0].Failed)
	require.Len(t, out.Jobs[0].Failures, 1)
	assert.Equal(t, "b: boom", out.Jobs[0].Failures[0])
}

func TestHandleJobs_NoStore(t *testing.T) {
	s := newTestServer(t, &mockMigration{}, nil)

	_, _, err := s.handleJobs(context.Background(), nil, JobsInput{})

	assert.Error(t, err)
}
