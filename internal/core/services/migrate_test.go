package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelift/notelift-cli/internal/adapters/driven/storage/memory"
	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
	"github.com/notelift/notelift-cli/internal/parsers"
	"github.com/notelift/notelift-cli/internal/parsers/fallback"
)

// --- Mock implementations for migration testing ---

// mockImporter implements driven.PageImporter, recording every write.
type mockImporter struct {
	mu        sync.Mutex
	nextID    int
	created   []string // titles, in creation order
	updated   []string // destination ids, in update order
	databases []string // database titles

	createErr error
	onCreate  func(title string) // called after each create, lock released
}

func (m *mockImporter) CreatePage(_ context.Context, page domain.DestinationPage, _ string) (string, error) {
	m.mu.Lock()
	if m.createErr != nil {
		m.mu.Unlock()
		return "", m.createErr
	}
	m.nextID++
	m.created = append(m.created, page.Title)
	id := fmt.Sprintf("dest-%d", m.nextID)
	m.mu.Unlock()

	if m.onCreate != nil {
		m.onCreate(page.Title)
	}
	return id, nil
}

func (m *mockImporter) UpdatePage(_ context.Context, destID string, _ domain.DestinationPage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, destID)
	return nil
}

func (m *mockImporter) CreateDatabase(_ context.Context, notebook domain.DestinationPage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.databases = append(m.databases, notebook.Title)
	return fmt.Sprintf("destdb-%d", m.nextID), nil
}

// migrationFixture bundles a service with its collaborators for
// inspection.
type migrationFixture struct {
	service  *MigrationService
	fetcher  *batchStubFetcher
	importer *mockImporter
	jobs     *memory.ImportJobStore
	links    *memory.PageLinkStore
}

func newMigrationFixture(importer *mockImporter) *migrationFixture {
	fetcher := newBatchStubFetcher()

	registry := parsers.NewRegistry()
	registry.Register(fallback.New())

	jobs := memory.NewImportJobStore()
	links := memory.NewPageLinkStore()

	var service *MigrationService
	if importer != nil {
		service = NewMigrationService(
			newTestBatchProcessor(fetcher), NewHierarchyMapper(), registry, importer, jobs, links)
	} else {
		service = NewMigrationService(
			newTestBatchProcessor(fetcher), NewHierarchyMapper(), registry, nil, jobs, links)
	}

	return &migrationFixture{
		service:  service,
		fetcher:  fetcher,
		importer: importer,
		jobs:     jobs,
		links:    links,
	}
}

// --- Tests ---

func TestPreview_MapsFetchedNotebooks(t *testing.T) {
	f := newMigrationFixture(nil)

	result, err := f.service.Preview(context.Background(),
		[]string{"/notes/travel.one", "not-a-valid-url"}, driving.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Batch.SucceededCount)
	assert.Equal(t, 1, result.Batch.FailedCount)

	// The fallback parser yields notebook -> section -> page per fetch.
	require.True(t, result.Mapping.Succeeded)
	require.Len(t, result.Mapping.Pages, 1)
	assert.Equal(t, "travel", result.Mapping.Pages[0].Title)
	assert.Equal(t, 1, result.Mapping.Stats.NotebookCount)
	assert.Equal(t, 1, result.Mapping.Stats.SectionCount)
	assert.Equal(t, 1, result.Mapping.Stats.PageCount)

	// Preview never persists anything.
	jobs, err := f.jobs.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestImport_RequiresRefs(t *testing.T) {
	f := newMigrationFixture(&mockImporter{})

	_, err := f.service.Import(context.Background(), nil, driving.ImportOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_RequiresImporter(t *testing.T) {
	f := newMigrationFixture(nil)

	_, err := f.service.Import(context.Background(), []string{"/notes/a.one"}, driving.ImportOptions{})

	assert.ErrorIs(t, err, domain.ErrImporterUnavailable)
}

func TestImport_WritesPagesAndRecordsJob(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)
	f.fetcher.fail["/notes/broken.one"] = errors.New("disk error")

	job, err := f.service.Import(context.Background(),
		[]string{"/notes/travel.one", "/notes/broken.one"}, driving.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, domain.JobPartial, job.Status)
	require.Len(t, job.Items, 2)

	assert.Equal(t, domain.ItemImported, job.Items[0].State)
	assert.Equal(t, 3, job.Items[0].PageCount)

	assert.Equal(t, domain.ItemFailed, job.Items[1].State)
	assert.Contains(t, job.Items[1].Error, "disk error")

	// notebook, section, page written in pre-order.
	assert.Equal(t, []string{"travel", "travel", "travel"}, importer.created)
	assert.Empty(t, importer.updated)

	// The job survives in the store.
	stored, err := f.jobs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPartial, stored.Status)

	// Every written page has a link for future re-imports.
	link, err := f.links.GetLink(context.Background(), "notebook-travel")
	require.NoError(t, err)
	assert.Equal(t, job.ID, link.JobID)
}

func TestImport_SecondRunUpdatesInsteadOfDuplicating(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)

	first, err := f.service.Import(context.Background(), []string{"/notes/travel.one"}, driving.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, domain.JobCompleted, first.Status)

	second, err := f.service.Import(context.Background(), []string{"/notes/travel.one"}, driving.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, second.Status)

	// First run created three pages; the second updated them in place.
	assert.Len(t, importer.created, 3)
	assert.Len(t, importer.updated, 3)

	// Links now belong to the second job.
	link, err := f.links.GetLink(context.Background(), "page-travel")
	require.NoError(t, err)
	assert.Equal(t, second.ID, link.JobID)
}

func TestImport_DatabasePerNotebook(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)

	opts := driving.ImportOptions{Map: driving.MapOptions{CreateDatabases: true}}
	job, err := f.service.Import(context.Background(), []string{"/notes/travel.one"}, opts)

	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, job.Status)

	// The notebook becomes a database; only section and page become pages.
	assert.Equal(t, []string{"travel"}, importer.databases)
	assert.Equal(t, []string{"travel", "travel"}, importer.created)
	assert.Equal(t, 2, job.Items[0].PageCount)
}

func TestResume_SkipsImportedItems(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)
	f.fetcher.fail["/notes/flaky.one"] = errors.New("timeout")

	job, err := f.service.Import(context.Background(),
		[]string{"/notes/stable.one", "/notes/flaky.one"}, driving.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, domain.JobPartial, job.Status)

	// The transient failure clears; resume should retry only the failed
	// item.
	delete(f.fetcher.fail, "/notes/flaky.one")
	f.fetcher.fetched = nil

	resumed, err := f.service.Resume(context.Background(), job.ID, driving.ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.JobCompleted, resumed.Status)
	assert.Equal(t, []string{"/notes/flaky.one"}, f.fetcher.fetched)
	for _, item := range resumed.Items {
		assert.Equal(t, domain.ItemImported, item.State)
	}
}

func TestResume_NothingPending(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)

	job, err := f.service.Import(context.Background(), []string{"/notes/a.one"}, driving.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, domain.JobCompleted, job.Status)

	f.fetcher.fetched = nil
	resumed, err := f.service.Resume(context.Background(), job.ID, driving.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, resumed.Status)
	assert.Empty(t, f.fetcher.fetched, "nothing should be re-fetched")
}

func TestResume_UnknownJob(t *testing.T) {
	f := newMigrationFixture(&mockImporter{})

	_, err := f.service.Resume(context.Background(), "missing", driving.ImportOptions{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImport_PersistsItemStateMidRun(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)

	// Snapshot the first item from the store while the second is still
	// being written. It must already be flushed as imported.
	var observed domain.ImportItem
	importer.onCreate = func(title string) {
		if title != "b" || observed.Reference != "" {
			return
		}
		all, err := f.jobs.ListJobs(context.Background())
		if err != nil || len(all) != 1 {
			return
		}
		for _, item := range all[0].Items {
			if item.Reference == "/notes/a.one" {
				observed = item
			}
		}
	}

	_, err := f.service.Import(context.Background(),
		[]string{"/notes/a.one", "/notes/b.one"}, driving.ImportOptions{})
	require.NoError(t, err)

	require.Equal(t, "/notes/a.one", observed.Reference)
	assert.Equal(t, domain.ItemImported, observed.State)
	assert.Equal(t, 3, observed.PageCount)
}

func TestStatus_LiveDuringImport(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)
	ctx := context.Background()

	release := make(chan struct{})
	midRun := make(chan struct{})
	var once sync.Once
	importer.onCreate = func(string) {
		once.Do(func() {
			close(midRun)
			<-release
		})
	}

	type outcome struct {
		job *domain.ImportJob
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		job, err := f.service.Import(ctx,
			[]string{"/notes/a.one", "/notes/b.one"}, driving.ImportOptions{})
		done <- outcome{job, err}
	}()

	<-midRun

	// The job record exists before the run starts, so its id is
	// discoverable by pollers.
	all, err := f.jobs.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	jobID := all[0].ID

	live, err := f.service.Status(ctx, jobID)
	require.NoError(t, err)
	assert.True(t, live.Running)
	assert.Equal(t, 0, live.ItemsProcessed)

	// Keep querying while the run finishes; reads and counter updates
	// must be safe to interleave.
	close(release)
	for {
		select {
		case res := <-done:
			require.NoError(t, res.err)
			final, err := f.service.Status(ctx, jobID)
			require.NoError(t, err)
			assert.False(t, final.Running)
			assert.Equal(t, 2, final.ItemsProcessed)
			assert.Equal(t, 6, final.PagesImported)
			return
		default:
			if _, err := f.service.Status(ctx, jobID); err != nil {
				t.Fatalf("status during import: %v", err)
			}
		}
	}
}

func TestStatus_FromStoredJob(t *testing.T) {
	importer := &mockImporter{}
	f := newMigrationFixture(importer)
	f.fetcher.fail["/notes/bad.one"] = errors.New("nope")

	job, err := f.service.Import(context.Background(),
		[]string{"/notes/good.one", "/notes/bad.one"}, driving.ImportOptions{})
	require.NoError(t, err)

	status, err := f.service.Status(context.Background(), job.ID)
	require.NoError(t, err)

	assert.False(t, status.Running)
	assert.Equal(t, 2, status.ItemsProcessed)
	assert.Equal(t, 3, status.PagesImported)
	assert.Equal(t, 1, status.ErrorCount)
}
