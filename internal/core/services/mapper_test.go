package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
)

// recordingSink captures progress events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	stages []string
	pcts   []int
}

func (s *recordingSink) OnStage(stage string, percent int, _ string, _, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, stage)
	s.pcts = append(s.pcts, percent)
}

func testNotebook() domain.SourceNode {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.SourceNode{
		ID:         "nb-1",
		Title:      "Travel",
		CreatedAt:  created,
		ModifiedAt: created,
		Children: []domain.SourceNode{
			{
				ID:    "sec-1",
				Title: "Japan",
				Children: []domain.SourceNode{
					{ID: "page-1", Title: "Tokyo"},
					{
						ID:    "page-2",
						Title: "Kyoto",
						Attributes: map[string]any{
							"author": "Mika",
							"tags":   []string{"temples"},
						},
					},
				},
			},
			{ID: "sec-2", Title: "Packing"},
		},
	}
}

func TestMapHierarchy_Structure(t *testing.T) {
	m := NewHierarchyMapper()

	result := m.MapHierarchy(context.Background(), []domain.SourceNode{testNotebook()}, driving.MapOptions{})

	require.True(t, result.Succeeded)
	require.Len(t, result.Pages, 1)
	assert.Empty(t, result.Errors)

	nb := result.Pages[0]
	assert.Equal(t, "nb-1", nb.ID)
	assert.Equal(t, domain.PageTypeNotebook, nb.Type)
	assert.Nil(t, nb.ParentID)
	assert.Equal(t, `Imported from OneNote notebook "Travel"`, nb.Body)
	require.Len(t, nb.Children, 2)

	sec := nb.Children[0]
	assert.Equal(t, domain.PageTypeSection, sec.Type)
	require.NotNil(t, sec.ParentID)
	assert.Equal(t, "nb-1", *sec.ParentID)
	assert.Equal(t, `Imported from OneNote section "Japan"`, sec.Body)

	page := sec.Children[0]
	assert.Equal(t, domain.PageTypePage, page.Type)
	assert.Equal(t, "Content conversion pending", page.Body)
	require.NotNil(t, page.ParentID)
	assert.Equal(t, "sec-1", *page.ParentID)

	assert.Equal(t, 1, result.Stats.NotebookCount)
	assert.Equal(t, 2, result.Stats.SectionCount)
	assert.Equal(t, 2, result.Stats.PageCount)
}

func TestMapHierarchy_PropertyMerge(t *testing.T) {
	m := NewHierarchyMapper()

	result := m.MapHierarchy(context.Background(), []domain.SourceNode{testNotebook()}, driving.MapOptions{})
	require.True(t, result.Succeeded)

	// Notebooks and sections carry the closed key set only.
	nb := result.Pages[0]
	assert.Len(t, nb.Properties, 3)
	assert.Equal(t, "Notebook", nb.Properties["Type"])

	// Pages without an author attribute get the default.
	tokyo := nb.Children[0].Children[0]
	assert.Equal(t, "Unknown", tokyo.Properties["Author"])

	// Source attributes override defaults and are all carried over.
	kyoto := nb.Children[0].Children[1]
	assert.Equal(t, "Mika", kyoto.Properties["Author"])
	assert.Equal(t, "Mika", kyoto.Properties["author"])
	assert.Equal(t, []string{"temples"}, kyoto.Properties["tags"])
}

func TestMapHierarchy_DepthTruncation(t *testing.T) {
	m := NewHierarchyMapper()
	notebooks := []domain.SourceNode{testNotebook()}

	result := m.MapHierarchy(context.Background(), notebooks, driving.MapOptions{MaxDepth: 1})

	require.True(t, result.Succeeded)
	require.Len(t, result.Pages, 1)
	assert.Empty(t, result.Pages[0].Children, "depth 1 maps notebooks only")

	// Stats still count the full source tree.
	assert.Equal(t, 1, result.Stats.NotebookCount)
	assert.Equal(t, 2, result.Stats.SectionCount)
	assert.Equal(t, 2, result.Stats.PageCount)
}

func TestMapHierarchy_Idempotent(t *testing.T) {
	m := NewHierarchyMapper()
	notebooks := []domain.SourceNode{testNotebook()}

	first := m.MapHierarchy(context.Background(), notebooks, driving.MapOptions{})
	second := m.MapHierarchy(context.Background(), notebooks, driving.MapOptions{})

	// Elapsed time varies between runs; everything else must not.
	first.Stats.ElapsedMs = 0
	second.Stats.ElapsedMs = 0
	assert.Equal(t, first, second)
}

func TestMapHierarchy_DatabasePerNotebook(t *testing.T) {
	m := NewHierarchyMapper()
	notebooks := []domain.SourceNode{
		testNotebook(),
		{ID: "nb-2", Title: "Work"},
	}

	result := m.MapHierarchy(context.Background(), notebooks, driving.MapOptions{CreateDatabases: true})

	require.True(t, result.Succeeded)
	require.Len(t, result.DatabaseIDs, 2)
	assert.NotEqual(t, result.DatabaseIDs[0], result.DatabaseIDs[1])
	for _, id := range result.DatabaseIDs {
		assert.Contains(t, id, "db-")
	}
}

func TestMapHierarchy_EmptyForest(t *testing.T) {
	m := NewHierarchyMapper()

	result := m.MapHierarchy(context.Background(), nil, driving.MapOptions{})

	assert.True(t, result.Succeeded)
	assert.Empty(t, result.Pages)
	assert.Empty(t, result.DatabaseIDs)
	assert.Equal(t, domain.MappingStats{ElapsedMs: result.Stats.ElapsedMs}, result.Stats)
}

func TestMapHierarchy_CancelledContext(t *testing.T) {
	m := NewHierarchyMapper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := m.MapHierarchy(ctx, []domain.SourceNode{testNotebook()}, driving.MapOptions{})

	assert.False(t, result.Succeeded)
	assert.Nil(t, result.Pages)
	assert.Equal(t, domain.MappingStats{}, result.Stats)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "context canceled")
}

func TestMapHierarchy_ProgressCheckpoints(t *testing.T) {
	m := NewHierarchyMapper()
	sink := &recordingSink{}

	result := m.MapHierarchy(context.Background(), []domain.SourceNode{testNotebook()},
		driving.MapOptions{Progress: sink, CreateDatabases: true})

	require.True(t, result.Succeeded)
	require.GreaterOrEqual(t, len(sink.pcts), 4)
	assert.Equal(t, 10, sink.pcts[0])
	assert.Equal(t, 20, sink.pcts[1])
	assert.Equal(t, 100, sink.pcts[len(sink.pcts)-1])
	for _, stage := range sink.stages {
		assert.Equal(t, "mapping", stage)
	}
}

func TestValidatePages_DanglingParent(t *testing.T) {
	ghost := "ghost"
	flat := []domain.DestinationPage{
		{ID: "a"},
		{ID: "b", ParentID: &ghost},
	}

	findings := validatePages(flat)

	require.Len(t, findings, 1)
	assert.Equal(t, "Page b references non-existent parent ghost", findings[0])
}

func TestValidatePages_Cycle(t *testing.T) {
	a, b := "a", "b"
	flat := []domain.DestinationPage{
		{ID: "a", ParentID: &b},
		{ID: "b", ParentID: &a},
	}

	findings := validatePages(flat)

	// Both nodes sit on the cycle and each reports it.
	require.Len(t, findings, 2)
	assert.Contains(t, findings[0], "Circular reference detected")
}

func TestFlattenPages_PreOrder(t *testing.T) {
	m := NewHierarchyMapper()

	result := m.MapHierarchy(context.Background(), []domain.SourceNode{testNotebook()}, driving.MapOptions{})
	require.True(t, result.Succeeded)

	flat := domain.FlattenPages(result.Pages)
	ids := make([]string, len(flat))
	for i := range flat {
		ids[i] = flat[i].ID
	}

	assert.Equal(t, []string{"nb-1", "sec-1", "page-1", "page-2", "sec-2"}, ids)
}
