package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
	"github.com/notelift/notelift-cli/internal/links"
)

// ResolveLinkInput is the input schema for the resolve_link tool.
type ResolveLinkInput struct {
	Link string `json:"link" jsonschema:"the OneNote link to classify (local path, OneDrive URL, or onenote: URL)"`
}

// ResolveLinkOutput is the output schema for the resolve_link tool.
type ResolveLinkOutput struct {
	Kind            string `json:"kind"`
	DisplayName     string `json:"display_name"`
	SourcePath      string `json:"source_path,omitempty"`
	SectionID       string `json:"section_id,omitempty"`
	Valid           bool   `json:"valid"`
	ValidationError string `json:"validation_error,omitempty"`
}

// PreviewInput is the input schema for the preview_migration tool.
type PreviewInput struct {
	Links    []string `json:"links" jsonschema:"the OneNote links to preview"`
	MaxDepth int      `json:"max_depth,omitempty" jsonschema:"maximum hierarchy depth to map (default 10)"`
}

// PreviewOutput is the output schema for the preview_migration tool.
type PreviewOutput struct {
	FetchedCount  int           `json:"fetched_count"`
	FailedCount   int           `json:"failed_count"`
	NotebookCount int           `json:"notebook_count"`
	SectionCount  int           `json:"section_count"`
	PageCount     int           `json:"page_count"`
	Pages         []PreviewPage `json:"pages"`
	Errors        []string      `json:"errors,omitempty"`
}

// PreviewPage is one mapped page in the preview output, flattened.
type PreviewPage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

// JobsInput is the input schema for the list_jobs tool.
type JobsInput struct {
	JobID string `json:"job_id,omitempty" jsonschema:"return only the job with this id"`
}

// JobsOutput is the output schema for the list_jobs tool.
type JobsOutput struct {
	Jobs []JobOutput `json:"jobs"`
}

// JobOutput represents one import job.
type JobOutput struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	ItemCount int      `json:"item_count"`
	Imported  int      `json:"imported"`
	Failed    int      `json:"failed"`
	Failures  []string `json:"failures,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_link",
		Description: "Classify a OneNote link without fetching it",
	}, s.handleResolveLink)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_migration",
		Description: "Show the page hierarchy an import of the given OneNote links would create, without writing anything",
	}, s.handlePreview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_jobs",
		Description: "List recorded import jobs and their per-item state",
	}, s.handleJobs)
}

// handleResolveLink handles the resolve_link tool invocation.
func (s *Server) handleResolveLink(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResolveLinkInput,
) (*mcp.CallToolResult, ResolveLinkOutput, error) {
	link := links.Resolve(input.Link)

	return nil, ResolveLinkOutput{
		Kind:            link.Kind.String(),
		DisplayName:     link.DisplayLabel(),
		SourcePath:      link.SourcePath,
		SectionID:       link.SectionID,
		Valid:           link.Valid,
		ValidationError: link.ValidationError,
	}, nil
}

// handlePreview handles the preview_migration tool invocation.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	opts := driving.ImportOptions{
		Map: driving.MapOptions{MaxDepth: input.MaxDepth},
	}

	result, err := s.ports.Migration.Preview(ctx, input.Links, opts)
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	flat := domain.FlattenPages(result.Mapping.Pages)

	output := PreviewOutput{
		FetchedCount:  result.Batch.SucceededCount,
		FailedCount:   result.Batch.FailedCount,
		NotebookCount: result.Mapping.Stats.NotebookCount,
		SectionCount:  result.Mapping.Stats.SectionCount,
		PageCount:     result.Mapping.Stats.PageCount,
		Pages:         make([]PreviewPage, len(flat)),
		Errors:        result.Mapping.Errors,
	}

	for i := range flat {
		parentID := ""
		if flat[i].ParentID != nil {
			parentID = *flat[i].ParentID
		}
		output.Pages[i] = PreviewPage{
			ID:       flat[i].ID,
			Title:    flat[i].Title,
			Type:     string(flat[i].Type),
			ParentID: parentID,
		}
	}

	return nil, output, nil
}

// handleJobs handles the list_jobs tool invocation.
func (s *Server) handleJobs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input JobsInput,
) (*mcp.CallToolResult, JobsOutput, error) {
	if s.ports.Jobs == nil {
		return nil, JobsOutput{}, errors.New("job store not available")
	}

	var jobs []domain.ImportJob
	if input.JobID != "" {
		job, err := s.ports.Jobs.GetJob(ctx, input.JobID)
		if err != nil {
			return nil, JobsOutput{}, err
		}
		jobs = []domain.ImportJob{*job}
	} else {
		var err error
		jobs, err = s.ports.Jobs.ListJobs(ctx)
		if err != nil {
			return nil, JobsOutput{}, err
		}
	}

	output := JobsOutput{Jobs: make([]JobOutput, len(jobs))}
	for i, job := range jobs {
		out := JobOutput{
			ID:        job.ID,
			Status:    string(job.Status),
			ItemCount: len(job.Items),
		}
		for _, item := range job.Items {
			switch item.State {
			case domain.ItemImported:
				out.Imported++
			case domain.ItemFailed:
				out.Failed++
				out.Failures = append(out.Failures, item.DisplayName+": "+item.Error)
			}
		}
		output.Jobs[i] = out
	}

	return nil, output, nil
}
