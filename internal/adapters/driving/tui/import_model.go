// Package tui provides the interactive terminal progress view for imports.
// It follows the Elm architecture via Bubbletea.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/core/ports/driving"
	"github.com/notelift/notelift-cli/internal/links"
)

// pollInterval is how often the running job record is re-read for
// per-item progress.
const pollInterval = 500 * time.Millisecond

// importDoneMsg is delivered when the import run finishes.
type importDoneMsg struct {
	job *domain.ImportJob
	err error
}

// pollMsg triggers a job snapshot read.
type pollMsg time.Time

// snapshotMsg carries the latest stored job state, nil when the job is
// not visible yet.
type snapshotMsg *domain.ImportJob

// ImportModel renders a running import: one line per notebook with its
// current state, a progress bar, and a summary once the run finishes.
type ImportModel struct {
	service driving.MigrationService
	jobs    driven.ImportJobStore
	refs    []string
	opts    driving.ImportOptions

	styles  *Styles
	spinner spinner.Model
	bar     progress.Model

	// displayNames are resolved up front so pending items have labels.
	displayNames []string
	items        []domain.ImportItem

	jobID string
	done  bool
	job   *domain.ImportJob
	err   error
}

// NewImportModel creates the progress view for an import of refs.
// The job store is optional; without it per-item progress is not shown
// until the run completes.
func NewImportModel(
	service driving.MigrationService,
	jobs driven.ImportJobStore,
	refs []string,
	opts driving.ImportOptions,
) ImportModel {
	styles := NewStyles(nil)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Title

	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = links.Resolve(ref).DisplayLabel()
	}

	return ImportModel{
		service:      service,
		jobs:         jobs,
		refs:         refs,
		opts:         opts,
		styles:       styles,
		spinner:      sp,
		bar:          progress.New(progress.WithDefaultGradient()),
		displayNames: names,
	}
}

// Job returns the finished job, nil while running or on run error.
func (m ImportModel) Job() *domain.ImportJob { return m.job }

// Err returns the run error, if any.
func (m ImportModel) Err() error { return m.err }

// Init implements tea.Model.
func (m ImportModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runImport(), pollTick())
}

// runImport starts the import and reports its outcome.
func (m ImportModel) runImport() tea.Cmd {
	service, refs, opts := m.service, m.refs, m.opts
	return func() tea.Msg {
		job, err := service.Import(context.Background(), refs, opts)
		return importDoneMsg{job: job, err: err}
	}
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// pollJob reads the newest running job for this import, best effort.
func (m ImportModel) pollJob() tea.Cmd {
	jobs := m.jobs
	jobID := m.jobID
	return func() tea.Msg {
		if jobs == nil {
			return snapshotMsg(nil)
		}

		if jobID != "" {
			job, err := jobs.GetJob(context.Background(), jobID)
			if err != nil {
				return snapshotMsg(nil)
			}
			return snapshotMsg(job)
		}

		all, err := jobs.ListJobs(context.Background())
		if err != nil {
			return snapshotMsg(nil)
		}
		var newest *domain.ImportJob
		for i := range all {
			if all[i].Status != domain.JobRunning {
				continue
			}
			if newest == nil || all[i].CreatedAt.After(newest.CreatedAt) {
				newest = &all[i]
			}
		}
		return snapshotMsg(newest)
	}
}

// Update implements tea.Model.
func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.done {
				return m, tea.Quit
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(m.pollJob(), pollTick())

	case snapshotMsg:
		if msg != nil {
			m.jobID = msg.ID
			m.items = msg.Items
		}
		return m, nil

	case importDoneMsg:
		m.done = true
		m.job = msg.job
		m.err = msg.err
		if msg.job != nil {
			m.jobID = msg.job.ID
			m.items = msg.job.Items
		}
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m ImportModel) View() string {
	var b []byte

	b = append(b, m.styles.Title.Render("Importing notebooks")...)
	b = append(b, '\n', '\n')

	processed := 0
	for i := range m.refs {
		state := domain.ItemPending
		label := m.displayNames[i]
		errMsg := ""

		if i < len(m.items) {
			state = m.items[i].State
			if m.items[i].DisplayName != "" {
				label = m.items[i].DisplayName
			}
			errMsg = m.items[i].Error
		}

		switch state {
		case domain.ItemImported:
			processed++
			b = append(b, m.styles.Success.Render("  + "+label)...)
		case domain.ItemFailed:
			processed++
			b = append(b, m.styles.Error.Render("  x "+label)...)
			if errMsg != "" {
				b = append(b, '\n')
				b = append(b, m.styles.Muted.Render("      "+errMsg)...)
			}
		case domain.ItemStale:
			processed++
			b = append(b, m.styles.Warning.Render("  ~ "+label)...)
		default:
			b = append(b, m.styles.Muted.Render("  "+m.spinner.View()+label)...)
		}
		b = append(b, '\n')
	}

	percent := 0.0
	if len(m.refs) > 0 {
		percent = float64(processed) / float64(len(m.refs))
	}
	if m.done {
		percent = 1.0
	}

	b = append(b, '\n')
	b = append(b, m.bar.ViewAs(percent)...)
	b = append(b, '\n')

	if m.done {
		if m.err != nil {
			b = append(b, m.styles.Error.Render("Import failed: "+m.err.Error())...)
		} else {
			b = append(b, m.styles.Normal.Render("Done. Press q to exit.")...)
		}
		b = append(b, '\n')
	}

	return string(b)
}
