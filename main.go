// notelift migrates OneNote notebooks into Notion.
package main

import (
	"context"
	"os"

	"golang.org/x/oauth2"

	"github.com/notelift/notelift-cli/internal/adapters/driven/config/file"
	"github.com/notelift/notelift-cli/internal/adapters/driven/fetch"
	"github.com/notelift/notelift-cli/internal/adapters/driven/fetch/graph"
	"github.com/notelift/notelift-cli/internal/adapters/driven/fetch/local"
	"github.com/notelift/notelift-cli/internal/adapters/driven/notion"
	"github.com/notelift/notelift-cli/internal/adapters/driven/storage/memory"
	"github.com/notelift/notelift-cli/internal/adapters/driven/storage/sqlite"
	"github.com/notelift/notelift-cli/internal/adapters/driving/cli"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/core/services"
	"github.com/notelift/notelift-cli/internal/logger"
	"github.com/notelift/notelift-cli/internal/parsers"
	"github.com/notelift/notelift-cli/internal/parsers/fallback"
)

func main() {
	ctx := context.Background()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Error("Failed to open config: %v", err)
		os.Exit(1)
	}

	// Persistent job storage; fall back to in-memory when the database
	// cannot be opened so read-only commands still work.
	var jobStore driven.ImportJobStore
	var linkStore driven.PageLinkStore

	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Job database unavailable, using in-memory storage: %v", err)
		jobStore = memory.NewImportJobStore()
		linkStore = memory.NewPageLinkStore()
	} else {
		defer store.Close() //nolint:errcheck
		jobStore = store.JobStore()
		linkStore = store.LinkStore()
	}

	router := fetch.NewRouter()
	router.Register(local.NewFetcher(0))
	if token := configStore.GetString("graph.token"); token != "" {
		tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		router.Register(graph.NewFetcher(ctx, tokens))
	}

	registry := parsers.NewRegistry()
	registry.Register(fallback.New())

	// The importer stays nil until Notion credentials are configured;
	// preview and resolve work without it.
	var importer driven.PageImporter
	if token := configStore.GetString("notion.token"); token != "" {
		importer = notion.NewImporter(token, configStore.GetString("notion.parent_page_id"))
	}

	batch := services.NewBatchProcessor(router)
	mapper := services.NewHierarchyMapper()
	migration := services.NewMigrationService(batch, mapper, registry, importer, jobStore, linkStore)

	cli.Configure(cli.Services{
		Migration: migration,
		Batch:     batch,
		Mapper:    mapper,
		Jobs:      jobStore,
		Config:    configStore,
	})

	cli.Execute()
}
