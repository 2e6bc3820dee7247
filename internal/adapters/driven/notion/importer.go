// Package notion implements the PageImporter port against the Notion API.
package notion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/notelift/notelift-cli/internal/core/domain"
	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/logger"
)

// Notion allows roughly 3 requests per second per integration.
const requestsPerSecond = 3

// Ensure Importer implements the interface.
var _ driven.PageImporter = (*Importer)(nil)

// Importer writes destination pages through the Notion REST API.
// Pages without an explicit parent land under rootPageID, which the
// user configures once with `notelift config set notion.parent_page_id`.
type Importer struct {
	client     *notionapi.Client
	rootPageID string
	limiter    *rate.Limiter

	mu        sync.Mutex
	databases map[string]bool // destination ids created via CreateDatabase
}

// NewImporter creates a Notion importer for the given integration token.
func NewImporter(token, rootPageID string) *Importer {
	return &Importer{
		client:     notionapi.NewClient(notionapi.Token(token)),
		rootPageID: rootPageID,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		databases:  make(map[string]bool),
	}
}

// CreatePage writes one page under the given destination parent.
func (i *Importer) CreatePage(ctx context.Context, page domain.DestinationPage, parentDestID string) (string, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	parent, inDatabase := i.parentFor(parentDestID)

	req := &notionapi.PageCreateRequest{
		Parent:     parent,
		Properties: i.propertiesFor(page, inDatabase),
		Children:   bodyBlocks(page.Body),
	}

	created, err := i.client.Page.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create page %q: %w", page.Title, err)
	}

	logger.Debug("notion: created page %s (%s)", created.ID, page.Title)
	return string(created.ID), nil
}

// UpdatePage rewrites the properties of an existing destination page.
// Body blocks are left in place; Notion appends rather than replaces
// children, so re-importing content is handled at a higher level.
func (i *Importer) UpdatePage(ctx context.Context, destID string, page domain.DestinationPage) error {
	if err := i.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req := &notionapi.PageUpdateRequest{
		Properties: i.propertiesFor(page, false),
	}

	if _, err := i.client.Page.Update(ctx, notionapi.PageID(destID), req); err != nil {
		return fmt.Errorf("update page %s: %w", destID, err)
	}

	logger.Debug("notion: updated page %s (%s)", destID, page.Title)
	return nil
}

// CreateDatabase creates one database container for a notebook.
func (i *Importer) CreateDatabase(ctx context.Context, notebook domain.DestinationPage) (string, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req := &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(i.rootPageID),
		},
		Title: richText(notebook.Title),
		Properties: notionapi.PropertyConfigs{
			"Name": notionapi.TitlePropertyConfig{
				Type: notionapi.PropertyConfigTypeTitle,
			},
			"Type": notionapi.SelectPropertyConfig{
				Type: notionapi.PropertyConfigTypeSelect,
				Select: notionapi.Select{
					Options: []notionapi.Option{
						{Name: string(domain.PageTypeSection)},
						{Name: string(domain.PageTypePage)},
					},
				},
			},
			"CreatedAt": notionapi.DatePropertyConfig{
				Type: notionapi.PropertyConfigTypeDate,
			},
			"ModifiedAt": notionapi.DatePropertyConfig{
				Type: notionapi.PropertyConfigTypeDate,
			},
		},
	}

	db, err := i.client.Database.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create database %q: %w", notebook.Title, err)
	}

	id := string(db.ID)
	i.mu.Lock()
	i.databases[id] = true
	i.mu.Unlock()

	logger.Debug("notion: created database %s (%s)", id, notebook.Title)
	return id, nil
}

// parentFor resolves the Notion parent reference for a page. Empty ids
// fall back to the configured root page. Ids issued by CreateDatabase
// in this session become database parents, which changes the required
// title property key.
func (i *Importer) parentFor(parentDestID string) (notionapi.Parent, bool) {
	if parentDestID == "" {
		parentDestID = i.rootPageID
	}

	i.mu.Lock()
	isDB := i.databases[parentDestID]
	i.mu.Unlock()

	if isDB {
		return notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(parentDestID),
		}, true
	}
	return notionapi.Parent{
		Type:   notionapi.ParentTypePageID,
		PageID: notionapi.PageID(parentDestID),
	}, false
}

// propertiesFor converts mapped properties to Notion property values.
// Database rows must name their title property after the schema ("Name");
// plain child pages use the implicit "title" key.
func (i *Importer) propertiesFor(page domain.DestinationPage, inDatabase bool) notionapi.Properties {
	titleKey := "title"
	if inDatabase {
		titleKey = "Name"
	}

	props := notionapi.Properties{
		titleKey: notionapi.TitleProperty{
			Title: richText(page.Title),
		},
	}
	if !inDatabase {
		// Page parents only accept the title property; everything else
		// from the mapper is carried in the page body instead.
		return props
	}

	for key, value := range page.Properties {
		switch v := value.(type) {
		case time.Time:
			start := notionapi.Date(v)
			props[key] = notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &start},
			}
		case string:
			if key == "Type" {
				props[key] = notionapi.SelectProperty{
					Select: notionapi.Option{Name: v},
				}
				continue
			}
			props[key] = notionapi.RichTextProperty{
				RichText: richText(v),
			}
		default:
			props[key] = notionapi.RichTextProperty{
				RichText: richText(fmt.Sprint(v)),
			}
		}
	}
	return props
}

// bodyBlocks renders the page body as a single paragraph block.
func bodyBlocks(body string) []notionapi.Block {
	if body == "" {
		return nil
	}
	return []notionapi.Block{
		&notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: richText(body),
			},
		},
	}
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: s}},
	}
}
