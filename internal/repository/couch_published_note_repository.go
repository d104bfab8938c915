package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"obsidian-relay/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const publishedDocType = "published_note"

type publishedNoteDoc struct {
	ID          string    `json:"_id"`
	Rev         string    `json:"_rev,omitempty"`
	Type        string    `json:"type"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Markdown    string    `json:"markdown"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d *publishedNoteDoc) toNote() *domain.PublishedNote {
	return &domain.PublishedNote{
		Slug:        d.Slug,
		Title:       d.Title,
		Markdown:    d.Markdown,
		PublishedAt: d.PublishedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

const couchListPageSize = 200

type couchPublishedNoteRepository struct {
	client   *kivik.Client
	dbName   string
	pageSize int
}

func NewCouchPublishedNoteRepository(client *kivik.Client, dbName string) PublishedNoteRepository {
	return &couchPublishedNoteRepository{
		client:   client,
		dbName:   dbName,
		pageSize: couchListPageSize,
	}
}

// EnsureCouchDB creates the database on first start.
func EnsureCouchDB(ctx context.Context, client *kivik.Client, dbName string) (bool, error) {
	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := client.CreateDB(ctx, dbName); err != nil {
		return false, fmt.Errorf("failed to create database: %w", err)
	}
	return true, nil
}

func publishedDocID(slug string) string {
	return fmt.Sprintf("published:%s", slug)
}

func (r *couchPublishedNoteRepository) Get(ctx context.Context, slug string) (*domain.PublishedNote, error) {
	db := r.client.DB(r.dbName)

	var doc publishedNoteDoc
	if err := db.Get(ctx, publishedDocID(slug)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find published note: %w", err)
	}

	return doc.toNote(), nil
}

func (r *couchPublishedNoteRepository) Put(ctx context.Context, note *domain.PublishedNote) error {
	db := r.client.DB(r.dbName)
	docID := publishedDocID(note.Slug)

	doc := publishedNoteDoc{
		ID:          docID,
		Type:        publishedDocType,
		Slug:        note.Slug,
		Title:       note.Title,
		Markdown:    note.Markdown,
		PublishedAt: note.PublishedAt,
		UpdatedAt:   note.UpdatedAt,
	}

	rev, err := db.GetRev(ctx, docID)
	switch {
	case err == nil:
		doc.Rev = rev
	case kivik.HTTPStatus(err) != http.StatusNotFound:
		return fmt.Errorf("failed to fetch published note revision: %w", err)
	}

	if _, err := db.Put(ctx, docID, doc); err != nil {
		return fmt.Errorf("failed to store published note: %w", err)
	}

	return nil
}

func (r *couchPublishedNoteRepository) Delete(ctx context.Context, slug string) error {
	db := r.client.DB(r.dbName)
	docID := publishedDocID(slug)

	rev, err := db.GetRev(ctx, docID)
	if err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to fetch published note revision: %w", err)
	}

	if _, err := db.Delete(ctx, docID, rev); err != nil {
		return fmt.Errorf("failed to delete published note: %w", err)
	}

	return nil
}

// List pages through the Mango index with bookmarks; _find stops at 25
// documents when no limit is given.
func (r *couchPublishedNoteRepository) List(ctx context.Context) ([]*domain.PublishedNote, error) {
	db := r.client.DB(r.dbName)

	notes := make([]*domain.PublishedNote, 0)
	bookmark := ""
	for {
		query := map[string]interface{}{
			"selector": map[string]interface{}{
				"type": publishedDocType,
			},
			"limit": r.pageSize,
		}
		if bookmark != "" {
			query["bookmark"] = bookmark
		}

		page, next, err := r.findPage(ctx, db, query)
		if err != nil {
			return nil, err
		}
		notes = append(notes, page...)

		if len(page) < r.pageSize || next == "" || next == bookmark {
			break
		}
		bookmark = next
	}

	sortByUpdated(notes)
	return notes, nil
}

func (r *couchPublishedNoteRepository) findPage(ctx context.Context, db *kivik.DB, query map[string]interface{}) ([]*domain.PublishedNote, string, error) {
	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to list published notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*domain.PublishedNote, 0, r.pageSize)
	for rows.Next() {
		var doc publishedNoteDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, "", fmt.Errorf("failed to decode published note: %w", err)
		}
		notes = append(notes, doc.toNote())
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to list published notes: %w", err)
	}

	meta, err := rows.Metadata()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read list bookmark: %w", err)
	}

	return notes, meta.Bookmark, nil
}

func (r *couchPublishedNoteRepository) Close() error {
	return r.client.Close()
}
