package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"obsidian-relay/internal/domain"
)

func newSQLiteRepo(t *testing.T) PublishedNoteRepository {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := OpenSQLite(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}

	repo := NewSQLitePublishedNoteRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func repositories(t *testing.T) map[string]func(t *testing.T) PublishedNoteRepository {
	return map[string]func(t *testing.T) PublishedNoteRepository{
		"memory": func(t *testing.T) PublishedNoteRepository { return NewMemoryPublishedNoteRepository() },
		"sqlite": newSQLiteRepo,
		"couch":  newCouchRepo,
	}
}

func TestPublishedNoteRepository_CRUD(t *testing.T) {
	for name, open := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			if _, err := repo.Get(ctx, "hello"); !errors.Is(err, ErrNoteNotFound) {
				t.Fatalf("expected ErrNoteNotFound, got %v", err)
			}

			published := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
			note := &domain.PublishedNote{
				Slug:        "hello",
				Title:       "Hello",
				Markdown:    "# Hello",
				PublishedAt: published,
				UpdatedAt:   published,
			}
			if err := repo.Put(ctx, note); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := repo.Get(ctx, "hello")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Title != "Hello" || got.Markdown != "# Hello" {
				t.Errorf("Get() returned %+v", got)
			}
			if !got.PublishedAt.Equal(published) {
				t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, published)
			}

			note.Title = "Hello again"
			note.UpdatedAt = published.Add(time.Hour)
			if err := repo.Put(ctx, note); err != nil {
				t.Fatalf("Put() overwrite error = %v", err)
			}

			got, err = repo.Get(ctx, "hello")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Title != "Hello again" {
				t.Errorf("expected overwrite, got %q", got.Title)
			}

			if err := repo.Delete(ctx, "hello"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := repo.Get(ctx, "hello"); !errors.Is(err, ErrNoteNotFound) {
				t.Fatalf("expected ErrNoteNotFound after delete, got %v", err)
			}

			if err := repo.Delete(ctx, "hello"); err != nil {
				t.Errorf("Delete() of missing slug error = %v", err)
			}
		})
	}
}

func TestPublishedNoteRepository_ListOrdersByUpdated(t *testing.T) {
	for name, open := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()
			base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

			for i, slug := range []string{"old", "newest", "middle"} {
				offset := map[string]time.Duration{"old": 0, "middle": time.Hour, "newest": 2 * time.Hour}[slug]
				err := repo.Put(ctx, &domain.PublishedNote{
					Slug:        slug,
					Title:       fmt.Sprintf("note %d", i),
					Markdown:    "body",
					PublishedAt: base,
					UpdatedAt:   base.Add(offset),
				})
				if err != nil {
					t.Fatalf("Put(%q) error = %v", slug, err)
				}
			}

			notes, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(notes) != 3 {
				t.Fatalf("expected 3 notes, got %d", len(notes))
			}

			var order []string
			for _, n := range notes {
				order = append(order, n.Slug)
			}
			if strings.Join(order, ",") != "newest,middle,old" {
				t.Errorf("unexpected order %v", order)
			}
		})
	}
}

func TestPublishedNoteRepository_ListEmpty(t *testing.T) {
	for name, open := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			notes, err := open(t).List(context.Background())
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(notes) != 0 {
				t.Errorf("expected no notes, got %d", len(notes))
			}
		})
	}
}

func TestPublishedDocID(t *testing.T) {
	if got := publishedDocID("my-note"); got != "published:my-note" {
		t.Errorf("publishedDocID() = %q", got)
	}
}
