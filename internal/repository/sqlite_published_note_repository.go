package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"obsidian-relay/internal/domain"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type publishedNoteModel struct {
	bun.BaseModel `bun:"table:published_notes,alias:pn"`

	Slug        string    `bun:"slug,pk"`
	Title       string    `bun:"title,notnull"`
	Markdown    string    `bun:"markdown,notnull"`
	PublishedAt time.Time `bun:"published_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (m *publishedNoteModel) toNote() *domain.PublishedNote {
	return &domain.PublishedNote{
		Slug:        m.Slug,
		Title:       m.Title,
		Markdown:    m.Markdown,
		PublishedAt: m.PublishedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type sqlitePublishedNoteRepository struct {
	db *bun.DB
}

func NewSQLitePublishedNoteRepository(db *bun.DB) PublishedNoteRepository {
	return &sqlitePublishedNoteRepository{db: db}
}

// OpenSQLite opens dsn with the sqlite3 driver and creates the notes table.
func OpenSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*publishedNoteModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create published_notes table: %w", err)
	}

	return db, nil
}

func (r *sqlitePublishedNoteRepository) Get(ctx context.Context, slug string) (*domain.PublishedNote, error) {
	var model publishedNoteModel
	if err := r.db.NewSelect().Model(&model).Where("slug = ?", slug).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find published note: %w", err)
	}

	return model.toNote(), nil
}

func (r *sqlitePublishedNoteRepository) Put(ctx context.Context, note *domain.PublishedNote) error {
	model := &publishedNoteModel{
		Slug:        note.Slug,
		Title:       note.Title,
		Markdown:    note.Markdown,
		PublishedAt: note.PublishedAt,
		UpdatedAt:   note.UpdatedAt,
	}

	_, err := r.db.NewInsert().
		Model(model).
		On("CONFLICT (slug) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("markdown = EXCLUDED.markdown").
		Set("published_at = EXCLUDED.published_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store published note: %w", err)
	}

	return nil
}

func (r *sqlitePublishedNoteRepository) Delete(ctx context.Context, slug string) error {
	_, err := r.db.NewDelete().
		Model((*publishedNoteModel)(nil)).
		Where("slug = ?", slug).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete published note: %w", err)
	}
	return nil
}

func (r *sqlitePublishedNoteRepository) List(ctx context.Context) ([]*domain.PublishedNote, error) {
	var models []publishedNoteModel
	if err := r.db.NewSelect().Model(&models).Order("updated_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list published notes: %w", err)
	}

	notes := make([]*domain.PublishedNote, 0, len(models))
	for i := range models {
		notes = append(notes, models[i].toNote())
	}
	return notes, nil
}

func (r *sqlitePublishedNoteRepository) Close() error {
	return r.db.Close()
}
