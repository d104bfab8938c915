package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"obsidian-relay/internal/domain"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

type postgresPublishedNoteRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPublishedNoteRepository(pool *pgxpool.Pool) PublishedNoteRepository {
	return &postgresPublishedNoteRepository{pool: pool}
}

// OpenPostgres migrates the schema and returns a connection pool.
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if err := MigratePostgres(databaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return pool, nil
}

func MigratePostgres(databaseURL string) error {
	source, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(databaseURL))
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// migrateURL rewrites a libpq style URL to the scheme the pgx v5 migrate
// driver registers.
func migrateURL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

func (r *postgresPublishedNoteRepository) Get(ctx context.Context, slug string) (*domain.PublishedNote, error) {
	var note domain.PublishedNote
	err := r.pool.QueryRow(ctx,
		`SELECT slug, title, markdown, published_at, updated_at FROM published_notes WHERE slug = $1`,
		slug,
	).Scan(&note.Slug, &note.Title, &note.Markdown, &note.PublishedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find published note: %w", err)
	}

	return &note, nil
}

func (r *postgresPublishedNoteRepository) Put(ctx context.Context, note *domain.PublishedNote) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO published_notes (slug, title, markdown, published_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			markdown = EXCLUDED.markdown,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at`,
		note.Slug, note.Title, note.Markdown, note.PublishedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store published note: %w", err)
	}

	return nil
}

func (r *postgresPublishedNoteRepository) Delete(ctx context.Context, slug string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM published_notes WHERE slug = $1`, slug); err != nil {
		return fmt.Errorf("failed to delete published note: %w", err)
	}
	return nil
}

func (r *postgresPublishedNoteRepository) List(ctx context.Context) ([]*domain.PublishedNote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT slug, title, markdown, published_at, updated_at FROM published_notes ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list published notes: %w", err)
	}

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PublishedNote, error) {
		var note domain.PublishedNote
		err := row.Scan(&note.Slug, &note.Title, &note.Markdown, &note.PublishedAt, &note.UpdatedAt)
		return &note, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list published notes: %w", err)
	}

	return notes, nil
}

func (r *postgresPublishedNoteRepository) Close() error {
	r.pool.Close()
	return nil
}
