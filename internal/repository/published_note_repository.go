package repository

import (
	"context"
	"errors"
	"sort"

	"obsidian-relay/internal/domain"
)

var ErrNoteNotFound = errors.New("published note not found")

// PublishedNoteRepository is a key-value view of the note store keyed by slug.
// Delete of an unknown slug is not an error.
type PublishedNoteRepository interface {
	Get(ctx context.Context, slug string) (*domain.PublishedNote, error)
	Put(ctx context.Context, note *domain.PublishedNote) error
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context) ([]*domain.PublishedNote, error)
	Close() error
}

func sortByUpdated(notes []*domain.PublishedNote) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
}
