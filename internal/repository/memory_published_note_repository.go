package repository

import (
	"context"
	"sync"

	"obsidian-relay/internal/domain"
)

type memoryPublishedNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]domain.PublishedNote
}

// NewMemoryPublishedNoteRepository keeps notes in process memory. Contents are
// lost on restart.
func NewMemoryPublishedNoteRepository() PublishedNoteRepository {
	return &memoryPublishedNoteRepository{
		notes: make(map[string]domain.PublishedNote),
	}
}

func (r *memoryPublishedNoteRepository) Get(_ context.Context, slug string) (*domain.PublishedNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[slug]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &note, nil
}

func (r *memoryPublishedNoteRepository) Put(_ context.Context, note *domain.PublishedNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes[note.Slug] = *note
	return nil
}

func (r *memoryPublishedNoteRepository) Delete(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notes, slug)
	return nil
}

func (r *memoryPublishedNoteRepository) List(_ context.Context) ([]*domain.PublishedNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*domain.PublishedNote, 0, len(r.notes))
	for _, n := range r.notes {
		note := n
		notes = append(notes, &note)
	}

	sortByUpdated(notes)
	return notes, nil
}

func (r *memoryPublishedNoteRepository) Close() error {
	return nil
}
