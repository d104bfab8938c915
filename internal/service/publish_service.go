package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"obsidian-relay/internal/domain"
	"obsidian-relay/internal/repository"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

type PublishService struct {
	repo     repository.PublishedNoteRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewPublishService(repo repository.PublishedNoteRepository) *PublishService {
	validate := validator.New()
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return ValidSlug(fl.Field().String())
	})

	return &PublishService{
		repo:     repo,
		validate: validate,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for publish timestamps.
func (s *PublishService) WithClock(now func() time.Time) *PublishService {
	s.now = now
	return s
}

func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug) && slug != "." && slug != ".."
}

// Publish creates or replaces the note stored under req.Slug. The first
// publish time is kept across re-publishes.
func (s *PublishService) Publish(ctx context.Context, req *domain.PublishRequest) (*domain.PublishedNote, error) {
	req.Slug = strings.TrimSpace(req.Slug)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	note := &domain.PublishedNote{
		Slug:        req.Slug,
		Title:       req.Title,
		Markdown:    req.Markdown,
		PublishedAt: now,
		UpdatedAt:   now,
	}

	existing, err := s.repo.Get(ctx, req.Slug)
	switch {
	case err == nil:
		note.PublishedAt = existing.PublishedAt
	case !errors.Is(err, repository.ErrNoteNotFound):
		return nil, err
	}

	if err := s.repo.Put(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *PublishService) validateRequest(req *domain.PublishRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Message: fmt.Sprintf("Missing required field: %s", field)}
	case "slug":
		return &ValidationError{Message: "Invalid slug: use letters, digits, '-', '_', '.' or '~'"}
	default:
		return &ValidationError{Message: fmt.Sprintf("Invalid field: %s", field)}
	}
}

func (s *PublishService) Get(ctx context.Context, slug string) (*domain.PublishedNote, error) {
	return s.repo.Get(ctx, slug)
}

func (s *PublishService) Unpublish(ctx context.Context, slug string) error {
	return s.repo.Delete(ctx, slug)
}

func (s *PublishService) List(ctx context.Context) ([]domain.NoteSummary, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.NoteSummary, 0, len(notes))
	for _, n := range notes {
		summaries = append(summaries, n.Summary())
	}
	return summaries, nil
}
