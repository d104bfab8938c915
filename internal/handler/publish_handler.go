package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"obsidian-relay/internal/domain"
	"obsidian-relay/internal/service"
	"obsidian-relay/pkg/response"

	"github.com/rs/zerolog"
)

const maxPublishBodyBytes = 5 << 20

type PublishHandler struct {
	service *service.PublishService
	logger  zerolog.Logger
}

func NewPublishHandler(service *service.PublishService, logger zerolog.Logger) *PublishHandler {
	return &PublishHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPublishBodyBytes)

	var req domain.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	note, err := h.service.Publish(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			response.BadRequest(w, err.Error())
			return
		}
		h.logger.Error().Err(err).Str("slug", req.Slug).Msg("failed to publish note")
		response.InternalError(w, "Failed to publish note")
		return
	}

	h.logger.Info().Str("slug", note.Slug).Msg("note published")
	response.Success(w, domain.PublishResponse{
		OK:   true,
		Slug: note.Slug,
		URL:  domain.NotePath(note.Slug),
	})
}

func (h *PublishHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	slug, ok := trailingSegment(r, "/api/publish/")
	if !ok {
		response.BadRequest(w, "Slug is required")
		return
	}

	if err := h.service.Unpublish(r.Context(), slug); err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to unpublish note")
		response.InternalError(w, "Failed to unpublish note")
		return
	}

	h.logger.Info().Str("slug", slug).Msg("note unpublished")
	response.Success(w, domain.PublishResponse{OK: true, Slug: slug})
}

func (h *PublishHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list published notes")
		response.InternalError(w, "Failed to list published notes")
		return
	}

	response.Success(w, domain.PublishedListResponse{Notes: notes})
}
