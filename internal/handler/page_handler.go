package handler

import (
	"bytes"
	"errors"
	"net/http"

	"obsidian-relay/internal/markdown"
	"obsidian-relay/internal/service"
	"obsidian-relay/internal/view"
	"obsidian-relay/pkg/response"

	"github.com/rs/zerolog"
)

type PageHandler struct {
	service  *service.PublishService
	renderer markdown.Renderer
	pages    *view.Pages
	logger   zerolog.Logger
}

func NewPageHandler(service *service.PublishService, renderer markdown.Renderer, pages *view.Pages, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		service:  service,
		renderer: renderer,
		pages:    pages,
		logger:   logger,
	}
}

// View serves /s/<slug>.
func (h *PageHandler) View(w http.ResponseWriter, r *http.Request) {
	slug, ok := trailingSegment(r, "/s/")
	if !ok {
		h.notFound(w, "")
		return
	}

	note, err := h.service.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			h.notFound(w, slug)
			return
		}
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to load published note")
		h.serverError(w)
		return
	}

	content, err := h.renderer.Render(note.Markdown)
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to render markdown")
		h.serverError(w)
		return
	}

	var buf bytes.Buffer
	if err := h.pages.Note(&buf, note, content); err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("failed to render note page")
		h.serverError(w)
		return
	}

	response.HTML(w, http.StatusOK, buf.Bytes())
}

func (h *PageHandler) notFound(w http.ResponseWriter, slug string) {
	var buf bytes.Buffer
	if err := h.pages.NotFound(&buf, slug); err != nil {
		h.logger.Error().Err(err).Msg("failed to render not found page")
		response.Text(w, http.StatusNotFound, "Not found")
		return
	}
	response.HTML(w, http.StatusNotFound, buf.Bytes())
}

func (h *PageHandler) serverError(w http.ResponseWriter) {
	var buf bytes.Buffer
	if err := h.pages.Error(&buf); err != nil {
		response.Text(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.HTML(w, http.StatusInternalServerError, buf.Bytes())
}
