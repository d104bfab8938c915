package handler

import (
	"bytes"
	"net/http"

	"obsidian-relay/internal/deeplink"
	"obsidian-relay/internal/view"
	"obsidian-relay/pkg/response"

	"github.com/rs/zerolog"
)

const UsageMessage = "Usage: /VaultName/path%2Fto%2Ffile  or  /open?vault=X&file=Y"

type RedirectHandler struct {
	links  *deeplink.Builder
	pages  *view.Pages
	logger zerolog.Logger
}

func NewRedirectHandler(links *deeplink.Builder, pages *view.Pages, logger zerolog.Logger) *RedirectHandler {
	return &RedirectHandler{
		links:  links,
		pages:  pages,
		logger: logger,
	}
}

func (h *RedirectHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, "ok")
}

// Open forwards /open?<query> to the app with the query untouched.
func (h *RedirectHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, h.links.FromQuery(r.URL.RawQuery))
}

func (h *RedirectHandler) Shorthand(w http.ResponseWriter, r *http.Request) {
	target, ok := h.links.FromPath(r.URL.EscapedPath())
	if !ok {
		h.Usage(w, r)
		return
	}
	h.redirect(w, r, target)
}

func (h *RedirectHandler) Usage(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusBadRequest, UsageMessage)
}

func (h *RedirectHandler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	var buf bytes.Buffer
	if err := h.pages.Redirect(&buf, target); err != nil {
		h.logger.Error().Err(err).Str("target", target).Msg("failed to render redirect page")
		response.Text(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	response.HTML(w, http.StatusOK, buf.Bytes())
}
