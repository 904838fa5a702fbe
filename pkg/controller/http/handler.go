package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/secmon-lab/trialdash/pkg/utils/apperr"
)

type handler struct {
	dashboard interfaces.Dashboard
	renderer  interfaces.Renderer
}

// pageIndex is one entry of GET /api/pages
type pageIndex struct {
	ID     types.PageID `json:"id"`
	Title  string       `json:"title"`
	Panels []panelIndex `json:"panels"`
}

type panelIndex struct {
	ID    types.PanelID   `json:"id"`
	Title string          `json:"title"`
	Kind  types.PanelKind `json:"kind"`
	Chart types.ChartKind `json:"chart,omitempty"`
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "trialdash",
	})
}

func (h *handler) listPages(w http.ResponseWriter, r *http.Request) {
	catalog := h.dashboard.Catalog()
	pages := make([]pageIndex, 0, len(catalog.Pages))
	for _, p := range catalog.Pages {
		idx := pageIndex{ID: p.ID, Title: p.Title, Panels: make([]panelIndex, 0, len(p.Panels))}
		for _, panel := range p.Panels {
			idx.Panels = append(idx.Panels, panelIndex{
				ID:    panel.ID,
				Title: panel.Title,
				Kind:  panel.Kind,
				Chart: panel.Chart,
			})
		}
		pages = append(pages, idx)
	}
	writeJSON(w, r, http.StatusOK, pages)
}

func (h *handler) getPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.dashboard.LoadPage(r.Context(), types.PageID(chi.URLParam(r, "page")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (h *handler) getPanel(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.LoadPanel(r.Context(), types.PanelID(chi.URLParam(r, "panel")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *handler) getPanelChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.dashboard.RenderPanel(r.Context(), types.PanelID(chi.URLParam(r, "panel")), &buf); err != nil {
		writeError(w, r, err)
		return
	}

	contentType := "image/svg+xml"
	if h.renderer != nil {
		contentType = h.renderer.ContentType()
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write chart", "error", err)
	}
}

func (h *handler) getPanelRows(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "page must be an integer")
		return
	}
	pageSize, err := queryInt(r, "page_size", 0)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "page_size must be an integer")
		return
	}

	view, err := h.dashboard.LoadTable(r.Context(), types.PanelID(chi.URLParam(r, "panel")), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *handler) getPanelState(w http.ResponseWriter, r *http.Request) {
	state, err := h.dashboard.PanelState(r.Context(), types.PanelID(chi.URLParam(r, "panel")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (h *handler) listPanelStates(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.PanelStates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, overview)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// writeJSON encodes v fully before writing the header. Unencodable values
// such as an overflowed total are reported as 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]string{"error": message})
}

// writeError maps domain errors to user-safe responses. Unknown errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrPanelNotFound):
		writeMessage(w, r, http.StatusNotFound, "panel not found")
	case errors.Is(err, model.ErrPageNotFound):
		writeMessage(w, r, http.StatusNotFound, "page not found")
	case errors.Is(err, model.ErrNotTable):
		writeMessage(w, r, http.StatusBadRequest, "panel is not a table")
	case errors.Is(err, model.ErrScopeClosed):
		ctxlog.From(r.Context()).Debug("request ended before panel load finished", "error", err)
		writeMessage(w, r, http.StatusServiceUnavailable, "request canceled")
	default:
		apperr.Handle(r.Context(), err)
		writeMessage(w, r, http.StatusInternalServerError, "internal server error")
	}
}
