package httpapi

import (
	"io"
	"net/http"
	"strings"

	"weatherdash/internal/dashboard"

	"github.com/go-chi/chi/v5"
)

// Dashboard routes map one-to-one onto the layout store actions.
func (s *Server) registerDashboardRoutes(r chi.Router) {
	r.Get("/", s.handleDashboardState)
	r.Get("/catalog", s.handleCatalog)

	r.Route("/layout", func(r chi.Router) {
		r.Get("/", s.handleGetLayout)
		r.Post("/reset", s.handleResetLayout)
		r.Get("/export", s.handleExportLayout)
		r.Post("/import", s.handleImportLayout)
	})

	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.Post("/", s.handleSaveLayout)
		r.Post("/{id}/load", s.handleLoadLayout)
	})

	r.Route("/widgets", func(r chi.Router) {
		r.Post("/", s.handleAddWidget)
		r.Patch("/{id}", s.handleUpdateWidget)
		r.Delete("/{id}", s.handleRemoveWidget)
		r.Post("/{id}/move", s.handleMoveWidget)
		r.Post("/{id}/resize", s.handleResizeWidget)
	})

	r.Route("/preferences", func(r chi.Router) {
		r.Get("/", s.handleGetPreferences)
		r.Put("/", s.handlePutPreferences)
		r.Post("/reset", s.handleResetPreferences)
		r.Get("/export", s.handleExportPreferences)
		r.Post("/import", s.handleImportPreferences)
	})

	r.Post("/sidebar/toggle", s.handleToggleSidebar)
}

func (s *Server) handleDashboardState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Catalog())
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.CurrentLayout())
}

type addWidgetRequest struct {
	Type     dashboard.WidgetType `json:"type"`
	Position *dashboard.Position  `json:"position,omitempty"`
}

func (s *Server) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	var req addWidgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(string(req.Type)) == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	widget, ok := s.store.AddWidget(r.Context(), req.Type, req.Position)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown widget type")
		return
	}
	writeJSON(w, http.StatusCreated, widget)
}

func (s *Server) handleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	var u dashboard.WidgetUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	widget, ok := s.store.UpdateWidget(r.Context(), chi.URLParam(r, "id"), u)
	if !ok {
		writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	writeJSON(w, http.StatusOK, widget)
}

// Removal of an unknown id still succeeds; the store treats it as a no-op.
func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveWidget(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveWidget(w http.ResponseWriter, r *http.Request) {
	var pos dashboard.Position
	if err := decodeJSON(r, &pos); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	widget, ok := s.store.MoveWidget(r.Context(), chi.URLParam(r, "id"), pos)
	if !ok {
		writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	writeJSON(w, http.StatusOK, widget)
}

func (s *Server) handleResizeWidget(w http.ResponseWriter, r *http.Request) {
	var dims dashboard.Dimensions
	if err := decodeJSON(r, &dims); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	widget, ok := s.store.ResizeWidget(r.Context(), chi.URLParam(r, "id"), dims)
	if !ok {
		writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	writeJSON(w, http.StatusOK, widget)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.SavedLayouts())
}

type saveLayoutRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	var req saveLayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.SaveLayout(r.Context(), strings.TrimSpace(req.Name)))
}

func (s *Server) handleLoadLayout(w http.ResponseWriter, r *http.Request) {
	if !s.store.LoadLayout(r.Context(), chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "layout not found")
		return
	}
	writeJSON(w, http.StatusOK, s.store.CurrentLayout())
}

func (s *Server) handleResetLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ResetLayout(r.Context()))
}

func (s *Server) handleExportLayout(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ExportLayout()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export layout")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleImportLayout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if !s.store.ImportLayout(r.Context(), string(body)) {
		writeError(w, http.StatusBadRequest, "invalid layout format")
		return
	}
	writeJSON(w, http.StatusOK, s.store.CurrentLayout())
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Preferences())
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var u dashboard.PreferencesUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusOK, s.store.UpdatePreferences(r.Context(), u))
}

func (s *Server) handleResetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ResetPreferences(r.Context()))
}

func (s *Server) handleExportPreferences(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ExportPreferences()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export preferences")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleImportPreferences(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if !s.store.ImportPreferences(r.Context(), string(body)) {
		writeError(w, http.StatusBadRequest, "invalid preferences format")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Preferences())
}

func (s *Server) handleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"sidebarOpen": s.store.ToggleSidebar()})
}
