package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/rentals/internal/service"
	"github.com/garnizeh/rentals/pkg/models"
)

type PropertiesHandler struct {
	svc *service.PropertyService
}

func NewPropertiesHandler(svc *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{svc: svc}
}

// ListProperties serves GET /v1/properties. The optional q parameter
// filters by property type.
func (h *PropertiesHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (h *PropertiesHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var p models.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "Invalid request")
		return
	}
	p.ID = 0

	if _, err := h.svc.Add(r.Context(), &p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertiesHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertiesHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "Invalid request")
		return
	}
	if err := h.svc.Update(r.Context(), id, &p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertiesHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PurgeProperties serves DELETE /v1/properties.
func (h *PropertiesHandler) PurgeProperties(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Purge(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "Invalid id")
		return 0, false
	}
	return id, true
}
