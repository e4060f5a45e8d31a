package api

import (
	"net/http"

	"github.com/garnizeh/rentals/pkg/repository"
)

// TableStatus reports whether a store has verified its table.
type TableStatus interface {
	Table() repository.Table
	Ready() bool
}

type healthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Tables  map[string]string `json:"tables,omitempty"`
}

type SystemHandler struct {
	tables []TableStatus
}

func NewSystemHandler(tables ...TableStatus) *SystemHandler {
	return &SystemHandler{tables: tables}
}

// HealthHandler answers 503 while any table is not operational, e.g. after
// it was dropped.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Service: "rentals"}
	status := http.StatusOK
	if len(h.tables) > 0 {
		resp.Tables = make(map[string]string, len(h.tables))
	}
	for _, t := range h.tables {
		state := "ready"
		if !t.Ready() {
			state = "not ready"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		resp.Tables[string(t.Table())] = state
	}
	writeJSON(w, status, resp)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": version, "buildTime": buildTime})
	}
}
