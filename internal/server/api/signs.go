package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/fingerspell/internal/catalog"
	"github.com/ayusman/fingerspell/internal/scorer"
)

// SignHandler serves the sign catalog.
type SignHandler struct {
	catalog *catalog.Catalog
	rules   *scorer.Registry
}

// NewSignHandler creates a new SignHandler. Signs with a rule in rules are
// reported as implemented.
func NewSignHandler(c *catalog.Catalog, rules *scorer.Registry) *SignHandler {
	return &SignHandler{catalog: c, rules: rules}
}

type signResponse struct {
	catalog.Sign
	Implemented bool `json:"implemented"`
}

type stageResponse struct {
	Name  string         `json:"name"`
	Signs []signResponse `json:"signs"`
}

type listSignsResponse struct {
	Stages []stageResponse `json:"stages"`
}

// ServeHTTP handles GET /api/signs[?stage=].
func (h *SignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stages := h.catalog.Stages
	if name := r.URL.Query().Get("stage"); name != "" {
		st, err := h.catalog.Stage(name)
		if err != nil {
			if errors.Is(err, catalog.ErrUnknownStage) {
				writeError(w, http.StatusNotFound, "Stage not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to get stage")
			return
		}
		stages = []catalog.Stage{*st}
	}

	response := listSignsResponse{
		Stages: make([]stageResponse, 0, len(stages)),
	}

	for _, st := range stages {
		sr := stageResponse{Name: st.Name, Signs: make([]signResponse, 0, len(st.Signs))}
		for _, s := range st.Signs {
			sr.Signs = append(sr.Signs, signResponse{Sign: s, Implemented: h.rules.Has(s.ID)})
		}
		response.Stages = append(response.Stages, sr)
	}

	writeJSON(w, http.StatusOK, response)
}
