package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/idphoto/internal/catalog"
	"github.com/kozaktomas/idphoto/internal/layout"
)

// SizesHandler serves the static size catalog.
type SizesHandler struct{}

// NewSizesHandler creates a new sizes handler.
func NewSizesHandler() *SizesHandler {
	return &SizesHandler{}
}

// SizeResponse is one catalog entry with its pixel canvas at print resolution.
type SizeResponse struct {
	ID             string               `json:"id"`
	Label          string               `json:"label"`
	Description    string               `json:"description"`
	WidthMM        float64              `json:"width_mm"`
	HeightMM       float64              `json:"height_mm"`
	Ratio          float64              `json:"ratio"`
	Kind           catalog.Kind         `json:"kind"`
	SheetLayout    *catalog.SheetLayout `json:"sheet_layout,omitempty"`
	Copies         int                  `json:"copies"`
	CanvasWidthPx  int                  `json:"canvas_width_px"`
	CanvasHeightPx int                  `json:"canvas_height_px"`
}

// PlanResponse is the computed layout for one size.
type PlanResponse struct {
	SizeID string `json:"size_id"`
	DPI    int    `json:"dpi"`
	layout.Plan
}

func toSizeResponse(s catalog.SizeSpec) SizeResponse {
	plan := layout.Compute(s)
	return SizeResponse{
		ID:             s.ID,
		Label:          s.Label,
		Description:    s.Description,
		WidthMM:        s.WidthMM,
		HeightMM:       s.HeightMM,
		Ratio:          s.Ratio,
		Kind:           s.Kind,
		SheetLayout:    s.Sheet,
		Copies:         s.Copies(),
		CanvasWidthPx:  plan.CanvasWidth,
		CanvasHeightPx: plan.CanvasHeight,
	}
}

// List returns every size, optionally filtered with ?kind=single|sheet.
func (h *SizesHandler) List(w http.ResponseWriter, r *http.Request) {
	var specs []catalog.SizeSpec
	switch kind := catalog.Kind(r.URL.Query().Get("kind")); kind {
	case "":
		specs = catalog.Specs()
	case catalog.KindSingle, catalog.KindSheet:
		specs = catalog.ByKind(kind)
	default:
		respondError(w, http.StatusBadRequest, "kind must be single or sheet")
		return
	}

	out := make([]SizeResponse, 0, len(specs))
	for _, s := range specs {
		out = append(out, toSizeResponse(s))
	}
	respondJSON(w, http.StatusOK, out)
}

// Get returns one size by id.
func (h *SizesHandler) Get(w http.ResponseWriter, r *http.Request) {
	spec, ok := catalog.Lookup(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "size not found")
		return
	}
	respondJSON(w, http.StatusOK, toSizeResponse(spec))
}

// Plan returns the placement rectangles an export of this size would use.
func (h *SizesHandler) Plan(w http.ResponseWriter, r *http.Request) {
	spec, ok := catalog.Lookup(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "size not found")
		return
	}
	respondJSON(w, http.StatusOK, PlanResponse{
		SizeID: spec.ID,
		DPI:    layout.DPI,
		Plan:   layout.Compute(spec),
	})
}
