package handlers

import (
	"net/http"

	"github.com/kozaktomas/idphoto/internal/export"
	"github.com/kozaktomas/idphoto/internal/layout"
)

// ConfigHandler exposes the export defaults a client needs before uploading.
type ConfigHandler struct {
	exporter       *export.Exporter
	maxUploadBytes int64
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(exp *export.Exporter, maxUploadBytes int64) *ConfigHandler {
	return &ConfigHandler{
		exporter:       exp,
		maxUploadBytes: maxUploadBytes,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Formats        []export.Format `json:"formats"`
	DefaultFormat  export.Format   `json:"default_format"`
	Quality        int             `json:"quality"`
	DPI            int             `json:"dpi"`
	MaxUploadBytes int64           `json:"max_upload_bytes"`
	FilenamePrefix string          `json:"filename_prefix"`
}

// Get returns the effective export configuration.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	opts := h.exporter.Options()
	respondJSON(w, http.StatusOK, ConfigResponse{
		Formats:        []export.Format{export.FormatJPEG, export.FormatWebP, export.FormatPNG},
		DefaultFormat:  opts.Format,
		Quality:        opts.Quality,
		DPI:            layout.DPI,
		MaxUploadBytes: h.maxUploadBytes,
		FilenamePrefix: opts.FilenamePrefix,
	})
}
