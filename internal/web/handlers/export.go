package handlers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/idphoto/internal/catalog"
	"github.com/kozaktomas/idphoto/internal/export"
	"github.com/rs/zerolog"
)

// multipartOverhead is the allowance for multipart framing on top of the image limit.
const multipartOverhead = 1 << 20

// imageField is the multipart form field carrying the source photo.
const imageField = "image"

// ExportHandler turns uploaded photos into downloadable exports.
type ExportHandler struct {
	exporter *export.Exporter
	maxBytes int64
	logger   zerolog.Logger
}

// NewExportHandler creates a new export handler. A non-positive maxBytes
// uses export.DefaultMaxSourceBytes.
func NewExportHandler(exp *export.Exporter, maxBytes int64, logger zerolog.Logger) *ExportHandler {
	if maxBytes <= 0 {
		maxBytes = export.DefaultMaxSourceBytes
	}
	return &ExportHandler{exporter: exp, maxBytes: maxBytes, logger: logger}
}

// Export composes the uploaded photo into the size named by {id}.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	spec, ok := catalog.Lookup(id)
	if !ok {
		respondError(w, http.StatusNotFound, "size not found")
		return
	}
	format, ok := h.parseFormat(w, r)
	if !ok {
		return
	}

	src, err := h.readSource(w, r)
	if err != nil {
		h.respondExportError(w, r, err)
		return
	}

	res, err := h.exporter.ExportSpec(r.Context(), src, spec, format)
	if err != nil {
		h.respondExportError(w, r, err)
		return
	}
	h.logger.Info().
		Str("export_id", res.ID).
		Str("size", sanitizeForLog(id)).
		Str("format", string(res.Format)).
		Int("bytes", len(res.Data)).
		Msg("export served")
	writeExport(w, res)
}

// Original re-encodes the uploaded photo at full resolution.
func (h *ExportHandler) Original(w http.ResponseWriter, r *http.Request) {
	format, ok := h.parseFormat(w, r)
	if !ok {
		return
	}

	src, err := h.readSource(w, r)
	if err != nil {
		h.respondExportError(w, r, err)
		return
	}

	res, err := h.exporter.ExportOriginal(r.Context(), src, format)
	if err != nil {
		h.respondExportError(w, r, err)
		return
	}
	h.logger.Info().Str("export_id", res.ID).Int("bytes", len(res.Data)).Msg("original served")
	writeExport(w, res)
}

// parseFormat reads ?format=. An empty value means the exporter default.
func (h *ExportHandler) parseFormat(w http.ResponseWriter, r *http.Request) (export.Format, bool) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return "", true
	}
	f, err := export.ParseFormat(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return f, true
}

// readSource decodes the photo from a multipart "image" field or the raw body.
func (h *ExportHandler) readSource(w http.ResponseWriter, r *http.Request) (image.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return export.DecodeSource(r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, export.ErrSourceTooLarge
		}
		return nil, fmt.Errorf("%w: %v", export.ErrInvalidSource, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile(imageField)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %q form field", export.ErrInvalidSource, imageField)
	}
	defer file.Close()
	return export.DecodeSource(file, h.maxBytes)
}

func exportStatus(err error) int {
	switch {
	case errors.Is(err, export.ErrSourceTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, export.ErrInvalidSource):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrUnknownSize):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *ExportHandler) respondExportError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) && errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		// The timeout middleware answers 504 once the handler returns.
		h.logger.Warn().Str("path", sanitizeForLog(r.URL.Path)).Msg("export hit request timeout")
		return
	}
	status := exportStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", sanitizeForLog(r.URL.Path)).Msg("export failed")
		msg = "export failed"
	}
	respondError(w, status, msg)
}

func writeExport(w http.ResponseWriter, res *export.Result) {
	h := w.Header()
	h.Set("Content-Type", res.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(res.Data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	h.Set("X-Export-ID", res.ID)
	h.Set("X-Export-Copies", strconv.Itoa(res.Copies))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}
