package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/idphoto/internal/config"
	"github.com/kozaktomas/idphoto/internal/export"
	"github.com/rs/zerolog"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Web: config.WebConfig{Host: "127.0.0.1", Port: 0, AllowedOrigins: []string{"https://app.example.com"}},
		Export: config.ExportConfig{
			Format:      "jpeg",
			Quality:     95,
			MaxUploadMB: 1,
			Workers:     2,
		},
	}
	opts := export.DefaultOptions()
	opts.Now = func() time.Time { return time.UnixMilli(1700000000123) }
	return NewServer(cfg, export.NewExporter(opts, zerolog.Nop()), zerolog.Nop())
}

func pngSource(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 50, 70))
	for y := range 70 {
		for x := range 50 {
			img.Set(x, y, color.RGBA{uint8(x * 5), uint8(y * 3), 90, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRoutes(t *testing.T) {
	router := testServer(t).Router()

	tests := []struct {
		method string
		path   string
		body   []byte
		status int
		ctype  string
	}{
		{http.MethodGet, "/api/v1/health", nil, http.StatusOK, "application/json"},
		{http.MethodGet, "/api/v1/config", nil, http.StatusOK, "application/json"},
		{http.MethodGet, "/api/v1/sizes", nil, http.StatusOK, "application/json"},
		{http.MethodGet, "/api/v1/sizes?kind=sheet", nil, http.StatusOK, "application/json"},
		{http.MethodGet, "/api/v1/sizes/us_passport", nil, http.StatusOK, "application/json"},
		{http.MethodGet, "/api/v1/sizes/nope", nil, http.StatusNotFound, "application/json"},
		{http.MethodGet, "/api/v1/sizes/sheet_us_2x2/plan", nil, http.StatusOK, "application/json"},
		{http.MethodPost, "/api/v1/export/us_passport", nil, http.StatusBadRequest, "application/json"},
		{http.MethodPost, "/api/v1/export/global_2inch?format=png", []byte("png"), http.StatusOK, "image/png"},
		{http.MethodPost, "/api/v1/export/original", []byte("png"), http.StatusOK, "image/jpeg"},
		{http.MethodGet, "/unknown", nil, http.StatusNotFound, "application/json"},
	}

	src := pngSource(t)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body []byte
			if tt.body != nil {
				body = src
			}
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d\nBody: %s", tt.status, rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.ctype {
				t.Errorf("expected Content-Type %q, got %q", tt.ctype, ct)
			}
		})
	}
}

func TestRoutes_OriginalNotTreatedAsSize(t *testing.T) {
	router := testServer(t).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/export/original?format=png", bytes.NewReader(pngSource(t)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("expected PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 70 {
		t.Errorf("expected source size 50x70, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRoutes_UploadLimitFromConfig(t *testing.T) {
	router := testServer(t).Router()

	big := bytes.Repeat([]byte{0xff}, 2<<20)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/export/us_passport", bytes.NewReader(big))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestRoutes_CORSAndRequestID(t *testing.T) {
	router := testServer(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sizes", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected configured origin allowed, got %q", got)
	}

	var sizes []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &sizes); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(sizes) != 6 {
		t.Errorf("expected 6 sizes, got %d", len(sizes))
	}
}

func TestNewServer_Addr(t *testing.T) {
	s := testServer(t)
	if s.httpServer.Addr != "127.0.0.1:0" {
		t.Errorf("unexpected addr %q", s.httpServer.Addr)
	}
}

// headerCounter records how many times a status line was written.
type headerCounter struct {
	*httptest.ResponseRecorder
	calls []int
}

func (h *headerCounter) WriteHeader(code int) {
	h.calls = append(h.calls, code)
	h.ResponseRecorder.WriteHeader(code)
}

func TestRoutes_RequestTimeoutAnsweredOnce(t *testing.T) {
	cfg := &config.Config{
		Web:    config.WebConfig{Host: "127.0.0.1", RequestTimeout: time.Nanosecond},
		Export: config.ExportConfig{MaxUploadMB: 1},
	}
	router := NewServer(cfg, export.NewExporter(export.DefaultOptions(), zerolog.Nop()), zerolog.Nop()).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/export/sheet_1inch", bytes.NewReader(pngSource(t)))
	rec := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
	router.ServeHTTP(rec, req)

	if len(rec.calls) != 1 || rec.calls[0] != http.StatusGatewayTimeout {
		t.Errorf("expected a single 504 status write, got %v", rec.calls)
	}
}
