package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/docstruct/tably/internal/extract"
	"github.com/docstruct/tably/internal/layout"
	"github.com/docstruct/tably/internal/ocr"
	"github.com/docstruct/tably/internal/overlay"
	"github.com/docstruct/tably/internal/template"
	"github.com/docstruct/tably/internal/version"
)

// ExtractRequest is the POST /extract payload: a recognition document plus
// either an inline template, the name of a server-side template, or nothing
// (geometric segmentation). Tolerances fall back to the server defaults.
type ExtractRequest struct {
	Document     *ocr.Document      `json:"document"`
	Template     *template.Template `json:"template,omitempty"`
	TemplateName string             `json:"template_name,omitempty"`
	YTolerance   float64            `json:"y_tolerance,omitempty"`
	XThreshold   float64            `json:"x_threshold,omitempty"`
}

// ExtractResponse wraps a successful extraction.
type ExtractResponse struct {
	Success bool            `json:"success"`
	Result  *extract.Result `json:"result"`
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding health response", "error", err)
	}
}

// templatesHandler lists the zone templates loaded at startup.
func (s *Server) templatesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos := make([]TemplateInfo, 0, len(s.templates))
	for _, name := range s.TemplateNames() {
		infos = append(infos, TemplateInfo{Name: name, Columns: len(s.templates[name].Columns)})
	}
	response := TemplatesResponse{Templates: infos, Count: len(infos)}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding templates response", "error", err)
	}
}

// extractHandler reconstructs a table from a posted recognition document.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB*1024*1024)

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Document == nil || len(req.Document.Pages) == 0 {
		s.writeErrorResponse(w, "request carries no document pages", http.StatusBadRequest)
		return
	}

	cfg, mode, err := s.extractConfig(&req)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result := extract.New(cfg).ProcessDocument(req.Document)
	extractDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	extractPagesProcessed.Observe(float64(len(result.Pages)))
	extractRowsReconstructed.Observe(float64(len(result.Rows)))

	// The request only counts as a success once the chosen format has
	// actually rendered; a CSV or overlay failure is an error outcome.
	switch r.URL.Query().Get("format") {
	case "csv":
		out, err := extract.ToCSV(result)
		if err != nil {
			extractRequestsTotal.WithLabelValues(mode, "error").Inc()
			s.writeErrorResponse(w, fmt.Sprintf("formatting failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(out))
	case "overlay":
		if err := s.writeOverlayResponse(w, &req, cfg, result); err != nil {
			extractRequestsTotal.WithLabelValues(mode, "error").Inc()
			return
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ExtractResponse{Success: true, Result: result}); err != nil {
			slog.Error("encoding extract response", "error", err)
		}
	}
	extractRequestsTotal.WithLabelValues(mode, "success").Inc()
}

// extractConfig resolves the request's template and tolerances against the
// server defaults. Returns the extractor config and the metrics mode label.
func (s *Server) extractConfig(req *ExtractRequest) (extract.Config, string, error) {
	cfg := extract.Config{
		YTolerance: s.extractCfg.YTolerance,
		XThreshold: s.extractCfg.XThreshold,
	}
	if req.YTolerance != 0 {
		cfg.YTolerance = req.YTolerance
	}
	if req.XThreshold != 0 {
		cfg.XThreshold = req.XThreshold
	}

	switch {
	case req.Template != nil:
		if err := req.Template.Validate(); err != nil {
			return cfg, "", fmt.Errorf("invalid inline template: %w", err)
		}
		cfg.Template = req.Template
	case req.TemplateName != "":
		t, ok := s.templates[req.TemplateName]
		if !ok {
			return cfg, "", fmt.Errorf("unknown template %q", req.TemplateName)
		}
		cfg.Template = t
	}

	mode := "geometry"
	if cfg.Template != nil {
		mode = "zones"
	}
	return cfg, mode, nil
}

// writeOverlayResponse renders the first page's reconstruction overlay as
// PNG. Later pages are available through per-page requests; the overlay is
// a template-authoring aid, not a batch artifact. The HTTP error response
// is already written when a non-nil error comes back.
func (s *Server) writeOverlayResponse(w http.ResponseWriter, req *ExtractRequest, cfg extract.Config, result *extract.Result) error {
	if len(result.Pages) == 0 {
		s.writeErrorResponse(w, "no pages to render", http.StatusBadRequest)
		return fmt.Errorf("no pages to render")
	}
	var zones []layout.ZoneDef
	if cfg.Template != nil {
		zones = cfg.Template.ZoneDefs()
	}
	img := overlay.Render(nil, req.Document.Pages[0], result.Pages[0], zones, overlay.DefaultOptions())

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("rendering overlay failed: %v", err), http.StatusInternalServerError)
		return fmt.Errorf("rendering overlay: %w", err)
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
	return nil
}

// writeErrorResponse writes a JSON error with the given status code.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message}); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}
