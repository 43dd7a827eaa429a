package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docstruct/tably/internal/config"
	"github.com/docstruct/tably/internal/template"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	cfg        config.ServerConfig
	extractCfg config.ExtractConfig
	templates  map[string]*template.Template
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type TemplateInfo struct {
	Name    string `json:"name"`
	Columns int    `json:"columns"`
}

type TemplatesResponse struct {
	Templates []TemplateInfo `json:"templates"`
	Count     int            `json:"count"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates a server and loads the zone templates from the
// configured directory. A missing directory is not fatal; the server then
// only serves requests carrying inline templates or using geometric
// segmentation.
func NewServer(cfg config.ServerConfig, extractCfg config.ExtractConfig) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		extractCfg: extractCfg,
		templates:  make(map[string]*template.Template),
	}
	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadTemplates reads every *.yaml/*.yml file in the templates directory.
func (s *Server) loadTemplates() error {
	dir := s.cfg.TemplatesDir
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("templates directory does not exist", "dir", dir)
			return nil
		}
		return fmt.Errorf("reading templates dir %s: %w", dir, err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		t, err := template.Load(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Warn("skipping invalid template", "file", e.Name(), "error", err)
			continue
		}
		name := t.Name
		if name == "" {
			name = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		if overlaps := t.Overlapping(); len(overlaps) > 0 {
			slog.Warn("template has overlapping zones", "template", name, "pairs", overlaps)
		}
		s.templates[name] = t
		slog.Info("loaded template", "template", name, "columns", len(t.Columns))
	}
	return nil
}

// TemplateNames returns the loaded template names in sorted order.
func (s *Server) TemplateNames() []string {
	names := make([]string, 0, len(s.templates))
	for n := range s.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/templates", s.corsMiddleware(s.templatesHandler))
	mux.HandleFunc("/extract", s.corsMiddleware(s.extractHandler))
	mux.HandleFunc("/ws/extract", s.extractWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
