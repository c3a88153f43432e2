// Package chi exposes the product matcher HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matcher/internal/domain"
	"github.com/kailas-cloud/matcher/internal/imaging"
	"github.com/kailas-cloud/matcher/internal/logger"
	"github.com/kailas-cloud/matcher/internal/repository/catalog"
	healthuc "github.com/kailas-cloud/matcher/internal/usecase/health"
	searchuc "github.com/kailas-cloud/matcher/internal/usecase/search"
)

// Options holds transport-level knobs.
type Options struct {
	MaxUploadBytes int64
	FetchTimeout   time.Duration
	StaticDir      string
}

// Server routes API requests to the usecase services.
type Server struct {
	search    *searchuc.Service
	catalog   *catalog.Store
	health    *healthuc.Service
	client    *http.Client
	maxUpload int64
	staticDir string
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	cat *catalog.Store,
	health *healthuc.Service,
	opts Options,
	log *zap.Logger,
) *Server {
	return &Server{
		search:    search,
		catalog:   cat,
		health:    health,
		client:    &http.Client{Timeout: opts.FetchTimeout},
		maxUpload: opts.MaxUploadBytes,
		staticDir: opts.StaticDir,
		logger:    log,
	}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(s.staticDir))))
	r.Post("/api/search", s.SearchProducts)
	r.Get("/api/products", s.ListProducts)
	r.Get("/api/categories", s.ListCategories)
	r.Get("/api/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Index serves the landing page.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

type searchResponse struct {
	Success      bool            `json:"success"`
	Analysis     domain.Analysis `json:"analysis"`
	Results      []domain.Match  `json:"results"`
	TotalResults int             `json:"total_results"`
}

// SearchProducts handles POST /api/search. The image arrives either as a
// multipart upload in field "image" or as JSON {"image_url": "..."}.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	rawImage, ok := s.readImage(w, r)
	if !ok {
		return
	}

	ranking, err := s.search.Search(r.Context(), rawImage)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Invalid or unsupported image data")
			return
		}
		logger.FromContext(r.Context()).Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	if ranking.Source != domain.SourceProvider {
		logger.FromContext(r.Context()).Info("search served with degraded analysis",
			zap.String("source", string(ranking.Source)))
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success:      true,
		Analysis:     ranking.Analysis,
		Results:      ranking.Matches,
		TotalResults: len(ranking.Matches),
	})
}

// readImage extracts the raw query image from the request. On failure it
// writes the 400 response itself and returns ok=false.
func (s *Server) readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		return s.readUpload(w, r)
	case strings.HasPrefix(contentType, "application/json"):
		return s.readRemote(w, r)
	default:
		writeError(w, http.StatusBadRequest, "No image file or URL provided")
		return nil, false
	}
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file selected")
		return nil, false
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return nil, false
	}
	if !imaging.AllowedExtension(header.Filename) {
		writeError(w, http.StatusBadRequest, "Invalid file type. Allowed: PNG, JPG, JPEG, GIF, WEBP")
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("File too large. Maximum size: %dMB", s.maxUpload/(1<<20)))
		return nil, false
	}
	return data, true
}

func (s *Server) readRemote(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No image file or URL provided")
		return nil, false
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "No image URL provided")
		return nil, false
	}

	data, err := s.fetchImage(r, req.ImageURL)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Failed to fetch image from URL: %s", err))
		return nil, false
	}
	return data, true
}

// fetchImage downloads a remote image, bounded by the client timeout and
// the upload size limit.
func (s *Server) fetchImage(r *http.Request, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrImageFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageFetch, err)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, fmt.Errorf("%w: image exceeds %dMB", domain.ErrImageFetch, s.maxUpload/(1<<20))
	}
	return data, nil
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// ListProducts handles GET /api/products, optionally filtered by the
// category query parameter (case-insensitive exact match).
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.catalog.All()
	if category := r.URL.Query().Get("category"); category != "" {
		products = s.catalog.ByCategory(category)
	}

	writeJSON(w, http.StatusOK, productsResponse{
		Products: products,
		Count:    len(products),
	})
}

// ListCategories handles GET /api/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"categories": s.catalog.Categories(),
	})
}

// HealthCheck handles GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":            report.Status,
		"products_count":    report.ProductsCount,
		"vision_configured": report.VisionConfigured,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
