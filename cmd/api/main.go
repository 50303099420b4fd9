package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"product-extractor/adapters"
	"product-extractor/extractor"
	"product-extractor/internal/config"
	"product-extractor/internal/types"
)

// APIRequest represents the request body for the API
type APIRequest struct {
	URL  string `json:"url"`
	Site string `json:"site,omitempty"`
}

// APIResponse represents the response from the API
type APIResponse struct {
	Success bool                    `json:"success"`
	Data    *types.ExtractionResult `json:"data,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// Server holds the API server configuration
type Server struct {
	logger *logrus.Logger
	config *types.Config
	site   *config.SiteConfig
}

// NewServer creates a new API server. site, when set, adds a configured adapter
// to every extraction.
func NewServer(logger *logrus.Logger, cfg *types.Config, site *config.SiteConfig) *Server {
	return &Server{
		logger: logger,
		config: cfg,
		site:   site,
	}
}

func (s *Server) newExtractor() (*extractor.Extractor, error) {
	var extra []adapters.SiteAdapter
	if s.site != nil {
		configured, err := adapters.NewConfiguredAdapter(s.site, s.config, s.logger)
		if err != nil {
			return nil, err
		}
		extra = append(extra, configured)
	}
	return extractor.NewExtractor(s.config, s.logger, extra...), nil
}

// handleExtract handles the extraction API endpoint
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		s.sendError(w, "No url provided", http.StatusBadRequest)
		return
	}

	s.logger.Infof("API request received for %s", req.URL)

	productExtractor, err := s.newExtractor()
	if err != nil {
		s.sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer productExtractor.Close()

	if _, err := productExtractor.Adapter(req.URL, strings.TrimSpace(req.Site)); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.Timeout*time.Duration(s.config.MaxRetries+2))
	defer cancel()

	result, err := productExtractor.Extract(ctx, req.URL, strings.TrimSpace(req.Site))
	if err != nil {
		s.logger.Warnf("Failed to extract %s: %v", req.URL, err)
		s.sendError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: result}); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	response := APIResponse{
		Success: false,
		Error:   message,
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorf("Failed to encode error response: %v", err)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// Routes returns the server's HTTP handler
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/extract", s.handleExtract)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the API server
func (s *Server) Start(port string) error {
	s.logger.Infof("Starting API server on port %s", port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  POST /extract - Extract title, price, rating and availability from a product URL")
	s.logger.Info("  GET  /health  - Health check")

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func main() {
	appCfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	logger.SetLevel(logrus.InfoLevel)
	if appCfg.LogLevel != "" {
		if level, err := logrus.ParseLevel(appCfg.LogLevel); err == nil {
			logger.SetLevel(level)
		}
	}

	var site *config.SiteConfig
	if appCfg.SelectorsFile != "" {
		loaded, err := config.LoadSiteConfig(appCfg.SelectorsFile)
		if err != nil {
			logger.Fatalf("Failed to load selectors: %v", err)
		}
		site = loaded
	}

	server := NewServer(logger, types.DefaultConfig(), site)
	logger.Fatal(server.Start(appCfg.APIPort))
}
