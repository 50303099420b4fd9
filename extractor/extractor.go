package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"product-extractor/adapters"
	"product-extractor/internal/types"
)

// Extractor fetches a product page and resolves its record through the
// adapter registered for the page's site
type Extractor struct {
	config   *types.Config
	logger   types.Logger
	registry *adapters.Registry
	now      func() time.Time
}

// NewExtractor creates a new extractor with the built-in adapters plus extra
func NewExtractor(config *types.Config, logger types.Logger, extra ...adapters.SiteAdapter) *Extractor {
	return &Extractor{
		config:   config,
		logger:   logger,
		registry: adapters.NewDefaultRegistry(config, logger, extra...),
		now:      time.Now,
	}
}

// Adapter returns the adapter for productURL. A non-empty site overrides the
// host-based choice.
func (e *Extractor) Adapter(productURL string, site string) (adapters.SiteAdapter, error) {
	adapter, err := e.registry.ForURL(productURL)
	if err != nil {
		return nil, err
	}
	if site == "" {
		return adapter, nil
	}
	return e.registry.ByName(site)
}

// Extract fetches productURL and extracts its record. Fetch and parse failures
// are returned; missing fields never are.
func (e *Extractor) Extract(ctx context.Context, productURL string, site string) (*types.ExtractionResult, error) {
	startTime := time.Now()

	adapter, err := e.Adapter(productURL, site)
	if err != nil {
		return nil, err
	}

	e.logger.Infof("Extracting %s using the %s adapter", productURL, adapter.Name())

	doc, err := adapter.FetchDocument(ctx, productURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product page: %w", err)
	}

	record := adapter.Extract(doc)
	e.logger.Debugf("Product %s processed in %v", productURL, time.Since(startTime))

	return &types.ExtractionResult{
		URL:         productURL,
		Site:        adapter.DisplayName(),
		Product:     record,
		ExtractedAt: e.now().UTC(),
	}, nil
}

// ExtractToJSON extracts productURL and saves the result to a JSON file
func (e *Extractor) ExtractToJSON(ctx context.Context, productURL string, site string, filename string) (*types.ExtractionResult, error) {
	result, err := e.Extract(ctx, productURL, site)
	if err != nil {
		return nil, err
	}

	if err := WriteJSON(filename, result); err != nil {
		return nil, err
	}

	e.logger.Infof("Results saved to %s", filename)
	return result, nil
}

// Sites returns the names of the registered adapters
func (e *Extractor) Sites() []string {
	return e.registry.Names()
}

// Close cleans up resources
func (e *Extractor) Close() {
	if e.registry != nil {
		e.registry.Close()
	}
}

// WriteJSON writes result as indented JSON to filename
func WriteJSON(filename string, result *types.ExtractionResult) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}

	if err := writeToFile(filename, jsonData); err != nil {
		return fmt.Errorf("failed to write results to file: %w", err)
	}
	return nil
}

// writeToFile writes data to a file
func writeToFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0644)
}
