package adapters

import (
	"fmt"
	"net/url"
	"strings"

	"product-extractor/internal/types"
)

// Registry selects the adapter for a product URL
type Registry struct {
	fallback SiteAdapter
	adapters []SiteAdapter
}

// NewRegistry creates a registry. Adapters are matched in order, the fallback
// last; it also handles URLs no adapter matches.
func NewRegistry(fallback SiteAdapter, others ...SiteAdapter) *Registry {
	adapters := append([]SiteAdapter{}, others...)
	return &Registry{
		fallback: fallback,
		adapters: append(adapters, fallback),
	}
}

// NewDefaultRegistry creates a registry with the built-in adapters and Amazon as
// the fallback. Extra adapters are matched before the built-in ones.
func NewDefaultRegistry(config *types.Config, logger types.Logger, extra ...SiteAdapter) *Registry {
	others := append([]SiteAdapter{}, extra...)
	others = append(others, NewBooksToScrapeAdapter(config, logger))
	return NewRegistry(NewAmazonAdapter(config, logger), others...)
}

// ForURL returns the adapter whose host matches rawURL, or the fallback
func (r *Registry) ForURL(rawURL string) (SiteAdapter, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid product URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid product URL %q: scheme must be http or https", rawURL)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("invalid product URL %q: missing host", rawURL)
	}

	host := parsed.Hostname()
	for _, adapter := range r.adapters {
		if adapter.Matches(host) {
			return adapter, nil
		}
	}

	return r.fallback, nil
}

// ByName returns the adapter registered under name
func (r *Registry) ByName(name string) (SiteAdapter, error) {
	for _, adapter := range r.adapters {
		if strings.EqualFold(adapter.Name(), name) {
			return adapter, nil
		}
	}
	return nil, fmt.Errorf("no adapter found for site: %s", name)
}

// Names returns the registered adapter names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for _, adapter := range r.adapters {
		names = append(names, adapter.Name())
	}
	return names
}

// Close closes every registered adapter
func (r *Registry) Close() {
	for _, adapter := range r.adapters {
		adapter.Close()
	}
}
