package adapters

import (
	"context"
	"fmt"
	"strings"

	"product-extractor/internal/config"
	"product-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// ConfiguredAdapter extracts products using selectors loaded from a site file
type ConfiguredAdapter struct {
	*BaseAdapter
	site *config.SiteConfig
}

// NewConfiguredAdapter creates an adapter for site. Unknown transforms are rejected.
func NewConfiguredAdapter(site *config.SiteConfig, cfg *types.Config, logger types.Logger) (*ConfiguredAdapter, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}

	for _, rule := range []types.FieldRule{site.Fields.Title, site.Fields.Price, site.Fields.Rating, site.Fields.Availability} {
		if !KnownTransform(rule.Transform) {
			return nil, fmt.Errorf("site config %s: unknown transform %q", site.Name, rule.Transform)
		}
	}

	return &ConfiguredAdapter{
		BaseAdapter: NewBaseAdapter(cfg, logger),
		site:        site,
	}, nil
}

// Name returns the site name from the config file
func (c *ConfiguredAdapter) Name() string {
	return c.site.Name
}

// DisplayName returns the site name shown in reports
func (c *ConfiguredAdapter) DisplayName() string {
	if c.site.DisplayName != "" {
		return c.site.DisplayName
	}
	return c.site.Name
}

// Matches reports whether host is one of the configured hosts
func (c *ConfiguredAdapter) Matches(host string) bool {
	for _, h := range c.site.Hosts {
		if strings.EqualFold(strings.TrimSpace(h), host) {
			return true
		}
	}
	return false
}

// Rules returns the configured selectors
func (c *ConfiguredAdapter) Rules() types.FieldRules {
	return c.site.Fields
}

// FetchDocument downloads and parses a product page
func (c *ConfiguredAdapter) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	c.logger.Debugf("Fetching %s product page %s", c.site.Name, url)
	return c.GetDocument(ctx, url)
}

// Extract resolves the product record using the configured selectors
func (c *ConfiguredAdapter) Extract(doc *goquery.Document) types.ProductRecord {
	return c.ExtractProduct(doc, c.site.Fields)
}
