package adapters

import (
	"context"
	"strings"

	"product-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// AmazonAdapter handles extraction for Amazon product pages
type AmazonAdapter struct {
	*BaseAdapter
}

// NewAmazonAdapter creates a new Amazon adapter
func NewAmazonAdapter(config *types.Config, logger types.Logger) *AmazonAdapter {
	return &AmazonAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// Name returns the adapter name
func (a *AmazonAdapter) Name() string {
	return "amazon"
}

// DisplayName returns the site name shown in reports
func (a *AmazonAdapter) DisplayName() string {
	return "Amazon"
}

// Matches reports whether host is an Amazon storefront or short link domain
func (a *AmazonAdapter) Matches(host string) bool {
	host = strings.ToLower(host)
	for _, label := range strings.Split(host, ".") {
		if label == "amazon" || label == "amzn" {
			return true
		}
	}
	return false
}

// Rules returns the selectors for the current Amazon product page layout
func (a *AmazonAdapter) Rules() types.FieldRules {
	return types.FieldRules{
		Title: types.FieldRule{
			Selectors: []string{"#productTitle", "#title"},
		},
		Price: types.FieldRule{
			Selectors: []string{
				".a-price .a-offscreen",
				"#priceblock_ourprice",
				"#priceblock_dealprice",
				"span.a-price-whole",
			},
		},
		Rating: types.FieldRule{
			Selectors: []string{
				"#acrPopover span.a-icon-alt",
				"span.a-icon-alt",
			},
		},
		Availability: types.FieldRule{
			Selectors: []string{"#availability span", "#availability"},
		},
	}
}

// FetchDocument downloads and parses an Amazon product page
func (a *AmazonAdapter) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	a.logger.Debugf("Fetching Amazon product page %s", url)
	return a.GetDocument(ctx, url)
}

// Extract resolves the product record from an Amazon page
func (a *AmazonAdapter) Extract(doc *goquery.Document) types.ProductRecord {
	return a.ExtractProduct(doc, a.Rules())
}
