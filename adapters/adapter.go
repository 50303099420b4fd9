package adapters

import (
	"context"
	"fmt"

	"product-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// SiteAdapter defines the interface for site-specific extraction logic
type SiteAdapter interface {
	// Name returns the identifier used to select the adapter
	Name() string

	// DisplayName returns the site name shown in reports
	DisplayName() string

	// Matches reports whether the adapter handles pages served from host
	Matches(host string) bool

	// Rules returns the selectors used for each field
	Rules() types.FieldRules

	// FetchDocument downloads and parses a product page
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)

	// Extract resolves the product record from a parsed page. It never fails.
	Extract(doc *goquery.Document) types.ProductRecord

	// Close releases the adapter's clients
	Close()
}

// GetDocument fetches url and parses it. Field presence is left to Extract.
func (b *BaseAdapter) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := b.GetPageContent(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}

	doc, err := b.ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}
