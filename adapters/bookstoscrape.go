package adapters

import (
	"context"
	"strings"

	"product-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// BooksToScrapeAdapter handles extraction for books.toscrape.com book pages.
// The rating is only present as a class word, so it is read from the class attribute.
type BooksToScrapeAdapter struct {
	*BaseAdapter
}

// NewBooksToScrapeAdapter creates a new BooksToScrape adapter
func NewBooksToScrapeAdapter(config *types.Config, logger types.Logger) *BooksToScrapeAdapter {
	return &BooksToScrapeAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// Name returns the adapter name
func (s *BooksToScrapeAdapter) Name() string {
	return "bookstoscrape"
}

// DisplayName returns the site name shown in reports
func (s *BooksToScrapeAdapter) DisplayName() string {
	return "BooksToScrape"
}

// Matches reports whether host is books.toscrape.com
func (s *BooksToScrapeAdapter) Matches(host string) bool {
	return strings.EqualFold(host, "books.toscrape.com")
}

// Rules returns the selectors for a BooksToScrape book page
func (s *BooksToScrapeAdapter) Rules() types.FieldRules {
	return types.FieldRules{
		Title: types.FieldRule{
			Selectors: []string{".product_main h1"},
		},
		Price: types.FieldRule{
			Selectors: []string{".product_main .price_color", ".price_color"},
		},
		Rating: types.FieldRule{
			Selectors: []string{".product_main p.star-rating", "p.star-rating"},
			Attribute: "class",
			Transform: TransformStarRating,
		},
		Availability: types.FieldRule{
			Selectors: []string{".product_main p.availability", "p.availability"},
			Transform: TransformCollapse,
		},
	}
}

// FetchDocument downloads and parses a book page
func (s *BooksToScrapeAdapter) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	s.logger.Debugf("Fetching BooksToScrape page %s", url)
	return s.GetDocument(ctx, url)
}

// Extract resolves the product record from a book page
func (s *BooksToScrapeAdapter) Extract(doc *goquery.Document) types.ProductRecord {
	return s.ExtractProduct(doc, s.Rules())
}
