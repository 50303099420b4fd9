package adapters

import (
	"context"
	"strings"

	"product-extractor/internal/types"
	"product-extractor/utils"

	"github.com/PuerkitoBio/goquery"
)

// BaseAdapter provides common functionality for site adapters: fetching a page,
// parsing it, and resolving field rules against the parsed document.
type BaseAdapter struct {
	config        *types.Config        // Configuration settings (timeouts, browser settings, etc.)
	logger        types.Logger         // Structured logging interface
	httpClient    *utils.HTTPClient    // HTTP client for standard requests
	browserClient *utils.BrowserClient // Headless browser client for dynamic content
}

// NewBaseAdapter creates a new base adapter with initialized HTTP and browser clients.
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	return &BaseAdapter{
		config:        config,
		logger:        logger,
		httpClient:    utils.NewHTTPClient(config, logger),
		browserClient: utils.NewBrowserClient(config, logger),
	}
}

// GetPageContent retrieves the HTML of a page using either the HTTP client or the
// headless browser, as selected by UseHeadlessBrowser.
func (b *BaseAdapter) GetPageContent(ctx context.Context, url string) (string, error) {
	if b.config.UseHeadlessBrowser {
		return b.browserClient.GetPageContent(ctx, url)
	}

	body, err := b.httpClient.Get(ctx, url)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// ExtractProduct resolves every field in rules against doc. A field that cannot be
// resolved gets its default; one missing field never affects another.
func (b *BaseAdapter) ExtractProduct(doc *goquery.Document, rules types.FieldRules) types.ProductRecord {
	return types.ProductRecord{
		Title:        b.resolve(doc, "title", rules.Title, types.DefaultTitle),
		Price:        b.resolve(doc, "price", rules.Price, types.DefaultPrice),
		Rating:       b.resolve(doc, "rating", rules.Rating, types.DefaultRating),
		Availability: b.resolve(doc, "availability", rules.Availability, types.DefaultAvailability),
	}
}

func (b *BaseAdapter) resolve(doc *goquery.Document, field string, rule types.FieldRule, fallback string) string {
	if doc == nil {
		return fallback
	}

	for _, selector := range rule.Selectors {
		value, ok := ResolveRule(doc.Selection, selector, rule)
		if ok {
			b.logger.Debugf("Resolved %s using selector: %s", field, selector)
			return value
		}
	}

	b.logger.Debugf("No selector resolved %s, using default %q", field, fallback)
	return fallback
}

// ResolveRule applies one selector of rule within root. Only the first match in
// document order is considered.
func ResolveRule(root *goquery.Selection, selector string, rule types.FieldRule) (string, bool) {
	var (
		value string
		ok    bool
	)
	if rule.Attribute != "" {
		value, ok = ExtractAttribute(root, selector, rule.Attribute)
	} else {
		value, ok = ExtractText(root, selector)
	}
	if !ok {
		return "", false
	}

	return ApplyTransform(rule.Transform, value)
}

// ExtractText returns the trimmed text of the first element under root matching
// selector. A missing element or whitespace-only text reports false.
func ExtractText(root *goquery.Selection, selector string) (string, bool) {
	node := root.Find(selector).First()
	if node.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(node.Text())
	return text, text != ""
}

// ExtractAttribute returns the trimmed value of attribute on the first element
// under root matching selector.
func ExtractAttribute(root *goquery.Selection, selector string, attribute string) (string, bool) {
	node := root.Find(selector).First()
	if node.Length() == 0 {
		return "", false
	}
	value, exists := node.Attr(attribute)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// Close cleans up resources
func (b *BaseAdapter) Close() {
	if b.httpClient != nil {
		b.httpClient.Close()
	}
}
