package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"product-extractor/internal/types"
)

// BrowserClient provides headless browser functionality
type BrowserClient struct {
	config *types.Config
	logger types.Logger
}

// NewBrowserClient creates a new browser client
func NewBrowserClient(config *types.Config, logger types.Logger) *BrowserClient {
	return &BrowserClient{
		config: config,
		logger: logger,
	}
}

const (
	// readySelector marks the page as loaded
	readySelector = "body"
	// settleDelay gives client-side scripts time to fill in the page after the body is ready
	settleDelay = 500 * time.Millisecond
)

// pageActions navigates to url and captures the rendered document into html.
// The wait does not depend on any product field so that a missing field never
// fails the fetch.
func pageActions(url string, html *string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady(readySelector, chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", html, chromedp.ByQuery),
	}
}

// GetPageContent retrieves the rendered HTML of a page using a headless browser.
func (b *BrowserClient) GetPageContent(ctx context.Context, url string) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.config.UserAgent),
	)...)
	defer cancel()

	// chromedp reports protocol noise through its error logger
	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithErrorf(b.logger.Debugf))
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.config.Timeout)
	defer cancel()

	var html string
	if err := chromedp.Run(browserCtx, pageActions(url, &html)); err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}

	b.logger.Debugf("Successfully retrieved page content from %s (%d bytes)", url, len(html))
	return html, nil
}
