package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"product-extractor/adapters"
	"product-extractor/internal/config"
	"product-extractor/internal/types"
)

// Prints, for every field selector of the chosen adapter, how many nodes match on
// a live page and what the first match yields. Useful when a site changes layout.
func main() {
	appCfg := config.Load()

	urlFlag := flag.String("url", appCfg.ProductURL, "Product page URL to inspect")
	siteFlag := flag.String("site", appCfg.Site, "Force a site adapter")
	browserFlag := flag.Bool("browser", false, "Render the page with a headless browser")
	flag.Parse()

	cfg := types.DefaultConfig()
	cfg.UseHeadlessBrowser = *browserFlag

	logger := &debugLogger{}
	registry := adapters.NewDefaultRegistry(cfg, logger)
	defer registry.Close()

	adapter, err := registry.ForURL(*urlFlag)
	if err != nil {
		log.Fatalf("Invalid URL: %v", err)
	}
	if *siteFlag != "" {
		if adapter, err = registry.ByName(*siteFlag); err != nil {
			log.Fatalf("Unknown site: %v", err)
		}
	}

	fmt.Printf("=== Probing %s with the %s adapter ===\n", *urlFlag, adapter.Name())
	doc, err := adapter.FetchDocument(context.Background(), *urlFlag)
	if err != nil {
		log.Fatalf("Failed to fetch page: %v", err)
	}

	rules := adapter.Rules()
	inspectField(doc, "title", rules.Title)
	inspectField(doc, "price", rules.Price)
	inspectField(doc, "rating", rules.Rating)
	inspectField(doc, "availability", rules.Availability)
}

func inspectField(doc *goquery.Document, field string, rule types.FieldRule) {
	fmt.Printf("\n%s:\n", field)
	for i, selector := range rule.Selectors {
		matches := doc.Find(selector).Length()
		value, ok := adapters.ResolveRule(doc.Selection, selector, rule)
		if !ok {
			value = "<no value>"
		}
		if runes := []rune(value); len(runes) > 80 {
			value = string(runes[:80]) + "..."
		}
		fmt.Printf("  %d: %-40s matches=%d value=%q\n", i+1, selector, matches, strings.TrimSpace(value))
	}
}

type debugLogger struct{}

func (d *debugLogger) Debug(args ...interface{})                 { fmt.Println(args...) }
func (d *debugLogger) Info(args ...interface{})                  { fmt.Println(args...) }
func (d *debugLogger) Warn(args ...interface{})                  { fmt.Println(args...) }
func (d *debugLogger) Error(args ...interface{})                 { fmt.Println(args...) }
func (d *debugLogger) Debugf(format string, args ...interface{}) { fmt.Printf(format+"\n", args...) }
func (d *debugLogger) Infof(format string, args ...interface{})  { fmt.Printf(format+"\n", args...) }
func (d *debugLogger) Warnf(format string, args ...interface{})  { fmt.Printf(format+"\n", args...) }
func (d *debugLogger) Errorf(format string, args ...interface{}) { fmt.Printf(format+"\n", args...) }
