package types

import "time"

// Default field values used when a selector does not resolve.
const (
	DefaultTitle        = "Title not found"
	DefaultPrice        = "Price not found"
	DefaultRating       = "Rating not found"
	DefaultAvailability = "Availability not found"
)

// ProductRecord represents the fields extracted from a single product page.
// Every field is always populated, falling back to its default.
type ProductRecord struct {
	Title        string `json:"title"`
	Price        string `json:"price"`
	Rating       string `json:"rating"`
	Availability string `json:"availability"`
}

// DefaultProductRecord returns the record produced when nothing on the page matched
func DefaultProductRecord() ProductRecord {
	return ProductRecord{
		Title:        DefaultTitle,
		Price:        DefaultPrice,
		Rating:       DefaultRating,
		Availability: DefaultAvailability,
	}
}

// ExtractionResult represents the outcome of extracting one product URL
type ExtractionResult struct {
	URL         string        `json:"url"`
	Site        string        `json:"site"`
	Product     ProductRecord `json:"product"`
	ExtractedAt time.Time     `json:"extracted_at"`
}

// Config holds the configuration for the extractor
type Config struct {
	RequestDelay       time.Duration
	MaxRetries         int
	Timeout            time.Duration
	UseHeadlessBrowser bool
	UserAgent          string
	AcceptLanguage     string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RequestDelay:       1 * time.Second,
		MaxRetries:         0,
		Timeout:            30 * time.Second,
		UseHeadlessBrowser: false,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		AcceptLanguage:     "en-US,en;q=0.5",
	}
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// FieldRule describes how one field is located on a page. Selectors are tried
// in order; the first node of the first selector that yields text wins.
type FieldRule struct {
	Selectors []string `yaml:"selectors" json:"selectors"`
	Attribute string   `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Transform string   `yaml:"transform,omitempty" json:"transform,omitempty"`
}

// FieldRules holds the rule for every field of a ProductRecord
type FieldRules struct {
	Title        FieldRule `yaml:"title" json:"title"`
	Price        FieldRule `yaml:"price" json:"price"`
	Rating       FieldRule `yaml:"rating" json:"rating"`
	Availability FieldRule `yaml:"availability" json:"availability"`
}
