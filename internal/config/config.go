package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"product-extractor/internal/types"
)

// DefaultProductURL is the page extracted when no URL is supplied
const DefaultProductURL = "https://www.amazon.in/Psychology-Money-Morgan-Housel/dp/9390166268"

// AppConfig holds settings read from the environment (and .env, when present)
type AppConfig struct {
	ProductURL     string
	Site           string
	SelectorsFile  string
	CSVOutputPath  string
	XLSXOutputPath string
	SQLitePath     string
	PostgresDSN    string
	MySQLDSN       string
	APIPort        string
	LogLevel       string
}

// Load reads the .env file if present and returns the environment settings
// with their fallbacks applied.
func Load() *AppConfig {
	_ = godotenv.Load()

	return &AppConfig{
		ProductURL:     getEnv("PRODUCT_URL", DefaultProductURL),
		Site:           getEnv("PRODUCT_SITE", ""),
		SelectorsFile:  getEnv("SELECTORS_FILE", ""),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", ""),
		XLSXOutputPath: getEnv("XLSX_OUTPUT_PATH", ""),
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		MySQLDSN:       getEnv("MYSQL_DSN", ""),
		APIPort:        getEnv("API_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// SiteConfig describes a target site whose selectors come from a YAML file
type SiteConfig struct {
	Name        string           `yaml:"name"`
	DisplayName string           `yaml:"display_name"`
	Hosts       []string         `yaml:"hosts"`
	Fields      types.FieldRules `yaml:"fields"`
}

// LoadSiteConfig reads and validates a YAML site file.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config at '%s': %w", path, err)
	}
	return ParseSiteConfig(data)
}

// ParseSiteConfig decodes and validates YAML site configuration
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	var site SiteConfig
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse YAML site config: %w", err)
	}
	if site.DisplayName == "" {
		site.DisplayName = site.Name
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks that the site is named and every field has compilable selectors.
func (s *SiteConfig) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("site config: name is required")
	}

	fields := map[string]types.FieldRule{
		"title":        s.Fields.Title,
		"price":        s.Fields.Price,
		"rating":       s.Fields.Rating,
		"availability": s.Fields.Availability,
	}
	for name, rule := range fields {
		if len(rule.Selectors) == 0 {
			return fmt.Errorf("site config %s: field %s has no selectors", s.Name, name)
		}
		for _, selector := range rule.Selectors {
			if _, err := cascadia.Compile(selector); err != nil {
				return fmt.Errorf("site config %s: field %s: invalid selector %q: %w", s.Name, name, selector, err)
			}
		}
	}
	return nil
}
