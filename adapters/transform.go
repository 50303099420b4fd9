package adapters

import (
	"fmt"
	"strings"
)

// Transform names accepted in field rules
const (
	TransformNone       = ""
	TransformCollapse   = "collapse"
	TransformStarRating = "star-rating"
)

var starWords = map[string]int{
	"One":   1,
	"Two":   2,
	"Three": 3,
	"Four":  4,
	"Five":  5,
}

// KnownTransform reports whether name is a transform ApplyTransform understands
func KnownTransform(name string) bool {
	switch name {
	case TransformNone, TransformCollapse, TransformStarRating:
		return true
	}
	return false
}

// ApplyTransform rewrites a raw field value. An empty result reports false so the
// caller can fall through to the next selector or the default.
func ApplyTransform(name string, value string) (string, bool) {
	switch name {
	case TransformCollapse:
		value = strings.Join(strings.Fields(value), " ")
	case TransformStarRating:
		value = starRating(value)
	}
	return value, value != ""
}

// starRating turns a class list such as "star-rating Three" into "3 out of 5 stars".
func starRating(classes string) string {
	for _, class := range strings.Fields(classes) {
		if n, ok := starWords[class]; ok {
			return fmt.Sprintf("%d out of 5 stars", n)
		}
	}
	return ""
}
