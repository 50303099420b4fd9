package extractor

import (
	"fmt"
	"io"

	"product-extractor/internal/types"
)

// WriteReport prints the human readable block for one extracted record
func WriteReport(w io.Writer, site string, record types.ProductRecord) error {
	_, err := fmt.Fprintf(w,
		"📚 Book Details Extracted from %s:\nTitle: %s\nPrice: %s\nRating: %s\nAvailability: %s\n",
		site, record.Title, record.Price, record.Rating, record.Availability)
	return err
}
