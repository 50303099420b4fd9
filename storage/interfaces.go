package storage

import "product-extractor/internal/types"

// RecordWriter is the interface any storage backend must satisfy.
type RecordWriter interface {
	Write(results []*types.ExtractionResult) error
	Close() error
}
