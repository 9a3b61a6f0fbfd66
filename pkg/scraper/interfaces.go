package scraper

import (
	"acc3scraper/pkg/browser"
	"acc3scraper/pkg/records"
)

// Navigator drives the rendering session through the paginated listing
type Navigator interface {
	Load(url string) error
	Content() (string, error)
	Advance() (browser.AdvanceResult, error)
}

// RecordExtractor parses one page's rendered content into records
type RecordExtractor interface {
	Extract(html string, page int) ([]*records.Record, error)
}

// Sink appends records durably to the output file
type Sink interface {
	Append(recs []*records.Record) error
}

// CheckpointStore persists the index of the last fully written page
type CheckpointStore interface {
	Load() (int, error)
	Save(page int) error
}
