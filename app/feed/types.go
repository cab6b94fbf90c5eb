package feed

import (
	"time"
)

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	PublishedAt *time.Time
	Categories  []string

	IsFiltered   bool
	FilterReason string
}

// Filter hides items whose field matches an exclude or misses every include.
// Matching is a case-insensitive substring test.
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
