package models

import (
	"image"
	"time"
)

// BatchSize is the number of product cells on one flyer page
const BatchSize = 6

// Batch is an ordered run of 1-6 records sharing one group key
type Batch struct {
	GroupKey string          `json:"groupKey"`
	Slug     string          `json:"slug"`     // file-name form of GroupKey, unique within a plan
	Sequence int             `json:"sequence"` // 1-based within the group
	Records  []ProductRecord `json:"records"`
}

// GroupPlan holds every batch of one group in sequence order
type GroupPlan struct {
	GroupKey string  `json:"groupKey"`
	Slug     string  `json:"slug"`
	Batches  []Batch `json:"batches"`
}

// FlyerPage is one rendered and persisted flyer image
type FlyerPage struct {
	GroupKey string      `json:"groupKey"`
	Slug     string      `json:"slug"`
	Sequence int         `json:"sequence"`
	FileName string      `json:"fileName"`
	Path     string      `json:"path"`
	URL      string      `json:"url"`
	Rows     []int       `json:"rows"`
	Image    image.Image `json:"-"`
}

// Document is the multi-page bundle of one group's flyer pages
type Document struct {
	GroupKey  string `json:"groupKey"`
	FileName  string `json:"fileName"`
	Path      string `json:"path"`
	URL       string `json:"url"`
	PageCount int    `json:"pageCount"`
}

// GroupFailure records a group that could not be completed
type GroupFailure struct {
	GroupKey string `json:"groupKey"`
	Error    string `json:"error"`
}

// RunResult is everything a full run hands to the result sinks.
// Links is indexed by original row position; rows without a flyer hold "".
type RunResult struct {
	RunID      string         `json:"runId"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Links      []string       `json:"links"`
	Pages      []FlyerPage    `json:"pages"`
	Documents  []Document     `json:"documents"`
	Failures   []GroupFailure `json:"failures,omitempty"`
}

// RunSummary is the stored view of a past run
type RunSummary struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	PageCount  int       `json:"pageCount"`
	LinkCount  int       `json:"linkCount"`
	Failures   int       `json:"failures"`
}

// RowLink is the stored flyer URL of one source row
type RowLink struct {
	Row int    `json:"row"`
	URL string `json:"url"`
}
