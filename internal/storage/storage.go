package storage

import "positionScope/internal/model"

// SeriesRecord is one chart point tagged with its owner and series name
// for archival sinks.
type SeriesRecord struct {
	User    string               `json:"user"`
	Series  string               `json:"series"`
	CycleAt string               `json:"cycle_at"`
	Point   model.ChartDataPoint `json:"point"`
}

// Storage defines a sink for computed series points.
type Storage interface {
	PutSeriesBatch(records []SeriesRecord) error
}
