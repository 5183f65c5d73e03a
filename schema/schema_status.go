package schema

// SourceStatus represents the status of a release source.
type SourceStatus struct {
	Backend       string           `json:"backend"`
	Database      string           `json:"database,omitempty"`
	Connected     bool             `json:"connected"`
	TotalReleases int              `json:"total_releases"`
	TotalSeries   int              `json:"total_series"`
	TableSizes    map[string]int64 `json:"table_sizes,omitempty"`
}

// ReleaseRecord is one release as stored in a dataset file.
type ReleaseRecord struct {
	Series  []Series       `json:"series"`
	Summary SummaryMetrics `json:"summary"`
}

// Dataset is the on-disk layout read by the file source.
type Dataset struct {
	Releases map[string]ReleaseRecord `json:"releases"`
}
