package schema

// Custom string types for type safety.
type (
	// WindowScope selects which canonical window table a caller resolves against.
	WindowScope string

	// SeriesKind tags a series as belonging to the primary or the comparison set.
	SeriesKind string

	// Metric names one field of a release summary.
	Metric string

	// Polarity is the verdict for a metric delta.
	Polarity string

	// Direction says which sign of change counts as an improvement.
	Direction string

	// OutputMode represents the format of the output.
	OutputMode string

	// SourceBackend represents where release data is read from.
	SourceBackend string
)

// All window scopes supported.
const (
	ShortWindow   WindowScope = "short" // default
	ReleaseWindow WindowScope = "release"
)

// All series kinds.
const (
	PrimaryKind    SeriesKind = "primary"
	ComparisonKind SeriesKind = "comparison"
)

// CompareSuffix is appended to comparison series names on the wire.
const CompareSuffix = "_compare"

// Known summary metrics.
const (
	KnownIssuesTotal       Metric = "known_issues_total"
	NewIssuesTotal         Metric = "new_issues_total"
	RegressionsTotal       Metric = "regressions_total"
	ResolvedInVersionTotal Metric = "resolved_in_version_total"
	UsersAffected          Metric = "users_affected"
)

// All polarity verdicts.
const (
	Improved  Polarity = "improved"
	Worsened  Polarity = "worsened"
	Unchanged Polarity = "unchanged"
)

// All metric directions.
const (
	NegativeIsGood Direction = "negative_is_good" // default
	PositiveIsGood Direction = "positive_is_good"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All source backends supported.
const (
	FileSource       SourceBackend = "file" // default
	SQLiteSource     SourceBackend = "sqlite"
	MySQLSource      SourceBackend = "mysql"
	PostgreSQLSource SourceBackend = "postgresql"
)

// KnownMetrics lists the fixed summary metrics in display order.
var KnownMetrics = []Metric{
	KnownIssuesTotal,
	NewIssuesTotal,
	RegressionsTotal,
	ResolvedInVersionTotal,
	UsersAffected,
}

// AllWindowScopes lists the window scopes in display order.
var AllWindowScopes = []WindowScope{ShortWindow, ReleaseWindow}

// ValidWindowScopes lists all valid window scopes.
var ValidWindowScopes = map[WindowScope]struct{}{
	ShortWindow:   {},
	ReleaseWindow: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSourceBackends lists all valid source backends.
var ValidSourceBackends = map[SourceBackend]struct{}{
	FileSource:       {},
	SQLiteSource:     {},
	MySQLSource:      {},
	PostgreSQLSource: {},
}

// IsSQL reports whether the backend is served by a database.
func (b SourceBackend) IsSQL() bool {
	return b == SQLiteSource || b == MySQLSource || b == PostgreSQLSource
}
