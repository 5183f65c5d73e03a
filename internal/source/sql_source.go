package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Tables of the release read model.
const (
	seriesTable    = "relwatch_release_series"
	summariesTable = "relwatch_release_summaries"
)

// SQLSource reads releases from a migrated SQL database.
type SQLSource struct {
	db      *sql.DB
	backend schema.SourceBackend
	connStr string
}

var _ contract.ReleaseSource = &SQLSource{} // Compile-time check

// ErrSparseSeries is returned when stored buckets of a series are not contiguous from 0.
var ErrSparseSeries = errors.New("stored series has missing buckets")

// driverFor returns the database/sql driver name for a backend.
func driverFor(backend schema.SourceBackend) (string, error) {
	switch backend {
	case schema.SQLiteSource:
		return "sqlite", nil
	case schema.MySQLSource:
		return "mysql", nil
	case schema.PostgreSQLSource:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported source backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
}

// openDB opens and pings a database for the backend.
func openDB(backend schema.SourceBackend, connStr string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteSource && connStr == "" {
		connStr = contract.GetDBFilePath()
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteSource {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// NewSQLSource opens the database and migrates it to the latest schema.
func NewSQLSource(backend schema.SourceBackend, connStr string) (*SQLSource, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db, backend, -1, io.Discard); err != nil {
		_ = db.Close()
		return nil, err
	}
	if backend == schema.SQLiteSource && connStr == "" {
		connStr = contract.GetDBFilePath()
	}
	return &SQLSource{db: db, backend: backend, connStr: connStr}, nil
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(tableName string, backend schema.SourceBackend) string {
	if backend == schema.MySQLSource {
		return "`" + tableName + "`"
	}
	return `"` + tableName + `"`
}

// placeholder returns the nth bind parameter for the backend.
func (s *SQLSource) placeholder(n int) string {
	if s.backend == schema.PostgreSQLSource {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns a comma-separated list of count bind parameters.
func (s *SQLSource) placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = s.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// releaseExists reports whether any series or summary row belongs to release.
func (s *SQLSource) releaseExists(ctx context.Context, release string) (bool, error) {
	for _, table := range []string{seriesTable, summariesTable} {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE release_version = %s",
			quoteTableName(table, s.backend), s.placeholder(1))
		var count int
		if err := s.db.QueryRowContext(ctx, query, release).Scan(&count); err != nil {
			return false, fmt.Errorf("failed to look up release %s: %w", release, err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// FetchSeries implements the ReleaseSource interface.
func (s *SQLSource) FetchSeries(ctx context.Context, release string, bucket schema.BucketWidth) ([]schema.Series, error) {
	query := fmt.Sprintf(`SELECT series_name, interval_token, granularity, bucket_index, occurrences
		FROM %s WHERE release_version = %s
		ORDER BY series_position, series_name, granularity, bucket_index`,
		quoteTableName(seriesTable, s.backend), s.placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, release)
	if err != nil {
		return nil, fmt.Errorf("failed to query series for %s: %w", release, err)
	}
	defer func() { _ = rows.Close() }()

	type seriesKey struct{ name, granularity string }
	var series []schema.Series
	index := map[seriesKey]int{}
	for rows.Next() {
		var (
			name, interval, granularity string
			bucketIndex                 int
			occurrences                 int64
		)
		if err := rows.Scan(&name, &interval, &granularity, &bucketIndex, &occurrences); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		key := seriesKey{name, granularity}
		pos, ok := index[key]
		if !ok {
			pos = len(series)
			index[key] = pos
			series = append(series, schema.Series{
				Name:   name,
				Period: schema.Period{Interval: interval, Granularity: granularity},
			})
		}
		// Stored series are dense: bucket_index runs 0..n-1 without gaps.
		if bucketIndex != len(series[pos].Occurrences) {
			return nil, fmt.Errorf("%w: %s/%s in release %s at bucket %d",
				ErrSparseSeries, name, granularity, release, bucketIndex)
		}
		series[pos].Occurrences = append(series[pos].Occurrences, int(occurrences))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read series rows: %w", err)
	}

	if len(series) == 0 {
		exists, err := s.releaseExists(ctx, release)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, unknownRelease(release)
		}
		return []schema.Series{}, nil
	}
	return selectSeries(series, bucket), nil
}

// FetchSummary implements the ReleaseSource interface.
func (s *SQLSource) FetchSummary(ctx context.Context, release string) (schema.SummaryMetrics, error) {
	query := fmt.Sprintf("SELECT metric_name, metric_value FROM %s WHERE release_version = %s",
		quoteTableName(summariesTable, s.backend), s.placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, release)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary for %s: %w", release, err)
	}
	defer func() { _ = rows.Close() }()

	summary := schema.SummaryMetrics{}
	for rows.Next() {
		var (
			name  string
			value int64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary[schema.Metric(name)] = int(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary rows: %w", err)
	}

	if len(summary) == 0 {
		exists, err := s.releaseExists(ctx, release)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, unknownRelease(release)
		}
	}
	return summary, nil
}

// ListReleases implements the ReleaseSource interface.
func (s *SQLSource) ListReleases(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT release_version FROM %s UNION SELECT release_version FROM %s",
		quoteTableName(seriesTable, s.backend), quoteTableName(summariesTable, s.backend))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	releases := []string{}
	for rows.Next() {
		var release string
		if err := rows.Scan(&release); err != nil {
			return nil, fmt.Errorf("failed to scan release: %w", err)
		}
		releases = append(releases, release)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read releases: %w", err)
	}
	slices.Sort(releases)
	return releases, nil
}

// ImportDataset replaces the stored rows of every release in ds.
func (s *SQLSource) ImportDataset(ctx context.Context, ds schema.Dataset) (err error) {
	for release, rec := range ds.Releases {
		if err := schema.ValidateSeriesNames(rec.Series); err != nil {
			return fmt.Errorf("invalid release %s: %w", release, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	seriesQuoted := quoteTableName(seriesTable, s.backend)
	summariesQuoted := quoteTableName(summariesTable, s.backend)
	insertSeries := fmt.Sprintf(`INSERT INTO %s (release_version, series_name, series_position, interval_token, granularity, bucket_index, occurrences)
		VALUES (%s)`, seriesQuoted, s.placeholders(7))
	insertSummary := fmt.Sprintf(`INSERT INTO %s (release_version, metric_name, metric_value) VALUES (%s)`,
		summariesQuoted, s.placeholders(3))

	for _, release := range slices.Sorted(maps.Keys(ds.Releases)) {
		rec := ds.Releases[release]
		for _, table := range []string{seriesQuoted, summariesQuoted} {
			del := fmt.Sprintf("DELETE FROM %s WHERE release_version = %s", table, s.placeholder(1))
			if _, err = tx.ExecContext(ctx, del, release); err != nil {
				return fmt.Errorf("failed to clear release %s: %w", release, err)
			}
		}
		for position, series := range dedupeSeries(rec.Series) {
			for bucketIndex, count := range series.Occurrences {
				if _, err = tx.ExecContext(ctx, insertSeries, release, series.Name, position,
					series.Period.Interval, series.Period.Granularity, bucketIndex, int64(count)); err != nil {
					return fmt.Errorf("failed to insert series %s for %s: %w", series.Name, release, err)
				}
			}
		}
		for metric, value := range rec.Summary {
			if _, err = tx.ExecContext(ctx, insertSummary, release, string(metric), int64(value)); err != nil {
				return fmt.Errorf("failed to insert metric %s for %s: %w", metric, release, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// dedupeSeries keeps one series per name and granularity. A later series
// replaces an earlier one at the earlier position.
func dedupeSeries(series []schema.Series) []schema.Series {
	type seriesKey struct{ name, granularity string }
	index := map[seriesKey]int{}
	out := make([]schema.Series, 0, len(series))
	for _, s := range series {
		key := seriesKey{s.Name, s.Period.Granularity}
		if pos, ok := index[key]; ok {
			out[pos] = s
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}

// databaseName extracts the database name from the connection string.
func (s *SQLSource) databaseName() string {
	switch s.backend {
	case schema.MySQLSource:
		if cfg, err := mysql.ParseDSN(s.connStr); err == nil {
			return cfg.DBName
		}
	case schema.PostgreSQLSource:
		if cfg, err := pgx.ParseConfig(s.connStr); err == nil {
			return cfg.Database
		}
	default:
		return s.connStr
	}
	return ""
}

// GetStatus implements the ReleaseSource interface.
func (s *SQLSource) GetStatus() (schema.SourceStatus, error) {
	status := schema.SourceStatus{
		Backend:    string(s.backend),
		Database:   s.databaseName(),
		Connected:  s.db != nil,
		TableSizes: map[string]int64{},
	}
	if s.db == nil {
		return status, nil
	}

	ctx := context.Background()
	for _, table := range []string{seriesTable, summariesTable} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	releases, err := s.ListReleases(ctx)
	if err != nil {
		return status, err
	}
	status.TotalReleases = len(releases)

	seriesQuery := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT DISTINCT release_version, series_name, granularity FROM %s) t",
		quoteTableName(seriesTable, s.backend))
	if err := s.db.QueryRowContext(ctx, seriesQuery).Scan(&status.TotalSeries); err != nil {
		return status, fmt.Errorf("failed to count series: %w", err)
	}
	return status, nil
}

// Close implements the ReleaseSource interface.
func (s *SQLSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
