package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// ErrNoDataset is returned when the file source has no dataset path.
var ErrNoDataset = errors.New("dataset path is required for the file source (use --dataset)")

// FileSource serves releases from a JSON dataset loaded into memory.
type FileSource struct {
	path    string
	dataset schema.Dataset
}

var _ contract.ReleaseSource = &FileSource{} // Compile-time check

// LoadDataset reads and decodes a dataset file.
func LoadDataset(path string) (schema.Dataset, error) {
	if path == "" {
		return schema.Dataset{}, ErrNoDataset
	}
	f, err := os.Open(path)
	if err != nil {
		return schema.Dataset{}, fmt.Errorf("failed to open dataset %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return DecodeDataset(f)
}

// DecodeDataset decodes a dataset from r.
func DecodeDataset(r io.Reader) (schema.Dataset, error) {
	var ds schema.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return schema.Dataset{}, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if ds.Releases == nil {
		ds.Releases = map[string]schema.ReleaseRecord{}
	}
	for version, rec := range ds.Releases {
		if err := schema.ValidateSeriesNames(rec.Series); err != nil {
			return schema.Dataset{}, fmt.Errorf("invalid release %s: %w", version, err)
		}
	}
	return ds, nil
}

// NewFileSource loads the dataset at path.
func NewFileSource(path string) (*FileSource, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, dataset: ds}, nil
}

// NewDatasetSource serves an in-memory dataset.
func NewDatasetSource(ds schema.Dataset) *FileSource {
	if ds.Releases == nil {
		ds.Releases = map[string]schema.ReleaseRecord{}
	}
	return &FileSource{dataset: ds}
}

// FetchSeries implements the ReleaseSource interface.
func (fs *FileSource) FetchSeries(ctx context.Context, release string, bucket schema.BucketWidth) ([]schema.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := fs.dataset.Releases[release]
	if !ok {
		return nil, unknownRelease(release)
	}
	return cloneSeries(selectSeries(rec.Series, bucket)), nil
}

// FetchSummary implements the ReleaseSource interface.
func (fs *FileSource) FetchSummary(ctx context.Context, release string) (schema.SummaryMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := fs.dataset.Releases[release]
	if !ok {
		return nil, unknownRelease(release)
	}
	return maps.Clone(rec.Summary), nil
}

// ListReleases implements the ReleaseSource interface.
func (fs *FileSource) ListReleases(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(fs.dataset.Releases)), nil
}

// GetStatus implements the ReleaseSource interface.
func (fs *FileSource) GetStatus() (schema.SourceStatus, error) {
	status := schema.SourceStatus{
		Backend:       string(schema.FileSource),
		Database:      fs.path,
		Connected:     true,
		TotalReleases: len(fs.dataset.Releases),
	}
	for _, rec := range fs.dataset.Releases {
		status.TotalSeries += len(rec.Series)
	}
	return status, nil
}

// Dataset returns the loaded dataset.
func (fs *FileSource) Dataset() schema.Dataset {
	return fs.dataset
}

// Close implements the ReleaseSource interface.
func (fs *FileSource) Close() error {
	return nil
}
