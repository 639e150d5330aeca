package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"perfume-dashboard/metrics"
	"perfume-dashboard/models"
	"perfume-dashboard/storage"
	"perfume-dashboard/utils"
)

// LoadErrorKind classifies fatal dataset load failures.
type LoadErrorKind string

const (
	// SourceMissing means a source was absent or could not be read.
	SourceMissing LoadErrorKind = "SourceMissing"
	// SchemaInvalid means a source was readable but not a CSV with the
	// expected columns.
	SchemaInvalid LoadErrorKind = "SchemaInvalid"
)

var (
	ErrSourceMissing = errors.New("source missing")
	ErrSchemaInvalid = errors.New("schema invalid")
)

// LoadError is returned by Loader.Load. Any LoadError is fatal for the session.
type LoadError struct {
	Kind     LoadErrorKind
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Location, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() []error {
	kind := ErrSourceMissing
	if e.Kind == SchemaInvalid {
		kind = ErrSchemaInvalid
	}
	return []error{kind, e.Err}
}

func newLoadError(location string, err error) *LoadError {
	kind := SourceMissing
	if errors.Is(err, storage.ErrSchema) {
		kind = SchemaInvalid
	}
	return &LoadError{Kind: kind, Location: location, Err: err}
}

// DatasetCache memoizes normalized datasets by source signature. It is safe
// for concurrent use and never evicts: sources are static for the process.
type DatasetCache struct {
	mu      sync.Mutex
	entries map[string]*models.Dataset
}

func NewDatasetCache() *DatasetCache {
	return &DatasetCache{entries: make(map[string]*models.Dataset)}
}

func (c *DatasetCache) Get(key string) (*models.Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ds, ok := c.entries[key]
	return ds, ok
}

func (c *DatasetCache) Put(key string, ds *models.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ds
}

// Len returns the number of cached datasets.
func (c *DatasetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Loader builds the unified, normalized table from the male and female sources.
type Loader struct {
	cache       *DatasetCache
	cleaner     *Cleaner
	logger      *utils.Logger
	metrics     *metrics.Metrics
	concurrency int
}

// NewLoader wires a Loader. cache must not be nil; m may be nil.
func NewLoader(cache *DatasetCache, logger *utils.Logger, m *metrics.Metrics, concurrency int) *Loader {
	return &Loader{
		cache:       cache,
		cleaner:     NewCleaner(logger, m),
		logger:      logger,
		metrics:     m,
		concurrency: concurrency,
	}
}

type sourceResult struct {
	rows []*models.RawListing
	err  error
}

// Load returns the dataset for the two sources, reading them only when their
// combined signature is not cached. Male rows come first, each source keeps
// its row order. Failure of either source fails the whole load.
func (l *Loader) Load(ctx context.Context, male, female storage.Source) (*models.Dataset, error) {
	start := time.Now()
	sources := []storage.Source{male, female}
	categories := []models.Category{models.CategoryMale, models.CategoryFemale}

	sigs := make([]string, len(sources))
	for i, src := range sources {
		sig, err := src.Signature(ctx)
		if err != nil {
			l.metrics.ObserveLoad(metrics.LoadFailed)
			return nil, newLoadError(src.Location(), err)
		}
		sigs[i] = sig
	}
	key := sigs[0] + "||" + sigs[1]

	if ds, ok := l.cache.Get(key); ok {
		l.metrics.ObserveLoad(metrics.LoadCached)
		l.logger.Debug("[loader] Cache hit for %s + %s", male.Location(), female.Location())
		return ds, nil
	}

	results := make([]sourceResult, len(sources))
	pool := utils.NewWorkerPool(l.concurrency, 0)
	for i := range sources {
		i := i
		pool.Submit(func() {
			results[i] = readSource(ctx, sources[i], categories[i])
		})
	}
	pool.Wait()

	var raw []*models.RawListing
	for i, res := range results {
		if res.err != nil {
			l.metrics.ObserveLoad(metrics.LoadFailed)
			return nil, newLoadError(sources[i].Location(), res.err)
		}
		raw = append(raw, res.rows...)
	}

	ds := &models.Dataset{
		Signature:  key,
		Listings:   l.cleaner.Clean(raw),
		MaleRows:   len(results[0].rows),
		FemaleRows: len(results[1].rows),
	}
	l.cache.Put(key, ds)

	l.metrics.ObserveLoad(metrics.LoadRead)
	l.metrics.SetListings(string(models.CategoryMale), ds.MaleRows)
	l.metrics.SetListings(string(models.CategoryFemale), ds.FemaleRows)
	l.logger.Info("[loader] Loaded %d listings (male: %d, female: %d) in %v",
		ds.Len(), ds.MaleRows, ds.FemaleRows, time.Since(start).Round(time.Millisecond))
	return ds, nil
}

func readSource(ctx context.Context, src storage.Source, category models.Category) sourceResult {
	rc, err := src.Open(ctx)
	if err != nil {
		return sourceResult{err: err}
	}
	defer rc.Close()

	rows, err := storage.ReadListings(rc, category)
	return sourceResult{rows: rows, err: err}
}
