package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/matrixplot/pkg/cache"
	"github.com/matzehuels/matrixplot/pkg/errors"
	mio "github.com/matzehuels/matrixplot/pkg/io"
	"github.com/matzehuels/matrixplot/pkg/matrix"
	"github.com/matzehuels/matrixplot/pkg/observability"
	"github.com/matzehuels/matrixplot/pkg/plot"
)

// keyTypeRender labels render entries in cache hooks.
const keyTypeRender = "render"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Import reads the matrix document at path.
func (r *Runner) Import(ctx context.Context, path string) (*mio.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnImportStart(ctx, path)
	start := time.Now()

	doc, err := mio.ImportFile(path)
	rows, cols := 0, 0
	if err == nil {
		rows, cols = documentShape(doc)
	}
	hooks.OnImportComplete(ctx, path, rows, cols, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("imported document", "path", path, "rows", rows, "cols", cols, "dense", doc.Dense())
	return doc, nil
}

// Execute renders doc and returns the encoded image, consulting the cache
// first unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, doc *mio.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no document")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if err := opts.CheckSize(documentShape(doc)); err != nil {
		return nil, err
	}

	m, err := doc.Matrix()
	if err != nil {
		return nil, err
	}
	// Infinite values have no JSON form; such documents render uncached.
	docHash := ""
	if canonical, err := mio.Canonical(doc); err == nil {
		docHash = cache.Hash(canonical)
	}
	return r.run(ctx, m, docHash, opts)
}

// ExecuteMatrix is Execute for a matrix built in memory.
func (r *Runner) ExecuteMatrix(ctx context.Context, m matrix.Matrix, opts Options) (*Result, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "no matrix")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := opts.CheckSize(m.Rows(), m.Cols()); err != nil {
		return nil, err
	}
	// Infinite values have no JSON form; such matrices render uncached.
	docHash := ""
	if canonical, err := mio.Canonical(mio.NewDocument(m)); err == nil {
		docHash = cache.Hash(canonical)
	}
	return r.run(ctx, m, docHash, opts)
}

func (r *Runner) run(ctx context.Context, m matrix.Matrix, docHash string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height := plot.ImageSize(m.Rows(), m.Cols(), opts.Config)
	result := &Result{
		Format:       opts.Format,
		DocumentHash: docHash,
		Stats: Stats{
			Rows:   m.Rows(),
			Cols:   m.Cols(),
			Width:  width,
			Height: height,
		},
	}

	cacheable := docHash != ""
	key := r.Keyer.RenderKey(docHash, opts.KeyOpts())
	cacheHooks := observability.Cache()

	if cacheable && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			opts.Logger.Warn("cache lookup failed", "err", err)
		case hit:
			cacheHooks.OnCacheHit(ctx, keyTypeRender)
			result.Artifact = data
			result.Stats.Bytes = len(data)
			result.Extrema = plot.ComputeExtrema(m)
			result.CacheHit = true
			opts.Logger.Debug("cache hit", "key", key)
			return result, nil
		default:
			cacheHooks.OnCacheMiss(ctx, keyTypeRender)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, m.Rows(), m.Cols(), opts.Config.ScalingFactor)
	start := time.Now()
	img, ext, err := Render(m, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, width, height, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Extrema = ext

	opts.Logger.Info("rendered matrix",
		"rows", m.Rows(),
		"cols", m.Cols(),
		"width", width,
		"height", height,
		"duration", result.Stats.RenderTime)

	data, took, err := Encode(img, opts.Format)
	if err != nil {
		return nil, err
	}
	result.Artifact = data
	result.Stats.Bytes = len(data)
	result.Stats.EncodeTime = took

	if !cacheable {
		return result, nil
	}
	if err := r.Cache.Set(ctx, key, data, cache.RenderTTL); err != nil {
		opts.Logger.Warn("cache store failed", "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, keyTypeRender, len(data))
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func documentShape(doc *mio.Document) (rows, cols int) {
	if doc.Dense() {
		rows = len(doc.Data)
		if rows > 0 {
			cols = len(doc.Data[0])
		}
		return rows, cols
	}
	return doc.Rows, doc.Cols
}
