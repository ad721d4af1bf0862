// Package artifacts opens everything a detector needs from one manifest: the vector
// table (file or Postgres), the ONNX model and the pipeline that joins them
package artifacts

import (
	"context"
	"io"
	"time"

	"satd/internal/adapters/model/onnx"
	"satd/internal/adapters/vectors/pgvec"
	"satd/internal/adapters/vectors/vecfile"
	"satd/internal/core/classifier"
	"satd/internal/core/detector"
	"satd/internal/core/embedding"
	"satd/internal/core/manifest"
	"satd/internal/platform/config"
	perr "satd/internal/platform/errors"
	"satd/internal/platform/logger"
	"satd/internal/platform/store/pg"
)

// Options locate the artifacts. Empty paths fall back to the manifest
type Options struct {
	Manifest    string
	VectorsPath string
	ModelPath   string
	// CacheSize bounds the embedding cache; 0 is unbounded
	CacheSize      int
	ONNXLibrary    string
	IntraOpThreads int

	// PG is used only when the manifest names a vectors table
	PG     pg.Config
	LogSQL bool
}

// FromConfig reads SATD_* and SERVICE_PGSQL_* keys
func FromConfig(root config.Conf) Options {
	sc := root.Prefix("SATD_")
	pc := root.Prefix("SERVICE_PGSQL_")
	return Options{
		Manifest:       sc.MayString("MANIFEST", "model/manifest.yaml"),
		VectorsPath:    sc.MayString("VECTORS", ""),
		ModelPath:      sc.MayString("MODEL", ""),
		CacheSize:      sc.MayInt("CACHE_SIZE", 0),
		ONNXLibrary:    sc.MayString("ONNX_LIBRARY", ""),
		IntraOpThreads: sc.MayInt("ONNX_THREADS", 0),
		PG: pg.Config{
			URL:      pc.MayString("DBURL", ""),
			MaxConns: int32(pc.MayInt("MAX_CONNS", 4)),
			SlowMs:   pc.MayInt("SLOW_MS", 500),
			AppName:  "satd",
		},
		LogSQL: pc.MayBool("LOG_SQL", false),
	}
}

// Bundle owns the opened handles. Close releases them
type Bundle struct {
	Manifest *manifest.Manifest
	Detector *detector.Detector
	Model    classifier.Model
	PG       *pg.PG

	closers []io.Closer
}

// model seam for tests; the ONNX session needs the native runtime
var openModel = func(cfg onnx.Config) (classifier.Model, io.Closer, error) {
	m, err := onnx.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return m, m, nil
}

// Open loads the manifest, then vectors, then the model, and builds the detector.
// Any failure releases what was already opened
func Open(ctx context.Context, opt Options) (_ *Bundle, err error) {
	log := logger.Named("artifacts")
	start := time.Now()

	man, err := manifest.Load(opt.Manifest)
	if err != nil {
		return nil, err
	}
	b := &Bundle{Manifest: man}
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	space, err := b.openVectors(ctx, opt)
	if err != nil {
		return nil, err
	}

	modelPath := opt.ModelPath
	if modelPath == "" {
		modelPath = man.ModelPath()
	}
	model, closer, err := openModel(onnx.Config{
		Path:           modelPath,
		Library:        opt.ONNXLibrary,
		InputName:      man.Model.InputName,
		OutputName:     man.Model.OutputName,
		Length:         man.SequenceLength,
		Dim:            man.EmbeddingDim,
		Classes:        len(man.Labels),
		IntraOpThreads: opt.IntraOpThreads,
	})
	if err != nil {
		return nil, err
	}
	b.Model = model
	if closer != nil {
		b.closers = append(b.closers, closer)
	}

	cache, err := embedding.CacheFor(opt.CacheSize)
	if err != nil {
		return nil, err
	}
	b.Detector, err = detector.New(detector.Config{
		SequenceLength: man.SequenceLength,
		PadToken:       man.PadToken,
		Labels:         man.Labels,
		Space:          space,
		Cache:          cache,
		Model:          model,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("manifest", opt.Manifest).
		Int("sequence_length", man.SequenceLength).
		Int("embedding_dim", man.EmbeddingDim).
		Strs("labels", man.Labels).
		Int("cache_size", opt.CacheSize).
		Dur("took", time.Since(start)).
		Msg("detector ready")
	return b, nil
}

func (b *Bundle) openVectors(ctx context.Context, opt Options) (*embedding.Table, error) {
	man := b.Manifest
	path := opt.VectorsPath
	if path == "" && man.Vectors.Table == "" {
		path = man.VectorsPath()
	}
	if path != "" {
		return vecfile.Open(path, vecfile.Options{Dim: man.EmbeddingDim, Skip: man.Vectors.Skip})
	}
	if man.Vectors.Table == "" {
		return nil, perr.WithField(perr.ConfigMismatchf("manifest names neither a vectors path nor a table"), "vectors")
	}
	if opt.PG.URL == "" {
		return nil, perr.WithField(perr.ConfigMismatchf("vectors table %q needs SERVICE_PGSQL_DBURL", man.Vectors.Table), "vectors.table")
	}

	var tracer pg.QueryTracer
	if opt.LogSQL {
		tracer = pg.Tracer(*logger.Get())
	}
	db, err := pg.Open(ctx, opt.PG, tracer, pgvec.RegisterTypes)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "open vectors database")
	}
	b.PG = db
	if err := db.Ready(ctx, 5); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "vectors database not ready")
	}
	return pgvec.Load(ctx, db, pgvec.Options{Table: man.Vectors.Table, Dim: man.EmbeddingDim, Skip: man.Vectors.Skip})
}

// Close releases the model and the database pool. Safe on a nil or partial bundle
func (b *Bundle) Close() {
	if b == nil {
		return
	}
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			logger.Named("artifacts").Warn().Err(err).Msg("close failed")
		}
	}
	b.closers = nil
	if b.PG != nil {
		b.PG.Close()
		b.PG = nil
	}
}
