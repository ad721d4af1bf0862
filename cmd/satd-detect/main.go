// Command satd-detect classifies source comments as self-admitted technical debt
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"satd/internal/adapters/artifacts"
	"satd/internal/platform/config"
	"satd/internal/platform/logger"
	str "satd/internal/platform/strings"

	"satd/internal/services/classify/domain"
	"satd/internal/services/classify/service"
)

func main() {
	var (
		manifest  = flag.String("manifest", "", "model manifest (default $SATD_MANIFEST)")
		file      = flag.String("file", "", "read one comment per line; - reads stdin")
		workers   = flag.Int("workers", 0, "concurrent classifications (default $SATD_WORKERS or 1)")
		cacheSize = flag.Int("cache-size", -1, "embedding cache entries, 0 = unbounded (default $SATD_CACHE_SIZE)")
		envFile   = flag.String("env", ".env", "dotenv file loaded before reading config")
		jsonOut   = flag.Bool("json", false, "write one JSON result per line to stdout")
	)
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Get().Fatal().Err(err).Str("file", *envFile).Msg("load env file")
	}
	l := logger.Named("satd-detect")

	root := config.New()
	opt := artifacts.FromConfig(root)
	if *manifest != "" {
		opt.Manifest = *manifest
	}
	if *cacheSize >= 0 {
		opt.CacheSize = *cacheSize
	}
	w := *workers
	if w <= 0 {
		w = root.Prefix("SATD_").MayInt("WORKERS", 1)
	}

	comments, err := collect(flag.Args(), *file)
	if err != nil {
		l.Fatal().Err(err).Str("file", *file).Msg("read comments")
	}
	if len(comments) == 0 {
		l.Info().Int("count", len(samples)).Msg("no input given; classifying built-in samples")
		comments = samples
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := artifacts.Open(ctx, opt)
	if err != nil {
		l.Fatal().Err(err).Str("manifest", opt.Manifest).Msg("load detector")
	}

	code := run(ctx, b, comments, w, *jsonOut, l)
	b.Close()
	os.Exit(code)
}

func run(ctx context.Context, b *artifacts.Bundle, comments []string, workers int, jsonOut bool, l *logger.Logger) int {
	svc := service.New(b.Detector, service.Config{Workers: workers})
	out, err := svc.ClassifyBatch(ctx, domain.BatchIn{Comments: comments})
	if err != nil {
		l.Error().Err(err).Msg("classification failed")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	for _, r := range out.Results {
		if jsonOut {
			if err := enc.Encode(r); err != nil {
				l.Error().Err(err).Msg("write result")
				return 1
			}
			continue
		}
		l.Info().Str("text", r.Comment).Str("label", r.Label).Msg("prediction")
	}

	st := b.Detector.Stats()
	l.Info().
		Interface("counts", out.Counts).
		Uint64("cache_hits", st.Hits).
		Uint64("cache_misses", st.Misses).
		Msg("done")
	return 0
}

// collect returns positional comments plus the non-blank lines of file
func collect(args []string, file string) ([]string, error) {
	comments := str.NonBlank(args)
	if file == "" {
		return comments, nil
	}

	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return append(comments, str.NonBlank(lines)...), nil
}
