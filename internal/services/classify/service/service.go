// Package service implements the classify service
package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	perr "satd/internal/platform/errors"
	"satd/internal/platform/logger"
	str "satd/internal/platform/strings"
	"satd/internal/services/classify/domain"
)

// Config for the classify service
type Config struct {
	// Workers bounds concurrent classifications within one batch
	Workers int
}

// Service implements domain.ClassifierPort
type Service struct {
	Det domain.DetectorPort
	Cfg Config
}

// New constructs a classify service
func New(det domain.DetectorPort, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{Det: det, Cfg: cfg}
}

// Classify labels one comment
func (s *Service) Classify(ctx context.Context, in domain.ClassifyIn) (domain.Output, error) {
	out, err := s.one(in.Comment)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("classify failed")
		return domain.Output{}, err
	}
	logger.C(ctx).Info().
		Str("text", str.Truncate(in.Comment, 80)).
		Str("label", out.Label).
		Int("tokens", len(out.Tokens)).
		Int("truncated", out.Truncated).
		Msg("comment classified")
	return out, nil
}

// ClassifyBatch labels every comment over a bounded worker pool. Results keep input
// order; the first runtime fault fails the batch
func (s *Service) ClassifyBatch(ctx context.Context, in domain.BatchIn) (domain.BatchOutput, error) {
	batchID := uuid.NewString()
	ctx = logger.WithBatch(ctx, batchID)
	log := logger.C(ctx)

	out := make([]domain.Output, len(in.Comments))
	errs := make([]error, len(in.Comments))

	sem := make(chan struct{}, s.Cfg.Workers)
	wg := sync.WaitGroup{}

	for i := range in.Comments {
		if err := ctx.Err(); err != nil {
			errs[i] = perr.Wrap(err, perr.ErrorCodeUnavailable, "batch cancelled")
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			out[i], errs[i] = s.one(in.Comments[i])
		}(i)
	}
	wg.Wait()

	counts := map[string]int{}
	for i := range out {
		if errs[i] != nil {
			log.Error().Err(errs[i]).Int("item", i).Msg("batch failed")
			return domain.BatchOutput{}, errs[i]
		}
		counts[out[i].Label]++
		log.Debug().
			Int("item", i).
			Str("text", str.Truncate(out[i].Comment, 80)).
			Str("label", out[i].Label).
			Int("truncated", out[i].Truncated).
			Msg("comment classified")
	}

	log.Info().
		Int("comments", len(out)).
		Interface("counts", counts).
		Int("workers", s.Cfg.Workers).
		Msg("batch classified")

	return domain.BatchOutput{BatchID: batchID, Results: out, Counts: counts}, nil
}

func (s *Service) one(comment string) (domain.Output, error) {
	res, err := s.Det.Classify(comment)
	if err != nil {
		return domain.Output{}, err
	}
	return domain.Output{
		Comment:   comment,
		Label:     res.Label,
		Index:     res.Index,
		Scores:    res.Scores,
		Tokens:    res.Tokens,
		Truncated: res.Truncated,
	}, nil
}
