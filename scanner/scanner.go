// Package scanner runs a batch of slips through verification, the vision
// model and local text extraction.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aqlanhadi/slipscan/extractor"
	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/integrations/gemini"
	"github.com/aqlanhadi/slipscan/integrations/slipok"
	"github.com/aqlanhadi/slipscan/logger"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var ErrNoExtractor = errors.New("no extractor could read the item")

type Verifier interface {
	Verify(ctx context.Context, qr string) (common.Fields, error)
	Quota(ctx context.Context) (int, error)
}

type Vision interface {
	ExtractImage(ctx context.Context, img []byte, mimeType string) (common.Fields, error)
}

type Config struct {
	Concurrency int
	Pacing      time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Concurrency: 2,
		Pacing:      4 * time.Second,
		MaxRetries:  3,
		RetryDelay:  2 * time.Second,
	}
}

// Result is one processed item.
type Result struct {
	ItemID string `json:"itemId"`
	extractor.Result
}

type Report struct {
	Results []Result
	// Skipped counts items already in the seen ledger before the batch.
	Skipped int
	// Failed holds the last error of every item still unprocessed after
	// all rounds.
	Failed map[string]error
	Rounds int
}

type Scanner struct {
	registry *extractor.Registry
	verifier Verifier
	vision   Vision
	seen     *Seen
	cfg      Config
}

// New creates a scanner. verifier and vision may be nil; items then fall
// through to local text extraction.
func New(registry *extractor.Registry, verifier Verifier, vision Vision, seen *Seen, cfg Config) *Scanner {
	if registry == nil {
		registry = extractor.DefaultRegistry()
	}
	if seen == nil {
		seen = NewSeen()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Scanner{registry: registry, verifier: verifier, vision: vision, seen: seen, cfg: cfg}
}

// CheckQuota asks the verifier for its remaining quota. Failures are logged
// and treated as an empty quota.
func (s *Scanner) CheckQuota(ctx context.Context) *Quota {
	if s.verifier == nil {
		return NewQuota(0)
	}
	n, err := s.verifier.Quota(ctx)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("quota check failed, assuming none")
		return NewQuota(0)
	}
	return NewQuota(n)
}

// Batch processes items in rounds. Items that fail are retried in later
// rounds, up to MaxRetries, with the quota left over from earlier rounds.
// A nil quota is checked once with the verifier.
func (s *Scanner) Batch(ctx context.Context, items []Item, quota *Quota) (*Report, error) {
	log := logger.FromContext(ctx)
	if quota == nil {
		quota = s.CheckQuota(ctx)
	}
	log.Info().Int("items", len(items)).Int("quota", quota.Remaining()).Msg("starting batch")

	report := &Report{Failed: map[string]error{}}
	var pending []Item
	for _, it := range items {
		if s.seen.Has(it) {
			report.Skipped++
			continue
		}
		pending = append(pending, it)
	}

	var mu sync.Mutex
	for round := 0; len(pending) > 0; round++ {
		if round > 0 {
			log.Info().Int("remaining", len(pending)).Int("round", round).Msg("retrying unprocessed items")
			if err := sleep(ctx, s.cfg.RetryDelay); err != nil {
				return report, err
			}
		}
		report.Rounds++

		if err := s.round(ctx, pending, quota, func(it Item, res extractor.Result, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[it.ID] = err
				log.Warn().Err(err).Str("item", it.ID).Msg("item failed")
				return
			}
			delete(report.Failed, it.ID)
			s.seen.Add(it)
			report.Results = append(report.Results, Result{ItemID: it.ID, Result: res})
		}); err != nil {
			return report, err
		}

		next := pending[:0:0]
		for _, it := range pending {
			if !s.seen.Has(it) {
				next = append(next, it)
			}
		}
		pending = next

		if round >= s.cfg.MaxRetries {
			break
		}
	}

	if len(report.Failed) > 0 {
		log.Warn().Int("failed", len(report.Failed)).Msg("batch finished with failed items")
	}
	return report, nil
}

// round runs one pass with at most Concurrency items in flight. Items that
// go straight to the vision model are paced to respect its rate limit.
func (s *Scanner) round(ctx context.Context, items []Item, quota *Quota, done func(Item, extractor.Result, error)) error {
	sem := semaphore.NewWeighted(int64(s.cfg.Concurrency))
	g, gctx := errgroup.WithContext(ctx)

	for _, it := range items {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		verify := it.QRPayload != "" && s.verifier != nil && quota.Take()
		if !verify && s.vision != nil && len(it.Image) > 0 {
			if err := sleep(gctx, s.cfg.Pacing); err != nil {
				sem.Release(1)
				break
			}
		}

		g.Go(func() error {
			defer sem.Release(1)
			res, err := s.process(gctx, it, verify)
			done(it, res, err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// process tries verification, then the vision model, then the OCR text.
func (s *Scanner) process(ctx context.Context, it Item, verify bool) (extractor.Result, error) {
	log := logger.FromContext(ctx).With().Str("item", it.ID).Logger()
	var errs []error

	if verify {
		f, err := s.verifier.Verify(ctx, it.QRPayload)
		if err == nil {
			return extractor.NewResult(it.ID, slipok.Dialect, extractor.Finalize(f, slipok.Dialect)), nil
		}
		log.Debug().Err(err).Msg("verification failed, falling back")
		errs = append(errs, err)
	}

	if s.vision != nil && len(it.Image) > 0 {
		f, err := s.vision.ExtractImage(ctx, it.Image, it.MIMEType)
		if err == nil {
			return extractor.NewResult(it.ID, gemini.Dialect, extractor.Finalize(f, gemini.Dialect)), nil
		}
		log.Debug().Err(err).Msg("vision extraction failed, falling back")
		errs = append(errs, err)
	}

	if it.Text != "" {
		return s.registry.Analyze(common.Document{Source: it.ID, Lines: common.SplitLines(it.Text)}), nil
	}

	if len(errs) == 0 {
		return extractor.Result{}, ErrNoExtractor
	}
	return extractor.Result{}, fmt.Errorf("%w: %w", ErrNoExtractor, multierr.Combine(errs...))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
