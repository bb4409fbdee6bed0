package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/ballotnews/internal/model"
)

// DefaultConcurrency is the number of candidates compiled at once.
const DefaultConcurrency = 4

// BatchProcessor compiles several candidates concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: Candidates share one Compiler and therefore one
// gatekeeper and one host clock. Reserving a crawl slot is atomic per host,
// so two candidates hitting the same site still respect its crawl delay.
// Each candidate's URLs stay sequential.
type BatchProcessor struct {
	// compiler compiles a single candidate.
	compiler *Compiler

	// concurrency is the maximum number of concurrent candidates.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent candidates.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(compiler *Compiler, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		compiler:    compiler,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch compiles every candidate and returns their reports in input
// order.
//
// A candidate whose discovery fails still gets a report carrying the error
// and does not stop the others. The returned error is the context error
// when the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, candidates []model.Candidate) ([]*model.CandidateReport, error) {
	reports := make([]*model.CandidateReport, len(candidates))
	var mu sync.Mutex

	err := bp.ProcessBatchWithCallback(ctx, candidates, func(report *model.CandidateReport, index int) {
		mu.Lock()
		reports[index] = report
		mu.Unlock()
	})
	return reports, err
}

// ProcessBatchWithCallback compiles every candidate and calls callback with
// each report as soon as it is complete.
//
// The callback is called from the goroutine that compiled the candidate, so
// it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	candidates []model.Candidate,
	callback func(report *model.CandidateReport, index int),
) error {
	bp.logger.Info("starting batch compilation",
		"total_candidates", len(candidates),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, candidate := range candidates {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			report, err := bp.compiler.CompileCandidate(gctx, candidate)
			callback(report, i)

			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				// Discovery errors are recorded in the report.
				bp.logger.Warn("candidate failed",
					"candidate", candidate.Name,
					"error", err,
				)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch compilation complete",
		"total_candidates", len(candidates),
		"elapsed", time.Since(startTime),
	)
	return err
}
