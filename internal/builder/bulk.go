package builder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// BulkOptions tunes the bounded worker pool. The concurrency limit and the
// inter-task start delay exist to respect the model provider's rate limits.
type BulkOptions struct {
	Concurrency int
	TaskDelay   time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	CommitEvery int
	FailedPath  string
}

// BulkSummary reports one bulk run.
type BulkSummary struct {
	Built    []string
	Failed   []string
	Duration time.Duration
}

// ReadInputFile loads category descriptions, one per line. Blank lines and
// #-prefixed comment lines are skipped.
func ReadInputFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	var descriptions []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		descriptions = append(descriptions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return descriptions, nil
}

// RunBulk builds every description through a bounded worker pool. Each
// category retries up to MaxRetries with increasing backoff; categories
// that still fail are appended to the failure file and the batch continues.
// Successes are committed every CommitEvery completions plus once at the end.
func (b *Builder) RunBulk(ctx context.Context, descriptions []string, opts BulkOptions) (BulkSummary, error) {
	start := time.Now()

	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}

	var (
		mu      sync.Mutex
		summary BulkSummary
		pending int
	)

	checkpoint := func(force bool) {
		if opts.CommitEvery > 0 && !force && pending < opts.CommitEvery {
			return
		}
		if pending == 0 {
			return
		}
		if err := b.Commit(fmt.Sprintf("knowledge: bulk update (%d categories)", pending)); err != nil {
			b.logger.Warn("bulk commit failed", "error", err)
			return
		}
		pending = 0
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)

	for i, description := range descriptions {
		if i > 0 && opts.TaskDelay > 0 {
			select {
			case <-time.After(opts.TaskDelay):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			result, err := b.buildWithRetry(ctx, description, opts)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				b.logger.Error("category failed", "description", description, "error", err)
				summary.Failed = append(summary.Failed, description)
				b.recordFailure(opts.FailedPath, description)
				return nil
			}

			summary.Built = append(summary.Built, result.CategoryID)
			pending++
			checkpoint(false)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return summary, err
	}

	mu.Lock()
	checkpoint(true)
	mu.Unlock()

	summary.Duration = time.Since(start)
	return summary, nil
}

func (b *Builder) buildWithRetry(ctx context.Context, description string, opts BulkOptions) (*Result, error) {
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * opts.RetryDelay
			b.logger.Warn("retrying category",
				"description", description,
				"attempt", attempt,
				"backoff", backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := b.run(ctx, description, true)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// recordFailure appends the raw description to the failure file so a later
// run can retry it. Best-effort: a write failure is only logged.
func (b *Builder) recordFailure(path, description string) {
	if path == "" {
		return
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		b.logger.Warn("failure log unavailable", "path", path, "error", err)
		return
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, description); err != nil {
		b.logger.Warn("failure log write failed", "path", path, "error", err)
	}
}
