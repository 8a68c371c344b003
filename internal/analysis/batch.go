package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ProgressFunc reports incremental batch progress to the caller.
type ProgressFunc func(done, total int)

// AnalyzeBatch analyzes comments concurrently with a bounded worker pool.
// Results come back in input order, one per comment, with 1-based comment
// IDs. Comments are independent, so workers share the index read-only;
// per-comment failures produce degraded inline results and never abort the
// batch.
func (s *Session) AnalyzeBatch(ctx context.Context, comments []string, progress ProgressFunc) ([]Result, error) {
	if len(comments) == 0 {
		return []Result{}, nil
	}

	batchCtx, cancel := context.WithTimeout(ctx, s.cfg.BatchTimeout)
	defer cancel()

	type workItem struct {
		index   int
		comment string
	}

	workChan := make(chan workItem, len(comments))
	results := make([]Result, len(comments))
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i, comment := range comments {
		workChan <- workItem{index: i, comment: comment}
	}
	close(workChan)

	workers := s.cfg.MaxWorkers
	if workers > len(comments) {
		workers = len(comments)
	}

	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				result := s.AnalyzeComment(batchCtx, item.comment)
				result.CommentID = item.index + 1
				results[item.index] = result

				mu.Lock()
				done++
				completed := done
				mu.Unlock()

				if progress != nil {
					progress(completed, len(comments))
				}
			}
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-batchCtx.Done():
		return results, fmt.Errorf("batch analysis timeout after %v", s.cfg.BatchTimeout)
	}

	s.logger.Info().
		Int("comments", len(comments)).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("batch analysis complete")

	return results, nil
}
