package extract

import (
	"context"
	"runtime"
	"sync"

	"github.com/docstruct/tably/internal/ocr"
)

// ParallelConfig holds configuration for parallel page processing.
type ParallelConfig struct {
	MaxWorkers int                   // number of parallel workers (0 = runtime.NumCPU())
	OnPageDone func(done, total int) // optional progress reporting
}

// DefaultParallelConfig returns sensible defaults for parallel processing.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{MaxWorkers: runtime.NumCPU()}
}

// pageJob represents a single page reconstruction job.
type pageJob struct {
	index int
	page  ocr.Page
}

// pageDone carries one finished page back to the collector.
type pageDone struct {
	index  int
	result PageResult
}

// ProcessDocumentParallel reconstructs a document's pages on a worker pool.
// Pages share no state, so they run fully independently; results come back
// in page order regardless of completion order. With one page or one worker
// it falls through to the sequential path.
func (e *Extractor) ProcessDocumentParallel(ctx context.Context, doc *ocr.Document, config ParallelConfig) (*Result, error) {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	if len(doc.Pages) <= 1 || config.MaxWorkers == 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return e.ProcessDocument(doc), nil
	}

	jobs := make(chan pageJob, len(doc.Pages))
	results := make(chan pageDone, len(doc.Pages))

	var wg sync.WaitGroup
	for w := 0; w < config.MaxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results <- pageDone{index: job.index, result: e.ProcessPage(job.page)}
			}
		}()
	}

	for i, page := range doc.Pages {
		jobs <- pageJob{index: i, page: page}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pages := make([]PageResult, len(doc.Pages))
	done := 0
	for pd := range results {
		pages[pd.index] = pd.result
		done++
		if config.OnPageDone != nil {
			config.OnPageDone(done, len(doc.Pages))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Filename: doc.Filename}
	for _, pr := range pages {
		res.AddPage(pr)
	}
	return res, nil
}
