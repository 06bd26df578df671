package filter

import (
	"runtime"
	"sync"

	"github.com/quotelab/memeframe/internal/memetracker"
)

// Batch runs Cluster over cls on a pool of workers and returns the
// clusters that passed, in input order. workers <= 0 selects one
// worker per CPU. When any cluster fails, the first error is returned
// and all results are discarded.
func (f *Filter) Batch(cls []*memetracker.Cluster, workers int) ([]*memetracker.Cluster, error) {
	if len(cls) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(cls) {
		workers = len(cls)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([]*memetracker.Cluster, len(cls))
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				kept, err := f.Cluster(cls[i])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				results[i] = kept
			}
		}()
	}

	for i := range cls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	survivors := make([]*memetracker.Cluster, 0, len(cls))
	for _, cl := range results {
		if cl != nil {
			survivors = append(survivors, cl)
		}
	}
	return survivors, nil
}
