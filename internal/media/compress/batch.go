package compress

import (
	"context"
	"sync"
)

// CompressAll compresses every input concurrently as independent tasks and
// returns outcomes in input index order. No ordering is guaranteed between
// the tasks themselves.
func (p *Pipeline) CompressAll(ctx context.Context, paths []string) []Outcome {
	outcomes := make([]Outcome, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			outcomes[i] = p.CompressFile(ctx, path, nil)
		}(i, path)
	}
	wg.Wait()
	return outcomes
}
