package collector

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/bilidash/collector/internal/bilibili"
	"github.com/bilidash/collector/internal/record"
)

// enrichFunc turns one catalog item into a record. The bool reports
// whether the detail fetch succeeded; the record is never nil.
type enrichFunc func(item bilibili.VideoListItem) (*record.ItemRecord, bool)

// collectConcurrent fans enrich out over items with a fixed number of
// workers. Item i is assigned to worker i mod workers; each worker
// processes its partition sequentially into a worker-local buffer, and
// buffers are merged only after every worker has finished. Ordering is
// preserved within a partition but not across workers. A panicking worker
// counts its unprocessed items as failures without blocking the merge of
// the other workers' buffers.
func collectConcurrent(items []bilibili.VideoListItem, workers int, enrich enrichFunc) ([]*record.ItemRecord, int, int) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}
	if len(items) == 0 {
		return nil, 0, 0
	}

	partitions := make([][]bilibili.VideoListItem, workers)
	for i, item := range items {
		w := i % workers
		partitions[w] = append(partitions[w], item)
	}

	buffers := make([][]*record.ItemRecord, workers)
	var successCount, failureCount atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int, part []bilibili.VideoListItem) {
			defer wg.Done()

			done := 0
			defer func() {
				if r := recover(); r != nil {
					// Remaining items of this partition are lost; count
					// them so the run totals stay honest.
					failureCount.Add(int64(len(part) - done))
					log.Printf("worker %d panicked after %d/%d items: %v", w, done, len(part), r)
				}
			}()

			local := make([]*record.ItemRecord, 0, len(part))
			for _, item := range part {
				rec, ok := enrich(item)
				local = append(local, rec)
				if ok {
					successCount.Add(1)
				} else {
					failureCount.Add(1)
				}
				done++
				// Republish after every item so records enriched before a
				// panic still reach the merge.
				buffers[w] = local
			}
		}(w, partitions[w])
	}
	wg.Wait()

	// Barrier passed: merge worker-local buffers into the shared result.
	merged := make([]*record.ItemRecord, 0, len(items))
	for _, buf := range buffers {
		merged = append(merged, buf...)
	}

	return merged, int(successCount.Load()), int(failureCount.Load())
}
