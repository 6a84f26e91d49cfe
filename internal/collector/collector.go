package collector

import (
	"context"
	"fmt"
	"sort"

	"github.com/bilidash/collector/internal/record"
)

// Result is the output of one collection run for a single collector.
type Result struct {
	Records       []*record.ItemRecord
	FollowerCount int64
	SuccessCount  int
	FailureCount  int
}

// Collector is the interface every registered content collector implements.
// Collect gathers the full catalog for its subject, exports per-item
// records under outputDir, and returns the enriched record set. Per-item
// failures are degraded into the result, never returned as an error; an
// error return means the collector could not run at all (for example a
// missing subject id).
type Collector interface {
	// Name returns the stable registry key of this collector.
	Name() string

	// Collect runs one full collection cycle.
	Collect(ctx context.Context, outputDir string) (*Result, error)
}

// Sink consumes finished item records, one exported record per item,
// partitioned by the record's time bucket.
type Sink interface {
	WriteRecord(outputDir string, key record.MonthKey, r *record.ItemRecord) error
}

// Registry maps collector names to instances. Collectors are registered
// explicitly at startup; a configured blacklist filters them before
// dispatch.
type Registry struct {
	collectors map[string]Collector
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{collectors: make(map[string]Collector)}
}

// Register adds a collector under its name. Registering the same name
// twice is a programming error.
func (reg *Registry) Register(c Collector) error {
	name := c.Name()
	if _, exists := reg.collectors[name]; exists {
		return fmt.Errorf("collector %q already registered", name)
	}
	reg.collectors[name] = c
	return nil
}

// Active returns all registered collectors not named in the blacklist,
// sorted by name so that dispatch order is deterministic.
func (reg *Registry) Active(blacklist []string) []Collector {
	blocked := make(map[string]bool, len(blacklist))
	for _, name := range blacklist {
		blocked[name] = true
	}

	var active []Collector
	for name, c := range reg.collectors {
		if !blocked[name] {
			active = append(active, c)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name() < active[j].Name() })
	return active
}
