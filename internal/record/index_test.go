package record

import (
	"math/rand"
	"testing"
	"time"
)

func recordAt(id string, year int, month time.Month) *ItemRecord {
	return &ItemRecord{
		ID:          id,
		PublishedAt: time.Date(year, month, 15, 10, 0, 0, 0, time.Local),
	}
}

func TestMonthIndexSortedKeys(t *testing.T) {
	idx := NewMonthIndex()
	idx.Insert(recordAt("a", 2024, time.March))
	idx.Insert(recordAt("b", 2023, time.December))
	idx.Insert(recordAt("c", 2024, time.January))
	idx.Insert(recordAt("d", 2023, time.December))

	keys := idx.SortedKeys()
	want := []MonthKey{{2023, 12}, {2024, 1}, {2024, 3}}
	if len(keys) != len(want) {
		t.Fatalf("Expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range keys {
		if k != want[i] {
			t.Errorf("keys[%d] = %v, want %v", i, k, want[i])
		}
	}

	if got := len(idx.Bucket(MonthKey{2023, 12})); got != 2 {
		t.Errorf("Expected 2 records in 2023-12, got %d", got)
	}
}

func TestMonthIndexOrderIndependence(t *testing.T) {
	records := []*ItemRecord{
		recordAt("a", 2024, time.January),
		recordAt("b", 2024, time.January),
		recordAt("c", 2024, time.February),
		recordAt("d", 2023, time.July),
		recordAt("e", 2024, time.February),
	}

	contents := func(idx *MonthIndex) map[MonthKey]map[string]bool {
		out := make(map[MonthKey]map[string]bool)
		for _, key := range idx.SortedKeys() {
			ids := make(map[string]bool)
			for _, r := range idx.Bucket(key) {
				ids[r.ID] = true
			}
			out[key] = ids
		}
		return out
	}

	base := NewMonthIndex()
	for _, r := range records {
		base.Insert(r)
	}
	want := contents(base)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]*ItemRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		idx := NewMonthIndex()
		for _, r := range shuffled {
			idx.Insert(r)
		}

		got := contents(idx)
		if len(got) != len(want) {
			t.Fatalf("trial %d: expected %d buckets, got %d", trial, len(want), len(got))
		}
		for key, ids := range want {
			if len(got[key]) != len(ids) {
				t.Errorf("trial %d: bucket %v has %d records, want %d", trial, key, len(got[key]), len(ids))
			}
			for id := range ids {
				if !got[key][id] {
					t.Errorf("trial %d: bucket %v missing record %s", trial, key, id)
				}
			}
		}
	}
}

func TestMonthKeyString(t *testing.T) {
	if got := (MonthKey{2024, 3}).String(); got != "2024-03" {
		t.Errorf("Expected '2024-03', got %q", got)
	}
}

func TestDurationDisplay(t *testing.T) {
	r := &ItemRecord{DurationSeconds: 245}
	if got := r.DurationDisplay(); got != "4:05" {
		t.Errorf("Expected '4:05', got %q", got)
	}

	degraded := &ItemRecord{DetailFetchFailed: true}
	if got := degraded.DurationDisplay(); got != "未知" {
		t.Errorf("Expected '未知', got %q", got)
	}
}
