package record

import "sort"

// MonthIndex groups records by the (year, month) of their publish time.
// Grouping is a pure function of PublishedAt: inserting the same records
// in any order yields identical bucket contents. No deduplication is done;
// video ids are assumed unique within a run.
type MonthIndex struct {
	buckets map[MonthKey][]*ItemRecord
}

// NewMonthIndex creates an empty index.
func NewMonthIndex() *MonthIndex {
	return &MonthIndex{buckets: make(map[MonthKey][]*ItemRecord)}
}

// Insert places a record into its bucket, creating the bucket on first use.
func (idx *MonthIndex) Insert(r *ItemRecord) {
	key := KeyOf(r)
	idx.buckets[key] = append(idx.buckets[key], r)
}

// Bucket returns the records bucketed under key, in insertion order.
func (idx *MonthIndex) Bucket(key MonthKey) []*ItemRecord {
	return idx.buckets[key]
}

// SortedKeys returns all bucket keys in ascending (year, month) order.
func (idx *MonthIndex) SortedKeys() []MonthKey {
	keys := make([]MonthKey, 0, len(idx.buckets))
	for k := range idx.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Month < keys[j].Month
	})
	return keys
}

// Len returns the number of buckets.
func (idx *MonthIndex) Len() int {
	return len(idx.buckets)
}
