package record

import (
	"fmt"
	"time"
)

// ItemRecord is the fully enriched representation of one published video.
// Field names are stable across runs; the dashboard reads them verbatim.
// @Description Enriched video record produced by a collection run
type ItemRecord struct {
	ID                string    `json:"id" example:"BV1xx411c7mD"`
	Title             string    `json:"title" example:"我的第一个视频"`
	URL               string    `json:"url" example:"https://www.bilibili.com/video/BV1xx411c7mD"`
	DurationSeconds   int       `json:"duration_seconds" example:"245"`
	PublishedAt       time.Time `json:"published_at" example:"2024-11-15T08:00:00Z"`
	ViewCount         int64     `json:"view_count" example:"20543"`
	LikeCount         int64     `json:"like_count" example:"1032"`
	CommentCount      int64     `json:"comment_count" example:"87"`
	DanmakuCount      int64     `json:"danmaku_count" example:"312"`
	Description       string    `json:"description"`
	Danmakus          []string  `json:"danmakus,omitempty"`
	DetailFetchFailed bool      `json:"detail_fetch_failed"`
}

// DurationDisplay renders the duration as "M:SS", or "未知" when the
// detail fetch failed and no duration is known.
func (r *ItemRecord) DurationDisplay() string {
	if r.DetailFetchFailed && r.DurationSeconds == 0 {
		return "未知"
	}
	return fmt.Sprintf("%d:%02d", r.DurationSeconds/60, r.DurationSeconds%60)
}

// MonthKey identifies a (year, month) time bucket.
type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// String formats the key as "YYYY-MM".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// KeyOf derives the bucket key from a record's publish time.
func KeyOf(r *ItemRecord) MonthKey {
	return MonthKey{Year: r.PublishedAt.Year(), Month: int(r.PublishedAt.Month())}
}
