package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bilidash/collector/internal/bilibili"
	"github.com/bilidash/collector/internal/record"
)

// API is the subset of the Bilibili client the collector depends on.
type API interface {
	ListVideos(ctx context.Context, uid int64, page, pageSize int) ([]bilibili.VideoListItem, error)
	GetVideoInfo(ctx context.Context, bvid string) (*bilibili.VideoInfo, error)
	GetDanmakus(ctx context.Context, cid int64) ([]string, error)
	GetFollowerCount(ctx context.Context, uid int64) (int64, error)
}

// Options configures the Bilibili collector.
type Options struct {
	UID       int64         // subject user id, required
	PageSize  int           // listing page size, default 30
	PageDelay time.Duration // delay after each listing page, default 500ms
	Workers   int           // detail-fetch worker count, default 8
}

func (o *Options) applyDefaults() {
	if o.PageSize <= 0 {
		o.PageSize = 30
	}
	if o.PageDelay <= 0 {
		o.PageDelay = 500 * time.Millisecond
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
}

// BilibiliCollector collects a Bilibili user's full video catalog,
// enriches each video with engagement metrics and danmakus, and exports
// one record per video through the sink.
type BilibiliCollector struct {
	api  API
	sink Sink
	opts Options
}

// NewBilibiliCollector creates the collector. The returned collector is
// stateless across runs.
func NewBilibiliCollector(api API, sink Sink, opts Options) *BilibiliCollector {
	opts.applyDefaults()
	return &BilibiliCollector{api: api, sink: sink, opts: opts}
}

// Name returns "bilibili_fetcher", the registry key and export suffix.
func (b *BilibiliCollector) Name() string {
	return "bilibili_fetcher"
}

// Collect runs one full collection cycle: catalog discovery, concurrent
// per-video enrichment, time-bucketed export, follower count.
func (b *BilibiliCollector) Collect(ctx context.Context, outputDir string) (*Result, error) {
	if b.opts.UID == 0 {
		return nil, fmt.Errorf("bilibili collector: uid is not configured")
	}

	followerCount, err := b.api.GetFollowerCount(ctx, b.opts.UID)
	if err != nil {
		log.Printf("bilibili: failed to fetch follower count for uid %d: %v", b.opts.UID, err)
		followerCount = 0
	}

	catalog := b.fetchCatalog(ctx)
	log.Printf("bilibili: discovered %d videos for uid %d", len(catalog), b.opts.UID)

	collectedAt := time.Now()
	records, successCount, failureCount := collectConcurrent(catalog, b.opts.Workers, func(item bilibili.VideoListItem) (*record.ItemRecord, bool) {
		return b.enrich(ctx, item, collectedAt)
	})
	log.Printf("bilibili: enriched %d videos (%d ok, %d degraded)", len(records), successCount, failureCount)

	// Bucket by publish month and export one file per record.
	index := record.NewMonthIndex()
	for _, rec := range records {
		index.Insert(rec)
	}
	for _, key := range index.SortedKeys() {
		for _, rec := range index.Bucket(key) {
			if err := b.sink.WriteRecord(outputDir, key, rec); err != nil {
				log.Printf("bilibili: failed to export %q: %v", rec.Title, err)
			}
		}
	}

	return &Result{
		Records:       records,
		FollowerCount: followerCount,
		SuccessCount:  successCount,
		FailureCount:  failureCount,
	}, nil
}

// fetchCatalog walks the paginated listing starting at page 1 and stops
// at the first empty page. Every page request is followed by a fixed
// delay to avoid remote throttling. A page error ends the walk early;
// the partial catalog is returned, not retried.
func (b *BilibiliCollector) fetchCatalog(ctx context.Context) []bilibili.VideoListItem {
	var catalog []bilibili.VideoListItem

	for page := 1; ; page++ {
		items, err := b.api.ListVideos(ctx, b.opts.UID, page, b.opts.PageSize)
		if err != nil {
			log.Printf("bilibili: failed to fetch listing page %d: %v", page, err)
			break
		}
		if len(items) == 0 {
			break
		}
		catalog = append(catalog, items...)

		select {
		case <-time.After(b.opts.PageDelay):
		case <-ctx.Done():
			return catalog
		}
	}

	return catalog
}

// enrich fetches the detail record and danmaku stream for one catalog
// item. It never fails: a detail error degrades to a fallback record
// built from listing fields, and a danmaku error only empties the
// danmaku list.
func (b *BilibiliCollector) enrich(ctx context.Context, item bilibili.VideoListItem, collectedAt time.Time) (*record.ItemRecord, bool) {
	info, err := b.api.GetVideoInfo(ctx, item.BVID)
	if err != nil {
		log.Printf("bilibili: failed to fetch detail for %s (%s): %v", item.BVID, item.Title, err)
		return fallbackRecord(item, collectedAt), false
	}

	// Some listings report view=0 on very new videos; the play counter
	// is the reliable alternate there.
	viewCount := info.Stat.View
	if viewCount == 0 {
		viewCount = info.Stat.Play
	}

	var danmakus []string
	danmakus, err = b.api.GetDanmakus(ctx, info.CID)
	if err != nil {
		log.Printf("bilibili: failed to fetch danmakus for %s: %v", item.BVID, err)
		danmakus = nil
	}

	return &record.ItemRecord{
		ID:              item.BVID,
		Title:           info.Title,
		URL:             videoURL(item.BVID),
		DurationSeconds: info.Duration,
		PublishedAt:     time.Unix(info.PubDate, 0),
		ViewCount:       viewCount,
		LikeCount:       info.Stat.Like,
		CommentCount:    info.Stat.Reply,
		DanmakuCount:    info.Stat.Danmaku,
		Description:     info.Desc,
		Danmakus:        danmakus,
	}, true
}

// fallbackRecord builds the best-effort record for a video whose detail
// fetch failed, so the video is still counted and bucketed. Publish time
// precedence: listing timestamp, then collection time.
func fallbackRecord(item bilibili.VideoListItem, collectedAt time.Time) *record.ItemRecord {
	publishedAt := collectedAt
	if item.Created > 0 {
		publishedAt = time.Unix(item.Created, 0)
	}

	return &record.ItemRecord{
		ID:                item.BVID,
		Title:             item.Title,
		URL:               videoURL(item.BVID),
		PublishedAt:       publishedAt,
		Description:       "详情获取失败",
		DetailFetchFailed: true,
	}
}

func videoURL(bvid string) string {
	return "https://www.bilibili.com/video/" + bvid
}
