// Package dashboard reduces a collected record set into the summary
// document the dashboard front-end renders.
package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bilidash/collector/internal/record"
)

// ErrNoRecords signals that a refresh produced zero records. The caller
// must preserve the previous summary document instead of overwriting it
// with an all-zero one.
var ErrNoRecords = errors.New("no records collected")

// performanceViewThreshold filters low-traffic videos out of the ranking.
const performanceViewThreshold = 10000

type monthTotals struct {
	videos int64
	views  int64
	likes  int64
}

// Summarize aggregates all records of one refresh cycle into a summary
// document. It never mutates the records.
func Summarize(records []*record.ItemRecord, followerCount int64) (*SummaryDocument, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	index := record.NewMonthIndex()
	for _, r := range records {
		index.Insert(r)
	}
	keys := index.SortedKeys()

	// Per-month and cumulative series, built in lock step over the
	// sorted month keys so every dataset shares the label set.
	labels := make([]string, 0, len(keys))
	perMonth := make(map[record.MonthKey]monthTotals, len(keys))
	var cumVideos, cumViews, cumLikes int64
	trendVideos := make([]int64, 0, len(keys))
	trendViews := make([]int64, 0, len(keys))
	trendLikes := make([]int64, 0, len(keys))
	monthlyVideos := make([]int64, 0, len(keys))
	monthlyViews := make([]int64, 0, len(keys))
	monthlyLikes := make([]int64, 0, len(keys))

	for _, key := range keys {
		var totals monthTotals
		for _, r := range index.Bucket(key) {
			totals.videos++
			totals.views += r.ViewCount
			totals.likes += r.LikeCount
		}
		perMonth[key] = totals

		labels = append(labels, fmt.Sprintf("%04d.%02d", key.Year, key.Month))

		cumVideos += totals.videos
		cumViews += totals.views
		cumLikes += totals.likes
		trendVideos = append(trendVideos, cumVideos)
		trendViews = append(trendViews, cumViews)
		trendLikes = append(trendLikes, cumLikes)
		monthlyVideos = append(monthlyVideos, totals.videos)
		monthlyViews = append(monthlyViews, totals.views)
		monthlyLikes = append(monthlyLikes, totals.likes)
	}

	totalVideos := len(records)
	totalViews := cumViews
	totalLikes := cumLikes

	summary := Summary{
		TotalFans:             groupThousands(followerCount),
		TotalViews:            FormatLargeNumber(totalViews),
		TotalVideos:           totalVideos,
		TotalLikes:            FormatLargeNumber(totalLikes),
		LastMonthViews:        FormatLargeNumber(0),
		LastMonthViewsChange:  "N/A",
		LastMonthVideosChange: "N/A",
		LastMonthLikes:        FormatLargeNumber(0),
		LastMonthLikesChange:  "N/A",
	}

	if len(keys) >= 1 {
		last := perMonth[keys[len(keys)-1]]
		summary.LastMonthViews = FormatLargeNumber(last.views)
		summary.LastMonthVideos = int(last.videos)
		summary.LastMonthLikes = FormatLargeNumber(last.likes)

		if len(keys) >= 2 {
			prev := perMonth[keys[len(keys)-2]]
			summary.LastMonthViewsChange = percentChange(last.views, prev.views)
			summary.LastMonthLikesChange = percentChange(last.likes, prev.likes)
			summary.LastMonthVideosChange = countChange(last.videos, prev.videos)
		}
	}

	return &SummaryDocument{
		Summary: summary,
		TrendChart: Chart{
			Labels: labels,
			Datasets: []Dataset{
				{Label: "累计视频发布数", Data: trendVideos},
				{Label: "累计播放量", Data: trendViews},
				{Label: "累计点赞量", Data: trendLikes},
				{Label: "每月视频发布数", Data: monthlyVideos},
				{Label: "每月播放量", Data: monthlyViews},
				{Label: "每月点赞量", Data: monthlyLikes},
			},
		},
		VideoPerformance: rankPerformance(records),
		FollowerChart:    followerChart(followerCount, time.Now().Year()),
		AdditionalStats: AdditionalStats{
			VideosPublished1:          totalVideos,
			ViewsTotal1:               FormatLargeNumber(totalViews),
			VideosPublished2:          "N/A",
			ViewsTotal2:               "N/A",
			AverageViews:              groupThousands(totalViews / int64(totalVideos)),
			AverageViewsChangeMonthly: "N/A",
		},
		AllVideos:   records,
		AllDanmakus: flattenDanmakus(records),
	}, nil
}

// rankPerformance filters records at the view threshold and ranks them by
// like rate, descending. The sort is stable: equal rates keep their
// relative input order.
func rankPerformance(records []*record.ItemRecord) []VideoPerformance {
	ranking := []VideoPerformance{}
	for _, r := range records {
		if r.ViewCount < performanceViewThreshold {
			continue
		}
		rate := 0.0
		if r.ViewCount > 0 {
			rate = float64(r.LikeCount) / float64(r.ViewCount) * 100
		}
		ranking = append(ranking, VideoPerformance{
			Title:    r.Title,
			Views:    r.ViewCount,
			Likes:    r.LikeCount,
			LikeRate: rate,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].LikeRate > ranking[j].LikeRate })
	return ranking
}

// flattenDanmakus pairs every danmaku text with its video title.
func flattenDanmakus(records []*record.ItemRecord) []DanmakuEntry {
	entries := []DanmakuEntry{}
	for _, r := range records {
		for _, text := range r.Danmakus {
			entries = append(entries, DanmakuEntry{Text: text, VideoTitle: r.Title})
		}
	}
	return entries
}

// followerChart synthesizes a coarse yearly follower series ending at the
// current count. The platform exposes no historical data, so earlier
// years are back-filled with fixed offsets.
func followerChart(followerCount int64, currentYear int) Chart {
	labels := make([]string, 4)
	data := make([]int64, 4)
	offsets := []int64{30, 20, 10, 0}
	for i := 0; i < 4; i++ {
		labels[i] = fmt.Sprintf("%d年", currentYear-3+i)
		data[i] = max64(0, followerCount-offsets[i])
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Label: "B站粉丝数量", Data: data}},
	}
}

// percentChange formats (current-prev)/prev as a signed percentage, or
// "N/A" when prev is zero.
func percentChange(current, prev int64) string {
	if prev <= 0 {
		return "N/A"
	}
	pct := float64(current-prev) / float64(prev) * 100
	return fmt.Sprintf("%+.1f%%", pct)
}

// countChange formats an absolute delta with an explicit sign, or the
// neutral "持平" when unchanged.
func countChange(current, prev int64) string {
	diff := current - prev
	if diff == 0 {
		return "持平"
	}
	return fmt.Sprintf("%+d", diff)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
