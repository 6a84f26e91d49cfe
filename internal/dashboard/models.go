package dashboard

import "github.com/bilidash/collector/internal/record"

// SummaryDocument is the aggregated artifact the dashboard consumes.
// Field names are stable across runs; the file is rebuilt from scratch
// on every successful refresh.
type SummaryDocument struct {
	Summary          Summary            `json:"summary"`
	TrendChart       Chart              `json:"trend_chart"`
	VideoPerformance []VideoPerformance `json:"video_performance"`
	FollowerChart    Chart              `json:"follower_chart"`
	AdditionalStats  AdditionalStats    `json:"additional_stats"`
	AllVideos        []*record.ItemRecord `json:"all_videos"`
	AllDanmakus      []DanmakuEntry     `json:"all_danmakus"`
}

// Summary holds the headline figures. Magnitudes are pre-humanized
// ("万"/"亿" units); change fields carry an explicit sign, "N/A" when the
// previous month has no baseline, or "持平" for an unchanged video count.
type Summary struct {
	TotalFans             string `json:"total_fans"`
	TotalViews            string `json:"total_views"`
	TotalVideos           int    `json:"total_videos"`
	TotalLikes            string `json:"total_likes"`
	LastMonthViews        string `json:"last_month_views"`
	LastMonthViewsChange  string `json:"last_month_views_change"`
	LastMonthVideos       int    `json:"last_month_videos"`
	LastMonthVideosChange string `json:"last_month_videos_change"`
	LastMonthLikes        string `json:"last_month_likes"`
	LastMonthLikesChange  string `json:"last_month_likes_change"`
}

// Chart is a label set with parallel datasets, chart.js-shaped.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one labeled series of a chart.
type Dataset struct {
	Label string  `json:"label"`
	Data  []int64 `json:"data"`
}

// VideoPerformance is one row of the like-rate ranking.
type VideoPerformance struct {
	Title    string  `json:"title"`
	Views    int64   `json:"views"`
	Likes    int64   `json:"likes"`
	LikeRate float64 `json:"like_rate"`
}

// DanmakuEntry is one danmaku text paired with the title of its video.
type DanmakuEntry struct {
	Text       string `json:"text"`
	VideoTitle string `json:"video_title"`
}

// AdditionalStats mirrors the secondary stat block of the dashboard.
type AdditionalStats struct {
	VideosPublished1          int    `json:"videos_published_1"`
	ViewsTotal1               string `json:"views_total_1"`
	VideosPublished2          string `json:"videos_published_2"`
	ViewsTotal2               string `json:"views_total_2"`
	AverageViews              string `json:"average_views"`
	AverageViewsChangeMonthly string `json:"average_views_change_monthly"`
}
