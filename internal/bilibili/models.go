package bilibili

// VideoListItem is one entry of the paginated space listing. The listing
// timestamp and play count are lower fidelity than the detail record and
// are only used as fallbacks when the detail fetch fails.
type VideoListItem struct {
	BVID    string `json:"bvid"`
	Title   string `json:"title"`
	Created int64  `json:"created"` // epoch seconds, listing-level
	Play    int64  `json:"play"`
	Length  string `json:"length"` // "MM:SS", display-only
}

type videoListData struct {
	List struct {
		VList []VideoListItem `json:"vlist"`
	} `json:"list"`
	Page struct {
		Count int `json:"count"`
		PN    int `json:"pn"`
		PS    int `json:"ps"`
	} `json:"page"`
}

// VideoStat holds the engagement counters of a video. Play mirrors View
// on some listings; very new videos occasionally report view=0 with a
// non-zero play count.
type VideoStat struct {
	View    int64 `json:"view"`
	Play    int64 `json:"play"`
	Like    int64 `json:"like"`
	Danmaku int64 `json:"danmaku"`
	Reply   int64 `json:"reply"`
}

// VideoInfo is the authoritative per-video detail record.
type VideoInfo struct {
	BVID     string    `json:"bvid"`
	CID      int64     `json:"cid"`
	Title    string    `json:"title"`
	Desc     string    `json:"desc"`
	Duration int       `json:"duration"` // seconds
	PubDate  int64     `json:"pubdate"`  // epoch seconds, authoritative
	Stat     VideoStat `json:"stat"`
}

type relationStat struct {
	Follower  int64 `json:"follower"`
	Following int64 `json:"following"`
}

type danmakuItem struct {
	Text string `xml:",chardata"`
	Attr string `xml:"p,attr"`
}

type danmakuDocument struct {
	Items []danmakuItem `xml:"d"`
}
