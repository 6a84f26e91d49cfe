package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bilidash/collector/internal/record"
	"github.com/xuri/excelize/v2"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`normal title`, "normal title"},
		{`a/b\c:d*e?f"g<h>i|j`, "abcdefghij"},
		{`【测试】视频?`, "【测试】视频"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteRecord(t *testing.T) {
	dir := t.TempDir()
	sink := NewExcelSink("_bilibili_fetcher")

	rec := &record.ItemRecord{
		ID:              "BV001",
		Title:           "测试视频: 第1集",
		URL:             "https://www.bilibili.com/video/BV001",
		DurationSeconds: 245,
		PublishedAt:     time.Date(2024, 3, 15, 20, 30, 0, 0, time.Local),
		ViewCount:       12345,
		LikeCount:       678,
		DanmakuCount:    90,
		CommentCount:    12,
		Description:     "简介",
	}

	if err := sink.WriteRecord(dir, record.KeyOf(rec), rec); err != nil {
		t.Fatalf("WriteRecord returned error: %v", err)
	}

	// Colon stripped from the filename, year/month partition directories
	path := filepath.Join(dir, "2024", "03", "测试视频 第1集_bilibili_fetcher.xlsx")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected export file at %s: %v", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	cells := map[string]string{
		"A1":  "视频名称",
		"B1":  "测试视频: 第1集",
		"B3":  "4:05",
		"B4":  "2024-03-15 20:30:00",
		"B5":  "12345",
		"B6":  "678",
		"B7":  "90",
		"B8":  "12",
		"B9":  "简介",
		"A10": "视频涨粉量",
		"B10": "无法获取",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("视频信息", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) returned error: %v", cell, err)
		}
		if got != want {
			t.Errorf("Cell %s = %q, want %q", cell, got, want)
		}
	}
}

func TestWriteRecordDegraded(t *testing.T) {
	dir := t.TempDir()
	sink := NewExcelSink("_bilibili_fetcher")

	rec := &record.ItemRecord{
		ID:                "BV002",
		Title:             "failed",
		PublishedAt:       time.Date(2023, 12, 1, 0, 0, 0, 0, time.Local),
		Description:       "详情获取失败",
		DetailFetchFailed: true,
	}

	if err := sink.WriteRecord(dir, record.KeyOf(rec), rec); err != nil {
		t.Fatalf("WriteRecord returned error: %v", err)
	}

	path := filepath.Join(dir, "2023", "12", "failed_bilibili_fetcher.xlsx")
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("视频信息", "B3")
	if err != nil {
		t.Fatalf("GetCellValue returned error: %v", err)
	}
	if got != "未知" {
		t.Errorf("Expected duration '未知' on degraded record, got %q", got)
	}
}
