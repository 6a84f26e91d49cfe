// Package export writes one Excel workbook per collected video record,
// partitioned into a year/month directory layout.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilidash/collector/internal/record"
	"github.com/xuri/excelize/v2"
)

const sheetName = "视频信息"

// ExcelSink writes records as fixed label/value sheets. Filenames are
// derived from the sanitized video title plus the collector suffix.
type ExcelSink struct {
	suffix string
}

// NewExcelSink creates a sink whose files carry the given suffix, e.g.
// "_bilibili_fetcher".
func NewExcelSink(suffix string) *ExcelSink {
	return &ExcelSink{suffix: suffix}
}

// WriteRecord writes r to <outputDir>/<year>/<month>/<title><suffix>.xlsx,
// creating directories as needed. Existing files are overwritten.
func (s *ExcelSink) WriteRecord(outputDir string, key record.MonthKey, r *record.ItemRecord) error {
	dir := filepath.Join(outputDir, fmt.Sprintf("%d", key.Year), fmt.Sprintf("%02d", key.Month))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	rows := [][2]interface{}{
		{"视频名称", r.Title},
		{"视频链接", r.URL},
		{"视频时长", r.DurationDisplay()},
		{"视频发布时间", r.PublishedAt.Format("2006-01-02 15:04:05")},
		{"视频观看次数", r.ViewCount},
		{"视频点赞次数", r.LikeCount},
		{"视频弹幕数量", r.DanmakuCount},
		{"视频评论数量", r.CommentCount},
		{"视频简介", r.Description},
		{"视频涨粉量", "无法获取"}, // the API does not expose per-video fan growth
	}
	for i, row := range rows {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return err
		}
	}

	path := filepath.Join(dir, SanitizeFilename(r.Title)+s.suffix+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SanitizeFilename strips characters that are illegal in filenames.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '*', '?', ':', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)
}
