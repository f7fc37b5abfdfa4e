package excelsheet

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"autopost/domain/model"

	"github.com/xuri/excelize/v2"
)

// Expected schedule columns. Header matching is case-insensitive.
const (
	colDate        = "date"
	colTime        = "time"
	colPlatform    = "platform"
	colTitle       = "title"
	colDescription = "description"
	colHashtags    = "hashtags"
	colPrompt      = "prompt"
	colVideoFile   = "video file"
)

// ParsedPost is one valid schedule row
type ParsedPost struct {
	ScheduledDate      string
	ScheduledTime      string
	ScheduledTimestamp time.Time
	Platform           string
	Title              string
	Description        string
	Hashtags           string
	Prompt             string
	VideoFile          string
}

// ParseResult reports the import outcome. Rows that fail validation are
// reported in Errors with their spreadsheet row number; non-YouTube rows are
// skipped silently and counted in TotalRows only.
type ParseResult struct {
	Posts     []ParsedPost
	Errors    []string
	TotalRows int
	ValidRows int
}

// ParseExcelFile reads the first sheet of an .xlsx workbook and extracts
// scheduled posts. The timezone names the IANA zone the Date/Time pair is
// entered in.
func ParseExcelFile(data []byte, timezone string) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file is empty or has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty or has no sheets")
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc, _ = time.LoadLocation(model.DefaultTimezone)
	}

	columns := map[string]int{}
	for i, h := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}

	result := &ParseResult{TotalRows: len(rows) - 1}
	for i, row := range rows[1:] {
		rowNumber := i + 2 // spreadsheet rows start at 1, plus header row

		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if cell(colDate) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing Date", rowNumber))
			continue
		}
		if cell(colTime) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing Time", rowNumber))
			continue
		}
		if cell(colPlatform) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing Platform", rowNumber))
			continue
		}
		if cell(colTitle) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing Title", rowNumber))
			continue
		}
		if cell(colVideoFile) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing Video File", rowNumber))
			continue
		}

		// Only YouTube rows become posts; other platforms are skipped silently
		platform := cell(colPlatform)
		if !strings.Contains(strings.ToLower(platform), "youtube") {
			continue
		}

		dateStr := NormalizeDate(cell(colDate))
		timeStr := NormalizeTime(cell(colTime))

		if !isValidDate(dateStr) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid date format. Expected YYYY-MM-DD, got: %s", rowNumber, cell(colDate)))
			continue
		}
		if !isValidTime(timeStr) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Invalid time format. Expected HH:MM, got: %s", rowNumber, cell(colTime)))
			continue
		}

		ts, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, loc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNumber, err))
			continue
		}

		result.Posts = append(result.Posts, ParsedPost{
			ScheduledDate:      dateStr,
			ScheduledTime:      timeStr,
			ScheduledTimestamp: ts.UTC(),
			Platform:           platform,
			Title:              cell(colTitle),
			Description:        cell(colDescription),
			Hashtags:           cell(colHashtags),
			Prompt:             cell(colPrompt),
			VideoFile:          cell(colVideoFile),
		})
		result.ValidRows++
	}
	return result, nil
}

// ToScheduledPosts converts parsed rows to store models for a user
func ToScheduledPosts(posts []ParsedPost, userID int64) []*model.ScheduledPost {
	out := make([]*model.ScheduledPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, &model.ScheduledPost{
			UserID:             userID,
			ScheduledDate:      p.ScheduledDate,
			ScheduledTime:      p.ScheduledTime,
			ScheduledTimestamp: p.ScheduledTimestamp,
			Platform:           p.Platform,
			Title:              p.Title,
			Description:        p.Description,
			Hashtags:           p.Hashtags,
			Prompt:             p.Prompt,
			VideoFile:          p.VideoFile,
			Status:             model.StatusScheduled,
		})
	}
	return out
}

var (
	isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	usDatePattern  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	euDatePattern  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	timePattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
)

// NormalizeDate converts supported date inputs (ISO, MM/DD/YYYY, DD-MM-YYYY,
// Excel serial number) to YYYY-MM-DD. Unrecognized input passes through so
// validation can report it.
func NormalizeDate(dateInput string) string {
	dateStr := strings.TrimSpace(dateInput)

	// Excel serial date number (days since 1899-12-30)
	if serial, err := strconv.ParseFloat(dateStr, 64); err == nil {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		d := epoch.AddDate(0, 0, int(serial))
		return d.Format("2006-01-02")
	}

	if m := isoDatePattern.FindStringSubmatch(dateStr); m != nil {
		return formatDate(m[1], m[2], m[3])
	}
	if m := usDatePattern.FindStringSubmatch(dateStr); m != nil {
		return formatDate(m[3], m[1], m[2])
	}
	if m := euDatePattern.FindStringSubmatch(dateStr); m != nil {
		return formatDate(m[3], m[2], m[1])
	}
	return dateStr
}

func formatDate(year, month, day string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}

// NormalizeTime converts supported time inputs (HH:MM, HH:MM:SS, Excel day
// fraction) to HH:MM. Unrecognized input passes through.
func NormalizeTime(timeInput string) string {
	timeStr := strings.TrimSpace(timeInput)

	// Excel time fraction (0.5 = 12:00)
	if frac, err := strconv.ParseFloat(timeStr, 64); err == nil && frac >= 0 && frac < 1 {
		totalMinutes := int(math.Round(frac * 24 * 60))
		return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
	}

	if m := timePattern.FindStringSubmatch(timeStr); m != nil {
		h, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", h, m[2])
	}
	return timeStr
}

func isValidDate(dateStr string) bool {
	d, err := time.Parse("2006-01-02", dateStr)
	return err == nil && d.Format("2006-01-02") == dateStr
}

func isValidTime(timeStr string) bool {
	m := regexp.MustCompile(`^(\d{2}):(\d{2})$`).FindStringSubmatch(timeStr)
	if m == nil {
		return false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h >= 0 && h < 24 && mm >= 0 && mm < 60
}
