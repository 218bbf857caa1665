// package formatter renders resolution results to output files: the
// deduplicated URL list and run reports in CSV, Markdown, or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/marimeireles/spotify-to-youtube/internal/models"
	"github.com/marimeireles/spotify-to-youtube/internal/shared"
)

// ReportEntry pairs a catalog track with its resolution outcome.
type ReportEntry struct {
	Track  models.Track
	Result models.ResolutionResult
}

// WriteURLList writes the deduplicated watch URLs to path, one per
// line with a trailing newline. An empty list produces an empty file.
func WriteURLList(urls []string, path string) error {
	if path == "" {
		path = "urls.txt"
	}

	var buf bytes.Buffer
	for _, u := range urls {
		buf.WriteString(u)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write URL list: %w", err)
	}

	return nil
}

// ExportReportCSV renders entries as CSV with columns:
// Track ID, Artist, Title, Duration, Matched, Video ID, URL, Fallback
func ExportReportCSV(entries []ReportEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Track ID", "Artist", "Title", "Duration", "Matched", "Video ID", "URL", "Fallback"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.Track.ID,
			entry.Track.Artist,
			entry.Track.Title,
			strconv.Itoa(entry.Track.Duration),
			strconv.FormatBool(entry.Result.Matched),
			entry.Result.VideoID,
			entry.Result.URL,
			strconv.FormatBool(entry.Result.Fallback),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportReportMarkdown renders a run report with a summary header and a
// per-track table. playlist may be nil when metadata was unavailable.
func ExportReportMarkdown(playlist *models.Playlist, entries []ReportEntry) ([]byte, error) {
	var buf bytes.Buffer

	title := "Resolution Report"
	if playlist != nil {
		title = playlist.Name
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	matched := 0
	for _, entry := range entries {
		if entry.Result.Matched {
			matched++
		}
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(entries)))
	buf.WriteString(fmt.Sprintf("**Matched**: %d\n", matched))
	buf.WriteString(fmt.Sprintf("**Missed**: %d\n\n", len(entries)-matched))

	buf.WriteString("| # | Artist | Title | Duration | Result |\n")
	buf.WriteString("|---|--------|-------|----------|--------|\n")
	for i, entry := range entries {
		result := "—"
		if entry.Result.Matched {
			result = entry.Result.URL
			if entry.Result.Fallback {
				result += " (fallback)"
			}
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1,
			escapePipes(entry.Track.Artist),
			escapePipes(entry.Track.Title),
			shared.FormatDuration(entry.Track.Duration),
			result,
		))
	}

	return buf.Bytes(), nil
}

// ExportReportText renders a plain text report, one line per track.
func ExportReportText(entries []ReportEntry) ([]byte, error) {
	var buf bytes.Buffer

	for _, entry := range entries {
		if entry.Result.Matched {
			buf.WriteString(fmt.Sprintf("ok   %s - %s -> %s\n", entry.Track.Artist, entry.Track.Title, entry.Result.URL))
		} else {
			buf.WriteString(fmt.Sprintf("miss %s - %s\n", entry.Track.Artist, entry.Track.Title))
		}
	}

	return buf.Bytes(), nil
}

// WriteReport renders entries in the given format (csv, markdown, txt)
// and writes the result to path.
func WriteReport(format, path string, playlist *models.Playlist, entries []ReportEntry) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportReportCSV(entries)
	case "markdown", "md":
		data, err = ExportReportMarkdown(playlist, entries)
	case "txt", "text":
		data, err = ExportReportText(entries)
	default:
		return fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
