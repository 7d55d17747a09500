// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/cine/internal/catalog"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/shared"
)

// VideosToCSV converts a video list to CSV format with columns: ID, Title, Category, Duration, Views, Trending, Released
func VideosToCSV(videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Category", "Duration", "Views", "Trending", "Released"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, video := range videos {
		record := []string{
			video.ID,
			video.Title,
			video.Category,
			video.Duration,
			strconv.FormatInt(video.Views, 10),
			strconv.FormatBool(video.Trending),
			video.ReleasedAt,
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

// SnapshotToMarkdown converts a catalog snapshot to Markdown format with optional hero image
func SnapshotToMarkdown(snapshot *catalog.Snapshot, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Catalog\n\n")

	if hero := snapshot.Hero(); hero != nil {
		buf.WriteString(fmt.Sprintf("**Featured**: %s\n\n", hero.Title))
		if imageFilename != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", hero.Title, imageFilename))
		}
		if hero.Description != "" {
			buf.WriteString(hero.Description + "\n\n")
		}
	}

	for _, key := range snapshot.Keys() {
		section := snapshot.Sections[key]
		buf.WriteString(fmt.Sprintf("## %s\n\n", titleCase(key)))
		if len(section) == 0 {
			buf.WriteString("_No videos._\n\n")
			continue
		}
		for i, video := range section {
			buf.WriteString(fmt.Sprintf("%d. %s [%s] — %s views\n", i+1, video.Title, video.Duration, shared.FormatViews(video.Views)))
		}
		buf.WriteString("\n")
	}

	if len(snapshot.History) > 0 {
		buf.WriteString("## Recently Watched\n\n")
		for i, video := range snapshot.History {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, video.Title))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// VideosToText converts a video list to plain text format
func VideosToText(title string, videos []models.Video) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(videos)))

	for i, video := range videos {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, video.Title, video.Duration))
	}

	return buf.Bytes()
}

// VideoToText renders a single video's details as plain text
func VideoToText(video *models.Video) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Title: %s\n", video.Title))
	buf.WriteString(fmt.Sprintf("ID: %s\n", video.ID))
	if video.Category != "" {
		buf.WriteString(fmt.Sprintf("Category: %s\n", video.Category))
	}
	buf.WriteString(fmt.Sprintf("Duration: %s\n", video.Duration))
	buf.WriteString(fmt.Sprintf("Views: %s\n", shared.FormatViews(video.Views)))
	if video.Trending {
		buf.WriteString("Trending: yes\n")
	}
	if video.ReleasedAt != "" {
		buf.WriteString(fmt.Sprintf("Released: %s\n", video.ReleasedAt))
	}
	if video.Description != "" {
		buf.WriteString(fmt.Sprintf("\n%s\n", video.Description))
	}

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToVideoJSON generates a pretty-printed JSON representation of a video
func ToVideoJSON(video models.Video) ([]byte, error) {
	return shared.MarshalJSON(video, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile string
}

// WriteCSVExport exports a video list to CSV.
//
// Defaults to {base}_videos.csv with base "catalog".
func WriteCSVExport(videos []models.Video, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "catalog"
	}

	csvData, err := VideosToCSV(videos)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	return &CSVExportResult{VideosFile: videosFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	HeroImage string
}

// WriteMarkdownExport exports a catalog snapshot to Markdown in a dedicated directory.
//
// Attempts to download the hero thumbnail as {dir}/hero.jpg; a failed
// download degrades to a text-only export.
func WriteMarkdownExport(snapshot *catalog.Snapshot, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "catalog"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var heroImageFilename string
	if hero := snapshot.Hero(); hero != nil && hero.ThumbnailURL != "" {
		imageData, err := DownloadImage(hero.ThumbnailURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download hero image: %v\n", err)
		} else {
			heroImageFilename = "hero.jpg"
			heroImagePath := fmt.Sprintf("%s/%s", outputDir, heroImageFilename)
			if err := os.WriteFile(heroImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save hero image: %v\n", err)
				heroImageFilename = ""
			} else {
				result.HeroImage = heroImagePath
				result.Files = append(result.Files, heroImagePath)
			}
		}
	}

	mdData, err := SnapshotToMarkdown(snapshot, heroImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a video list to plain text.
//
// Defaults to {title}_videos.txt as the filename.
func WriteTextExport(title string, videos []models.Video, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_videos.txt", strings.ToLower(title))
	}

	if err := os.WriteFile(filepath, VideosToText(title, videos), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
