// package formatter provides functions to export the walk-up roster to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/shared"
)

// ExportToCSV converts a roster to CSV format with columns: Order, Player, Title, Artist, Album, Start, Cue, URI
func ExportToCSV(players []*models.Player) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Order", "Player", "Title", "Artist", "Album", "Start", "Cue", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, player := range players {
		track := player.Track()
		record := []string{
			strconv.Itoa(i + 1),
			player.Name(),
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(player.StartMS()),
			strconv.Itoa(player.CueMS()),
			track.URI,
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

// ExportToMarkdown converts a roster to a Markdown lineup card
func ExportToMarkdown(players []*models.Player, teamName string) ([]byte, error) {
	var buf bytes.Buffer

	if teamName == "" {
		teamName = "Walk-Up"
	}
	buf.WriteString(fmt.Sprintf("# %s Lineup Card\n\n", teamName))
	buf.WriteString(fmt.Sprintf("**Players**: %d\n\n", len(players)))

	buf.WriteString("## Roster\n\n")
	for i, player := range players {
		if !player.HasTrack() {
			buf.WriteString(fmt.Sprintf("%d. %s - _no walk-up track assigned_\n", i+1, player.Name()))
			continue
		}
		track := player.Track()
		cuePart := ""
		if player.StartMS() > 0 || player.CueMS() > 0 {
			cuePart = fmt.Sprintf(" (cue %s", shared.FormatDuration(player.StartMS()))
			if player.CueMS() > 0 {
				cuePart += fmt.Sprintf(" for %s", shared.FormatDuration(player.CueMS()))
			}
			cuePart += ")"
		}
		buf.WriteString(fmt.Sprintf("%d. **%s** - %s - %s%s\n", i+1, player.Name(), track.Artist, track.Title, cuePart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a roster to plain text format
func ExportToText(players []*models.Player, teamName string) ([]byte, error) {
	var buf bytes.Buffer

	if teamName == "" {
		teamName = "Walk-Up"
	}
	buf.WriteString(fmt.Sprintf("Roster: %s\n", teamName))
	buf.WriteString(fmt.Sprintf("Players: %d\n\n", len(players)))

	for i, player := range players {
		if !player.HasTrack() {
			buf.WriteString(fmt.Sprintf("%d. %s - (unassigned)\n", i+1, player.Name()))
			continue
		}
		track := player.Track()
		buf.WriteString(fmt.Sprintf("%d. %s - %s - %s\n", i+1, player.Name(), track.Artist, track.Title))
	}

	return buf.Bytes(), nil
}

// ToRosterJSON generates a JSON representation of the roster
func ToRosterJSON(players []*models.Player) ([]byte, error) {
	entries := make([]map[string]any, 0, len(players))
	for _, player := range players {
		entry := map[string]any{
			"id":   player.ID(),
			"name": player.Name(),
		}
		if player.HasTrack() {
			entry["track"] = player.Track()
			entry["start_ms"] = player.StartMS()
			entry["cue_ms"] = player.CueMS()
		}
		entries = append(entries, entry)
	}
	return shared.MarshalJSON(entries, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	RosterFile   string
	MetadataFile string
}

// WriteCSVExport exports the roster to CSV with an accompanying JSON file.
//
// Defaults to "roster" as the base filename & creates {base}_roster.csv and {base}_roster.json
func WriteCSVExport(players []*models.Player, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "roster"
	}

	csvData, err := ExportToCSV(players)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	rosterFile := baseFilepath + "_roster.csv"
	if err := os.WriteFile(rosterFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	rosterJSON, err := ToRosterJSON(players)
	if err != nil {
		return nil, fmt.Errorf("failed to generate roster JSON: %w", err)
	}

	metadataFile := baseFilepath + "_roster.json"
	if err := os.WriteFile(metadataFile, rosterJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		RosterFile:   rosterFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports the roster to a Markdown lineup card.
//
// Defaults to lineup.md as the filename.
func WriteMarkdownExport(players []*models.Player, teamName string, filepath string) (string, error) {
	if filepath == "" {
		filepath = "lineup.md"
	}

	mdData, err := ExportToMarkdown(players, teamName)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports the roster to plain text format.
//
// Defaults to roster.txt as the filename.
func WriteTextExport(players []*models.Player, teamName string, filepath string) (string, error) {
	if filepath == "" {
		filepath = "roster.txt"
	}

	textData, err := ExportToText(players, teamName)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
