package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Summary describes the reference corpus the scorer was calibrated
// against. It is informational only; scoring never depends on it.
type Summary struct {
	Rows                 int       `json:"rows"`
	SuccessRate          float64   `json:"success_rate"`
	AvgTitleLength       float64   `json:"avg_title_length"`
	AvgDescriptionLength float64   `json:"avg_description_length"`
	LoadedFrom           string    `json:"loaded_from"`
	LoadedAt             time.Time `json:"loaded_at"`
}

// Load reads a reference-petition CSV and summarizes it. The file
// needs a header row with at least title, description and success
// columns; extra columns are ignored.
func Load(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	titleIdx, descIdx, successIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			titleIdx = i
		case "description":
			descIdx = i
		case "success", "is_successful":
			successIdx = i
		}
	}
	if titleIdx < 0 || descIdx < 0 || successIdx < 0 {
		return nil, fmt.Errorf("dataset missing required columns (have %v)", header)
	}

	summary := &Summary{
		LoadedFrom: path,
		LoadedAt:   time.Now().UTC(),
	}

	var successes int
	var titleChars, descChars int64
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row %d: %w", summary.Rows+1, err)
		}
		maxIdx := titleIdx
		if descIdx > maxIdx {
			maxIdx = descIdx
		}
		if successIdx > maxIdx {
			maxIdx = successIdx
		}
		if len(row) <= maxIdx {
			continue
		}

		summary.Rows++
		titleChars += int64(len(row[titleIdx]))
		descChars += int64(len(row[descIdx]))

		if parseLabel(row[successIdx]) {
			successes++
		}
	}

	if summary.Rows > 0 {
		summary.SuccessRate = float64(successes) / float64(summary.Rows)
		summary.AvgTitleLength = float64(titleChars) / float64(summary.Rows)
		summary.AvgDescriptionLength = float64(descChars) / float64(summary.Rows)
	}

	return summary, nil
}

func parseLabel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "true" || s == "yes" {
		return true
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v >= 0.5
	}
	return false
}
