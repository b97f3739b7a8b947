package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is one scored submission. It carries derived metrics
// only, never the petition text.
type AnalysisRecord struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Probability       float64   `json:"probability"`
	Prediction        int       `json:"prediction"`
	Grade             string    `json:"grade"`
	Source            string    `json:"source"`
	TitleLength       int       `json:"title_length"`
	DescriptionLength int       `json:"description_length"`
	ContentScore      float64   `json:"content_score"`
	HTMLTags          int       `json:"html_tags"`
	RulesVersion      string    `json:"rules_version"`
}

// AnalysisStats summarizes the submission log
type AnalysisStats struct {
	TotalAnalyses      int     `json:"total_analyses"`
	AverageProbability float64 `json:"average_probability"`
	PredictedSuccesses int     `json:"predicted_successes"`
	SuccessRate        float64 `json:"success_rate"`
	HeuristicShare     float64 `json:"heuristic_share"`
}

// Repository handles submission-log persistence
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveAnalysis inserts a record, assigning an ID and timestamp when unset
func (r *Repository) SaveAnalysis(ctx context.Context, record *AnalysisRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO analyses (
			id, created_at, probability, prediction, grade, source,
			title_length, description_length, content_score, html_tags, rules_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.CreatedAt,
		record.Probability,
		record.Prediction,
		record.Grade,
		record.Source,
		record.TitleLength,
		record.DescriptionLength,
		record.ContentScore,
		record.HTMLTags,
		record.RulesVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// RecentAnalyses returns the newest records first, capped at limit
func (r *Repository) RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, created_at, probability, prediction, grade, source,
		       title_length, description_length, content_score, html_tags, rules_version
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer rows.Close()

	records := make([]AnalysisRecord, 0, limit)
	for rows.Next() {
		var rec AnalysisRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.CreatedAt,
			&rec.Probability,
			&rec.Prediction,
			&rec.Grade,
			&rec.Source,
			&rec.TitleLength,
			&rec.DescriptionLength,
			&rec.ContentScore,
			&rec.HTMLTags,
			&rec.RulesVersion,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Stats aggregates the full submission log
func (r *Repository) Stats(ctx context.Context) (*AnalysisStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(probability), 0),
			COALESCE(SUM(prediction), 0),
			COALESCE(SUM(CASE WHEN source = 'heuristic' THEN 1 ELSE 0 END), 0)
		FROM analyses
	`

	var stats AnalysisStats
	var heuristicCount int
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalAnalyses,
		&stats.AverageProbability,
		&stats.PredictedSuccesses,
		&heuristicCount,
	)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query analysis stats: %w", err)
	}

	if stats.TotalAnalyses > 0 {
		stats.SuccessRate = float64(stats.PredictedSuccesses) / float64(stats.TotalAnalyses)
		stats.HeuristicShare = float64(heuristicCount) / float64(stats.TotalAnalyses)
	}

	return &stats, nil
}
