package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/civicsignal/petition-meter/internal/analysis"
	"github.com/civicsignal/petition-meter/internal/cache"
	"github.com/civicsignal/petition-meter/internal/database"
	"github.com/civicsignal/petition-meter/internal/types"
)

const (
	statsCacheKey  = "history:stats"
	recentCacheTTL = 30 * time.Second
	statsCacheTTL  = 5 * time.Minute
)

// Store is the persistence surface the service depends on
type Store interface {
	SaveAnalysis(ctx context.Context, record *database.AnalysisRecord) error
	RecentAnalyses(ctx context.Context, limit int) ([]database.AnalysisRecord, error)
	Stats(ctx context.Context) (*database.AnalysisStats, error)
}

// Service records scored submissions and serves aggregate history
type Service struct {
	store Store
	cache *cache.Cache
}

// NewService creates a history service backed by the given store
func NewService(store Store) *Service {
	return &Service{
		store: store,
		cache: cache.NewCache(statsCacheTTL),
	}
}

// Record persists the outcome of one analysis. Only derived metrics
// are stored; petition text never reaches the log.
func (s *Service) Record(ctx context.Context, doc types.PetitionDocument, result analysis.ScoreResult) error {
	record := &database.AnalysisRecord{
		Probability:       result.Probability,
		Prediction:        result.Prediction,
		Grade:             result.Feedback.Grade,
		Source:            result.Source,
		TitleLength:       len(doc.Title),
		DescriptionLength: len(doc.Description),
		ContentScore:      result.Features["content_comprehensiveness_score"],
		HTMLTags:          int(result.Features["description_html_tags"]),
		RulesVersion:      analysis.RulesVersion,
	}

	if err := s.store.SaveAnalysis(ctx, record); err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}

	s.cache.Delete(statsCacheKey)

	slog.Debug("Analysis recorded",
		"id", record.ID,
		"grade", record.Grade,
		"source", record.Source,
	)
	return nil
}

// Recent returns the newest submissions, capped at limit
func (s *Service) Recent(ctx context.Context, limit int) ([]database.AnalysisRecord, error) {
	key := fmt.Sprintf("history:recent:%d", limit)
	if data, found := s.cache.Get(key); found {
		var records []database.AnalysisRecord
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
		slog.Warn("Failed to unmarshal cached history, refetching", "key", key)
	}

	records, err := s.store.RecentAnalyses(ctx, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		s.cache.SetWithTTL(key, data, recentCacheTTL)
	}
	return records, nil
}

// Stats returns aggregate numbers over the whole submission log,
// cached to keep the dashboard polling cheap
func (s *Service) Stats(ctx context.Context) (*database.AnalysisStats, error) {
	if data, found := s.cache.Get(statsCacheKey); found {
		var stats database.AnalysisStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		s.cache.Set(statsCacheKey, data)
	}
	return stats, nil
}
