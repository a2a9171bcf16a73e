// Package service provides the matchup lookup operations behind the web pages.
package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchups/internal/datasource"
	"github.com/yourusername/matchups/internal/models"
)

// MatchupService answers player index and player detail queries.
// Every call reads the table from its source; it keeps no state of its own.
type MatchupService struct {
	source datasource.MatchupSource
	logger *logrus.Logger
}

// NewMatchupService creates a new matchup service
func NewMatchupService(source datasource.MatchupSource, logger *logrus.Logger) *MatchupService {
	return &MatchupService{
		source: source,
		logger: logger,
	}
}

// Source returns the underlying data source
func (s *MatchupService) Source() datasource.MatchupSource {
	return s.source
}

// ListPlayers returns every player name in ascending order
func (s *MatchupService) ListPlayers(ctx context.Context) ([]string, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load matchups: %w", err)
	}

	return table.PlayerNames(), nil
}

// PlayerDetail normalizes the raw name and returns the player's summary.
// The normalized name is returned even when the player is unknown.
func (s *MatchupService) PlayerDetail(ctx context.Context, rawName string) (string, *models.PlayerSummary, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return models.NormalizeName(rawName), nil, fmt.Errorf("failed to load matchups: %w", err)
	}

	name, record, err := table.Lookup(rawName)
	if err != nil {
		return name, nil, err
	}

	summary := record.Summarize(name)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"player":    name,
			"opponents": len(summary.Opponents),
		}).Debug("Player detail built")
	}

	return name, &summary, nil
}

// ValidateData loads the table and reports data findings
func (s *MatchupService) ValidateData(ctx context.Context) ([]string, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load matchups: %w", err)
	}
	return NewDataValidator(s.logger).ValidateTable(table), nil
}
