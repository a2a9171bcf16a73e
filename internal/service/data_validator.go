package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchups/internal/models"
)

var (
	minWinPct = decimal.Zero
	maxWinPct = decimal.NewFromInt(100)
)

// DataValidator reports suspicious entries in a matchup table.
// Findings never block rendering; they describe data a page would show oddly.
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateTable checks every player and returns findings in player order
func (v *DataValidator) ValidateTable(table models.MatchupTable) []string {
	var findings []string
	for _, name := range table.PlayerNames() {
		findings = append(findings, v.ValidatePlayer(table, name)...)
	}

	if v.logger != nil && len(findings) > 0 {
		v.logger.WithField("findings", len(findings)).Warn("Matchup data has validation findings")
	}
	return findings
}

// ValidatePlayer checks a single player's record
func (v *DataValidator) ValidatePlayer(table models.MatchupTable, name string) []string {
	var findings []string
	record := table[name]

	if !v.IsReachableName(name) {
		findings = append(findings, fmt.Sprintf("%s: key is not in normalized form (%q), detail lookup cannot reach it", name, models.NormalizeName(name)))
	}

	if record.HasWinPct() && !v.IsValidWinPct(*record.WinPct) {
		findings = append(findings, fmt.Sprintf("%s: win_pct out of range (0-100), got %s", name, record.WinPct.String()))
	}

	for _, opponent := range record.OpponentNames() {
		result := record.Opponents[opponent]
		if opponent == name {
			findings = append(findings, fmt.Sprintf("%s: lists a matchup against itself", name))
		}
		if result.GetWins() < 0 || result.GetLosses() < 0 {
			findings = append(findings, fmt.Sprintf("%s vs %s: negative tally %s", name, opponent, models.WinLoss(result)))
		}
		if _, ok := table[opponent]; !ok {
			findings = append(findings, fmt.Sprintf("%s vs %s: opponent has no record, its link shows Player not Found", name, opponent))
		}
	}

	return findings
}

// IsReachableName reports whether a stored key survives name normalization
func (v *DataValidator) IsReachableName(name string) bool {
	return name != "" && models.NormalizeName(name) == name
}

// IsValidWinPct reports whether a win percentage lies within 0-100
func (v *DataValidator) IsValidWinPct(pct decimal.Decimal) bool {
	return pct.GreaterThanOrEqual(minWinPct) && pct.LessThanOrEqual(maxWinPct)
}
